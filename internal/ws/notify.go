package ws

import (
	"encoding/json"
	"time"

	"jobboard/internal/domain/job"
)

const EventJobPosted = "job_posted"

type JobPostedEvent struct {
	Type      string `json:"type"`
	JobID     string `json:"job_id"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Timestamp string `json:"timestamp"`
}

// JobPosted announces a new job to live subscribers.
func (h *Hub) JobPosted(j job.Job) {
	if h == nil {
		return
	}

	evt := JobPostedEvent{
		Type:      EventJobPosted,
		JobID:     j.ID.String(),
		Title:     j.Title,
		Company:   j.Company,
		Location:  j.Location,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.logf("[WS] encode event error: %v", err)
		return
	}
	h.Broadcast(b)
}
