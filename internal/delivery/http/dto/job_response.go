package dto

import (
	"time"

	"jobboard/internal/domain/job"
	ucjob "jobboard/internal/usecase/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	JobID        uuid.UUID `json:"job_id"`
	PostedBy     uuid.UUID `json:"posted_by"`
	Title        string    `json:"title"`
	CompanyName  string    `json:"company_name"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	PostedDate   string    `json:"posted_date"`
}

func NewJobResponse(j job.Job) JobResponse {
	posted := ""
	if !j.CreatedAt.IsZero() {
		posted = j.CreatedAt.UTC().Format(time.RFC3339)
	}
	return JobResponse{
		JobID:        j.ID,
		PostedBy:     j.UserID,
		Title:        j.Title,
		CompanyName:  j.Company,
		Location:     j.Location,
		Description:  j.Description,
		Requirements: j.Requirements,
		PostedDate:   posted,
	}
}

func NewJobList(jobs []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}

type JobSearchResponse struct {
	Jobs       []JobResponse    `json:"jobs"`
	Pagination ucjob.Pagination `json:"pagination"`
	Search     string           `json:"search"`
	Location   string           `json:"location"`
}
