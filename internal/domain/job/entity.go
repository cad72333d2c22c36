package job

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Company      string
	Description  string
	Requirements string
	Location     string
	CreatedAt    time.Time
}

type ApplicationStatus string

const (
	StatusApplied  ApplicationStatus = "applied"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusRejected ApplicationStatus = "rejected"
	StatusAccepted ApplicationStatus = "accepted"
)

// Application links a user to a job. Nothing in the web surface creates one
// yet; the counts are reported on the about page.
type Application struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	UserID    uuid.UUID
	Status    ApplicationStatus
	CreatedAt time.Time
}
