package memory

import (
	"context"
	"strings"
	"sync"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

// JobRepository keeps jobs for the lifetime of the process.
type JobRepository struct {
	mu   sync.RWMutex
	jobs []job.Job
}

func NewJobRepository() *JobRepository {
	return &JobRepository{}
}

func (r *JobRepository) Create(_ context.Context, j job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, j)
	return nil
}

func (r *JobRepository) Search(_ context.Context, f job.Filter) ([]job.Job, int, error) {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	loc := strings.ToLower(strings.TrimSpace(f.Location))

	r.mu.RLock()
	matched := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if q != "" && !strings.Contains(strings.ToLower(j.Title), q) && !strings.Contains(strings.ToLower(j.Description), q) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(j.Location), loc) {
			continue
		}
		matched = append(matched, j)
	}
	r.mu.RUnlock()

	total := len(matched)
	start := f.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}

	out := make([]job.Job, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

func (r *JobRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]job.Job, 0)
	for _, j := range r.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *JobRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs), nil
}

type ApplicationRepository struct {
	mu   sync.RWMutex
	apps []job.Application
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{}
}

func (r *ApplicationRepository) Create(_ context.Context, a job.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.JobID == a.JobID && existing.UserID == a.UserID {
			return job.ErrAlreadyApplied
		}
	}
	r.apps = append(r.apps, a)
	return nil
}

func (r *ApplicationRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps), nil
}
