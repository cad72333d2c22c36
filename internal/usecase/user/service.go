package user

import (
	"context"
	"errors"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrInternal = errors.New("internal error")
)

type JobLister interface {
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]job.Job, error)
}

// Dashboard is the landing view for a signed-in user. Postings is only
// filled for employers.
type Dashboard struct {
	User     user.User
	Postings []job.Job
}

type Service struct {
	users user.Repository
	jobs  JobLister
}

func NewService(users user.Repository, jobs JobLister) *Service {
	return &Service{users: users, jobs: jobs}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, errors.Join(ErrInternal, err)
	}
	return usr.Sanitized(), nil
}

// Dashboard reloads the profile so edits made since the session was resolved
// are visible.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (Dashboard, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{User: u, Postings: []job.Job{}}
	if !CanPost(u) {
		return d, nil
	}
	postings, err := s.jobs.ListByOwner(ctx, u.ID)
	if err != nil {
		return Dashboard{}, errors.Join(ErrInternal, err)
	}
	d.Postings = postings
	return d, nil
}

// CanPost reports whether u manages job postings of its own.
func CanPost(u user.User) bool {
	return u.Role == user.RoleEmployer || u.Role == user.RoleAdmin
}
