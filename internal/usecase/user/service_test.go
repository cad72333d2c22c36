package user

import (
	"context"
	"errors"
	"testing"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/persistence/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobs struct {
	jobs []job.Job
	err  error
}

func (s stubJobs) ListByOwner(context.Context, uuid.UUID) ([]job.Job, error) {
	return s.jobs, s.err
}

func TestGetProfile(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()
	u := user.User{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", PasswordHash: "hash", Role: user.RoleJobSeeker}
	require.NoError(t, repo.Create(ctx, u))

	svc := NewService(repo, stubJobs{})
	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	seeker := user.User{ID: uuid.New(), Email: "seeker@x.com", Role: user.RoleJobSeeker}
	employer := user.User{ID: uuid.New(), Email: "boss@x.com", Role: user.RoleEmployer, PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, seeker))
	require.NoError(t, repo.Create(ctx, employer))

	posting := job.Job{ID: uuid.New(), Title: "Go Engineer"}
	svc := NewService(repo, stubJobs{jobs: []job.Job{posting}})

	d, err := svc.Dashboard(ctx, seeker.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Postings)
	assert.Equal(t, "seeker@x.com", d.User.Email)

	d, err = svc.Dashboard(ctx, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, []job.Job{posting}, d.Postings)
	assert.Empty(t, d.User.PasswordHash)

	_, err = svc.Dashboard(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	failing := NewService(repo, stubJobs{err: errors.New("boom")})
	_, err = failing.Dashboard(ctx, employer.ID)
	assert.ErrorIs(t, err, ErrInternal)
}
