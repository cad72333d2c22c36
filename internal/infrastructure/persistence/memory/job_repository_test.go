package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedJobs(t *testing.T, r *JobRepository, n int) []job.Job {
	t.Helper()
	out := make([]job.Job, 0, n)
	for i := 0; i < n; i++ {
		j := job.Job{ID: uuid.New(), Title: fmt.Sprintf("Job %02d", i), Company: "Acme", Description: "plain description"}
		require.NoError(t, r.Create(context.Background(), j))
		out = append(out, j)
	}
	return out
}

func TestJobRepository_SearchPagesInInsertionOrder(t *testing.T) {
	r := NewJobRepository()
	jobs := seedJobs(t, r, 25)

	got, total, err := r.Search(context.Background(), job.Filter{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, got, 10)
	assert.Equal(t, jobs[10:20], got)

	got, _, err = r.Search(context.Background(), job.Filter{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, _, err = r.Search(context.Background(), job.Filter{Limit: 10, Offset: 40})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJobRepository_SearchFilters(t *testing.T) {
	r := NewJobRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, job.Job{ID: uuid.New(), Title: "Golang Developer", Description: "backend work", Location: "Berlin"}))
	require.NoError(t, r.Create(ctx, job.Job{ID: uuid.New(), Title: "Designer", Description: "works with GOLANG teams", Location: "Paris"}))
	require.NoError(t, r.Create(ctx, job.Job{ID: uuid.New(), Title: "Accountant", Description: "numbers", Location: "berlin"}))

	_, total, err := r.Search(ctx, job.Filter{Query: "golang"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, total, err = r.Search(ctx, job.Filter{Location: "BERLIN"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	got, total, err := r.Search(ctx, job.Filter{Query: "golang", Location: "berlin"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Golang Developer", got[0].Title)
}

func TestJobRepository_ListByUserAndGet(t *testing.T) {
	r := NewJobRepository()
	ctx := context.Background()
	owner := uuid.New()
	j := job.Job{ID: uuid.New(), UserID: owner, Title: "Mine"}
	require.NoError(t, r.Create(ctx, j))
	require.NoError(t, r.Create(ctx, job.Job{ID: uuid.New(), UserID: uuid.New(), Title: "Theirs"}))

	mine, err := r.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []job.Job{j}, mine)

}

func TestJobRepository_ConcurrentCreate(t *testing.T) {
	r := NewJobRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Create(context.Background(), job.Job{ID: uuid.New()})
		}()
	}
	wg.Wait()

	n, err := r.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestApplicationRepository_RejectsDuplicate(t *testing.T) {
	r := NewApplicationRepository()
	ctx := context.Background()
	a := job.Application{ID: uuid.New(), JobID: uuid.New(), UserID: uuid.New(), Status: job.StatusApplied}
	require.NoError(t, r.Create(ctx, a))
	a.ID = uuid.New()
	assert.ErrorIs(t, r.Create(ctx, a), job.ErrAlreadyApplied)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUserRepository_EmailUniqueCaseInsensitive(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, user.User{ID: uuid.New(), Email: "Alice@X.com"}))
	assert.ErrorIs(t, r.Create(ctx, user.User{ID: uuid.New(), Email: "alice@x.com"}), user.ErrEmailTaken)

	u, err := r.GetByEmail(ctx, "ALICE@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", u.Email)

	_, err = r.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrNotFound)
}
