package seeder

import (
	"context"
	"testing"

	"jobboard/internal/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunner_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := Store{Users: memory.NewUserRepository(), Jobs: memory.NewJobRepository()}
	r := Runner{Seeders: []Seeder{DemoUsersSeeder{Cost: bcrypt.MinCost}, DemoJobsSeeder{}}}

	require.NoError(t, r.Run(ctx, store))
	require.NoError(t, r.Run(ctx, store))

	users, _ := store.Users.Count(ctx)
	jobs, _ := store.Jobs.Count(ctx)
	assert.Equal(t, 2, users)
	assert.Equal(t, 12, jobs)

	employer, err := store.Users.GetByEmail(ctx, DemoEmployerEmail)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(employer.PasswordHash), []byte(DemoPassword)))

	owned, err := store.Jobs.ListByUser(ctx, employer.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 12)
}

func TestRunner_RejectsIncompleteStore(t *testing.T) {
	err := Runner{Seeders: Defaults()}.Run(context.Background(), Store{})
	assert.Error(t, err)
}
