package seeder

import (
	"context"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
)

// Store is what seeders write through, so the same seeders fill Postgres
// and the in-memory stores.
type Store struct {
	Users user.Repository
	Jobs  job.Repository
}

type Seeder interface {
	Name() string
	Run(ctx context.Context, s Store) error
}

func Defaults() []Seeder {
	return []Seeder{
		DemoUsersSeeder{},
		DemoJobsSeeder{},
	}
}
