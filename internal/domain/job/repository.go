package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrAlreadyApplied = errors.New("already applied")

// Filter selects jobs by case-insensitive substring. Query matches title or
// description, Location matches location; both compose with AND.
type Filter struct {
	Query    string
	Location string
	Limit    int
	Offset   int
}

// Repository stores jobs in insertion order.
type Repository interface {
	Create(ctx context.Context, j Job) error
	Search(ctx context.Context, f Filter) ([]Job, int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Job, error)
	Count(ctx context.Context) (int, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a Application) error
	Count(ctx context.Context) (int, error)
}
