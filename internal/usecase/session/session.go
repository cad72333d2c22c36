package session

import (
	"context"
	"errors"
	"time"

	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

const (
	FlashError   = "error"
	FlashSuccess = "success"
)

// Flash is a one-time notification shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Record is the server-side session state keyed by the opaque session id.
// A nil UserID marks an anonymous session that only carries flash messages.
type Record struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Flash     []Flash   `json:"flash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

type Store interface {
	Save(ctx context.Context, rec Record, ttl time.Duration) error
	Load(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}

type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

// Principal is the outcome of resolving a request's session: either anonymous
// or an authenticated user freshly loaded from the user store.
type Principal struct {
	SessionID string
	user      *user.User
}

func Anonymous(sessionID string) Principal {
	return Principal{SessionID: sessionID}
}

func Authenticated(sessionID string, u user.User) Principal {
	return Principal{SessionID: sessionID, user: &u}
}

func (p Principal) IsAuthenticated() bool {
	return p.user != nil
}

func (p Principal) User() (user.User, bool) {
	if p.user == nil {
		return user.User{}, false
	}
	return *p.user, true
}
