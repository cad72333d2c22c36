package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

const DefaultTTL = 24 * time.Hour

type Manager struct {
	store  Store
	users  UserFinder
	ttl    time.Duration
	logger *log.Logger

	now   func() time.Time
	newID func() (string, error)
}

func NewManager(store Store, users UserFinder, ttl time.Duration, logger *log.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:  store,
		users:  users,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		newID:  randomID,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login binds u to a brand-new session id. The previous session, if any, is
// destroyed and its pending flash messages move to the new session.
func (m *Manager) Login(ctx context.Context, previousID string, u user.User) (Record, error) {
	if u.ID == uuid.Nil {
		return Record{}, errors.New("login: empty user id")
	}

	var carried []Flash
	if prev, err := m.load(ctx, previousID); err == nil {
		carried = prev.Flash
		if err := m.store.Delete(ctx, prev.ID); err != nil {
			return Record{}, fmt.Errorf("drop previous session: %w", err)
		}
	} else if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}

	rec, err := m.newRecord(u.ID)
	if err != nil {
		return Record{}, err
	}
	rec.Flash = carried
	if err := m.store.Save(ctx, rec, m.ttl); err != nil {
		return Record{}, fmt.Errorf("save session: %w", err)
	}
	if m.logger != nil {
		m.logger.Printf("[Session] login user_id=%s", u.ID)
	}
	return rec, nil
}

// ResolveSession maps a session id to a principal. Unknown, expired, and
// dangling sessions resolve to anonymous; only store failures are errors.
func (m *Manager) ResolveSession(ctx context.Context, id string) (Principal, error) {
	rec, err := m.load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Anonymous(""), nil
		}
		return Anonymous(""), err
	}
	if rec.UserID == uuid.Nil {
		return Anonymous(rec.ID), nil
	}

	u, err := m.users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Anonymous(rec.ID), nil
		}
		return Anonymous(rec.ID), fmt.Errorf("resolve session user: %w", err)
	}
	return Authenticated(rec.ID, u.Sanitized()), nil
}

func (m *Manager) Logout(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// AddFlash queues f on the session, starting an anonymous session when id
// does not name a live one. The returned record carries the effective id.
func (m *Manager) AddFlash(ctx context.Context, id string, f Flash) (Record, error) {
	rec, err := m.load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
		if rec, err = m.newRecord(uuid.Nil); err != nil {
			return Record{}, err
		}
	}

	rec.Flash = append(rec.Flash, f)
	if err := m.store.Save(ctx, rec, m.remaining(rec)); err != nil {
		return Record{}, fmt.Errorf("save session: %w", err)
	}
	return rec, nil
}

// TakeFlash returns the queued messages and clears them.
func (m *Manager) TakeFlash(ctx context.Context, id string) ([]Flash, error) {
	rec, err := m.load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(rec.Flash) == 0 {
		return nil, nil
	}

	out := rec.Flash
	rec.Flash = nil
	if err := m.store.Save(ctx, rec, m.remaining(rec)); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return out, nil
}

func (m *Manager) load(ctx context.Context, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, ErrNotFound
	}
	rec, err := m.store.Load(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *Manager) newRecord(userID uuid.UUID) (Record, error) {
	id, err := m.newID()
	if err != nil {
		return Record{}, fmt.Errorf("session id: %w", err)
	}
	now := m.now().UTC()
	return Record{ID: id, UserID: userID, CreatedAt: now, ExpiresAt: now.Add(m.ttl)}, nil
}

func (m *Manager) remaining(rec Record) time.Duration {
	d := rec.ExpiresAt.Sub(m.now())
	if d <= 0 {
		return time.Second
	}
	return d
}

func randomID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
