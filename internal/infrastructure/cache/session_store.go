package cache

import (
	"context"
	"errors"
	"time"

	"jobboard/internal/usecase/session"
)

const sessionKeyPrefix = "session:"

// SessionStore persists session records as JSON with a TTL equal to the
// remaining session window, so Redis expires them on its own.
type SessionStore struct {
	redis *Redis
}

func NewSessionStore(r *Redis) *SessionStore {
	return &SessionStore{redis: r}
}

func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *SessionStore) Save(ctx context.Context, rec session.Record, ttl time.Duration) error {
	if s.redis.isUnavailable() {
		return errors.New("session store unavailable")
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.redis.SetJSON(ctx, SessionKey(rec.ID), rec, ttl)
}

func (s *SessionStore) Load(ctx context.Context, id string) (session.Record, error) {
	if s.redis.isUnavailable() {
		return session.Record{}, errors.New("session store unavailable")
	}
	var rec session.Record
	hit, err := s.redis.GetJSON(ctx, SessionKey(id), &rec)
	if err != nil {
		return session.Record{}, err
	}
	if !hit {
		return session.Record{}, session.ErrNotFound
	}
	return rec, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.redis.Delete(ctx, SessionKey(id))
}
