package usecase

import (
	"context"
	"errors"
	"log"

	"jobboard/internal/domain/user"
	ucauth "jobboard/internal/usecase/auth"
	"jobboard/internal/usecase/session"
	"jobboard/internal/usecase/upload"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput, avatar *upload.Input) (user.User, error)
	Login(ctx context.Context, sessionID, email, password string) (session.Record, user.User, error)
	Logout(ctx context.Context, sessionID string) error
}

// Auth ties credential checks to the session lifecycle and the avatar upload
// that may accompany a registration.
type Auth struct {
	creds    *ucauth.Service
	sessions *session.Manager
	uploads  *upload.Service
	logger   *log.Logger
}

func NewAuthUsecase(creds *ucauth.Service, sessions *session.Manager, uploads *upload.Service, logger *log.Logger) *Auth {
	return &Auth{creds: creds, sessions: sessions, uploads: uploads, logger: logger}
}

// Register stores the avatar first and removes it again when the account
// cannot be created.
func (a *Auth) Register(ctx context.Context, in ucauth.RegisterInput, avatar *upload.Input) (user.User, error) {
	if in.Password != in.ConfirmPassword {
		return user.User{}, ucauth.ErrPasswordMismatch
	}

	var stored upload.StoredFile
	if avatar != nil {
		if a.uploads == nil {
			return user.User{}, upload.ErrRejected
		}
		f, err := a.uploads.Accept(ctx, *avatar)
		if err != nil {
			return user.User{}, err
		}
		stored = f
		in.Avatar = f.Path
	}

	u, err := a.creds.Register(ctx, in)
	if err != nil {
		if stored.Key != "" {
			if rmErr := a.uploads.Remove(ctx, stored); rmErr != nil && a.logger != nil {
				a.logger.Printf("[Auth] orphan avatar cleanup failed key=%s err=%v", stored.Key, rmErr)
			}
		}
		return user.User{}, err
	}

	if a.logger != nil {
		a.logger.Printf("[Auth] registered user_id=%s role=%s", u.ID, u.Role)
	}
	return u, nil
}

func (a *Auth) Login(ctx context.Context, sessionID, email, password string) (session.Record, user.User, error) {
	u, err := a.creds.VerifyCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, ucauth.ErrInvalidCredentials) && a.logger != nil {
			a.logger.Printf("[Auth] login failed")
		}
		return session.Record{}, user.User{}, err
	}

	rec, err := a.sessions.Login(ctx, sessionID, u)
	if err != nil {
		return session.Record{}, user.User{}, errors.Join(ucauth.ErrInternal, err)
	}
	return rec, u, nil
}

func (a *Auth) Logout(ctx context.Context, sessionID string) error {
	return a.sessions.Logout(ctx, sessionID)
}
