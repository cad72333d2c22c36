package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"jobboard/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("incorrect email or password")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

const MinPasswordLength = 8

// InputError lists every rejected registration field.
type InputError struct {
	Messages []string
}

func (e *InputError) Error() string {
	return "invalid input: " + strings.Join(e.Messages, "; ")
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	Avatar          string
}

type Service struct {
	users user.Repository
	cost  int
	now   func() time.Time
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithCost overrides the bcrypt work factor.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	if in.Password != in.ConfirmPassword {
		return user.User{}, ErrPasswordMismatch
	}

	name := strings.TrimSpace(in.Name)
	email := user.NormalizeEmail(in.Email)

	var msgs []string
	if name == "" {
		msgs = append(msgs, "Name is required")
	}
	if !isValidEmail(email) {
		msgs = append(msgs, "Please include a valid email")
	}
	if len(in.Password) < MinPasswordLength {
		msgs = append(msgs, "Password must be at least 8 characters")
	}
	role, ok := user.ParseRole(in.Role)
	if !ok || role == user.RoleAdmin {
		msgs = append(msgs, "Role must be jobseeker or employer")
	}
	if len(msgs) > 0 {
		return user.User{}, &InputError{Messages: msgs}
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, errors.Join(ErrInternal, err)
	}
	if exists {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.User{}, errors.Join(ErrInternal, err)
	}

	now := s.now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Avatar:       in.Avatar,
		Skills:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, errors.Join(ErrInternal, err)
	}
	return u.Sanitized(), nil
}

// VerifyCredentials returns the user owning email when password matches its
// stored hash. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (user.User, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, errors.Join(ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return u.Sanitized(), nil
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
