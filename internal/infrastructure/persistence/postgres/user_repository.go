package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, role, avatar, bio, skills, experience, education, social,
	COALESCE(reset_password_token, ''), reset_password_expire, created_at, updated_at`

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create checks the email and inserts in one transaction. The unique index
// still decides races between concurrent registrations.
func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	docs, err := encodeProfile(u)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var taken bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`,
		user.NormalizeEmail(u.Email),
	).Scan(&taken); err != nil {
		return err
	}
	if taken {
		return user.ErrEmailTaken
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, avatar, bio, skills, experience, education, social, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10::jsonb, $11::jsonb, $12, $13)`,
		u.ID, u.Name, user.NormalizeEmail(u.Email), u.PasswordHash, string(u.Role), u.Avatar, u.Bio,
		docs.skills, docs.experience, docs.education, docs.social,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, user.NormalizeEmail(email))
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`, user.NormalizeEmail(email))
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM users`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

type profileDocs struct {
	skills     string
	experience string
	education  string
	social     string
}

func encodeProfile(u user.User) (profileDocs, error) {
	enc := func(v any, empty string) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode profile: %w", err)
		}
		if string(b) == "null" {
			return empty, nil
		}
		return string(b), nil
	}

	var d profileDocs
	var err error
	if d.skills, err = enc(u.Skills, "[]"); err != nil {
		return profileDocs{}, err
	}
	if d.experience, err = enc(u.Experience, "[]"); err != nil {
		return profileDocs{}, err
	}
	if d.education, err = enc(u.Education, "[]"); err != nil {
		return profileDocs{}, err
	}
	if d.social, err = enc(u.Social, "{}"); err != nil {
		return profileDocs{}, err
	}
	return d, nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u                                     user.User
		role                                  string
		skills, experience, education, social []byte
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Avatar, &u.Bio,
		&skills, &experience, &education, &social,
		&u.ResetPasswordToken, &u.ResetPasswordExpire, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)

	decode := func(b []byte, out any) error {
		if len(b) == 0 {
			return nil
		}
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}
		return nil
	}
	if err := decode(skills, &u.Skills); err != nil {
		return user.User{}, err
	}
	if err := decode(experience, &u.Experience); err != nil {
		return user.User{}, err
	}
	if err := decode(education, &u.Education); err != nil {
		return user.User{}, err
	}
	if err := decode(social, &u.Social); err != nil {
		return user.User{}, err
	}
	return u, nil
}
