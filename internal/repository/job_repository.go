package repository

import (
	"context"
	"strconv"
	"strings"

	"jobboard/internal/database"
	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

const jobColumns = `id, user_id, title, company, description, requirements, location, created_at`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, user_id, title, company, description, requirements, location, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		j.ID, j.UserID, j.Title, j.Company, j.Description, j.Requirements, j.Location, j.CreatedAt,
	)
	return err
}

func (r *PostgresJobRepository) Search(ctx context.Context, f job.Filter) ([]job.Job, int, error) {
	where, args := searchWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + jobColumns + ` FROM jobs` + where + ` ORDER BY created_at ASC, id ASC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresJobRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

func (r *PostgresJobRepository) Count(ctx context.Context) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func searchWhere(f job.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, containsPattern(q))
		n := strconv.Itoa(len(args))
		conds = append(conds, `(title ILIKE $`+n+` OR description ILIKE $`+n+`)`)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		args = append(args, containsPattern(loc))
		conds = append(conds, `location ILIKE $`+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user input into a literal substring ILIKE pattern.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Company, &j.Description, &j.Requirements, &j.Location, &j.CreatedAt)
	return j, err
}

func collectJobs(rows database.Rows) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a job.Application) error {
	status := a.Status
	if status == "" {
		status = job.StatusApplied
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, job_id, user_id, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.JobID, a.UserID, string(status), a.CreatedAt,
	)
	if err != nil && database.IsUniqueViolation(err) {
		return job.ErrAlreadyApplied
	}
	return err
}

func (r *PostgresApplicationRepository) Count(ctx context.Context) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM applications`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}
