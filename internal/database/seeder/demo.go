package seeder

import (
	"context"
	"errors"
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmployerEmail = "employer@example.com"
	DemoSeekerEmail   = "seeker@example.com"
	DemoPassword      = "password123"
)

type DemoUsersSeeder struct {
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func (DemoUsersSeeder) Name() string { return "demo_users" }

func (sd DemoUsersSeeder) Run(ctx context.Context, s Store) error {
	cost := sd.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	items := []user.User{
		{Name: "Demo Employer", Email: DemoEmployerEmail, Role: user.RoleEmployer, Bio: "Hiring for the demo company"},
		{Name: "Demo Seeker", Email: DemoSeekerEmail, Role: user.RoleJobSeeker, Skills: []string{"Go", "PostgreSQL", "Redis"}},
	}
	for _, u := range items {
		exists, err := s.Users.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		u.ID = uuid.New()
		u.PasswordHash = string(hash)
		u.CreatedAt, u.UpdatedAt = now, now
		if err := s.Users.Create(ctx, u); err != nil && !errors.Is(err, user.ErrEmailTaken) {
			return err
		}
	}
	return nil
}

// DemoJobsSeeder fills an empty job board with postings owned by the demo
// employer.
type DemoJobsSeeder struct{}

func (DemoJobsSeeder) Name() string { return "demo_jobs" }

func (DemoJobsSeeder) Run(ctx context.Context, s Store) error {
	n, err := s.Jobs.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	owner, err := s.Users.GetByEmail(ctx, DemoEmployerEmail)
	if err != nil {
		return err
	}

	items := []struct{ Title, Company, Location, Description string }{
		{"Backend Engineer (Go)", "Acme Corp", "Berlin", "Build and operate HTTP services in Go backed by PostgreSQL."},
		{"Frontend Developer", "Acme Corp", "Remote", "Own the job search experience across web clients."},
		{"Site Reliability Engineer", "Globex", "Lisbon", "Keep Redis, Postgres and the edge healthy around the clock."},
		{"Data Analyst", "Initech", "New York", "Turn application funnels into weekly hiring insights."},
		{"Product Designer", "Globex", "Remote", "Design flows for employers posting and managing jobs."},
		{"Platform Engineer", "Umbrella", "Amsterdam", "Run the container platform and CI for a dozen Go services."},
		{"QA Engineer", "Initech", "Austin", "Automate regression suites for the public job board."},
		{"Technical Writer", "Umbrella", "Remote", "Document public APIs and onboarding guides for employers."},
		{"Mobile Developer", "Hooli", "San Francisco", "Ship the native job alerts app on both platforms."},
		{"Security Engineer", "Hooli", "Remote", "Review authentication, sessions and upload handling."},
		{"Engineering Manager", "Acme Corp", "Berlin", "Lead a team of six engineers building search and matching."},
		{"Support Specialist", "Globex", "Lisbon", "Help employers and job seekers get the most out of the board."},
	}

	base := time.Now().UTC().Add(-time.Duration(len(items)) * time.Hour)
	for i, it := range items {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		j := job.Job{
			ID:           id,
			UserID:       owner.ID,
			Title:        it.Title,
			Company:      it.Company,
			Description:  it.Description,
			Requirements: "2+ years of relevant experience",
			Location:     it.Location,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.Jobs.Create(ctx, j); err != nil {
			return err
		}
	}
	return nil
}
