package job

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

const PageSize = 10

// maxPage is the last page whose offset fits in an int.
const maxPage = math.MaxInt / PageSize

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// ValidationError carries every violated job rule, in field order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid job: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

type PostInput struct {
	Title        string
	Company      string
	Description  string
	Requirements string
	Location     string
}

type Filters struct {
	Query    string
	Location string
}

type Pagination struct {
	Current    int  `json:"current"`
	Total      int  `json:"total"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	PageSize   int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
}

type Result struct {
	Jobs       []job.Job  `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}

type Stats struct {
	Users        int `json:"users"`
	Jobs         int `json:"jobs"`
	Applications int `json:"applications"`
}

// Notifier receives freshly posted jobs, typically the live feed hub.
type Notifier interface {
	JobPosted(j job.Job)
}

type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type Service struct {
	jobs         job.Repository
	applications job.ApplicationRepository
	users        UserCounter
	cache        SearchCache
	notifier     Notifier
	logger       *log.Logger

	now   func() time.Time
	newID func() (uuid.UUID, error)
}

type Option func(*Service)

func WithCache(c SearchCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(jobs job.Repository, applications job.ApplicationRepository, users UserCounter, logger *log.Logger, opts ...Option) *Service {
	s := &Service{
		jobs:         jobs,
		applications: applications,
		users:        users,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.NewV7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate reports every rule the input breaks, or nil.
func Validate(in PostInput) error {
	var msgs []string
	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) < 3 {
		msgs = append(msgs, "Title must be at least 3 characters")
	}
	if strings.TrimSpace(in.Company) == "" {
		msgs = append(msgs, "Company is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Description)) < 10 {
		msgs = append(msgs, "Description must be at least 10 characters")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

func (s *Service) Post(ctx context.Context, owner uuid.UUID, in PostInput) (job.Job, error) {
	if owner == uuid.Nil {
		return job.Job{}, ErrInvalidInput
	}
	if err := Validate(in); err != nil {
		return job.Job{}, err
	}

	id, err := s.newID()
	if err != nil {
		return job.Job{}, errors.Join(ErrInternal, err)
	}
	j := job.Job{
		ID:           id,
		UserID:       owner,
		Title:        strings.TrimSpace(in.Title),
		Company:      strings.TrimSpace(in.Company),
		Description:  strings.TrimSpace(in.Description),
		Requirements: strings.TrimSpace(in.Requirements),
		Location:     strings.TrimSpace(in.Location),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.jobs.Create(ctx, j); err != nil {
		return job.Job{}, errors.Join(ErrInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, searchCachePattern); err != nil {
			s.logf("[Jobs] Cache invalidate error: %v", err)
		}
	}
	if s.notifier != nil {
		s.notifier.JobPosted(j)
	}
	s.logf("[Jobs] posted job_id=%s owner=%s", j.ID, owner)
	return j, nil
}

// Search returns one page of jobs matching f in insertion order. Pages below
// one are treated as the first page; pages past the end are empty.
func (s *Service) Search(ctx context.Context, f Filters, page int) (Result, error) {
	if page < 1 {
		page = 1
	}
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)

	key := SearchCacheKey(f, page)
	if s.cache != nil {
		var cached Result
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			s.logf("[Jobs] Cache HIT: %s", key)
			return cached, nil
		}
		s.logf("[Jobs] Cache MISS: %s", key)
	}

	filter := job.Filter{Query: f.Query, Location: f.Location, Limit: PageSize}
	if page <= maxPage {
		filter.Offset = (page - 1) * PageSize
	}
	jobs, total, err := s.jobs.Search(ctx, filter)
	if err != nil {
		return Result{}, errors.Join(ErrInternal, err)
	}
	if jobs == nil || page > maxPage {
		jobs = []job.Job{}
	}

	res := Result{Jobs: jobs, Pagination: Paginate(page, total)}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, res, searchCacheTTL); err == nil {
			s.logf("[Jobs] Cache SET: %s", key)
		}
	}
	return res, nil
}

// Paginate derives page metadata for total items at PageSize per page.
func Paginate(page, total int) Pagination {
	if page < 1 {
		page = 1
	}
	pages := (total + PageSize - 1) / PageSize
	return Pagination{
		Current:    page,
		Total:      pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
		PageSize:   PageSize,
		TotalItems: total,
	}
}

// Latest returns up to n of the most recently posted jobs, newest first.
func (s *Service) Latest(ctx context.Context, n int) ([]job.Job, error) {
	if n <= 0 {
		return []job.Job{}, nil
	}
	total, err := s.jobs.Count(ctx)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	offset := total - n
	if offset < 0 {
		offset = 0
	}
	jobs, _, err := s.jobs.Search(ctx, job.Filter{Limit: n, Offset: offset})
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	out := make([]job.Job, 0, len(jobs))
	for i := len(jobs) - 1; i >= 0; i-- {
		out = append(out, jobs[i])
	}
	return out, nil
}

func (s *Service) ListByOwner(ctx context.Context, owner uuid.UUID) ([]job.Job, error) {
	jobs, err := s.jobs.ListByUser(ctx, owner)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	return jobs, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.Users, err = s.users.Count(ctx); err != nil {
		return Stats{}, errors.Join(ErrInternal, err)
	}
	if st.Jobs, err = s.jobs.Count(ctx); err != nil {
		return Stats{}, errors.Join(ErrInternal, err)
	}
	if st.Applications, err = s.applications.Count(ctx); err != nil {
		return Stats{}, errors.Join(ErrInternal, err)
	}
	return st, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
