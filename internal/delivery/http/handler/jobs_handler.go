package handler

import (
	"errors"
	"strconv"
	"strings"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/view"
	"jobboard/internal/domain/user"
	ucjob "jobboard/internal/usecase/job"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

const postJobPath = "/employer/post-job"

type JobsHandler struct {
	uc    *ucjob.Service
	pages *Pages
	s     *middleware.SessionMiddleware
}

type postJobRequest struct {
	Title        string `json:"title" form:"title"`
	Company      string `json:"company" form:"company"`
	Description  string `json:"description" form:"description"`
	Requirements string `json:"requirements" form:"requirements"`
	Location     string `json:"location" form:"location"`
}

func NewJobsHandler(uc *ucjob.Service, pages *Pages, sessions *middleware.SessionMiddleware) *JobsHandler {
	return &JobsHandler{uc: uc, pages: pages, s: sessions}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.s.WithPrincipal(h.ListJobs))
	r.Get(postJobPath, h.s.RequireUser(h.PostJobForm))
	r.Post(postJobPath, h.s.RequireUser(h.PostJob))
}

func (h *JobsHandler) ListJobs(c fiber.Ctx, p session.Principal) error {
	search := strings.TrimSpace(c.Query("search"))
	location := strings.TrimSpace(c.Query("location"))
	page := parsePage(c.Query("page"))

	res, err := h.uc.Search(c.Context(), ucjob.Filters{Query: search, Location: location}, page)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	return h.pages.Render(c, p, view.Jobs, "Find Jobs", dto.JobSearchResponse{
		Jobs:       dto.NewJobList(res.Jobs),
		Pagination: res.Pagination,
		Search:     search,
		Location:   location,
	})
}

func (h *JobsHandler) PostJobForm(c fiber.Ctx, p session.Principal, _ user.User) error {
	return h.pages.Render(c, p, view.PostJob, "Post a Job", nil)
}

func (h *JobsHandler) PostJob(c fiber.Ctx, _ session.Principal, u user.User) error {
	var req postJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.RedirectWithCause(err, postJobPath, session.FlashError, "Please fill in all fields")
	}

	_, err := h.uc.Post(c.Context(), u.ID, ucjob.PostInput{
		Title:        req.Title,
		Company:      req.Company,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return middleware.Redirect("/jobs", session.FlashSuccess, "Job posted successfully")
}

// parsePage reads the 1-based page query value; anything unusable is page 1.
func parsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var vErr *ucjob.ValidationError
	switch {
	case errors.As(err, &vErr):
		return middleware.RedirectWithCause(err, postJobPath, session.FlashError, vErr.Messages...)
	case errors.Is(err, ucjob.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
