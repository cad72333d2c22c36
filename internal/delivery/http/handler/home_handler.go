package handler

import (
	"log"
	"net/mail"
	"strings"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/view"
	ucjob "jobboard/internal/usecase/job"
	"jobboard/internal/usecase/session"
	ucuser "jobboard/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

const (
	contactPath = "/contact"
	latestJobs  = 5
)

type HomeHandler struct {
	jobs   *ucjob.Service
	pages  *Pages
	s      *middleware.SessionMiddleware
	logger *log.Logger
}

type homeData struct {
	Jobs     []dto.JobResponse `json:"jobs"`
	Postings []dto.JobResponse `json:"postings,omitempty"`
}

type contactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

func NewHomeHandler(jobs *ucjob.Service, pages *Pages, sessions *middleware.SessionMiddleware, logger *log.Logger) *HomeHandler {
	return &HomeHandler{jobs: jobs, pages: pages, s: sessions, logger: logger}
}

func (h *HomeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.s.WithPrincipal(h.Home))
	r.Get("/about", h.s.WithPrincipal(h.About))
	r.Get("/contact", h.s.WithPrincipal(h.ContactForm))
	r.Post("/contact", h.s.WithPrincipal(h.Contact))
}

func (h *HomeHandler) Home(c fiber.Ctx, p session.Principal) error {
	latest, err := h.jobs.Latest(c.Context(), latestJobs)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	data := homeData{Jobs: dto.NewJobList(latest)}
	if u, ok := p.User(); ok && ucuser.CanPost(u) {
		own, err := h.jobs.ListByOwner(c.Context(), u.ID)
		if err != nil {
			return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		data.Postings = dto.NewJobList(own)
	}
	return h.pages.Render(c, p, view.Home, "Home", data)
}

func (h *HomeHandler) About(c fiber.Ctx, p session.Principal) error {
	stats, err := h.jobs.Stats(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	return h.pages.Render(c, p, view.About, "About Us", stats)
}

func (h *HomeHandler) ContactForm(c fiber.Ctx, p session.Principal) error {
	return h.pages.Render(c, p, view.Contact, "Contact Us", nil)
}

// Contact validates the message and logs it; nothing is delivered.
func (h *HomeHandler) Contact(c fiber.Ctx, _ session.Principal) error {
	var req contactRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.RedirectWithCause(err, contactPath, session.FlashError, "Please fill in all fields")
	}

	var msgs []string
	if strings.TrimSpace(req.Name) == "" {
		msgs = append(msgs, "Name is required")
	}
	if addr, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil || addr.Address == "" {
		msgs = append(msgs, "Please include a valid email")
	}
	if strings.TrimSpace(req.Message) == "" {
		msgs = append(msgs, "Message is required")
	}
	if len(msgs) > 0 {
		return middleware.Redirect(contactPath, session.FlashError, msgs...)
	}

	if h.logger != nil {
		h.logger.Printf("[Contact] message from=%q subject=%q bytes=%d", strings.TrimSpace(req.Email), strings.TrimSpace(req.Subject), len(req.Message))
	}
	return middleware.Redirect(contactPath, session.FlashSuccess, "Thanks for reaching out, we will get back to you soon")
}
