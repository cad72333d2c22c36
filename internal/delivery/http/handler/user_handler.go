package handler

import (
	"errors"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/view"
	"jobboard/internal/domain/user"
	"jobboard/internal/usecase/session"
	ucuser "jobboard/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc    *ucuser.Service
	pages *Pages
	s     *middleware.SessionMiddleware
}

type dashboardResponse struct {
	Profile  *dto.UserResponse `json:"profile"`
	CanPost  bool              `json:"can_post"`
	Postings []dto.JobResponse `json:"postings"`
}

func NewUserHandler(uc *ucuser.Service, pages *Pages, sessions *middleware.SessionMiddleware) *UserHandler {
	return &UserHandler{uc: uc, pages: pages, s: sessions}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/dashboard", h.s.RequireUser(h.Dashboard))
}

func (h *UserHandler) Dashboard(c fiber.Ctx, p session.Principal, u user.User) error {
	d, err := h.uc.Dashboard(c.Context(), u.ID)
	if err != nil {
		if errors.Is(err, ucuser.ErrNotFound) {
			return middleware.Redirect(middleware.LoginPath, session.FlashError, middleware.MessageLoginRequired)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	return h.pages.Render(c, p, view.Dashboard, "Dashboard", dashboardResponse{
		Profile:  dto.NewUserResponse(d.User),
		CanPost:  ucuser.CanPost(d.User),
		Postings: dto.NewJobList(d.Postings),
	})
}
