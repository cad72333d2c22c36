package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/view"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

// Pages assembles view models: the principal's public profile, the pending
// flash messages and the handler's data.
type Pages struct {
	renderer view.Renderer
	sessions *middleware.SessionMiddleware
}

func NewPages(renderer view.Renderer, sessions *middleware.SessionMiddleware) *Pages {
	return &Pages{renderer: renderer, sessions: sessions}
}

func (p *Pages) Render(c fiber.Ctx, pr session.Principal, name, title string, data any) error {
	page := view.Page{
		View:  name,
		Title: title,
		Flash: p.sessions.TakeFlash(c),
		Data:  data,
	}
	if u, ok := pr.User(); ok {
		page.User = dto.NewUserResponse(u)
	}
	return p.renderer.Render(c, fiber.StatusOK, page)
}

// NotFound is the catch-all for unmatched routes.
func (p *Pages) NotFound(c fiber.Ctx) error {
	return middleware.NewAppError(fiber.StatusNotFound, "Page not found", nil, nil)
}
