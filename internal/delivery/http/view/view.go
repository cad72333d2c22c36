package view

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

const (
	Home      = "index"
	About     = "about"
	Contact   = "contact"
	Login     = "auth/login"
	Register  = "auth/register"
	PostJob   = "employer/post-job"
	Jobs      = "jobs/index"
	Dashboard = "dashboard"
	Health    = "health"
	Error     = "error"
	NotFound  = "not_found"
)

// Page is the view model handed to the renderer. View names the template a
// server-side renderer would pick.
type Page struct {
	View  string            `json:"view"`
	Title string            `json:"title"`
	User  *dto.UserResponse `json:"user"`
	Flash []session.Flash   `json:"flash"`
	Data  any               `json:"data,omitempty"`
}

type Renderer interface {
	Render(c fiber.Ctx, status int, p Page) error
}

// JSONRenderer emits the page model inside the standard response envelope.
type JSONRenderer struct{}

func NewJSONRenderer() JSONRenderer {
	return JSONRenderer{}
}

func (JSONRenderer) Render(c fiber.Ctx, status int, p Page) error {
	if p.Flash == nil {
		p.Flash = []session.Flash{}
	}
	if status >= 400 {
		return response.Error(c, status, p.Title, p)
	}
	return response.Success(c, status, p.Title, p)
}
