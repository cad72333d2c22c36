package routes

import (
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health *handler.HealthHandler
	Home   *handler.HomeHandler
	Auth   *handler.AuthHandler
	Jobs   *handler.JobsHandler
	Users  *handler.UserHandler
	Feed   *ws.Handler
	Pages  *handler.Pages
}

// Register mounts every route. The not-found fallback goes last so it only
// sees requests nothing else matched.
func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)
	r.Feed.RegisterRoutes(app)
	r.Home.RegisterRoutes(app)
	r.Auth.RegisterRoutes(app.Group("/auth"))
	r.Jobs.RegisterRoutes(app)
	r.Users.RegisterRoutes(app)

	app.Use(r.Pages.NotFound)
}
