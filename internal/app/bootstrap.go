package app

import (
	"fmt"
	"strings"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/routes"
	"jobboard/internal/delivery/http/view"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// bodyLimitSlack leaves room for the other multipart fields next to an
// upload at the size limit.
const bodyLimitSlack = 1 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app on top of an already wired container.
func New(c *Container) *App {
	cfg := c.Config
	renderer := view.NewJSONRenderer()

	sessions := middleware.NewSessionMiddleware(c.Sessions, c.Signer, middleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.App.IsProduction(),
	}, c.Logger)
	errMw := middleware.NewErrorMiddleware(renderer, sessions, c.Logger, !cfg.App.IsProduction())
	errMw.RedirectOversize(handler.RegisterPath, handler.FileTooLargeMessage(c.Uploads.MaxBytes()))

	f := fiber.New(fiber.Config{
		AppName:      cfg.App.AppName,
		BodyLimit:    int(c.Uploads.MaxBytes()) + bodyLimitSlack,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: errMw.Handle,
	})

	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	f.Use(errMw.Middleware())
	f.Use(sessions.Middleware())

	if c.Disk != nil {
		f.Use(c.Disk.PublicPrefix, static.New(c.Disk.Root))
	}

	pages := handler.NewPages(renderer, sessions)
	registry := routes.Registry{
		Health: handler.NewHealthHandler(c.HealthChecks()),
		Home:   handler.NewHomeHandler(c.JobService, pages, sessions, c.Logger),
		Auth:   handler.NewAuthHandler(c.Auth, pages, sessions, c.Uploads.MaxBytes()),
		Jobs:   handler.NewJobsHandler(c.JobService, pages, sessions),
		Users:  handler.NewUserHandler(c.UserService, pages, sessions),
		Feed:   ws.NewHandler(c.Hub, c.Logger),
		Pages:  pages,
	}
	registry.Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container from cfg and builds the app. The returned
// cleanup releases database and Redis connections.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
