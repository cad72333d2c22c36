package middleware

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/view"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// RedirectError ends a form submission: the flashes are queued on the
// session and the client is sent to Location with 303 See Other.
type RedirectError struct {
	Location string
	Flashes  []session.Flash
	Cause    error
}

func (e *RedirectError) Error() string {
	msg := "redirect to " + e.Location
	for _, f := range e.Flashes {
		msg += " (" + f.Message + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RedirectError) Unwrap() error {
	return e.Cause
}

func Redirect(location, kind string, messages ...string) *RedirectError {
	r := &RedirectError{Location: location}
	for _, m := range messages {
		r.Flashes = append(r.Flashes, session.Flash{Kind: kind, Message: m})
	}
	return r
}

func RedirectWithCause(cause error, location, kind string, messages ...string) *RedirectError {
	r := Redirect(location, kind, messages...)
	r.Cause = cause
	return r
}

type Flasher interface {
	AddFlash(c fiber.Ctx, f session.Flash) error
}

type errorData struct {
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Stack  string `json:"stack,omitempty"`
}

type ErrorMiddleware struct {
	renderer view.Renderer
	flasher  Flasher
	logger   *log.Logger
	verbose  bool

	// oversize maps form paths to the flash shown when fiber refuses a body
	// above its limit before any handler runs.
	oversize map[string]string
}

// NewErrorMiddleware builds the central error handler. verbose exposes raw
// error text and panic stacks in responses and belongs to development only.
func NewErrorMiddleware(renderer view.Renderer, flasher Flasher, logger *log.Logger, verbose bool) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{renderer: renderer, flasher: flasher, logger: logger, verbose: verbose, oversize: map[string]string{}}
}

// RedirectOversize sends form posts to path that exceed the body limit back
// to the form with message.
func (m *ErrorMiddleware) RedirectOversize(path, message string) {
	m.oversize[path] = message
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				m.logger.Printf("[HTTP] panic recovered rid=%s method=%s path=%s: %v\n%s", RequestID(c), c.Method(), c.Path(), r, stack)
				err = m.renderError(c, fiber.StatusInternalServerError, "", fmt.Sprint(r), stack)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}
		return m.Handle(c, err)
	}
}

// Handle renders err. It doubles as the fiber ErrorHandler for failures
// raised outside the middleware chain.
func (m *ErrorMiddleware) Handle(c fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusRequestEntityTooLarge && c.Method() == fiber.MethodPost {
		if msg, ok := m.oversize[c.Path()]; ok {
			err = RedirectWithCause(err, c.Path(), session.FlashError, msg)
		}
	}

	var redirect *RedirectError
	if errors.As(err, &redirect) {
		if m.flasher != nil {
			for _, f := range redirect.Flashes {
				if ferr := m.flasher.AddFlash(c, f); ferr != nil {
					m.logger.Printf("[HTTP] flash error rid=%s path=%s err=%v", RequestID(c), c.Path(), ferr)
					break
				}
			}
		}
		return c.Redirect().Status(fiber.StatusSeeOther).To(redirect.Location)
	}

	status, msg := normalizeError(err)
	if status >= 500 {
		m.logger.Printf("[HTTP] error rid=%s method=%s path=%s status=%d err=%v", RequestID(c), c.Method(), c.Path(), status, err)
	}
	return m.renderError(c, status, msg, err.Error(), "")
}

func (m *ErrorMiddleware) renderError(c fiber.Ctx, status int, msg, detail, stack string) error {
	if msg == "" {
		msg = response.DefaultMessage(status)
	}
	data := errorData{Status: status}
	if m.verbose {
		data.Detail = detail
		data.Stack = stack
	}

	name := view.Error
	if status == fiber.StatusNotFound {
		name = view.NotFound
	}
	page := view.Page{View: name, Title: msg, Data: data}
	if u, ok := PrincipalFrom(c).User(); ok {
		page.User = dto.NewUserResponse(u)
	}
	return m.renderer.Render(c, status, page)
}

func normalizeError(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError
		}
		return status, appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError
		}
		return status, fiberErr.Message
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError
}
