package middleware

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard/internal/delivery/http/view"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFlasher struct {
	flashes []session.Flash
}

func (f *recordingFlasher) AddFlash(_ fiber.Ctx, fl session.Flash) error {
	f.flashes = append(f.flashes, fl)
	return nil
}

func testRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	return resp
}

func TestErrorMiddleware_OversizeFormRedirectsWithFlash(t *testing.T) {
	flasher := &recordingFlasher{}
	mw := NewErrorMiddleware(view.NewJSONRenderer(), flasher, log.New(&bytes.Buffer{}, "", 0), false)
	mw.RedirectOversize("/auth/register", "File too large (max 5 MB)")

	// fiber hands a body over BodyLimit to the ErrorHandler as
	// ErrRequestEntityTooLarge before routing.
	app := fiber.New(fiber.Config{ErrorHandler: mw.Handle})
	tooLarge := func(fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge }
	app.Post("/auth/register", tooLarge)
	app.Post("/employer/post-job", tooLarge)
	app.Get("/auth/register", tooLarge)

	resp := testRequest(t, app, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/register", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, []session.Flash{{Kind: session.FlashError, Message: "File too large (max 5 MB)"}}, flasher.flashes)

	flasher.flashes = nil
	resp = testRequest(t, app, httptest.NewRequest(http.MethodPost, "/employer/post-job", nil))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Empty(t, flasher.flashes)

	resp = testRequest(t, app, httptest.NewRequest(http.MethodGet, "/auth/register", nil))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Empty(t, flasher.flashes)
}

func TestErrorMiddleware_LogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	mw := NewErrorMiddleware(view.NewJSONRenderer(), nil, logger, false)

	app := fiber.New(fiber.Config{ErrorHandler: mw.Handle})
	app.Use(NewAccessLogMiddleware(logger).Middleware())
	app.Use(mw.Middleware())
	app.Get("/panic", func(fiber.Ctx) error { panic("kaboom") })
	app.Get("/fail", func(fiber.Ctx) error { return errors.New("db down") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(HeaderRequestID, "req-panic")
	resp := testRequest(t, app, req)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "req-panic", resp.Header.Get(HeaderRequestID))
	assert.Contains(t, buf.String(), "[HTTP] panic recovered rid=req-panic method=GET path=/panic")

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set(HeaderRequestID, "req-fail")
	resp = testRequest(t, app, req)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), "[HTTP] error rid=req-fail method=GET path=/fail status=500")
}
