package middleware

import (
	"log"
	"time"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

const (
	SessionCookieName = "jobboard.sid"
	ctxPrincipalKey   = "principal"

	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"

	MessageLoginRequired = "Please log in to view that resource"
)

// PrincipalHandler is a route handler that receives the resolved principal
// explicitly instead of reading it from request locals.
type PrincipalHandler func(c fiber.Ctx, p session.Principal) error

type UserHandler func(c fiber.Ctx, p session.Principal, u user.User) error

type CookieConfig struct {
	Name   string
	Secure bool
}

type SessionMiddleware struct {
	sessions *session.Manager
	signer   jwt.Signer
	cookie   CookieConfig
	logger   *log.Logger
}

func NewSessionMiddleware(sessions *session.Manager, signer jwt.Signer, cookie CookieConfig, logger *log.Logger) *SessionMiddleware {
	if cookie.Name == "" {
		cookie.Name = SessionCookieName
	}
	return &SessionMiddleware{sessions: sessions, signer: signer, cookie: cookie, logger: logger}
}

// Middleware resolves the session cookie into a principal for every request.
// A missing, forged or expired cookie yields an anonymous principal.
func (m *SessionMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		sid := m.sessionIDFromCookie(c)
		p, err := m.sessions.ResolveSession(c.Context(), sid)
		if err != nil {
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		if sid != "" && p.SessionID == "" {
			c.ClearCookie(m.cookie.Name)
		}
		c.Locals(ctxPrincipalKey, p)
		return c.Next()
	}
}

func PrincipalFrom(c fiber.Ctx) session.Principal {
	if p, ok := c.Locals(ctxPrincipalKey).(session.Principal); ok {
		return p
	}
	return session.Anonymous("")
}

func (m *SessionMiddleware) WithPrincipal(h PrincipalHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h(c, PrincipalFrom(c))
	}
}

// RequireUser sends anonymous principals to the login form.
func (m *SessionMiddleware) RequireUser(h UserHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		p := PrincipalFrom(c)
		u, ok := p.User()
		if !ok {
			return Redirect(LoginPath, session.FlashError, MessageLoginRequired)
		}
		return h(c, p, u)
	}
}

// GuestOnly sends authenticated principals to their dashboard.
func (m *SessionMiddleware) GuestOnly(h PrincipalHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		p := PrincipalFrom(c)
		if p.IsAuthenticated() {
			return c.Redirect().Status(fiber.StatusSeeOther).To(DashboardPath)
		}
		return h(c, p)
	}
}

// StartSession hands the client a cookie for rec and makes rec the current
// session for the rest of the request.
func (m *SessionMiddleware) StartSession(c fiber.Ctx, rec session.Record, u user.User) error {
	if err := m.setCookie(c, rec); err != nil {
		return err
	}
	c.Locals(ctxPrincipalKey, session.Authenticated(rec.ID, u))
	return nil
}

func (m *SessionMiddleware) EndSession(c fiber.Ctx) {
	c.ClearCookie(m.cookie.Name)
	c.Locals(ctxPrincipalKey, session.Anonymous(""))
}

// AddFlash queues a message for the next rendered page, starting a session
// for anonymous visitors when needed.
func (m *SessionMiddleware) AddFlash(c fiber.Ctx, f session.Flash) error {
	p := PrincipalFrom(c)
	rec, err := m.sessions.AddFlash(c.Context(), p.SessionID, f)
	if err != nil {
		return err
	}
	if rec.ID == p.SessionID {
		return nil
	}

	if err := m.setCookie(c, rec); err != nil {
		return err
	}
	if u, ok := p.User(); ok {
		c.Locals(ctxPrincipalKey, session.Authenticated(rec.ID, u))
	} else {
		c.Locals(ctxPrincipalKey, session.Anonymous(rec.ID))
	}
	return nil
}

func (m *SessionMiddleware) TakeFlash(c fiber.Ctx) []session.Flash {
	p := PrincipalFrom(c)
	if p.SessionID == "" {
		return nil
	}
	flashes, err := m.sessions.TakeFlash(c.Context(), p.SessionID)
	if err != nil {
		if m.logger != nil {
			m.logger.Printf("[Session] take flash error: %v", err)
		}
		return nil
	}
	return flashes
}

func (m *SessionMiddleware) sessionIDFromCookie(c fiber.Ctx) string {
	raw := c.Cookies(m.cookie.Name)
	if raw == "" {
		return ""
	}
	claims, err := m.signer.Parse(raw)
	if err != nil {
		return ""
	}
	return claims.SessionID
}

func (m *SessionMiddleware) setCookie(c fiber.Ctx, rec session.Record) error {
	token, err := m.signer.Sign(rec.ID, rec.ExpiresAt)
	if err != nil {
		return err
	}

	maxAge := int(time.Until(rec.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = int(m.sessions.TTL().Seconds())
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  rec.ExpiresAt,
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}
