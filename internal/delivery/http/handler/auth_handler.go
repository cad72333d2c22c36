package handler

import (
	"errors"
	"fmt"
	"mime/multipart"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/view"
	"jobboard/internal/usecase"
	ucauth "jobboard/internal/usecase/auth"
	"jobboard/internal/usecase/session"
	"jobboard/internal/usecase/upload"

	"github.com/gofiber/fiber/v3"
)

const (
	RegisterPath = "/auth/register"

	MessageInvalidCredentials = "Incorrect email or password"
	MessageEmailRegistered    = "Email already registered"
	MessagePasswordMismatch   = "Passwords do not match"
)

type AuthHandler struct {
	uc       usecase.AuthUsecase
	pages    *Pages
	sessions *middleware.SessionMiddleware
	maxBytes int64
}

type registerRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"password2" form:"password2"`
	Role            string `json:"role" form:"role"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func NewAuthHandler(uc usecase.AuthUsecase, pages *Pages, sessions *middleware.SessionMiddleware, maxUploadBytes int64) *AuthHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = upload.DefaultMaxBytes
	}
	return &AuthHandler{uc: uc, pages: pages, sessions: sessions, maxBytes: maxUploadBytes}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/login", h.sessions.GuestOnly(h.LoginForm))
	r.Post("/login", h.sessions.GuestOnly(h.Login))
	r.Get("/register", h.sessions.GuestOnly(h.RegisterForm))
	r.Post("/register", h.sessions.GuestOnly(h.Register))
	r.Get("/logout", h.sessions.WithPrincipal(h.Logout))
}

func (h *AuthHandler) LoginForm(c fiber.Ctx, p session.Principal) error {
	return h.pages.Render(c, p, view.Login, "Login", nil)
}

func (h *AuthHandler) RegisterForm(c fiber.Ctx, p session.Principal) error {
	return h.pages.Render(c, p, view.Register, "Register", nil)
}

func (h *AuthHandler) Login(c fiber.Ctx, p session.Principal) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.RedirectWithCause(err, middleware.LoginPath, session.FlashError, MessageInvalidCredentials)
	}

	rec, usr, err := h.uc.Login(c.Context(), p.SessionID, req.Email, req.Password)
	if err != nil {
		return mapAuthUsecaseError(err, middleware.LoginPath)
	}
	if err := h.sessions.StartSession(c, rec, usr); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	return middleware.Redirect(middleware.DashboardPath, session.FlashSuccess, "You are now logged in")
}

func (h *AuthHandler) Register(c fiber.Ctx, _ session.Principal) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.RedirectWithCause(err, RegisterPath, session.FlashError, "Please fill in all fields")
	}

	in := ucauth.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	}

	var avatar *upload.Input
	if fh, err := c.FormFile(upload.FieldAvatar); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Could not read upload", nil, err)
		}
		defer f.Close()
		avatar = uploadInput(upload.FieldAvatar, fh, f)
	}

	if _, err := h.uc.Register(c.Context(), in, avatar); err != nil {
		return mapAuthUsecaseError(err, RegisterPath, h.uploadMessage(err)...)
	}
	return middleware.Redirect(middleware.LoginPath, session.FlashSuccess, "You are now registered and can log in")
}

func (h *AuthHandler) Logout(c fiber.Ctx, p session.Principal) error {
	if err := h.uc.Logout(c.Context(), p.SessionID); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	h.sessions.EndSession(c)
	if !p.IsAuthenticated() {
		return c.Redirect().Status(fiber.StatusSeeOther).To(middleware.LoginPath)
	}
	return middleware.Redirect(middleware.LoginPath, session.FlashSuccess, "You are logged out")
}

func (h *AuthHandler) uploadMessage(err error) []string {
	switch {
	case errors.Is(err, upload.ErrUnsupportedType):
		return []string{"Images only (jpeg, jpg, png, gif)"}
	case errors.Is(err, upload.ErrFileTooLarge):
		return []string{FileTooLargeMessage(h.maxBytes)}
	case errors.Is(err, upload.ErrRejected):
		return []string{"Upload rejected"}
	default:
		return nil
	}
}

// FileTooLargeMessage is the flash shown for an upload above maxBytes.
func FileTooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File too large (max %d MB)", maxBytes/(1024*1024))
}

func uploadInput(field string, fh *multipart.FileHeader, body multipart.File) *upload.Input {
	return &upload.Input{
		Field:       field,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        body,
	}
}

func mapAuthUsecaseError(err error, back string, uploadMsgs ...string) error {
	if err == nil {
		return nil
	}

	var inErr *ucauth.InputError
	switch {
	case len(uploadMsgs) > 0:
		return middleware.RedirectWithCause(err, back, session.FlashError, uploadMsgs...)
	case errors.Is(err, ucauth.ErrPasswordMismatch):
		return middleware.RedirectWithCause(err, back, session.FlashError, MessagePasswordMismatch)
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.RedirectWithCause(err, back, session.FlashError, MessageEmailRegistered)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.RedirectWithCause(err, back, session.FlashError, MessageInvalidCredentials)
	case errors.As(err, &inErr):
		return middleware.RedirectWithCause(err, back, session.FlashError, inErr.Messages...)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
