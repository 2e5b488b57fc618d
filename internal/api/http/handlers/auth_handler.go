package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Rodrymza/app-novedades/internal/api/dto"
	"github.com/Rodrymza/app-novedades/internal/config"
	"github.com/Rodrymza/app-novedades/internal/service"
)

// AuthHandler exposes login, logout, profile, password change and registration.
type AuthHandler struct {
	auth   *service.AuthService
	cookie config.CookieConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie}
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		Expires:  expires,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cookie.SameSite,
	}
}

// Login handles POST /auth/login. The token only travels in the HttpOnly cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(h.sessionCookie(res.Token, res.ExpiresAt))
	return data(c, http.StatusOK, fiber.Map{
		"user":       dto.NewUserResponse(res.User),
		"expires_at": res.ExpiresAt,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), session(c)); err != nil {
		return err
	}
	c.Cookie(h.sessionCookie("", time.Unix(0, 0)))
	return data(c, http.StatusOK, fiber.Map{"message": "Sesión cerrada correctamente"})
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.auth.Profile(c.UserContext(), session(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// ChangePassword handles PATCH /auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), session(c), req.Current, req.Next); err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{"message": "Contraseña actualizada correctamente"})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.UserContext(), session(c), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Document:  req.Document,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewUserResponse(user))
}
