package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Rodrymza/app-novedades/internal/domain"
	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

const sessionKey = "auth_session"

// SessionMiddleware decodes the session token of every protected request.
// It performs no storage lookups.
type SessionMiddleware struct {
	tokens     *TokenManager
	cookieName string
}

// NewSessionMiddleware constructs middleware reading the token from cookieName,
// falling back to an Authorization: Bearer header.
func NewSessionMiddleware(tokens *TokenManager, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		token = bearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if token == "" {
		return apperrors.NewUnauthorized("Acceso no autorizado", "No se proporcionó un token (no autenticado)")
	}

	session, err := m.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewUnauthorized("Error de autenticación", "El token ingresado está expirado")
		}
		return apperrors.NewUnauthorized("Error de autenticación", "El token ingresado es inválido")
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SessionFromContext retrieves the decoded session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}
