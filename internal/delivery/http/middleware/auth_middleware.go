package middleware

import (
	"net/http"
	"strings"

	"passport/internal/domain/entity"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextKeyEmail = "authEmail"
	ContextKeyRole  = "authRole"
)

// AuthMiddleware provides middleware for bearer-token authentication and
// role checks. Tokens carry only the email claim, so the account's role and
// active flag are resolved against the directory on each request.
type AuthMiddleware struct {
	issuer    service.TokenIssuer
	directory repository.UserDirectory
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(issuer service.TokenIssuer, directory repository.UserDirectory) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer, directory: directory}
}

// Authenticate validates the bearer token and loads the account behind it.
// Deactivated accounts are rejected even when their token is still unexpired.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.issuer.Validate(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		user, err := m.directory.FindByEmailWithSecrets(c.Request().Context(), claims.Email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unknown account"})
			}

			return errors.Wrap(err, "failed to resolve authenticated account")
		}
		if !user.IsActive {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Account is disabled"})
		}

		// Set account info on the context for handlers to use
		c.Set(ContextKeyEmail, user.Email)
		c.Set(ContextKeyRole, user.Role)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the account has a specific role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextKeyRole).(entity.Role)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: role information missing"})
			}

			if role != requiredRole {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: require '" + requiredRole.String() + "' role"})
			}

			return next(c)
		}
	}
}
