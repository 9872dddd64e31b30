// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"errors"
	"strings"

	"fitdesk/internal/models"
	"fitdesk/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// AuthMiddleware validates bearer tokens issued by the portal login and puts
// the caller's claims on the request context.
type AuthMiddleware struct {
	secret []byte
	log    *zap.Logger
}

func NewAuthMiddleware(secret string, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		log:    log,
	}
}

// Handler checks for a Bearer token with a valid HMAC signature, an
// unexpired lifetime and a user id.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	claims, err := m.parse(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.log.Debug("token validation failed", zap.String("path", c.Path()), zap.Error(err))
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func (m *AuthMiddleware) parse(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}

// Claims returns the authenticated caller, or nil outside the middleware.
func Claims(c *fiber.Ctx) *models.UserClaims {
	claims, _ := c.Locals(claimsKey).(*models.UserClaims)
	return claims
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return response.Unauthorized(c)
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		return response.Error(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
