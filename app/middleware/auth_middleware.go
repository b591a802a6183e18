// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/amirphl/metatag-sync/app/dto"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware checks the API key of calls made by the site
type AuthMiddleware struct {
	apiKeys [][]byte
}

// NewAuthMiddleware creates the middleware. With no keys configured every request passes.
func NewAuthMiddleware(apiKeys []string) *AuthMiddleware {
	m := &AuthMiddleware{}
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			m.apiKeys = append(m.apiKeys, []byte(k))
		}
	}
	return m
}

// Authenticate accepts the key from the X-API-Key header or as a bearer token
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		if len(m.apiKeys) == 0 {
			return c.Next()
		}

		key := c.Get("X-API-Key")
		if key == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && !strings.HasPrefix(authHeader, "Bearer ") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
					Success: false,
					Message: "Invalid authorization header format. Expected 'Bearer <key>'",
					Error:   dto.ErrorDetail{Code: "INVALID_AUTHORIZATION_FORMAT"},
				})
			}
			key = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "API key is required",
				Error:   dto.ErrorDetail{Code: "MISSING_API_KEY"},
			})
		}

		if !m.valid(key) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid API key",
				Error:   dto.ErrorDetail{Code: "INVALID_API_KEY"},
			})
		}

		return c.Next()
	}
}

func (m *AuthMiddleware) valid(key string) bool {
	got := []byte(key)
	ok := false
	for _, k := range m.apiKeys {
		if subtle.ConstantTimeCompare(got, k) == 1 {
			ok = true
		}
	}
	return ok
}
