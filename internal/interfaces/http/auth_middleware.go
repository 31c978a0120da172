package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/pkg/identity"
)

// Locals key for the authenticated actor in Fiber.
const LocalActor = "actor"

// AuthMiddleware validates the Bearer token and stores the Actor in c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requis"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format attendu: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vide"})
		}
		actor, err := identity.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token invalide ou expiré"})
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// GetActor returns the authenticated actor from the context (after AuthMiddleware).
func GetActor(c *fiber.Ctx) identity.Actor {
	v := c.Locals(LocalActor)
	if v == nil {
		return identity.Actor{}
	}
	a, _ := v.(identity.Actor)
	return a
}
