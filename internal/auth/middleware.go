package auth

import (
	"strings"

	"github.com/qualiworth/hike-api/internal/models"
	"github.com/qualiworth/hike-api/internal/response"
	"github.com/qualiworth/hike-api/internal/token"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// JWTProtected validates the bearer access token and stores the user id in
// the request locals. Both access-token claim shapes are accepted.
func JWTProtected(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid token format")
		}

		userID, err := issuer.ParseAccessToken(tokenParts[1])
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// RoleProtected gates a route on the user's role string.
func RoleProtected(db *gorm.DB, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		var u models.User
		if err := db.First(&u, userID).Error; err != nil {
			return response.Unauthorized(c, "User not found")
		}

		for _, role := range allowedRoles {
			if u.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}
