package server

import (
	"time"

	"github.com/qualiworth/hike-api/internal/auth"
	"github.com/qualiworth/hike-api/internal/token"
	"github.com/qualiworth/hike-api/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

type Deps struct {
	DB     *gorm.DB
	Issuer *token.Issuer
	Auth   *auth.Handler
	Google *auth.GoogleHandler
	Users  *user.Handler
}

func SetupRoutes(app *fiber.App, d Deps) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Hike API is running",
		})
	})

	// ==========================================
	// AUTH ROUTES (No authentication required)
	// ==========================================
	authGroup := app.Group("/auth")
	app.Use("/auth", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
	}))
	authGroup.Post("/register", d.Auth.Register)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), d.Auth.Login)
	authGroup.Post("/verify-email", d.Auth.VerifyEmail)
	authGroup.Post("/request-otp", d.Auth.RequestOtp)
	authGroup.Post("/verify-otp", d.Auth.VerifyLoginOtp)
	authGroup.Post("/refresh-token", d.Auth.RefreshToken)
	authGroup.Post("/request-password-reset", d.Auth.RequestPasswordReset)
	authGroup.Post("/reset-password", d.Auth.ResetPassword)
	if d.Google != nil {
		authGroup.Get("/google/login", d.Google.Login)
		authGroup.Get("/google/callback", d.Google.Callback)
	}

	// Authenticated profile surface
	authGroup.Get("/me", auth.JWTProtected(d.Issuer), d.Auth.Me)
	authGroup.Put("/update-user", auth.JWTProtected(d.Issuer), d.Auth.UpdateUser)
	authGroup.Post("/logout", auth.JWTProtected(d.Issuer), d.Auth.Logout)

	// ==========================================
	// USER MANAGEMENT (Admin only)
	// ==========================================
	userGroup := app.Group("/users")
	userGroup.Use(auth.JWTProtected(d.Issuer))
	userGroup.Use(auth.RoleProtected(d.DB, "admin"))
	userGroup.Post("/", d.Users.Create)
	userGroup.Get("/", d.Users.List)
}
