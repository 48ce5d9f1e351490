package server

import (
	"github.com/gofiber/fiber/v2"
)

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	SetupRoutes(app, d)

	return app
}
