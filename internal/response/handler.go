package response

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform response body. Token fields sit beside the status
// block so heterogeneous clients can read them without unwrapping data.
type Envelope struct {
	Status       Status      `json:"status"`
	Data         interface{} `json:"data,omitempty"`
	AccessToken  string      `json:"accessToken,omitempty"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	ExpiresIn    int         `json:"expiresIn,omitempty"`
}

type Status struct {
	ReturnCode    int    `json:"returnCode"`
	ReturnMessage string `json:"returnMessage"`
}

func send(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(Envelope{
		Status: Status{ReturnCode: code, ReturnMessage: message},
		Data:   data,
	})
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return send(c, fiber.StatusOK, message, data)
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return send(c, fiber.StatusCreated, message, data)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusBadRequest, message, nil)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusUnauthorized, message, nil)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusForbidden, message, nil)
}

func NotFound(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusNotFound, message, nil)
}

func Conflict(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusConflict, message, nil)
}

func InternalError(c *fiber.Ctx, message string) error {
	return send(c, fiber.StatusInternalServerError, message, nil)
}

// WithTokens writes the dual header/body token exposure: older clients read
// the Authorization and X-Access-Token headers, newer ones the body fields.
func WithTokens(c *fiber.Ctx, message string, data interface{}, accessToken, refreshToken string, expiresIn int) error {
	c.Set("Authorization", "Bearer "+accessToken)
	c.Set("X-Access-Token", accessToken)
	c.Set("Access-Control-Expose-Headers", "Authorization, X-Access-Token")

	return c.Status(fiber.StatusOK).JSON(Envelope{
		Status:       Status{ReturnCode: fiber.StatusOK, ReturnMessage: message},
		Data:         data,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}
