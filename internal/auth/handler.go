package auth

import (
	"errors"
	"log"
	"strings"

	"github.com/qualiworth/hike-api/internal/models"
	"github.com/qualiworth/hike-api/internal/response"
	"github.com/qualiworth/hike-api/internal/token"

	"github.com/gofiber/fiber/v2"
)

// expiresInSeconds is the advertised expiry in the response body. It predates
// the current token lifetimes and is part of the client contract.
const expiresInSeconds = 3600

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body struct {
		Email     string  `json:"email"`
		Password  string  `json:"password"`
		FirstName string  `json:"firstName"`
		LastName  string  `json:"lastName"`
		Phone     *string `json:"phone"`
		Role      string  `json:"role"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" || body.FirstName == "" {
		return response.BadRequest(c, "Email, password, and firstName are required")
	}

	user, err := h.svc.Register(body.Email, body.Password, body.FirstName, body.LastName, body.Role, body.Phone)
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return response.Conflict(c, "User already exists")
		}
		log.Println("Registration error:", err)
		return response.BadRequest(c, "Registration failed")
	}

	return response.Created(c, "User registered successfully", fiber.Map{"user": user.Safe()})
}

func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Token == "" {
		return response.BadRequest(c, "Token is required")
	}

	user, err := h.svc.VerifyEmail(body.Token)
	if err != nil {
		return response.BadRequest(c, "Invalid or expired token")
	}

	return response.Success(c, "Email verified successfully", fiber.Map{"user": user.Safe()})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body struct {
		Email      string `json:"email"`
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	identifier := body.Email
	if identifier == "" {
		identifier = body.Identifier
	}
	if identifier == "" || body.Password == "" {
		return response.BadRequest(c, "Email/identifier and password are required")
	}

	user, accessToken, refreshToken, err := h.svc.Login(identifier, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, ErrAccountDeactivated):
			return response.Forbidden(c, "Account is deactivated")
		default:
			log.Println("Login error:", err)
			return response.InternalError(c, "Internal server error")
		}
	}

	return response.WithTokens(c, "Login successful",
		fiber.Map{"user": user.Safe()}, accessToken, refreshToken, expiresInSeconds)
}

// RequestOtp mints a login OTP for the identified user and delivers it
// best-effort; the code is also returned for frontend fallback display.
func (h *Handler) RequestOtp(c *fiber.Ctx) error {
	var body struct {
		Identifier string `json:"identifier"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Identifier == "" {
		return response.BadRequest(c, "Identifier is required")
	}

	otp, expiresAt, err := h.svc.RequestLoginOtp(body.Identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return response.BadRequest(c, "User not found")
		}
		log.Println("OTP request error:", err)
		return response.InternalError(c, "Internal server error")
	}

	return response.Success(c, "OTP generated", fiber.Map{
		"otp":       otp,
		"expiresAt": expiresAt.UnixMilli(),
	})
}

func (h *Handler) VerifyLoginOtp(c *fiber.Ctx) error {
	var body struct {
		Identifier string `json:"identifier"`
		Otp        string `json:"otp"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Identifier == "" || body.Otp == "" {
		return response.BadRequest(c, "Identifier and OTP are required")
	}

	user, err := h.svc.FindUserByIdentifier(body.Identifier)
	if err != nil {
		return response.BadRequest(c, "User not found")
	}

	verified, accessToken, refreshToken, err := h.svc.VerifyOtp(user.ID, body.Otp)
	if err != nil {
		return response.BadRequest(c, "Invalid or expired OTP")
	}

	safe := verified.Safe()
	return response.WithTokens(c, "OTP verified successfully",
		fiber.Map{"user": fiber.Map{"id": safe.ID, "name": safe.Name}},
		accessToken, refreshToken, expiresInSeconds)
}

func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	accessToken, err := h.svc.RefreshAccessToken(body.RefreshToken)
	if err != nil {
		if errors.Is(err, token.ErrRefreshTokenExpired) {
			return response.Unauthorized(c, "Refresh token has expired")
		}
		return response.Unauthorized(c, "Invalid or malformed refresh token")
	}

	// New access token only; the refresh token is not rotated.
	return response.WithTokens(c, "Token refreshed successfully", nil, accessToken, "", expiresInSeconds)
}

func (h *Handler) RequestPasswordReset(c *fiber.Ctx) error {
	var body struct {
		Identifier string `json:"identifier"`
		Type       string `json:"type"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	identifier := strings.TrimSpace(body.Identifier)
	if identifier == "" {
		return response.BadRequest(c, "Identifier is required")
	}

	var issue *ResetIssue
	var err error
	if body.Type == "email" || IsEmail(identifier) {
		issue, err = h.svc.RequestPasswordResetByEmail(identifier)
	} else {
		issue, err = h.svc.RequestPasswordResetByPhone(identifier)
	}
	if err != nil {
		if errors.Is(err, ErrEmailDeliveryFailed) {
			return response.BadRequest(c, "Failed to send email. Please try again.")
		}
		log.Println("Password reset request error:", err)
		return response.BadRequest(c, "Invalid username provided")
	}

	return response.Success(c, "Password reset initiated", issue)
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var body struct {
		Token       string `json:"token"`
		Identifier  string `json:"identifier"`
		NewPassword string `json:"newPassword"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Token == "" || body.NewPassword == "" {
		return response.BadRequest(c, "Token and newPassword are required")
	}

	if body.Identifier != "" {
		if _, err := h.svc.FindUserByIdentifier(body.Identifier); err != nil {
			return response.BadRequest(c, "User not found")
		}
	}

	if err := h.svc.ResetPassword(body.Token, body.NewPassword); err != nil {
		return response.BadRequest(c, "Invalid or expired token provided")
	}

	return response.Success(c, "Password reset successful", "Password reset successfully")
}

func (h *Handler) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	user, err := h.svc.FindUserByID(userID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "User profile retrieved successfully", fiber.Map{"user": user.Safe()})
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var patch UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.svc.UpdateUserDetails(userID, patch)
	if err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return response.BadRequest(c, "Email is already in use")
		}
		log.Println("Profile update error:", err)
		return response.BadRequest(c, "Failed to update user details")
	}

	return response.Success(c, "User details updated successfully", fiber.Map{"user": user.Safe()})
}

// Logout records the audit entry; the tokens themselves stay valid until
// natural expiry.
func (h *Handler) Logout(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var body struct {
		Status string `json:"status"`
	}
	_ = c.BodyParser(&body)

	status := strings.ToUpper(body.Status)
	if status == "" {
		status = "SUCCESS"
	}
	if !models.IsValidLogStatus(status) {
		return response.BadRequest(c, "Invalid status value")
	}

	h.svc.WriteLog(userID, "LOGOUT", status, "")
	return response.Created(c, "Logout recorded", fiber.Map{"userId": userID})
}
