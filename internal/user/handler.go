package user

import (
	"errors"
	"log"

	"github.com/qualiworth/hike-api/internal/auth"
	"github.com/qualiworth/hike-api/internal/models"
	"github.com/qualiworth/hike-api/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handler exposes the admin-only user management surface.
type Handler struct {
	db  *gorm.DB
	svc *auth.Service
}

func NewHandler(db *gorm.DB, svc *auth.Service) *Handler {
	return &Handler{db: db, svc: svc}
}

// Create adds a user on an admin's behalf. When no password is supplied a
// random one is generated; the verification token is returned so the admin
// frontend can relay it to the new user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var body struct {
		Email     string  `json:"email"`
		Phone     *string `json:"phone"`
		Role      string  `json:"role"`
		Password  string  `json:"password"`
		FirstName string  `json:"firstName"`
		LastName  string  `json:"lastName"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Email == "" || body.FirstName == "" {
		return response.BadRequest(c, "Email and firstName are required")
	}

	u, verificationToken, err := h.svc.AddUser(auth.AddUserParams{
		Email:     body.Email,
		Phone:     body.Phone,
		Role:      body.Role,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailInUse):
			return response.Conflict(c, "Email is already in use")
		case errors.Is(err, auth.ErrPhoneInUse):
			return response.Conflict(c, "Phone number is already in use")
		default:
			log.Println("Admin user creation error:", err)
			return response.InternalError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", fiber.Map{
		"user":  u.Safe(),
		"token": verificationToken,
	})
}

func (h *Handler) List(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Find(&users).Error; err != nil {
		return response.InternalError(c, "Failed to fetch users")
	}

	safe := make([]models.SafeUser, 0, len(users))
	for i := range users {
		safe = append(safe, users[i].Safe())
	}

	return response.Success(c, "Users retrieved successfully", safe)
}
