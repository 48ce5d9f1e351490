package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/qualiworth/hike-api/internal/models"
	"github.com/qualiworth/hike-api/internal/response"
	"github.com/qualiworth/hike-api/internal/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleHandler implements sign-in with Google. An account created through
// this path is email-verified by construction and gets a random password it
// can later reset.
type GoogleHandler struct {
	svc      *Service
	oauthCfg *oauth2.Config

	stateMu    sync.Mutex
	stateStore map[string]time.Time
}

func NewGoogleHandler(svc *Service, clientID, clientSecret, redirectURL string) *GoogleHandler {
	return &GoogleHandler{
		svc: svc,
		oauthCfg: &oauth2.Config{
			RedirectURL:  redirectURL,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		stateStore: make(map[string]time.Time),
	}
}

func (g *GoogleHandler) generateState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func (g *GoogleHandler) storeState(state string) {
	g.stateMu.Lock()
	defer g.stateMu.Unlock()
	g.stateStore[state] = time.Now().Add(5 * time.Minute)

	for k, v := range g.stateStore {
		if time.Now().After(v) {
			delete(g.stateStore, k)
		}
	}
}

func (g *GoogleHandler) validateState(state string) bool {
	g.stateMu.Lock()
	defer g.stateMu.Unlock()

	expiry, exists := g.stateStore[state]
	if !exists || time.Now().After(expiry) {
		return false
	}
	delete(g.stateStore, state)
	return true
}

func (g *GoogleHandler) Login(c *fiber.Ctx) error {
	state := g.generateState()
	g.storeState(state)
	return c.Redirect(g.oauthCfg.AuthCodeURL(state))
}

func (g *GoogleHandler) Callback(c *fiber.Ctx) error {
	if !g.validateState(c.Query("state")) {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state parameter")
	}

	tok, err := g.oauthCfg.Exchange(context.Background(), c.Query("code"))
	if err != nil {
		return response.InternalError(c, "Failed to exchange token")
	}

	client := g.oauthCfg.Client(context.Background(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return response.InternalError(c, "Failed to get user info")
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	var userData struct {
		Email     string `json:"email"`
		GivenName string `json:"given_name"`
		Name      string `json:"name"`
		Picture   string `json:"picture"`
	}
	if err := json.Unmarshal(data, &userData); err != nil || userData.Email == "" {
		return response.InternalError(c, "Failed to get user info")
	}

	var u models.User
	err = g.svc.db.Where("email = ?", userData.Email).First(&u).Error
	if err != nil {
		firstName := userData.GivenName
		if firstName == "" {
			firstName = userData.Name
		}
		hashed, _ := utils.HashPassword(utils.RandomPassword(12))

		u = models.User{
			Email:         userData.Email,
			Password:      hashed,
			FirstName:     firstName,
			Photo:         userData.Picture,
			IsActive:      true,
			EmailVerified: true,
		}
		if err := g.svc.db.Create(&u).Error; err != nil {
			return response.InternalError(c, "Failed to create user")
		}
	}

	if !u.IsActive {
		return response.Forbidden(c, "Account is deactivated")
	}

	accessToken, err := g.svc.issuer.IssueAccessTokenForPasswordLogin(&u)
	if err != nil {
		return response.InternalError(c, "Failed to issue token")
	}
	refreshToken, err := g.svc.issuer.IssueRefreshToken(&u)
	if err != nil {
		return response.InternalError(c, "Failed to issue token")
	}

	g.svc.WriteLog(u.ID, "LOGIN", "SUCCESS", "User logged in with Google")

	return response.WithTokens(c, "Login successful",
		fiber.Map{"user": u.Safe()}, accessToken, refreshToken, expiresInSeconds)
}
