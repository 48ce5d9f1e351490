package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/qualiworth/hike-api/internal/auth"
	"github.com/qualiworth/hike-api/internal/models"
	"github.com/qualiworth/hike-api/internal/notify"
	"github.com/qualiworth/hike-api/internal/server"
	"github.com/qualiworth/hike-api/internal/token"
	"github.com/qualiworth/hike-api/internal/user"
	"github.com/qualiworth/hike-api/internal/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const (
	TestAccessSecret  = "test_access_secret_minimum_32_characters_long!!"
	TestRefreshSecret = "test_refresh_secret_minimum_32_characters_long"
	TestCountryCode   = "256"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.EmailVerificationToken{},
		&models.PasswordResetToken{},
		&models.Log{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

// RecordingMailer captures outbound mail so tests can assert on delivery
// without a transport. Set Fail to simulate a provider outage.
type RecordingMailer struct {
	Fail bool
	Sent []SentMessage
}

type SentMessage struct {
	To      string
	Subject string
	Body    string
}

func (m *RecordingMailer) Send(to, subject, body string) notify.Result {
	if m.Fail {
		return notify.Result{Success: false, Err: assert.AnError}
	}
	m.Sent = append(m.Sent, SentMessage{To: to, Subject: subject, Body: body})
	return notify.Result{Success: true, MessageID: "test-message-id"}
}

// Env bundles everything a handler or service test needs.
type Env struct {
	App    *fiber.App
	DB     *gorm.DB
	Svc    *auth.Service
	Issuer *token.Issuer
	Mailer *RecordingMailer
}

func SetupTestEnv(t *testing.T) *Env {
	db := TestDB(t)

	mailer := &RecordingMailer{}
	gateway := notify.NewGateway(mailer, &notify.MockSMSSender{})
	issuer := token.NewIssuer(TestAccessSecret, TestRefreshSecret)
	svc := auth.NewService(db, gateway, issuer, TestCountryCode)

	app := server.New(server.Deps{
		DB:     db,
		Issuer: issuer,
		Auth:   auth.NewHandler(svc),
		Users:  user.NewHandler(db, svc),
	})

	return &Env{App: app, DB: db, Svc: svc, Issuer: issuer, Mailer: mailer}
}

func CreateTestUser(t *testing.T, db *gorm.DB, email, password string, phone *string) *models.User {
	hashedPassword, err := utils.HashPassword(password)
	assert.NoError(t, err)

	u := &models.User{
		Email:         email,
		Phone:         phone,
		Password:      hashedPassword,
		FirstName:     "Test",
		LastName:      "User",
		Role:          "user",
		IsActive:      true,
		EmailVerified: true,
	}
	err = db.Create(u).Error
	assert.NoError(t, err, "Failed to create test user")

	return u
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	for k, v := range resp.Header {
		for _, val := range v {
			rec.Header().Add(k, val)
		}
	}

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

// Envelope mirrors the response envelope for assertions. Data is kept raw
// because endpoints return objects, arrays, or plain strings.
type Envelope struct {
	Status       Status          `json:"status"`
	Data         json.RawMessage `json:"data"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	ExpiresIn    int             `json:"expiresIn"`
}

type Status struct {
	ReturnCode    int    `json:"returnCode"`
	ReturnMessage string `json:"returnMessage"`
}

func (e Envelope) DataMap(t *testing.T) map[string]interface{} {
	var m map[string]interface{}
	if len(e.Data) == 0 {
		return m
	}
	assert.NoError(t, json.Unmarshal(e.Data, &m), "Data is not an object")
	return m
}

func ParseEnvelope(t *testing.T, resp *httptest.ResponseRecorder) Envelope {
	var result Envelope
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return result
	}

	err := json.NewDecoder(resp.Body).Decode(&result)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
	return result
}

func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, code int, message string) Envelope {
	result := ParseEnvelope(t, resp)
	assert.Equal(t, code, resp.Code, "HTTP status mismatch")
	assert.Equal(t, code, result.Status.ReturnCode, "Envelope returnCode mismatch")
	if message != "" {
		assert.Equal(t, message, result.Status.ReturnMessage, "Envelope returnMessage mismatch")
	}
	return result
}
