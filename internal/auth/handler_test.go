package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/qualiworth/hike-api/internal/models"
	"github.com/qualiworth/hike-api/internal/testutils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	env := testutils.SetupTestEnv(t)

	t.Run("creates an unverified user and mails the OTP", func(t *testing.T) {
		phone := "+256701234567"
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/register", map[string]interface{}{
			"email":     "ann@example.com",
			"password":  "Secret123!",
			"firstName": "Ann",
			"lastName":  "Okello",
			"phone":     phone,
		}, "")
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 201, "User registered successfully")

		data := result.DataMap(t)
		userData, ok := data["user"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "ann@example.com", userData["email"])
		assert.Equal(t, "Ann Okello", userData["name"])
		assert.NotContains(t, userData, "password")
		assert.NotContains(t, userData, "otp")

		var u models.User
		assert.NoError(t, env.DB.Where("email = ?", "ann@example.com").First(&u).Error)
		assert.False(t, u.EmailVerified)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "Secret123!", u.Password)

		assert.Len(t, env.Mailer.Sent, 1)
		assert.Equal(t, "ann@example.com", env.Mailer.Sent[0].To)

		var vt models.EmailVerificationToken
		assert.NoError(t, env.DB.Where("user_id = ?", u.ID).First(&vt).Error)
		assert.Contains(t, env.Mailer.Sent[0].Body, vt.Token)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/register", map[string]interface{}{
			"email":     "ann@example.com",
			"password":  "Other123!",
			"firstName": "Annie",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 409, "User already exists")
	})

	t.Run("rejects a duplicate phone under a different email", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/register", map[string]interface{}{
			"email":     "other@example.com",
			"password":  "Other123!",
			"firstName": "Other",
			"phone":     "+256701234567",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 409, "User already exists")
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/register", map[string]interface{}{
			"email": "incomplete@example.com",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Email, password, and firstName are required")
	})

	t.Run("succeeds even when the verification email fails", func(t *testing.T) {
		env.Mailer.Fail = true
		defer func() { env.Mailer.Fail = false }()

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/register", map[string]interface{}{
			"email":     "bob@example.com",
			"password":  "Secret123!",
			"firstName": "Bob",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 201, "User registered successfully")
	})
}

func TestVerifyEmail(t *testing.T) {
	env := testutils.SetupTestEnv(t)

	resp, err := testutils.MakeRequest(env.App, "POST", "/auth/register", map[string]interface{}{
		"email":     "ann@example.com",
		"password":  "Secret123!",
		"firstName": "Ann",
	}, "")
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.Code)

	var u models.User
	assert.NoError(t, env.DB.Where("email = ?", "ann@example.com").First(&u).Error)
	var vt models.EmailVerificationToken
	assert.NoError(t, env.DB.Where("user_id = ?", u.ID).First(&vt).Error)

	t.Run("marks the account verified", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/verify-email",
			map[string]interface{}{"token": vt.Token}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 200, "Email verified successfully")

		var fresh models.User
		assert.NoError(t, env.DB.First(&fresh, u.ID).Error)
		assert.True(t, fresh.EmailVerified)
	})

	t.Run("is single use", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/verify-email",
			map[string]interface{}{"token": vt.Token}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid or expired token")
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expired := models.EmailVerificationToken{
			UserID:    u.ID,
			Token:     "111222",
			ExpiresAt: time.Now().Add(-time.Second),
		}
		assert.NoError(t, env.DB.Create(&expired).Error)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/verify-email",
			map[string]interface{}{"token": expired.Token}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid or expired token")
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/verify-email",
			map[string]interface{}{"token": "000000"}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid or expired token")
	})
}

func TestLogin(t *testing.T) {
	env := testutils.SetupTestEnv(t)
	phone := "+256701234567"
	u := testutils.CreateTestUser(t, env.DB, "ann@example.com", "Secret123!", &phone)

	t.Run("returns tokens in body and headers", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/login", map[string]interface{}{
			"email":    "ann@example.com",
			"password": "Secret123!",
		}, "")
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 200, "Login successful")
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, 3600, result.ExpiresIn)

		assert.Equal(t, "Bearer "+result.AccessToken, resp.Header().Get("Authorization"))
		assert.Equal(t, result.AccessToken, resp.Header().Get("X-Access-Token"))
		assert.Contains(t, resp.Header().Get("Access-Control-Expose-Headers"), "X-Access-Token")

		id, err := env.Issuer.ParseAccessToken(result.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, u.ID, id)

		var fresh models.User
		assert.NoError(t, env.DB.First(&fresh, u.ID).Error)
		assert.NotNil(t, fresh.LastLogin)

		var entry models.Log
		assert.NoError(t, env.DB.Where("user_id = ? AND action = ?", u.ID, "LOGIN").First(&entry).Error)
		assert.Equal(t, "SUCCESS", entry.Status)
	})

	t.Run("accepts the phone as identifier", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/login", map[string]interface{}{
			"identifier": phone,
			"password":   "Secret123!",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 200, "Login successful")
	})

	t.Run("wrong password and unknown identifier are indistinguishable", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/login", map[string]interface{}{
			"email":    "ann@example.com",
			"password": "wrong",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 401, "Invalid credentials")

		resp, err = testutils.MakeRequest(env.App, "POST", "/auth/login", map[string]interface{}{
			"email":    "nobody@example.com",
			"password": "Secret123!",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 401, "Invalid credentials")
	})

	t.Run("deactivated account with valid credentials gets 403", func(t *testing.T) {
		assert.NoError(t, env.DB.Model(u).Update("is_active", false).Error)
		defer env.DB.Model(u).Update("is_active", true)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/login", map[string]interface{}{
			"email":    "ann@example.com",
			"password": "Secret123!",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 403, "Account is deactivated")
	})
}

func TestOtpLogin(t *testing.T) {
	env := testutils.SetupTestEnv(t)
	u := testutils.CreateTestUser(t, env.DB, "ann@example.com", "Secret123!", nil)

	t.Run("request returns the OTP and mails it", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/request-otp",
			map[string]interface{}{"identifier": "ann@example.com"}, "")
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 200, "OTP generated")
		data := result.DataMap(t)
		assert.Len(t, data["otp"], 6)
		assert.Greater(t, data["expiresAt"].(float64), float64(time.Now().UnixMilli()))
		assert.Len(t, env.Mailer.Sent, 1)
	})

	t.Run("request for an unknown identifier fails", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/request-otp",
			map[string]interface{}{"identifier": "nobody@example.com"}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "User not found")
	})

	t.Run("verify issues tokens and consumes the OTP", func(t *testing.T) {
		otp, _, err := env.Svc.GenerateOtp(u.ID)
		assert.NoError(t, err)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/verify-otp", map[string]interface{}{
			"identifier": "ann@example.com",
			"otp":        otp,
		}, "")
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 200, "OTP verified successfully")
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		data := result.DataMap(t)
		userData, ok := data["user"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, float64(u.ID), userData["id"])
		assert.Equal(t, "Test User", userData["name"])

		resp, err = testutils.MakeRequest(env.App, "POST", "/auth/verify-otp", map[string]interface{}{
			"identifier": "ann@example.com",
			"otp":        otp,
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid or expired OTP")
	})

	t.Run("verify rejects a wrong OTP", func(t *testing.T) {
		_, _, err := env.Svc.GenerateOtp(u.ID)
		assert.NoError(t, err)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/verify-otp", map[string]interface{}{
			"identifier": "ann@example.com",
			"otp":        "000000",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid or expired OTP")
	})

	t.Run("verify rejects an expired OTP", func(t *testing.T) {
		otp, _, err := env.Svc.GenerateOtp(u.ID)
		assert.NoError(t, err)
		assert.NoError(t, env.DB.Model(&models.User{}).Where("id = ?", u.ID).
			Update("otp_expires_at", time.Now().Add(-time.Second)).Error)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/verify-otp", map[string]interface{}{
			"identifier": "ann@example.com",
			"otp":        otp,
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid or expired OTP")
	})
}

func TestRefreshToken(t *testing.T) {
	env := testutils.SetupTestEnv(t)
	u := testutils.CreateTestUser(t, env.DB, "ann@example.com", "Secret123!", nil)

	t.Run("issues a new access token without rotating the refresh token", func(t *testing.T) {
		refreshToken, err := env.Issuer.IssueRefreshToken(u)
		assert.NoError(t, err)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/refresh-token",
			map[string]interface{}{"refreshToken": refreshToken}, "")
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 200, "Token refreshed successfully")
		assert.NotEmpty(t, result.AccessToken)
		assert.Empty(t, result.RefreshToken)

		id, err := env.Issuer.ParseAccessToken(result.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, u.ID, id)
	})

	t.Run("expired refresh token gets its own message", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id":    u.ID,
			"email": u.Email,
			"exp":   time.Now().Add(-time.Minute).Unix(),
		})
		tokenStr, err := expired.SignedString([]byte(testutils.TestRefreshSecret))
		assert.NoError(t, err)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/refresh-token",
			map[string]interface{}{"refreshToken": tokenStr}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 401, "Refresh token has expired")
	})

	t.Run("malformed refresh token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/refresh-token",
			map[string]interface{}{"refreshToken": "garbage"}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 401, "Invalid or malformed refresh token")
	})

	t.Run("missing refresh token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/refresh-token",
			map[string]interface{}{}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Refresh token is required")
	})
}

func TestRequestPasswordReset(t *testing.T) {
	env := testutils.SetupTestEnv(t)
	phone := "+256701234567"
	testutils.CreateTestUser(t, env.DB, "ann@example.com", "Secret123!", &phone)

	t.Run("email path mails and returns the OTP", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/request-password-reset",
			map[string]interface{}{"identifier": "ann@example.com"}, "")
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 200, "Password reset initiated")
		data := result.DataMap(t)
		assert.Len(t, data["otp"], 6)
		assert.Greater(t, data["expiresAt"].(float64), float64(time.Now().UnixMilli()))

		assert.Len(t, env.Mailer.Sent, 1)
		assert.Contains(t, env.Mailer.Sent[0].Body, data["otp"])
	})

	t.Run("email delivery failure is fatal", func(t *testing.T) {
		env.Mailer.Fail = true
		defer func() { env.Mailer.Fail = false }()

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/request-password-reset",
			map[string]interface{}{"identifier": "ann@example.com"}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Failed to send email. Please try again.")
	})

	t.Run("phone path matches the local format against the stored form", func(t *testing.T) {
		sentBefore := len(env.Mailer.Sent)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/request-password-reset",
			map[string]interface{}{"identifier": "0701234567"}, "")
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 200, "Password reset initiated")
		data := result.DataMap(t)
		assert.Len(t, data["otp"], 6)

		// No email goes out on the phone path.
		assert.Len(t, env.Mailer.Sent, sentBefore)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/request-password-reset",
			map[string]interface{}{"identifier": "nobody@example.com"}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid username provided")
	})
}

func TestResetPassword(t *testing.T) {
	env := testutils.SetupTestEnv(t)
	u := testutils.CreateTestUser(t, env.DB, "ann@example.com", "OldSecret1!", nil)

	resp, err := testutils.MakeRequest(env.App, "POST", "/auth/request-password-reset",
		map[string]interface{}{"identifier": "ann@example.com"}, "")
	assert.NoError(t, err)
	issue := testutils.AssertStatus(t, resp, 200, "Password reset initiated").DataMap(t)
	otp := issue["otp"].(string)

	t.Run("replaces the password and consumes the token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/reset-password", map[string]interface{}{
			"token":       otp,
			"identifier":  "ann@example.com",
			"newPassword": "NewSecret1!",
		}, "")
		assert.NoError(t, err)
		result := testutils.AssertStatus(t, resp, 200, "Password reset successful")

		var message string
		assert.NoError(t, json.Unmarshal(result.Data, &message))
		assert.Equal(t, "Password reset successfully", message)

		var count int64
		env.DB.Model(&models.PasswordResetToken{}).Where("user_id = ?", u.ID).Count(&count)
		assert.Equal(t, int64(0), count)

		resp, err = testutils.MakeRequest(env.App, "POST", "/auth/login", map[string]interface{}{
			"email":    "ann@example.com",
			"password": "OldSecret1!",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 401, "Invalid credentials")

		resp, err = testutils.MakeRequest(env.App, "POST", "/auth/login", map[string]interface{}{
			"email":    "ann@example.com",
			"password": "NewSecret1!",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 200, "Login successful")
	})

	t.Run("consumed token cannot be replayed", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/reset-password", map[string]interface{}{
			"token":       otp,
			"newPassword": "Another1!",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid or expired token provided")
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expired := models.PasswordResetToken{
			UserID:    u.ID,
			Token:     "222333",
			ExpiresAt: time.Now().Add(-time.Second),
		}
		assert.NoError(t, env.DB.Create(&expired).Error)

		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/reset-password", map[string]interface{}{
			"token":       expired.Token,
			"newPassword": "Another1!",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid or expired token provided")
	})

	t.Run("rejects a mismatched identifier", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/reset-password", map[string]interface{}{
			"token":       "333444",
			"identifier":  "nobody@example.com",
			"newPassword": "Another1!",
		}, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "User not found")
	})
}

func TestMe(t *testing.T) {
	env := testutils.SetupTestEnv(t)
	u := testutils.CreateTestUser(t, env.DB, "ann@example.com", "Secret123!", nil)

	t.Run("returns the authenticated profile", func(t *testing.T) {
		accessToken, err := env.Issuer.IssueAccessTokenForPasswordLogin(u)
		assert.NoError(t, err)

		resp, err := testutils.MakeRequest(env.App, "GET", "/auth/me", nil, accessToken)
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 200, "User profile retrieved successfully")
		userData := result.DataMap(t)["user"].(map[string]interface{})
		assert.Equal(t, "ann@example.com", userData["email"])
		assert.NotContains(t, userData, "password")
	})

	t.Run("requires a token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/auth/me", nil, "")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 401, "Missing authorization token")
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/auth/me", nil, "garbage")
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 401, "Invalid or expired token")
	})
}

func TestUpdateUser(t *testing.T) {
	env := testutils.SetupTestEnv(t)
	u := testutils.CreateTestUser(t, env.DB, "ann@example.com", "Secret123!", nil)
	testutils.CreateTestUser(t, env.DB, "taken@example.com", "Secret123!", nil)

	accessToken, err := env.Issuer.IssueAccessTokenForPasswordLogin(u)
	assert.NoError(t, err)

	t.Run("applies a partial patch", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "PUT", "/auth/update-user",
			map[string]interface{}{"firstName": "Anna"}, accessToken)
		assert.NoError(t, err)

		result := testutils.AssertStatus(t, resp, 200, "User details updated successfully")
		userData := result.DataMap(t)["user"].(map[string]interface{})
		assert.Equal(t, "Anna User", userData["name"])

		var fresh models.User
		assert.NoError(t, env.DB.First(&fresh, u.ID).Error)
		assert.Equal(t, "Anna", fresh.FirstName)
		assert.Equal(t, "User", fresh.LastName)
		assert.Equal(t, "ann@example.com", fresh.Email)
	})

	t.Run("strips markup from name fields", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "PUT", "/auth/update-user",
			map[string]interface{}{"firstName": "<script>alert(1)</script>Anna"}, accessToken)
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 200, "User details updated successfully")

		var fresh models.User
		assert.NoError(t, env.DB.First(&fresh, u.ID).Error)
		assert.NotContains(t, fresh.FirstName, "<script>")
	})

	t.Run("rejects an email already in use", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "PUT", "/auth/update-user",
			map[string]interface{}{"email": "taken@example.com"}, accessToken)
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Email is already in use")
	})

	t.Run("re-submitting your own email is fine", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "PUT", "/auth/update-user",
			map[string]interface{}{"email": "ann@example.com"}, accessToken)
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 200, "User details updated successfully")
	})
}

func TestLogout(t *testing.T) {
	env := testutils.SetupTestEnv(t)
	u := testutils.CreateTestUser(t, env.DB, "ann@example.com", "Secret123!", nil)

	accessToken, err := env.Issuer.IssueAccessTokenForPasswordLogin(u)
	assert.NoError(t, err)

	t.Run("records an audit entry", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/logout",
			map[string]interface{}{"status": "success"}, accessToken)
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 201, "Logout recorded")

		var entry models.Log
		assert.NoError(t, env.DB.Where("user_id = ? AND action = ?", u.ID, "LOGOUT").First(&entry).Error)
		assert.Equal(t, "SUCCESS", entry.Status)
	})

	t.Run("rejects an unknown status value", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/auth/logout",
			map[string]interface{}{"status": "bogus"}, accessToken)
		assert.NoError(t, err)
		testutils.AssertStatus(t, resp, 400, "Invalid status value")
	})
}

// End-to-end: register, verify, then log in with the same credentials.
func TestRegisterVerifyLoginFlow(t *testing.T) {
	env := testutils.SetupTestEnv(t)

	resp, err := testutils.MakeRequest(env.App, "POST", "/auth/register", map[string]interface{}{
		"email":     "flow@example.com",
		"password":  "Secret123!",
		"firstName": "Flo",
	}, "")
	assert.NoError(t, err)
	testutils.AssertStatus(t, resp, 201, "User registered successfully")

	var u models.User
	assert.NoError(t, env.DB.Where("email = ?", "flow@example.com").First(&u).Error)
	var vt models.EmailVerificationToken
	assert.NoError(t, env.DB.Where("user_id = ?", u.ID).First(&vt).Error)

	resp, err = testutils.MakeRequest(env.App, "POST", "/auth/verify-email",
		map[string]interface{}{"token": vt.Token}, "")
	assert.NoError(t, err)
	testutils.AssertStatus(t, resp, 200, "Email verified successfully")

	resp, err = testutils.MakeRequest(env.App, "POST", "/auth/login", map[string]interface{}{
		"email":    "flow@example.com",
		"password": "Secret123!",
	}, "")
	assert.NoError(t, err)
	result := testutils.AssertStatus(t, resp, 200, "Login successful")
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}
