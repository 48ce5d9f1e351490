package token

import (
	"errors"
	"time"

	"github.com/qualiworth/hike-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrRefreshTokenExpired = errors.New("refresh token has expired")
	ErrInvalidRefreshToken = errors.New("invalid or malformed refresh token")
	ErrInvalidAccessToken  = errors.New("invalid or expired access token")
)

// Issuer signs and verifies the stateless access and refresh tokens. It holds
// no persisted state; the two secrets come from configuration.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
}

func NewIssuer(accessSecret, refreshSecret string) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

// IssueAccessTokenForPasswordLogin carries id + role and lives one day.
// The OTP path below uses a different claim shape and lifetime; both are
// long-standing call-site contracts and are deliberately kept apart.
func (i *Issuer) IssueAccessTokenForPasswordLogin(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":   u.ID,
		"role": u.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
}

// IssueAccessTokenForOtpLogin carries id + email + isActive and lives 23 hours.
// Also issued on refresh.
func (i *Issuer) IssueAccessTokenForOtpLogin(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":       u.ID,
		"email":    u.Email,
		"isActive": u.IsActive,
		"exp":      time.Now().Add(23 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
}

func (i *Issuer) IssueRefreshToken(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    u.ID,
		"email": u.Email,
		"exp":   time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
}

// VerifyRefreshToken checks signature and expiry against the refresh secret
// and returns the embedded user id. Expiry is reported distinctly from every
// other verification failure.
func (i *Issuer) VerifyRefreshToken(tokenStr string) (uint, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidRefreshToken
		}
		return i.refreshSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrRefreshTokenExpired
		}
		return 0, ErrInvalidRefreshToken
	}

	id, ok := claimedID(parsed)
	if !ok {
		return 0, ErrInvalidRefreshToken
	}
	return id, nil
}

// ParseAccessToken returns the user id from a valid access token. Both claim
// shapes carry "id", so the middleware does not care which path issued it.
func (i *Issuer) ParseAccessToken(tokenStr string) (uint, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAccessToken
		}
		return i.accessSecret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidAccessToken
	}

	id, ok := claimedID(parsed)
	if !ok {
		return 0, ErrInvalidAccessToken
	}
	return id, nil
}

func claimedID(t *jwt.Token) (uint, bool) {
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	raw, ok := claims["id"].(float64)
	if !ok || raw <= 0 {
		return 0, false
	}
	return uint(raw), true
}
