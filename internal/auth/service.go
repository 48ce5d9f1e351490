package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/qualiworth/hike-api/internal/models"
	"github.com/qualiworth/hike-api/internal/notify"
	"github.com/qualiworth/hike-api/internal/token"
	"github.com/qualiworth/hike-api/internal/utils"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	verificationTokenTTL = 5 * time.Minute
	loginOtpTTL          = 5 * time.Minute
	resetTokenTTL        = 30 * time.Minute
)

// Service orchestrates registration, login, OTP issuance and verification,
// token refresh, password reset, and profile updates. It is the only place
// with multi-step invariants; handlers just translate to and from HTTP.
type Service struct {
	db          *gorm.DB
	gateway     *notify.Gateway
	issuer      *token.Issuer
	countryCode string
	sanitizer   *bluemonday.Policy
}

func NewService(db *gorm.DB, gateway *notify.Gateway, issuer *token.Issuer, countryCode string) *Service {
	return &Service{
		db:          db,
		gateway:     gateway,
		issuer:      issuer,
		countryCode: countryCode,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// Register creates the user, mints an email-verification OTP and mails it.
// The two existence probes are a fast path only; the store's uniqueness
// constraints are the authoritative guard, and a constraint violation from a
// concurrent registration maps to the same ErrUserAlreadyExists. A failed
// verification email is logged but does not roll back the account.
func (s *Service) Register(email, password, firstName, lastName, role string, phone *string) (*models.User, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrUserAlreadyExists
	}
	if phone != nil {
		if err := s.db.Where("phone = ?", *phone).First(&existing).Error; err == nil {
			return nil, ErrUserAlreadyExists
		}
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := models.User{
		Email:         email,
		Password:      hashed,
		FirstName:     firstName,
		LastName:      lastName,
		Phone:         phone,
		Role:          strings.TrimSpace(role),
		IsActive:      true,
		EmailVerified: false,
	}
	if err := s.db.Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	otp, err := s.GenerateEmailVerificationToken(u.ID)
	if err != nil {
		return nil, err
	}

	if result := s.gateway.SendPlainOTPEmail(u.Email, otp, "email verification"); !result.Success {
		log.Printf("Failed to send verification email to %s: %v", u.Email, result.Err)
	}

	return &u, nil
}

// GenerateEmailVerificationToken mints a 6-digit OTP with a 5-minute expiry.
// Multiple live tokens per user may coexist; each is single-use.
func (s *Service) GenerateEmailVerificationToken(userID uint) (string, error) {
	otp := utils.GenerateOTP()
	t := models.EmailVerificationToken{
		UserID:    userID,
		Token:     otp,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}
	if err := s.db.Create(&t).Error; err != nil {
		return "", err
	}
	return otp, nil
}

// VerifyEmail consumes a verification token: the token value is the lookup
// key, the row is deleted after use.
func (s *Service) VerifyEmail(tokenValue string) (*models.User, error) {
	var t models.EmailVerificationToken
	if err := s.db.Where("token = ?", tokenValue).First(&t).Error; err != nil {
		return nil, ErrInvalidOrExpiredToken
	}
	if t.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidOrExpiredToken
	}

	var u models.User
	if err := s.db.First(&u, t.UserID).Error; err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	if err := s.db.Model(&u).Update("email_verified", true).Error; err != nil {
		return nil, err
	}
	s.db.Delete(&t)

	u.EmailVerified = true
	return &u, nil
}

// Login validates identifier (email or phone) + password. The credential
// failure is deliberately generic; the activity check only runs after the
// credentials match, so a deactivated account is distinguishable only to a
// caller who already holds valid credentials.
func (s *Service) Login(identifier, password string) (*models.User, string, string, error) {
	var u models.User
	if err := s.db.Where("email = ? OR phone = ?", identifier, identifier).First(&u).Error; err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, u.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, "", "", ErrAccountDeactivated
	}

	now := time.Now()
	if err := s.db.Model(&u).Update("last_login", now).Error; err != nil {
		return nil, "", "", err
	}
	u.LastLogin = &now

	s.WriteLog(u.ID, "LOGIN", "SUCCESS", "User logged in successfully")

	accessToken, err := s.issuer.IssueAccessTokenForPasswordLogin(&u)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := s.issuer.IssueRefreshToken(&u)
	if err != nil {
		return nil, "", "", err
	}

	return &u, accessToken, refreshToken, nil
}

// GenerateOtp stores a login OTP inline on the user row, independent of the
// email-verification token table.
func (s *Service) GenerateOtp(userID uint) (string, time.Time, error) {
	otp := utils.GenerateOTP()
	expiresAt := time.Now().Add(loginOtpTTL)

	err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"otp": otp, "otp_expires_at": expiresAt}).Error
	if err != nil {
		return "", time.Time{}, err
	}
	return otp, expiresAt, nil
}

// RequestLoginOtp locates the user by email or phone, mints a login OTP and
// delivers it best-effort. The OTP is also returned to the caller, matching
// the password-reset exposure contract.
func (s *Service) RequestLoginOtp(identifier string) (string, time.Time, error) {
	var u models.User
	if err := s.db.Where("email = ? OR phone = ?", identifier, identifier).First(&u).Error; err != nil {
		return "", time.Time{}, ErrUserNotFound
	}

	otp, expiresAt, err := s.GenerateOtp(u.ID)
	if err != nil {
		return "", time.Time{}, err
	}

	if result := s.gateway.SendPlainOTPEmail(u.Email, otp, "login"); !result.Success {
		log.Printf("Failed to send login OTP to %s: %v", u.Email, result.Err)
	}

	return otp, expiresAt, nil
}

// VerifyOtp checks the inline OTP and issues the token pair. The OTP is
// cleared on success regardless of anything else; it is single-use.
func (s *Service) VerifyOtp(userID uint, otp string) (*models.User, string, string, error) {
	var u models.User
	if err := s.db.First(&u, userID).Error; err != nil {
		return nil, "", "", ErrInvalidOrExpiredOtp
	}
	if u.Otp == nil || *u.Otp != otp || u.OtpExpiresAt == nil || u.OtpExpiresAt.Before(time.Now()) {
		return nil, "", "", ErrInvalidOrExpiredOtp
	}

	err := s.db.Model(&u).
		Updates(map[string]interface{}{"otp": nil, "otp_expires_at": nil}).Error
	if err != nil {
		return nil, "", "", err
	}

	accessToken, err := s.issuer.IssueAccessTokenForOtpLogin(&u)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := s.issuer.IssueRefreshToken(&u)
	if err != nil {
		return nil, "", "", err
	}

	return &u, accessToken, refreshToken, nil
}

// GenerateAccessToken issues a fresh access token for an already-known user
// id. Used by the refresh flow; the refresh token itself is not rotated.
func (s *Service) GenerateAccessToken(userID uint) (string, error) {
	var u models.User
	if err := s.db.First(&u, userID).Error; err != nil {
		return "", ErrUserNotFound
	}
	return s.issuer.IssueAccessTokenForOtpLogin(&u)
}

// RefreshAccessToken verifies the refresh token and issues a new access
// token only.
func (s *Service) RefreshAccessToken(refreshToken string) (string, error) {
	userID, err := s.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	return s.GenerateAccessToken(userID)
}

// ResetIssue is what a password-reset request returns to the caller. The raw
// OTP and its expiry (unix milliseconds) are exposed deliberately so the
// frontend can fall back to displaying the code; see DESIGN.md.
type ResetIssue struct {
	Message   string `json:"message"`
	Otp       string `json:"otp"`
	ExpiresAt int64  `json:"expiresAt"`
}

// RequestPasswordResetByEmail mints a reset OTP and mails it. Unlike
// registration, a delivery failure here is fatal: the caller asked for the
// email, so a silent failure would strand them.
func (s *Service) RequestPasswordResetByEmail(email string) (*ResetIssue, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, ErrUserNotFound
	}

	otp, expiresAt, err := s.createResetToken(u.ID)
	if err != nil {
		return nil, err
	}

	if result := s.gateway.SendPlainOTPEmail(u.Email, otp, "password reset"); !result.Success {
		log.Printf("Failed to send password reset email to %s: %v", u.Email, result.Err)
		return nil, ErrEmailDeliveryFailed
	}

	return &ResetIssue{
		Message:   "Password reset email sent",
		Otp:       otp,
		ExpiresAt: expiresAt.UnixMilli(),
	}, nil
}

// RequestPasswordResetByPhone resolves the user through the phone-candidate
// formats and mints a reset OTP. No SMS is actually sent on this path: the
// OTP is returned for the caller to relay, consistent with the email path's
// exposure contract.
func (s *Service) RequestPasswordResetByPhone(phone string) (*ResetIssue, error) {
	var u models.User
	found := false
	for _, candidate := range PhoneCandidates(strings.TrimSpace(phone), s.countryCode) {
		if err := s.db.Where("phone = ?", candidate).First(&u).Error; err == nil {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUserNotFound
	}

	otp, expiresAt, err := s.createResetToken(u.ID)
	if err != nil {
		return nil, err
	}

	return &ResetIssue{
		Message:   "Password reset OTP generated",
		Otp:       otp,
		ExpiresAt: expiresAt.UnixMilli(),
	}, nil
}

func (s *Service) createResetToken(userID uint) (string, time.Time, error) {
	otp := utils.GenerateOTP()
	expiresAt := time.Now().Add(resetTokenTTL)

	t := models.PasswordResetToken{
		UserID:    userID,
		Token:     otp,
		ExpiresAt: expiresAt,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return "", time.Time{}, err
	}
	return otp, expiresAt, nil
}

// ResetPassword consumes a reset token and overwrites the password. Tokens
// already issued to the user stay valid until their natural expiry; there is
// no session revocation list.
func (s *Service) ResetPassword(tokenValue, newPassword string) error {
	var t models.PasswordResetToken
	if err := s.db.Where("token = ?", tokenValue).First(&t).Error; err != nil {
		return ErrInvalidOrExpiredToken
	}
	if t.ExpiresAt.Before(time.Now()) {
		return ErrInvalidOrExpiredToken
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.db.Model(&models.User{}).Where("id = ?", t.UserID).
		Update("password", hashed).Error
	if err != nil {
		return err
	}

	s.db.Delete(&t)
	return nil
}

// UserPatch is an explicit partial update: a nil field was not provided and
// is left untouched. The password is never updatable through this path.
type UserPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Photo     *string `json:"photo"`
}

// UpdateUserDetails applies a profile patch. An email change re-checks
// uniqueness against all other users; free-text fields are stripped of HTML.
func (s *Service) UpdateUserDetails(userID uint, patch UserPatch) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if patch.Email != nil {
		var existing models.User
		if err := s.db.Where("email = ?", *patch.Email).First(&existing).Error; err == nil && existing.ID != userID {
			return nil, ErrEmailInUse
		}
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = s.sanitizer.Sanitize(*patch.FirstName)
	}
	if patch.LastName != nil {
		u.LastName = s.sanitizer.Sanitize(*patch.LastName)
	}
	if patch.Phone != nil {
		u.Phone = patch.Phone
	}
	if patch.Photo != nil {
		u.Photo = *patch.Photo
	}

	if err := s.db.Save(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return &u, nil
}

// AddUserParams is the reduced admin-creation surface. When Password is
// empty a random one is generated; the account still goes through email
// verification.
type AddUserParams struct {
	Email     string
	Phone     *string
	Role      string
	Password  string
	FirstName string
	LastName  string
}

// AddUser creates an account on behalf of an admin and returns the user and
// the email-verification token for the frontend to relay.
func (s *Service) AddUser(p AddUserParams) (*models.User, string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", p.Email).First(&existing).Error; err == nil {
		return nil, "", ErrEmailInUse
	}
	if p.Phone != nil {
		if err := s.db.Where("phone = ?", *p.Phone).First(&existing).Error; err == nil {
			return nil, "", ErrPhoneInUse
		}
	}

	password := p.Password
	if password == "" {
		password = utils.RandomPassword(12)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := models.User{
		Email:     p.Email,
		Phone:     p.Phone,
		Password:  hashed,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      strings.TrimSpace(p.Role),
		IsActive:  true,
	}
	if err := s.db.Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", err
	}

	verificationToken, err := s.GenerateEmailVerificationToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return &u, verificationToken, nil
}

// WriteLog records an audit entry best-effort. Failures never escalate.
func (s *Service) WriteLog(userID uint, action, status, description string) {
	entry := models.Log{
		UserID:      userID,
		Action:      action,
		Status:      status,
		Description: &description,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to create %s log for user %d: %v", action, userID, err)
	}
}

// FindUserByID is used by the profile endpoints and middleware.
func (s *Service) FindUserByID(userID uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// FindUserByIdentifier resolves a user by exact email or phone match.
func (s *Service) FindUserByIdentifier(identifier string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ? OR phone = ?", identifier, identifier).First(&u).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
