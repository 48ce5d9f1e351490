package auth

import "errors"

// Sentinel errors for the credential lifecycle. Handlers map these onto the
// response envelope; anything else is treated as an internal error and never
// leaks to the client.
var (
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid login credentials")
	ErrAccountDeactivated    = errors.New("account is deactivated")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInvalidOrExpiredOtp   = errors.New("invalid or expired OTP")
	ErrEmailInUse            = errors.New("email is already in use")
	ErrPhoneInUse            = errors.New("phone number is already in use")
	ErrEmailDeliveryFailed   = errors.New("failed to send email")
)
