package models

import "time"

// EmailVerificationToken holds the 6-digit OTP mailed out at registration.
// Rows are deleted when consumed; expired rows are swept hourly from main.
type EmailVerificationToken struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"not null;index"`
	Token     string    `gorm:"unique;not null;size:10"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// PasswordResetToken is the same shape scoped to password reset. Multiple
// live tokens per user are allowed; each is single-use.
type PasswordResetToken struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"not null;index"`
	Token     string    `gorm:"unique;not null;size:10"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}
