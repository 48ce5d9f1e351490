package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret        string
	JWTRefreshSecret string

	EmailHost     string
	EmailPort     string
	EmailUser     string
	EmailPass     string
	EmailFromName string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	FrontendURL string
	CountryCode string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "hike"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),

		EmailHost:     getEnv("EMAIL_HOST", ""),
		EmailPort:     getEnv("EMAIL_PORT", "587"),
		EmailUser:     getEnv("EMAIL_USER", ""),
		EmailPass:     getEnv("EMAIL_PASS", ""),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Qualiworth Hike"),

		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		CountryCode: getEnv("COUNTRY_CODE", "256"),
	}

	log.Println("✅ Config loaded")
	return cfg
}

// ValidateSecrets enforces the signing-key requirements at startup. Both the
// access and refresh secrets must be present and at least 32 characters.
func (c *Config) ValidateSecrets() error {
	for name, secret := range map[string]string{
		"JWT_SECRET":         c.JWTSecret,
		"JWT_REFRESH_SECRET": c.JWTRefreshSecret,
	} {
		if secret == "" {
			return fmt.Errorf("%s environment variable is required", name)
		}
		if len(secret) < 32 {
			return fmt.Errorf("%s must be at least 32 characters long (current: %d)", name, len(secret))
		}
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
