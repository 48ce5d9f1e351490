package main

import (
	"log"
	"os"
	"time"

	"github.com/qualiworth/hike-api/internal/auth"
	"github.com/qualiworth/hike-api/internal/config"
	"github.com/qualiworth/hike-api/internal/database"
	"github.com/qualiworth/hike-api/internal/models"
	"github.com/qualiworth/hike-api/internal/notify"
	"github.com/qualiworth/hike-api/internal/server"
	"github.com/qualiworth/hike-api/internal/token"
	"github.com/qualiworth/hike-api/internal/user"

	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	if err := cfg.ValidateSecrets(); err != nil {
		log.Fatal("❌ JWT Configuration Error: ", err)
	}
	log.Println("✅ JWT secrets validated")

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}
	log.Println("✅ Database migrated successfully")

	// ========== NOTIFICATION GATEWAY ==========
	// Constructed once here and injected; unconfigured providers fall back
	// to log-only mocks that still report success.
	gateway := notify.NewGateway(notify.NewMailer(cfg), notify.NewSMSSender(cfg))

	// ========== SERVICES ==========
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret)
	svc := auth.NewService(db, gateway, issuer, cfg.CountryCode)

	var googleHandler *auth.GoogleHandler
	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		googleHandler = auth.NewGoogleHandler(svc, clientID,
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			os.Getenv("GOOGLE_REDIRECT_URL"))
		log.Println("✅ Google sign-in enabled")
	}

	// ========== BACKGROUND JOBS ==========
	go sweepExpiredTokens(db)

	// ========== START SERVER ==========
	app := server.New(server.Deps{
		DB:     db,
		Issuer: issuer,
		Auth:   auth.NewHandler(svc),
		Google: googleHandler,
		Users:  user.NewHandler(db, svc),
	})

	log.Printf("🚀 Hike API starting on %s", cfg.ServerAddr)
	log.Printf("🔐 JWT Authentication: Enabled")

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}

// sweepExpiredTokens cleans up verification and reset tokens hourly so the
// tables do not grow without bound. Expired rows are already rejected at
// verification time; this is purely operational hygiene.
func sweepExpiredTokens(db *gorm.DB) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		result := db.Where("expires_at < ?", time.Now()).Delete(&models.EmailVerificationToken{})
		if result.RowsAffected > 0 {
			log.Printf("🧹 Cleaned up %d expired verification tokens", result.RowsAffected)
		}

		result = db.Where("expires_at < ?", time.Now()).Delete(&models.PasswordResetToken{})
		if result.RowsAffected > 0 {
			log.Printf("🧹 Cleaned up %d expired reset tokens", result.RowsAffected)
		}
	}
}
