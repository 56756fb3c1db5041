package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// In production the environment variables are set directly.
	if err := godotenv.Load(); err != nil {
		// A missing .env file is not an error.
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - the application cannot function without these.
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - warn but don't fail.
	if os.Getenv("SMTP_HOST") == "" || os.Getenv("SMTP_PORT") == "" || os.Getenv("SMTP_FROM") == "" {
		logrus.Warn("SMTP not fully configured - order notification emails will not be sent")
	}
	if os.Getenv("ADMIN_NOTIFY_EMAIL") == "" {
		logrus.Warn("ADMIN_NOTIFY_EMAIL not set - admin copies of order emails will not be sent")
	}
	if os.Getenv("AMQP_URL") == "" {
		logrus.Info("AMQP_URL not set - order events will not be published")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		logrus.Warn("FRONTEND_URL not set - CORS may not work correctly")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
