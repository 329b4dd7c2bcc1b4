package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Auth (shared secret of the external identity provider)
	AuthJWTSecret string

	// Uploads
	StorageBackend string // "local" or "s3"
	UploadsDir     string

	// Storage (S3-compatible, only used when STORAGE_BACKEND=s3)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string

	// Payments
	PaymentWebhookSecret string

	// CORS
	AllowedOrigin string

	// Observability (optional)
	SentryDSN string
}

// Production uploads live on a fixed path so redeploys don't lose audio.
const productionUploadsDir = "/var/lib/storytime/uploads"

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	appEnv := envString("APP_ENV", "development")

	uploadsDefault := "./uploads"
	if appEnv == "production" {
		uploadsDefault = productionUploadsDir
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "Storytime"),
		AppEnv:  appEnv,
		Port:    envString("PORT", "3001"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/storytime.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		AuthJWTSecret: envRequired("AUTH_JWT_SECRET"),

		StorageBackend: envString("STORAGE_BACKEND", "local"),
		UploadsDir:     envString("UPLOADS_DIR", uploadsDefault),

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),

		PaymentWebhookSecret: envString("PAYMENT_WEBHOOK_SECRET", ""),

		AllowedOrigin: envString("ALLOWED_ORIGIN", "http://localhost:5173"),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures required services are configured for production
// deployments. Development allows fallback modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.StorageBackend == "s3" && (cfg.S3Bucket == "" || cfg.S3Region == "") {
		slog.Error("production S3 storage requires S3_BUCKET and S3_REGION",
			"hint", "set STORAGE_BACKEND=local to store uploads on disk")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
