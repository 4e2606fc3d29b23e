package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

// Config returns the value of key after loading .env once.
func Config(key string) string {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})

	return strings.TrimSpace(os.Getenv(key))
}

type AppConfig struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	StripeSecretKey     string
	StripeWebhookSecret string

	PayPalBaseURL      string
	PayPalClientID     string
	PayPalClientSecret string

	InvoiceStoragePath string
	CloudinaryURL      string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	RedisAddr     string
	RedisPassword string

	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string

	ReconcileSchedule string
	ReconcileAfter    time.Duration
}

// Load reads the whole application configuration. The returned value is handed
// to constructors at startup; nothing reads gateway keys from the environment later.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:                withDefault(Config("PORT"), "8080"),
		DatabaseURL:         Config("DATABASE_URL"),
		JWTSecret:           Config("JWT_SECRET"),
		StripeSecretKey:     Config("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: Config("STRIPE_WEBHOOK_SECRET"),
		PayPalBaseURL:       withDefault(Config("PAYPAL_API_BASE_URL"), "https://api-m.sandbox.paypal.com"),
		PayPalClientID:      Config("PAYPAL_CLIENT_ID"),
		PayPalClientSecret:  Config("PAYPAL_CLIENT_SECRET"),
		InvoiceStoragePath:  withDefault(Config("INVOICE_STORAGE_PATH"), "storage/invoices"),
		CloudinaryURL:       Config("CLOUDINARY_URL"),
		S3Bucket:            Config("S3_BUCKET"),
		S3Region:            withDefault(Config("S3_REGION"), "auto"),
		S3Endpoint:          Config("S3_ENDPOINT"),
		S3AccessKeyID:       Config("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:   Config("S3_SECRET_ACCESS_KEY"),
		RedisAddr:           Config("REDIS_ADDR"),
		RedisPassword:       Config("REDIS_PASSWORD"),
		BrevoAPIKey:         Config("BREVO_API_KEY"),
		EmailSender:         Config("EMAIL_SENDER"),
		EmailSenderName:     Config("EMAIL_SENDER_NAME"),
		ReconcileSchedule:   withDefault(Config("RECONCILE_SCHEDULE"), "*/5 * * * *"),
		ReconcileAfter:      15 * time.Minute,
	}

	if v := Config("RECONCILE_AFTER"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RECONCILE_AFTER %q: %w", v, err)
		}
		cfg.ReconcileAfter = d
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
