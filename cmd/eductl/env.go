package main

import (
	"net/http"
	"time"

	config "github.com/anjiri1684/eduplatform/configs"
	"github.com/anjiri1684/eduplatform/database"
	"github.com/anjiri1684/eduplatform/payments"
	"gorm.io/gorm"
)

// env is what the commands need from the outside world; tests swap it.
type env struct {
	openDB   func(cfg *config.AppConfig) (*gorm.DB, error)
	gateways func(cfg *config.AppConfig) *payments.Registry
}

func defaultEnv() *env {
	return &env{
		openDB: func(cfg *config.AppConfig) (*gorm.DB, error) {
			return database.ConnectDB(cfg.DatabaseURL)
		},
		gateways: func(cfg *config.AppConfig) *payments.Registry {
			gws := []payments.Gateway{payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, nil)}
			if cfg.PayPalClientID != "" && cfg.PayPalClientSecret != "" {
				gws = append(gws, payments.NewPayPalGateway(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalClientSecret, &http.Client{Timeout: 30 * time.Second}))
			}
			return payments.NewRegistry(gws...)
		},
	}
}

func (e *env) connect() (*config.AppConfig, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := e.openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
