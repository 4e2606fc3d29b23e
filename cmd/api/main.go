package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/eduplatform/configs"
	"github.com/anjiri1684/eduplatform/database"
	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/anjiri1684/eduplatform/jobs"
	"github.com/anjiri1684/eduplatform/notifications"
	"github.com/anjiri1684/eduplatform/payments"
	"github.com/anjiri1684/eduplatform/routes"
	"github.com/anjiri1684/eduplatform/services"
	"github.com/anjiri1684/eduplatform/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("🔥 %v", err)
	}
}

// run returns instead of exiting so deferred cleanup happens on every path.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stripeGateway := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, nil)
	gateways := []payments.Gateway{stripeGateway}
	if cfg.PayPalClientID != "" && cfg.PayPalClientSecret != "" {
		gateways = append(gateways, payments.NewPayPalGateway(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalClientSecret, &http.Client{Timeout: 30 * time.Second}))
		log.Println("✅ PayPal gateway enabled")
	}
	registry := payments.NewRegistry(gateways...)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	paymentService := services.NewPaymentService(db, registry)
	paymentService.OnStatusChange(hub.PaymentListener())

	if mailer, err := notifications.NewBrevoService(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName); err != nil {
		log.Printf("Warning: payment emails disabled: %v", err)
	} else {
		paymentService.OnStatusChange(services.NewPaymentMailer(db, mailer))
	}

	h := &handlers.Handler{
		Payments:      paymentService,
		BankTransfers: services.NewBankTransferService(db, paymentService),
		Webhooks:      services.NewWebhookService(db, stripeGateway, paymentService),
		Courses:       services.NewCourseService(db),
		Hub:           hub,
		JWTSecret:     cfg.JWTSecret,
	}

	var archiver services.Archiver
	if cfg.CloudinaryURL != "" {
		store, err := services.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudinary: %w", err)
		}
		archiver = store
		h.Uploads = store
		log.Println("✅ Cloudinary storage initialized")
	}
	// A configured bucket takes over invoice archiving; receipts stay on Cloudinary.
	if cfg.S3Bucket != "" {
		store, err := services.NewS3Store(ctx, services.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		archiver = store
		log.Println("✅ S3 invoice archive initialized")
	}
	h.Invoices = services.NewInvoiceService(db, services.NewChromeRenderer(), cfg.InvoiceStoragePath, archiver)

	var locker jobs.Locker
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis unreachable at %s: %v", cfg.RedisAddr, err)
		}
		locker = jobs.NewRedisLocker(rdb)
		log.Println("✅ Redis job lock enabled")
	}

	c := cron.New()
	if _, err := jobs.ScheduleReconciliation(c, cfg.ReconcileSchedule, paymentService, cfg.ReconcileAfter, locker); err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}
	c.Start()
	defer c.Stop()
	log.Println("✅ Cron job for payment reconciliation scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "EduPlatform Payments",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Stripe-Signature, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Africa/Nairobi",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.Register(app, h)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("🔥 Shutdown error: %v", err)
		}
	}()

	log.Printf("✅ Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}
