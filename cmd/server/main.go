package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice-backend/internal/auth"
	"invoice-backend/internal/cache"
	"invoice-backend/internal/config"
	"invoice-backend/internal/db"
	"invoice-backend/internal/database"
	"invoice-backend/internal/handlers"
	"invoice-backend/internal/health"
	httpRouter "invoice-backend/internal/http"
	"invoice-backend/internal/mailer"
	"invoice-backend/internal/middleware"
	"invoice-backend/internal/payments"
	"invoice-backend/internal/render"
	"invoice-backend/internal/repositories"
	"invoice-backend/internal/services"
	"invoice-backend/internal/storage"
	"invoice-backend/internal/timeutil"
	"invoice-backend/migrations"
	"invoice-backend/pkg/logging"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the config file")
	port := flag.Int("port", 0, "Server port (overrides config)")
	hashPassword := flag.String("hash-password", "", "Print the bcrypt hash of a password for admin.password_hash and exit")
	totpAccount := flag.String("totp-secret", "", "Generate a TOTP secret for the given account and exit")
	flag.Parse()

	logging.Setup()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			fatal("Failed to hash password", err)
		}
		fmt.Println(hash)
		return
	}
	if *totpAccount != "" {
		key, err := auth.GenerateTOTP(*totpAccount)
		if err != nil {
			fatal("Failed to generate TOTP secret", err)
		}
		fmt.Println("secret:", key.Secret())
		fmt.Println("url:   ", key.URL())
		return
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fatal("Failed to load config", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := timeutil.SetLocation(cfg.Timezone); err != nil {
		fatal("Invalid timezone", err)
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		fatal("Failed to connect to database", err)
	}
	defer pool.Close()
	slog.Info("Connected to database", "host", cfg.Database.Host, "name", cfg.Database.Name)

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.NewMigrator(pool, migrations.FS).RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		fatal("Failed to run migrations", err)
	}

	// Optional: without Redis every statistics request redraws the plot
	if err := cache.Init(cfg); err != nil {
		slog.Warn("Redis cache unavailable", "addr", cfg.Redis.Addr, "error", err)
	} else if cache.GetClient() != nil {
		slog.Info("Redis cache connected", "addr", cfg.Redis.Addr)
	}
	defer cache.Close()

	store, err := newArtifactStore(ctx, cfg)
	if err != nil {
		fatal("Failed to configure artifact storage", err)
	}

	// Repositories
	personRepo := repositories.NewPersonRepository(pool)
	itemRepo := repositories.NewItemRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)

	// Services
	personService := services.NewPersonService(personRepo)
	itemService := services.NewItemService(itemRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, itemRepo, store, nil, nil, render.Biller{
		Name:    cfg.Biller.Name,
		Address: cfg.Biller.Address,
		Email:   cfg.Biller.Email,
		Bank:    cfg.Biller.Bank,
	})

	if cfg.SMTP.Host != "" {
		sender, err := mailer.NewSMTPSender(cfg)
		if err != nil {
			fatal("Failed to configure SMTP", err)
		}
		invoiceService.Mailer = mailer.New(sender)
		slog.Info("Email delivery enabled", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
	} else {
		slog.Warn("SMTP not configured, invoice emails are disabled")
	}

	if rp := payments.NewRazorpay(cfg); rp != nil {
		invoiceService.Payments = rp
		slog.Info("Online payments enabled", "currency", cfg.Payments.Currency)
	}

	// Auth
	var (
		authHandler    *handlers.AuthHandler
		authMiddleware *middleware.AuthMiddleware
	)
	if cfg.AuthEnabled() {
		jwtManager := auth.NewJWTManager(cfg)
		authHandler = handlers.NewAuthHandler(services.NewAuthService(cfg, jwtManager))
		authMiddleware = middleware.NewAuthMiddleware(jwtManager)
		slog.Info("Admin authentication enabled", "username", cfg.Admin.Username, "totp", cfg.Admin.TOTPSecret != "")
	} else {
		slog.Warn("admin.password_hash not set, the API accepts unauthenticated writes")
	}

	var cacheUp func() bool
	if cache.GetClient() != nil {
		cacheUp = cache.IsHealthy
	}
	healthChecker := health.NewHealthChecker(pool, cacheUp, cfg.Storage.Dir)

	router := httpRouter.NewRouter(
		handlers.NewPersonHandler(personService),
		handlers.NewItemHandler(itemService),
		handlers.NewInvoiceHandler(invoiceService),
		authHandler,
		handlers.NewHealthHandler(healthChecker),
		authMiddleware,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter.Wrap(router, middleware.NewCORS(cfg)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fatal("Server failed", err)
		}
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}

// newArtifactStore keeps artifacts on local disk and mirrors them to S3 when a bucket is set.
func newArtifactStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	local := storage.NewFileStore(cfg.Storage.Dir)
	if cfg.Storage.S3.Bucket == "" {
		return local, nil
	}

	remote, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("Mirroring artifacts to S3", "bucket", cfg.Storage.S3.Bucket, "endpoint", cfg.Storage.S3.Endpoint)
	return &storage.Mirrored{Primary: local, Mirror: remote}, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
