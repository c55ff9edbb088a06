package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/config"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/infrastructure/database"
	"github.com/sangkips/shopdesk-api/internal/infrastructure/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/handler"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/middleware"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/routes"
	"github.com/sangkips/shopdesk-api/pkg/cache"
	"github.com/sangkips/shopdesk-api/pkg/email"
	"github.com/sangkips/shopdesk-api/pkg/lock"
	"github.com/sangkips/shopdesk-api/pkg/logger"
	"github.com/sangkips/shopdesk-api/pkg/oauth"
	"github.com/sangkips/shopdesk-api/pkg/printer"
	"github.com/sangkips/shopdesk-api/pkg/storage"
	"github.com/sangkips/shopdesk-api/pkg/utils"
	"github.com/sangkips/shopdesk-api/pkg/validation"
	"github.com/sirupsen/logrus"
)

const janitorInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.App.LogLevel)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := validation.RegisterGinValidators(cfg.Billing.PhoneRegion); err != nil {
		log.WithError(err).Fatal("failed to register validators")
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, log, cfg.App.Debug)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	if err := database.SeedAdmin(db, cfg.Admin, log); err != nil {
		log.WithError(err).Warn("failed to seed admin user")
	}

	loc := cfg.App.TimeLocation()
	clock := func() time.Time { return time.Now().In(loc) }

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	// Redis backs the dashboard cache and payment locks; without it both
	// fall back to in-process implementations.
	appCache, locker, rdb := connectRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	shopRepo := repository.NewShopRepository(db)
	billRepo := repository.NewBillRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	caseRepo := repository.NewCriticalCaseRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	warningRepo := repository.NewWarningRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	store, err := storage.New(ctx, storage.Config{
		Provider:        cfg.Storage.Provider,
		LocalPath:       cfg.Storage.Path,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		Bucket:          cfg.Storage.GCSBucket,
		CredentialsJSON: cfg.Storage.GCSCredentialsJSON,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}

	emailService := email.NewService(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		AppName:      cfg.App.Name,
		ResetURL:     cfg.Email.ResetURL,
	})

	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
		StateSecret:        cfg.JWT.Secret,
	})

	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.WithError(err).Warn("failed to initialize printer, receipts will not be printed")
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager, googleOAuthService, emailService, log, clock)
	userService := service.NewUserService(userRepo)
	shopService := service.NewShopService(shopRepo, billRepo, store, log, cfg.Billing.PhoneRegion, cfg.Storage.UploadMaxSize)
	billService := service.NewBillService(billRepo, shopRepo, paymentRepo, appCache, log, cfg.Billing.DefaultCreditDays, clock)
	supplierService := service.NewSupplierService(supplierRepo, invoiceRepo, cfg.Billing.PhoneRegion)
	invoiceService := service.NewInvoiceService(invoiceRepo, supplierRepo, paymentRepo, appCache, log, clock)
	paymentService := service.NewPaymentService(paymentRepo, billRepo, invoiceRepo, locker, appCache, log, clock)
	caseService := service.NewCriticalCaseService(caseRepo, shopRepo, billRepo)
	ticketService := service.NewTicketService(ticketRepo, shopRepo, clock)
	warningService := service.NewWarningService(warningRepo, shopRepo, billRepo, emailService, log, clock)
	noteService := service.NewNoteService(noteRepo, shopRepo, billRepo)
	dashboardService := service.NewDashboardService(dashboardRepo, appCache, cfg.Redis.CacheTTL, log, clock)
	reportService := service.NewReportService(billRepo, invoiceRepo, paymentRepo, clock)
	printerService := service.NewPrinterService(thermalPrinter, billRepo, paymentRepo, log, cfg.Printer.ShopName, cfg.Printer.CharWidth, clock)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:           handler.NewAuthHandler(authService, googleOAuthService, log),
		User:           handler.NewUserHandler(userService),
		Location:       handler.NewLocationHandler(),
		Shop:           handler.NewShopHandler(shopService),
		Bill:           handler.NewBillHandler(billService, loc),
		BillPayment:    handler.NewPaymentHandler(paymentService, enum.DocumentBill, loc),
		Supplier:       handler.NewSupplierHandler(supplierService),
		Invoice:        handler.NewInvoiceHandler(invoiceService, loc),
		InvoicePayment: handler.NewPaymentHandler(paymentService, enum.DocumentInvoice, loc),
		CriticalCase:   handler.NewCriticalCaseHandler(caseService),
		Ticket:         handler.NewTicketHandler(ticketService),
		Warning:        handler.NewWarningHandler(warningService),
		Note:           handler.NewNoteHandler(noteService, loc),
		Dashboard:      handler.NewDashboardHandler(dashboardService),
		Report:         handler.NewReportHandler(reportService, clock),
		Printer:        handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.Duration) * time.Second,
	})
	rateLimiter.Start(ctx.Done())

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Log:             log,
	})

	go runJanitor(ctx, log, idempotencyRepo, passwordResetRepo, clock)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": port, "env": cfg.App.Env}).Infof("starting %s", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}

func connectRedis(ctx context.Context, cfg *config.Config, log *logrus.Logger) (cache.Cache, lock.Locker, *redis.Client) {
	if !cfg.Redis.Enabled() {
		log.Info("redis not configured, using in-process cache and locks")
		return cache.NewNoopCache(), lock.NewLocalLocker(), nil
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, using in-process cache and locks")
		return cache.NewNoopCache(), lock.NewLocalLocker(), nil
	}
	return cache.NewRedisCache(rdb, cfg.App.Name+":"), lock.NewRedisLocker(rdb), rdb
}

// runJanitor purges expired idempotency keys and reset tokens.
func runJanitor(ctx context.Context, log *logrus.Logger, idem domainRepo.IdempotencyRepository, resets domainRepo.PasswordResetTokenRepository, now service.Clock) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := idem.DeleteExpired(ctx); err != nil {
				log.WithError(err).Warn("failed to purge idempotency keys")
			} else if n > 0 {
				log.WithField("count", n).Debug("purged idempotency keys")
			}
			if err := resets.DeleteExpired(ctx, now()); err != nil {
				log.WithError(err).Warn("failed to purge reset tokens")
			}
		}
	}
}
