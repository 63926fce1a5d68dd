package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/config"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/database"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/handlers"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/jobs"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/middleware"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/services"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/storage"
	"github.com/OsatohanmwenT/estate-prop-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Estate Property API
// @version 1.0
// @description REST API for multi-tenant property management and rent billing

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, store, cfg)

	scheduleJobs(worker, svcs, cfg)

	h := handlers.NewHandlers(svcs, store)

	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.GET("/organization", h.Organization.Show)
			protected.PATCH("/organization", h.Organization.Update)

			owners := protected.Group("/owners")
			{
				owners.GET("", h.Owner.Index)
				owners.POST("", h.Owner.Create)
				owners.GET("/:id", h.Owner.Show)
				owners.PATCH("/:id", h.Owner.Update)
				owners.DELETE("/:id", h.Owner.Destroy)
				owners.GET("/:id/revenue", h.Report.OwnerRevenue)
			}

			properties := protected.Group("/properties")
			{
				properties.GET("", h.Property.Index)
				properties.POST("", h.Property.Create)
				properties.GET("/:id", h.Property.Show)
				properties.PATCH("/:id", h.Property.Update)
				properties.DELETE("/:id", h.Property.Destroy)
			}

			units := protected.Group("/units")
			{
				units.GET("", h.Unit.Index)
				units.POST("", h.Unit.Create)
				units.GET("/:id", h.Unit.Show)
				units.PATCH("/:id", h.Unit.Update)
				units.DELETE("/:id", h.Unit.Destroy)
			}

			tenants := protected.Group("/tenants")
			{
				tenants.GET("", h.Tenant.Index)
				tenants.POST("", h.Tenant.Create)
				tenants.GET("/:id", h.Tenant.Show)
				tenants.PATCH("/:id", h.Tenant.Update)
				tenants.DELETE("/:id", h.Tenant.Destroy)
			}

			leases := protected.Group("/leases")
			{
				// Static route first so "stats" is not matched as :id
				leases.GET("/stats", h.Lease.Stats)
				leases.GET("", h.Lease.Index)
				leases.POST("", h.Lease.Create)
				leases.GET("/:id", h.Lease.Show)
				leases.POST("/:id/submit", h.Lease.Submit)
				leases.POST("/:id/renew", h.Lease.Renew)
				leases.PATCH("/:id/terminate", h.Lease.Terminate)
				leases.POST("/:id/invoices", h.Lease.GenerateInvoice)
				leases.POST("/:id/agreement", h.Lease.UploadAgreement)
				leases.GET("/:id/agreement", h.Lease.DownloadAgreement)
			}

			invoices := protected.Group("/invoices")
			{
				invoices.GET("/stats", h.Invoice.Stats)
				invoices.GET("", h.Invoice.Index)
				invoices.GET("/:id", h.Invoice.Show)
				invoices.PATCH("/:id", h.Invoice.Update)
				invoices.DELETE("/:id", h.Invoice.Destroy)
				invoices.PATCH("/:id/payment", h.Invoice.RecordPayment)
				invoices.POST("/:id/void", h.Invoice.Void)
				invoices.GET("/:id/transactions", h.Invoice.Transactions)
			}

			transactions := protected.Group("/transactions")
			{
				transactions.GET("/:id", h.Transaction.Show)
				transactions.GET("/:id/receipt", h.Transaction.Receipt)
			}

			reports := protected.Group("/reports")
			{
				reports.GET("/revenue_csv", h.Report.RevenueCSV)
				reports.GET("/revenue_xlsx", h.Report.RevenueXLSX)
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.PATCH("/:id/read", h.Notification.MarkRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Overdue scan: reminders for unpaid invoices past due
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue invoices...")
		_, err := svcs.Payment.CheckOverdueInvoices(ctx, time.Now())
		return err
	})

	// Expiry scan: retire active leases past their end date
	worker.ScheduleEveryImmediate(6*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Expiring ended leases...")
		_, err := svcs.Lease.ExpireLeases(ctx, time.Now())
		return err
	})

	// Recurring rent invoices, if enabled
	if cfg.AutoGenerateInvoices {
		worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
			logger.Info("[Job] Generating upcoming rent invoices...")
			_, err := svcs.Invoice.GenerateDueInvoices(ctx, time.Now(), 7)
			return err
		})
	}

	logger.Info("Scheduled recurring jobs")
}
