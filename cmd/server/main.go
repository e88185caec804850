package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/tbn01-acc/lifefocus-sub002/internal/cache"
	"github.com/tbn01-acc/lifefocus-sub002/internal/config"
	"github.com/tbn01-acc/lifefocus-sub002/internal/handler"
	"github.com/tbn01-acc/lifefocus-sub002/internal/middleware"
	"github.com/tbn01-acc/lifefocus-sub002/internal/repository"
	"github.com/tbn01-acc/lifefocus-sub002/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := newLogger(cfg.App.LogLevel)

	// Connect to database
	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	// Leaderboard read cache; the app works without it
	lbCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, config.LeaderboardCacheTTL)
	if err := lbCache.Ping(context.Background()); err != nil {
		log.Warnf("Redis unavailable, leaderboard cache disabled: %v", err)
		lbCache = nil
	} else {
		defer lbCache.Close()
	}

	// Create services
	activationEngine := service.NewActivationEngine(repo, log)
	activitySvc := service.NewActivityService(repo, activationEngine, log)
	referralSvc := service.NewReferralService(repo)
	walletSvc := service.NewWalletService(repo)
	aggregator := service.NewAggregator(repo, log)

	// Create handlers
	h := handler.New(cfg, repo, activitySvc, referralSvc, walletSvc, aggregator, lbCache)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	app.Get("/health", h.Health)

	// Teardown beacon (no auth header; token travels in the body)
	app.Post("/api/activity/beacon", h.BeaconActivity)

	// API routes with token authentication
	api := app.Group("/api", middleware.APIAuth(repo))

	// Activity
	api.Post("/activity/flush", h.FlushActivity)
	api.Get("/activity/recent", h.GetRecentActivity)

	// Referrals
	api.Get("/referral/stats", h.GetReferralStats)
	api.Get("/referral/link", h.GetReferralLink)
	api.Post("/referral/apply", h.ApplyReferralCode)
	api.Get("/referral/users", h.GetReferredUsers)
	api.Get("/referral/earnings", h.GetReferralEarnings)
	api.Get("/referral/commission", h.GetCommissionPreview)

	// Wallet
	api.Get("/wallet", h.GetWallet)
	api.Get("/wallet/transactions", h.GetWalletTransactions)
	api.Post("/wallet/withdrawals", h.CreateWithdrawal)
	api.Get("/wallet/withdrawals", h.GetWithdrawals)

	// Leaderboard
	api.Get("/leaderboard", h.GetLeaderboard)

	// Admin panel routes (token auth + admin check before any data access)
	admin := app.Group("/api/admin", middleware.APIAuth(repo), middleware.AdminAuth())
	admin.Post("/leaderboard/rebuild", h.RebuildLeaderboard)
	admin.Get("/withdrawals", h.ListPendingWithdrawals)
	admin.Post("/withdrawals/:withdrawal_id/complete", h.CompleteWithdrawal)
	admin.Post("/withdrawals/:withdrawal_id/reject", h.RejectWithdrawal)
	admin.Post("/referrals/:user_id/commission", h.CreditCommission)
	admin.Get("/settings/min-withdrawal", h.GetMinWithdrawal)
	admin.Post("/settings/min-withdrawal", h.SetMinWithdrawal)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runAggregationWorker(ctx, aggregator, log)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	log.Infof("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runAggregationWorker periodically rebuilds the leaderboard aggregates.
// The admin endpoint triggers the same job on demand.
func runAggregationWorker(ctx context.Context, aggregator *service.Aggregator, log *logrus.Logger) {
	ticker := time.NewTicker(config.AggregationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := aggregator.Run(ctx); err != nil {
				log.Errorf("Error rebuilding leaderboard: %v", err)
			}
		}
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
