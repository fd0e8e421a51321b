package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creatorlink/backend/internal/config"
	"github.com/creatorlink/backend/internal/db"
	"github.com/creatorlink/backend/internal/events"
	apphttp "github.com/creatorlink/backend/internal/http"
	"github.com/creatorlink/backend/internal/http/handlers"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/creatorlink/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	rdb, err := db.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	ledgerRepo := repositories.NewLedgerRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	collabRepo := repositories.NewCollabRepo(pool)
	payoutRepo := repositories.NewPayoutRepo(pool)
	notifRepo := repositories.NewNotificationRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	ledgerSvc := services.NewLedgerService(ledgerRepo, log)
	notifSvc := services.NewNotificationService(notifRepo, publisher, log)
	campaignSvc := services.NewCampaignService(campaignRepo, collabRepo, auditRepo, publisher, log)
	collabSvc := services.NewCollabService(collabRepo, campaignRepo, ledgerRepo, userRepo, auditRepo, notifSvc, publisher, log)
	notifSvc.BindResolver(collabSvc)
	payoutSvc := services.NewPayoutService(payoutRepo, ledgerRepo, auditRepo, notifSvc, publisher, log)
	checkoutSvc := services.NewCheckoutService(cfg.PlatformFeeBPS, cfg.GSTBPS)

	// Realtime hub
	hub := handlers.NewWSHub(log)
	if err := hub.Run(ctx, subscriber); err != nil {
		log.Fatal("ws hub subscribe failed", zap.Error(err))
	}

	app := apphttp.NewRouter(cfg, rdb, apphttp.Handlers{
		Campaigns:     handlers.NewCampaignHandler(campaignSvc, log),
		Collabs:       handlers.NewCollabHandler(collabSvc, log),
		Earnings:      handlers.NewEarningsHandler(ledgerSvc, payoutSvc, log),
		Notifications: handlers.NewNotificationHandler(notifSvc, log),
		Checkout:      handlers.NewCheckoutHandler(checkoutSvc, log),
		Users:         handlers.NewUserHandler(userRepo, ledgerSvc, log),
		Hub:           hub,
	}, log)

	go func() {
		if err := app.Listen(":" + cfg.APIPort); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("api listening", zap.String("port", cfg.APIPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
