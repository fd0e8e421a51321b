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
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/creatorlink/backend/internal/services"
	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// The worker runs the background side of the marketplace: expiring
// active campaigns past their end date, and in auto payout mode,
// settling open payout requests through the settlement oracle.
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

	rdb, err := db.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}
	defer rdb.Close()

	ledgerRepo := repositories.NewLedgerRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	collabRepo := repositories.NewCollabRepo(pool)
	payoutRepo := repositories.NewPayoutRepo(pool)
	notifRepo := repositories.NewNotificationRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	publisher := events.NewRedisPublisher(rdb, log)

	notifSvc := services.NewNotificationService(notifRepo, publisher, log)
	campaignSvc := services.NewCampaignService(campaignRepo, collabRepo, auditRepo, publisher, log)
	payoutSvc := services.NewPayoutService(payoutRepo, ledgerRepo, auditRepo, notifSvc, publisher, log)
	oracle := services.NewSimulatedGateway(100*time.Millisecond, log)

	workers, err := ants.NewPool(cfg.SettlementWorkers)
	if err != nil {
		log.Fatal("worker pool create failed", zap.Error(err))
	}
	defer workers.Release()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal("scheduler create failed", zap.Error(err))
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.CampaignSweepInterval),
		gocron.NewTask(func() {
			n, err := campaignSvc.AutoCompleteExpired(ctx, time.Now(), 100)
			if err != nil {
				log.Error("campaign sweep failed", zap.Error(err))
				return
			}
			if n > 0 {
				log.Info("campaigns auto-completed", zap.Int("count", n))
			}
		}),
	)
	if err != nil {
		log.Fatal("campaign sweep job failed", zap.Error(err))
	}

	if cfg.PayoutMode == config.PayoutModeAuto {
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.SettlementPollInterval),
			gocron.NewTask(func() {
				settleOpenPayouts(ctx, payoutSvc, oracle, workers, log)
			}),
		)
		if err != nil {
			log.Fatal("settlement job failed", zap.Error(err))
		}
	}

	scheduler.Start()
	log.Info("worker started",
		zap.String("payout_mode", cfg.PayoutMode),
		zap.Duration("campaign_sweep", cfg.CampaignSweepInterval),
	)

	// Minimal health surface for orchestration probes.
	health := fiber.New(fiber.Config{AppName: "creatorlink-worker"})
	health.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	go func() {
		if err := health.Listen(":" + cfg.WorkerPort); err != nil {
			log.Fatal("health server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()
	if err := scheduler.Shutdown(); err != nil {
		log.Error("scheduler shutdown error", zap.Error(err))
	}
	_ = health.ShutdownWithTimeout(5 * time.Second)
}

// settleOpenPayouts fans the open payout backlog out over the worker
// pool. Each payout is driven independently; one failure never blocks
// the rest.
func settleOpenPayouts(ctx context.Context, payouts *services.PayoutService, oracle services.SettlementOracle, workers *ants.Pool, log *zap.Logger) {
	open, err := payouts.ListOpen(ctx, 100)
	if err != nil {
		log.Error("open payout list failed", zap.Error(err))
		return
	}
	for i := range open {
		p := open[i]
		err := workers.Submit(func() {
			ok, err := oracle.Settle(ctx, &p)
			if err != nil {
				log.Error("settlement oracle failed",
					zap.String("payout_id", p.ID.String()), zap.Error(err))
				return
			}
			if ok {
				if _, err := payouts.Settle(ctx, nil, "system", p.ID); err != nil {
					log.Error("payout settle failed",
						zap.String("payout_id", p.ID.String()), zap.Error(err))
				}
				return
			}
			if _, err := payouts.Reject(ctx, nil, "system", p.ID); err != nil {
				log.Error("payout reject failed",
					zap.String("payout_id", p.ID.String()), zap.Error(err))
			}
		})
		if err != nil {
			log.Warn("settlement submit failed",
				zap.String("payout_id", p.ID.String()), zap.Error(err))
		}
	}
}
