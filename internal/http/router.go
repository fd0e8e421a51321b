package http

import (
	"errors"

	"github.com/creatorlink/backend/internal/config"
	"github.com/creatorlink/backend/internal/http/handlers"
	"github.com/creatorlink/backend/internal/metrics"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/creatorlink/backend/internal/rbac"
	contribws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Campaigns     *handlers.CampaignHandler
	Collabs       *handlers.CollabHandler
	Earnings      *handlers.EarningsHandler
	Notifications *handlers.NotificationHandler
	Checkout      *handlers.CheckoutHandler
	Users         *handlers.UserHandler
	Hub           *handlers.WSHub
}

// NewRouter builds the fiber app with the full route surface.
func NewRouter(cfg *config.Config, rdb *redis.Client, h Handlers, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "creatorlink-api",
		ErrorHandler: fiberErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	app.Use(middleware.RateLimitMiddleware(rdb, cfg))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api/v1", middleware.AuthMiddleware(cfg, log))

	// Campaigns
	api.Get("/campaigns", h.Campaigns.List)
	api.Get("/campaigns/mine", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Mine)
	api.Post("/campaigns", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Create)
	api.Get("/campaigns/:id", h.Campaigns.Get)
	api.Put("/campaigns/:id", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Update)
	api.Delete("/campaigns/:id", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Delete)
	api.Post("/campaigns/:id/publish", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Publish)
	api.Post("/campaigns/:id/pause", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Pause)
	api.Post("/campaigns/:id/resume", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Resume)
	api.Post("/campaigns/:id/complete", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Complete)
	api.Post("/campaigns/:id/archive", middleware.RequirePermission(rbac.PermManageCampaign), h.Campaigns.Archive)

	// Collaborations
	api.Post("/campaigns/:id/invite", middleware.RequirePermission(rbac.PermInviteCreator), h.Collabs.Invite)
	api.Get("/collabs", h.Collabs.Mine)
	api.Post("/collabs/:id/accept", middleware.RequirePermission(rbac.PermResolveCollab), h.Collabs.Accept)
	api.Post("/collabs/:id/reject", middleware.RequirePermission(rbac.PermResolveCollab), h.Collabs.Reject)
	api.Post("/contracts/:id/complete", middleware.RequirePermission(rbac.PermManageCampaign), h.Collabs.Complete)
	api.Get("/me/contracts", h.Collabs.Contracts)

	// Earnings and payouts
	api.Get("/me/earnings", middleware.RequirePermission(rbac.PermViewEarnings), h.Earnings.Earnings)
	api.Get("/me/payouts", middleware.RequirePermission(rbac.PermRequestPayout), h.Earnings.ListPayouts)
	api.Post("/me/payouts", middleware.RequirePermission(rbac.PermRequestPayout), h.Earnings.RequestPayout)

	// Notifications
	api.Get("/me/notifications", h.Notifications.List)
	api.Post("/notifications/:id/dismiss", h.Notifications.Dismiss)
	api.Post("/notifications/:id/resolve", middleware.RequirePermission(rbac.PermResolveCollab), h.Notifications.Resolve)

	// Checkout
	api.Post("/checkout/quote", h.Checkout.Quote)

	// Profile
	api.Get("/me", h.Users.Me)

	// Admin
	admin := api.Group("/admin", middleware.AdminMiddleware())
	admin.Get("/payouts", h.Earnings.AdminListOpen)
	admin.Post("/payouts/:id/settle", h.Earnings.AdminSettle)
	admin.Post("/payouts/:id/reject", h.Earnings.AdminReject)
	admin.Get("/users/:id/reconcile", h.Users.Reconcile)

	// Realtime
	app.Use("/ws", middleware.AuthMiddleware(cfg, log), func(c *fiber.Ctx) error {
		if contribws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", contribws.New(h.Hub.Handler()))

	return app
}

func fiberErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code == fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(code).JSON(fiber.Map{"error": "internal error"})
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
