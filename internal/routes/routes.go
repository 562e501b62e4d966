package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/themessagevault/vault-backend/internal/config"
	"github.com/themessagevault/vault-backend/internal/handlers"
	"github.com/themessagevault/vault-backend/internal/middleware"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Moderation *handlers.ModerationHandler
	Messages   *handlers.MessageHandler
	Candles    *handlers.CandleHandler
	Supporters *handlers.SupporterHandler
	Stats      *handlers.StatsHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Submissions: 10 req/min per IP (stricter, each may call Perspective)
	submit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	api.Get("/health", h.Health.Check)
	api.Get("/options", h.Stats.Options)
	api.Get("/stats", h.Stats.Get)

	api.Post("/moderation/check", submit, h.Moderation.Check)

	messages := api.Group("/messages")
	messages.Post("/", submit, h.Messages.Leave)
	messages.Get("/random", h.Messages.Random)
	messages.Post("/:id/heart", h.Messages.Heart)
	messages.Post("/:id/report", h.Messages.Report)

	candles := api.Group("/candles")
	candles.Get("/", h.Candles.List)
	candles.Post("/", submit, h.Candles.Light)
	candles.Post("/:id/light", h.Candles.SendLight)
	candles.Post("/:id/messages", submit, h.Candles.SendMessage)

	supporters := api.Group("/supporters")
	supporters.Get("/", h.Supporters.List)
	supporters.Post("/", submit, h.Supporters.Add)

	// Admin moderation panel (admin token or admin JWT)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg))
	admin.Get("/messages/reported", h.Messages.ListReported)
	admin.Put("/messages/:id", h.Messages.Resolve)
}
