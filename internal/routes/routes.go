package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cedarbank/cedar_bank/internal/account"
	"github.com/cedarbank/cedar_bank/internal/config"
	"github.com/cedarbank/cedar_bank/internal/directory"
	"github.com/cedarbank/cedar_bank/internal/middleware"
	"github.com/cedarbank/cedar_bank/internal/session"
	"github.com/cedarbank/cedar_bank/internal/store"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// are nil unless the corresponding backend is configured.
type Deps struct {
	Cfg    config.Config
	Store  store.Store
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	scheme := secretScheme(d.Cfg)
	dir := directory.New(d.Store, scheme, d.Cfg.OpeningBalance)
	sessions := session.NewService(d.Store, scheme)

	dirHandler := directory.NewHandler(dir)
	sessHandler := session.NewHandler(sessions)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterAccountRoutes(api, dirHandler, sessHandler, middleware.ManagerAuth(d.Cfg.ManagerUser, d.Cfg.ManagerSecret))

	return nil
}

func secretScheme(cfg config.Config) account.SecretScheme {
	if cfg.SecretScheme == config.SchemeBcrypt {
		return account.BcryptScheme{}
	}
	return account.PlainScheme{}
}
