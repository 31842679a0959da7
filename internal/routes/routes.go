package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/promohub/promohub/internal/allocation"
	"github.com/promohub/promohub/internal/auth"
	"github.com/promohub/promohub/internal/commission"
	"github.com/promohub/promohub/internal/config"
	"github.com/promohub/promohub/internal/ledger"
	"github.com/promohub/promohub/internal/middleware"
	"github.com/promohub/promohub/internal/notification"
	"github.com/promohub/promohub/internal/pinrequest"
	"github.com/promohub/promohub/internal/promoter"
	"github.com/promohub/promohub/internal/session"
	"github.com/promohub/promohub/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside of dev both stores must be present, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Stores fall back to in-memory implementations in dev without Postgres.
	var (
		ledgerStore    ledger.Store
		requestStore   pinrequest.Store
		commissionRepo commission.Repository
		walletRepo     wallet.Repository
		promoterRepo   promoter.Repository
	)
	if d.DB != nil {
		ledgerStore = ledger.NewPostgresStore(d.DB)
		requestStore = pinrequest.NewPostgresStore(d.DB)
		commissionRepo = commission.NewPostgresRepository(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
		promoterRepo = promoter.NewPostgresRepository(d.DB)
	} else {
		ledgerStore = ledger.NewInMemory()
		requestStore = pinrequest.NewInMemory(ledgerStore)
		commissionRepo = commission.NewMemoryRepository()
		walletRepo = wallet.NewMemoryRepository(commissionRepo)
		promoterRepo = promoter.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	profileCache := session.NewProfileCache(d.Cache, d.Cfg.ProfileCacheTTL)
	tokens := auth.NewTokenManager(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL)

	commissionSvc := commission.NewService(commissionRepo)
	requestSvc := pinrequest.NewService(requestStore, notifier)
	allocationSvc := allocation.NewService(ledgerStore)
	walletSvc := wallet.NewService(walletRepo, commissionSvc, notifier)
	promoterSvc := promoter.NewService(promoterRepo, profileCache)

	ledgerHandler := ledger.NewHandler(ledgerStore)
	requestHandler := pinrequest.NewHandler(requestSvc)
	allocationHandler := allocation.NewHandler(allocationSvc)
	commissionHandler := commission.NewHandler(commissionSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	promoterHandler := promoter.NewHandler(promoterSvc, tokens, profileCache)

	api := app.Group("/api/v1")

	// Public routes.
	RegisterAuthRoutes(api, promoterHandler, middleware.SubmitRateLimit(d.Cache, 5))

	// Authenticated routes.
	authed := api.Group("", middleware.Authenticate(tokens, profileCache, promoterRepo))
	authed.Post("/auth/logout", promoterHandler.Logout)
	authed.Get("/me", promoterHandler.Me)

	submitLimit := middleware.SubmitRateLimit(d.Cache, d.Cfg.SubmitPerMinute)
	var guards []fiber.Handler
	if d.Cache != nil {
		guards = append(guards, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterPinRoutes(authed, ledgerHandler, requestHandler, allocationHandler, submitLimit, guards)
	RegisterCommissionRoutes(authed, commissionHandler)
	RegisterWalletRoutes(authed, walletHandler, submitLimit, guards)
	RegisterAdminRoutes(authed, requestHandler, allocationHandler, commissionHandler, walletHandler, promoterHandler, guards)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
