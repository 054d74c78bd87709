package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Kardex-api/internal/application/alerting"
	appstock "github.com/jhoicas/Kardex-api/internal/application/stock"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/cache"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Options{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché de catálogo: L1 en memoria siempre; L2 Redis solo si está configurado.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, el caché de catálogo queda solo en memoria")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	movementRepo := postgres.NewStockMovementRepository(pool)
	recordRepo := postgres.NewStockRecordRepository(pool)
	alertRepo := postgres.NewStockAlertRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	var itemRepo repository.ItemMasterRepository = cache.NewItemMasterCache(
		postgres.NewItemMasterRepository(pool),
		redisClient,
		time.Duration(cfg.Redis.CatalogTTLMins)*time.Minute,
		log,
	)
	txRunner := postgres.NewTxRunner(pool)

	engine := alerting.NewEngine(cfg.Alerts.ExpiryWarningDays, cfg.Alerts.ExpiryCriticalDays)

	hub := httpRouter.NewAlertHub(log)
	go hub.Run()

	movementUC := appstock.NewMovementUseCase(txRunner, itemRepo, locationRepo, engine, hub)
	queryUC := appstock.NewQueryUseCase(recordRepo, movementRepo, itemRepo)
	reconcileUC := appstock.NewReconcileUseCase(movementRepo, recordRepo)
	alertUC := alerting.NewAlertUseCase(alertRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Stock:  httpRouter.NewStockHandler(movementUC, queryUC, reconcileUC),
		Alerts: httpRouter.NewAlertHandler(alertUC),
		Hub:    hub,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
