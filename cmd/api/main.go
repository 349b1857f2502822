package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Rentabilidad-api/internal/application/auth"
	apppnl "github.com/jhoicas/Rentabilidad-api/internal/application/pnl"
	"github.com/jhoicas/Rentabilidad-api/internal/application/settings"
	appsync "github.com/jhoicas/Rentabilidad-api/internal/application/sync"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	infrapdf "github.com/jhoicas/Rentabilidad-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/rediscache"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/woo"
	httpRouter "github.com/jhoicas/Rentabilidad-api/internal/interfaces/http"
	"github.com/jhoicas/Rentabilidad-api/pkg/config"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("preparar esquema")
	}

	store := postgres.NewCollectionStore(pool)
	productRepo := postgres.NewProductCollection(store)
	variationRepo := postgres.NewVariationCollection(store)
	orderRepo := postgres.NewOrderCollection(store)
	inventoryRepo := postgres.NewInventoryCollection(store)
	overheadRepo := postgres.NewOverheadCollection(store)
	expenseRepo := postgres.NewExpenseCollection(store)
	markerRepo := postgres.NewMarkerCollection(store)
	userRepo := postgres.NewUserRepository(pool)

	// Zona de reporte: todos los límites de fechas y timestamps de pedidos
	// se interpretan en ella.
	loc := entity.ReportingZone(cfg.Woo.TZOffsetHours)

	// Sesión remota: con credenciales por env no vence; configuradas por
	// API vencen tras el TTL.
	session := woo.NewSession(
		cfg.Woo.BaseURL,
		cfg.Woo.ConsumerKey,
		cfg.Woo.ConsumerSecret,
		time.Duration(cfg.Woo.SessionTTLMin)*time.Minute,
	)
	fetcher := woo.NewFetcher(session, cfg.Woo.TZOffsetHours, cfg.Woo.ChunkDays, log)

	// Caché de reportes: Redis si está configurado; si no, noop.
	var reportCache apppnl.ReportCache = apppnl.NoopReportCache{}
	if cfg.Redis.Addr != "" {
		rc, err := rediscache.New(
			ctx,
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.ReportTTLMin)*time.Minute,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, reportes sin caché")
		} else {
			defer rc.Close()
			reportCache = rc
		}
	}

	orchestrator := appsync.NewOrchestrator(
		fetcher,
		productRepo, variationRepo, orderRepo, inventoryRepo,
		markerRepo, reportCache, log,
	)
	reportUC := apppnl.NewReportUseCase(
		orderRepo, inventoryRepo, overheadRepo, expenseRepo, reportCache, loc, log,
	)
	settingsUC := settings.NewUseCase(overheadRepo, expenseRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	pdfGenerator := infrapdf.NewMarotoPnLGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Rentabilidad API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ReportUC:     reportUC,
		SettingsUC:   settingsUC,
		Orchestrator: orchestrator,
		PDF:          pdfGenerator,
		Credentials:  session,
		Location:     loc,
		JWTSecret:    cfg.JWT.Secret,
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
