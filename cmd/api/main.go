package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carcatalog/internal/config"
	"carcatalog/internal/database"
	"carcatalog/internal/database/migration"
	handlers "carcatalog/internal/http/handler"
	"carcatalog/internal/http/middleware"
	"carcatalog/internal/otel"
	"carcatalog/internal/repository/postgres"
	"carcatalog/internal/service"
	"carcatalog/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Shared lazy PostgreSQL handle. Connect never fails on an unreachable
	// server; queries surface the error when they run.
	db, err := database.Shared(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Schema and seed init are best-effort: a down database at boot must
	// not keep the process from serving, so failures are logged and the
	// server starts anyway.
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := migration.EnsureSchema(initCtx, db, loc, cfg.Database.Host); err != nil {
		logBootError(loc, "schema_init_failed", err)
	} else if err := migration.SeedIfEmpty(initCtx, db, loc); err != nil {
		logBootError(loc, "seed_failed", err)
	}
	cancel()

	// Object storage is optional: without it the catalog runs, image
	// upload and presign just report storage unavailable.
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		logBootError(loc, "object_storage_unavailable", err)
		objStore = nil
	}

	carRepo := postgres.NewCarPostgres(db)
	authSvc := service.NewAuthService(service.DefaultUsers(cfg.Auth))
	catalogSvc := service.NewCatalogService(carRepo, objStore, authSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// RequestID adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON logger for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, catalogSvc, authSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func logBootError(loc *time.Location, msg string, err error) {
	entry := map[string]any{
		"ts":        time.Now().In(loc).Format(time.RFC3339Nano),
		"level":     "error",
		"component": "boot",
		"msg":       msg,
		"error":     err.Error(),
	}
	if b, jerr := json.Marshal(entry); jerr == nil {
		log.SetFlags(0)
		log.SetOutput(os.Stdout)
		log.Println(string(b))
	}
}
