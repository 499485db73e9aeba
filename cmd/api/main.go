package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/chemlabel/backend/internal/api/handlers"
	"github.com/chemlabel/backend/internal/compound"
	"github.com/chemlabel/backend/internal/export"
	"github.com/chemlabel/backend/internal/label"
	"github.com/chemlabel/backend/internal/metrics"
	"github.com/chemlabel/backend/internal/middleware/ratelimit"
	"github.com/chemlabel/backend/internal/middleware/security"
	"github.com/chemlabel/backend/internal/pubchem"
	"github.com/chemlabel/backend/pkg/config"
	appLogger "github.com/chemlabel/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting GHS label API server")

	metrics.Init()

	pubchemClient := pubchem.NewClient(cfg.PubChem)
	compoundService := compound.NewService(pubchemClient)

	sessionStore := label.NewStore(
		time.Duration(cfg.Sessions.TTLMinutes)*time.Minute,
		time.Duration(cfg.Sessions.SweepMinutes)*time.Minute,
	)
	defer sessionStore.Stop()

	imageLoader := export.NewImageLoader(
		time.Duration(cfg.Export.ImageTimeoutSec)*time.Second,
		time.Duration(cfg.Export.ImageCacheTTL)*time.Minute,
		cfg.Export.PictogramSizePX,
	)
	rasterizer := export.NewRasterizer(imageLoader, cfg.Export.PictogramSizePX)
	exporter := export.NewExporter(rasterizer, cfg.Export)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(cfg.RateLimit.MaxRequestsPerMinute)
		defer limiter.Stop()
		app.Use(limiter.Middleware())
	}

	compoundHandler := handlers.NewCompoundHandler(compoundService)
	labelHandler := handlers.NewLabelHandler(sessionStore, compoundService, exporter)
	siteHandler := handlers.NewSiteHandler(cfg.Site)

	api := app.Group("/api")

	api.Get("/pubchem", compoundHandler.HandleLookup)
	api.Get("/site", siteHandler.GetSite)

	sessions := api.Group("/label/sessions")
	sessions.Post("/", labelHandler.CreateSession)
	sessions.Get("/:id", labelHandler.GetSession)
	sessions.Post("/:id/submit", labelHandler.Submit)
	sessions.Post("/:id/fields/:field", labelHandler.SetField)
	sessions.Post("/:id/fields/:field/toggle", labelHandler.ToggleField)
	sessions.Get("/:id/view", labelHandler.View)
	sessions.Get("/:id/export/pdf", labelHandler.ExportPDF)
	sessions.Get("/:id/export/jpeg", labelHandler.ExportJPEG)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
