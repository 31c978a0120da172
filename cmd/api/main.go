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

	"github.com/laurent7850/The-event/internal/application/invoicing"
	"github.com/laurent7850/The-event/internal/application/registry"
	"github.com/laurent7850/The-event/internal/application/tracking"
	"github.com/laurent7850/The-event/internal/infrastructure/notify"
	infrapdf "github.com/laurent7850/The-event/internal/infrastructure/pdf"
	"github.com/laurent7850/The-event/internal/infrastructure/postgres"
	"github.com/laurent7850/The-event/internal/infrastructure/storage"
	httpRouter "github.com/laurent7850/The-event/internal/interfaces/http"
	"github.com/laurent7850/The-event/pkg/config"
	"github.com/laurent7850/The-event/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	entryRepo := postgres.NewWorkEntryRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// SMTP is optional; without it notifications are dropped.
	var (
		entryNotifier   tracking.Notifier
		invoiceNotifier invoicing.Notifier
	)
	if cfg.SMTP.Enabled() {
		mail := notify.NewMailNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.From, cfg.SMTP.AdminEmail,
			log,
		)
		entryNotifier = mail
		invoiceNotifier = mail
	} else {
		entryNotifier = notify.NoopNotifier{}
		invoiceNotifier = notify.NoopNotifier{}
	}

	renderer := infrapdf.NewMarotoRenderer(cfg.Billing.CompanyName)
	store := storage.NewLocalStore(cfg.Storage.BaseDir, cfg.Storage.BaseURL, log)

	workEntryUC := tracking.NewWorkEntryUseCase(entryRepo, clientRepo, projectRepo, entryNotifier, log)
	batchUC := invoicing.NewBatchUseCase(
		txRunner, entryRepo, clientRepo, projectRepo, invoiceRepo,
		renderer, store, invoiceNotifier, log,
	)
	renderUC := invoicing.NewRenderUseCase(
		entryRepo, clientRepo, projectRepo, invoiceRepo, renderer, store, log,
	)
	clientUC := registry.NewClientUseCase(clientRepo)
	projectUC := registry.NewProjectUseCase(projectRepo, clientRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestion Prestations API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	// Rendered invoice PDFs
	app.Static("/files", cfg.Storage.BaseDir)

	httpRouter.Router(app, httpRouter.RouterDeps{
		WorkEntryUC: workEntryUC,
		BatchUC:     batchUC,
		RenderUC:    renderUC,
		ClientUC:    clientUC,
		ProjectUC:   projectUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
