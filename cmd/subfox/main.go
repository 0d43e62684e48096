package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ManuelReschke/SubFox/app/repository"
	"github.com/ManuelReschke/SubFox/internal/pkg/bootstrap"
	"github.com/ManuelReschke/SubFox/internal/pkg/cache"
	"github.com/ManuelReschke/SubFox/internal/pkg/constants"
	"github.com/ManuelReschke/SubFox/internal/pkg/database"
	"github.com/ManuelReschke/SubFox/internal/pkg/env"
	"github.com/ManuelReschke/SubFox/internal/pkg/oauth"
	"github.com/ManuelReschke/SubFox/internal/pkg/router"
	"github.com/ManuelReschke/SubFox/internal/pkg/session"
	"github.com/ManuelReschke/SubFox/views"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.SetupEnvFile()
	cfg, err := env.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app, err := NewApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("Shutdown failed: %v", err)
		}
	}()

	if err := app.Listen(cfg.ListenAddr()); err != nil {
		log.Fatal(err)
	}
}

func NewApplication(ctx context.Context, cfg env.Config) (*fiber.App, error) {
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.IsDev() {
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	rdb := cache.NewClient(ctx, cfg.Cache)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := bootstrap.BillingService(ctx, cfg, db, rdb, reg)
	if err != nil {
		return nil, err
	}

	oauth.Setup(cfg)

	app := fiber.New(fiber.Config{
		Views:   views.Engine(),
		AppName: "SubFox",
	})

	// recovery, request ids and logging
	app.Use(
		recover.New(),
		requestid.New(requestid.Config{Generator: uuid.NewString}),
		logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}),
	)

	// SWAGGER / OPENAPI
	if docs, ok := findDocs(); ok {
		app.Use(swagger.New(swagger.Config{
			BasePath: constants.DocsRoute,
			FilePath: docs,
			Path:     "v1",
		}))
	} else {
		log.Warn("OpenAPI document not found, /docs/api disabled")
	}

	// ROUTER
	router.InstallRouter(app, router.Deps{
		Config:   cfg,
		Billing:  svc,
		Repos:    repository.NewFactory(db).GetRepositories(),
		Sessions: session.NewSessionStore(cfg.Cache, !cfg.IsDev()),
		Gatherer: reg,
	})

	return app, nil
}

// findDocs locates the OpenAPI document from the project root or cmd/subfox.
func findDocs() (string, bool) {
	for _, base := range []string{"./", "../../", "../../../"} {
		path := base + "public/docs/v1/openapi.yml"
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
