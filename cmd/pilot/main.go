package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/khoahotran/portfolio-pilot/adapters/auth_provider"
	"github.com/khoahotran/portfolio-pilot/adapters/cli"
	"github.com/khoahotran/portfolio-pilot/adapters/clipboard"
	"github.com/khoahotran/portfolio-pilot/adapters/event"
	"github.com/khoahotran/portfolio-pilot/adapters/media_storage"
	"github.com/khoahotran/portfolio-pilot/adapters/network"
	"github.com/khoahotran/portfolio-pilot/adapters/persistence"
	"github.com/khoahotran/portfolio-pilot/internal/application/app"
	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/notify"
	authUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
	"github.com/khoahotran/portfolio-pilot/pkg/tracing"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("FATAL: cannot load config: %v", err)
		return 1
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.NewTracerProvider(cfg, appLogger, "portfolio-pilot-cli")
	if err != nil {
		appLogger.Error("Cannot init tracing", err)
		return 1
	}
	defer shutdownTracing(context.Background())

	// Infrastructure
	stores, err := persistence.OpenStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Cannot open stores", err)
		return 1
	}
	defer stores.Close(context.Background())

	blobs, err := media_storage.NewBlobStore(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize blob store", err)
		return 1
	}

	events, closeEvents := event.NewEventPublisher(cfg, appLogger)
	defer closeEvents()

	sessions, closeSessions := persistence.OpenSessionStore(ctx, cfg, appLogger)
	defer closeSessions()

	gw := gateway.New(stores.Documents, blobs, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Auth provider
	provider := auth_provider.NewProvider(
		authUC.NewSignUpUseCase(stores.Users, gw, jwtSvc, events, appLogger),
		authUC.NewSignInUseCase(stores.Users, jwtSvc, events, appLogger),
		authUC.NewResumeUseCase(stores.Users, jwtSvc),
		sessions,
		events,
		auth_provider.Config{DeviceID: cfg.Client.DeviceID, TokenTTL: cfg.Auth.TokenLifespan},
		appLogger,
	)
	provider.Restore(ctx)

	// Application
	emitter := notify.NewEmitter(cfg.Client.NotificationTTL, appLogger)
	rt := cli.NewRuntime(os.Stdin, os.Stdout, emitter)
	defer rt.Close()

	rt.App = app.New(ctx, app.Deps{
		Provider:      provider,
		Gateway:       gw,
		Emitter:       emitter,
		Connectivity:  network.NewProbe(cfg.Client.ConnectivityProbe, cfg.Client.ProbeTimeout, appLogger),
		Clipboard:     clipboard.System{},
		Events:        events,
		Logger:        appLogger,
		PublicBaseURL: cfg.App.PublicBaseURL,
		Confirm:       rt.Confirm,
		Fragment:      os.Getenv("PILOT_FRAGMENT"),
	})
	defer rt.App.Close()

	if err := cli.Execute(ctx, rt, os.Args[1:]); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
