package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio-pilot/adapters/http"
	"github.com/khoahotran/portfolio-pilot/adapters/media_storage"
	"github.com/khoahotran/portfolio-pilot/adapters/persistence"
	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	authUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/auth"
	backupUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/backup"
	portfolioUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/portfolio"
	profileUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/profile"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
	"github.com/khoahotran/portfolio-pilot/pkg/tracing"
)

const serviceName = "portfolio-pilot-api"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start Portfolio Pilot API Server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.NewTracerProvider(cfg, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Infrastructure
	stores, err := persistence.OpenStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open stores", err, zap.String("driver", cfg.DB.Driver))
	}
	defer stores.Close(context.Background())

	blobs, err := media_storage.NewBlobStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize blob store", err)
	}

	events, closeEvents := event.NewEventPublisher(cfg, appLogger)
	defer closeEvents()

	gw := gateway.New(stores.Documents, blobs, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	signUpUseCase := authUC.NewSignUpUseCase(stores.Users, gw, jwtSvc, events, appLogger)
	signInUseCase := authUC.NewSignInUseCase(stores.Users, jwtSvc, events, appLogger)
	getProfileUseCase := profileUC.NewGetProfileUseCase(gw)
	updateProfileUseCase := profileUC.NewUpdateProfileUseCase(gw, events)
	listItemsUseCase := portfolioUC.NewListItemsUseCase(gw)
	getItemUseCase := portfolioUC.NewGetItemUseCase(gw)
	saveItemUseCase := portfolioUC.NewSaveItemUseCase(gw, events, appLogger)
	deleteItemUseCase := portfolioUC.NewDeleteItemUseCase(gw, events, appLogger)
	exportUseCase := backupUC.NewExportUseCase(gw, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:   httpAdapter.NewAuthHandler(signUpUseCase, signInUseCase),
		Public: httpAdapter.NewPublicHandler(gw, appLogger),
		Portfolio: httpAdapter.NewPortfolioHandler(
			getProfileUseCase,
			updateProfileUseCase,
			listItemsUseCase,
			getItemUseCase,
			saveItemUseCase,
			deleteItemUseCase,
			cfg.App.PublicBaseURL,
			appLogger,
		),
		Export: httpAdapter.NewExportHandler(exportUseCase),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(serviceName, handlers, jwtSvc, httpAdapter.NewMetrics(), appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("db_driver", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
