package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/khoahotran/portfolio-pilot/adapters/media_storage"
	"github.com/khoahotran/portfolio-pilot/adapters/persistence"
	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	authUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type seedOptions struct {
	email         string
	password      string
	resetProfile  bool
	runMigrations bool
	migrationsDir string
}

func main() {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Create or reset the owner account",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seed(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.email, "email", os.Getenv("OWNER_EMAIL"), "owner email")
	f.StringVar(&opts.password, "password", os.Getenv("OWNER_PASSWORD"), "owner password")
	f.BoolVar(&opts.resetProfile, "reset-profile", false, "overwrite the owner's profile with the default one")
	f.BoolVar(&opts.runMigrations, "migrate", false, "apply migrations before seeding (postgres only)")
	f.StringVar(&opts.migrationsDir, "migrations", "migrations", "migrations directory")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func seed(ctx context.Context, opts seedOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if opts.runMigrations {
		if err := applyMigrations(cfg, opts.migrationsDir); err != nil {
			return err
		}
		fmt.Println("migrations applied")
	}

	stores, err := persistence.OpenStores(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("cannot open stores: %w", err)
	}
	defer stores.Close(ctx)

	gw := gateway.New(stores.Documents, media_storage.NewMemoryBlobStore(""), appLogger)
	out, err := authUC.NewSeedOwnerUseCase(stores.Users, gw, appLogger).Execute(ctx, authUC.SeedOwnerInput{
		Email:        opts.email,
		Password:     opts.password,
		ResetProfile: opts.resetProfile,
	})
	if err != nil {
		return fmt.Errorf("cannot seed owner: %w", err)
	}

	action := "updated"
	if out.Created {
		action = "added"
	}
	fmt.Printf("%s owner '%s' (%s) successfully!\n", action, out.Identity.Email, out.Identity.ID)
	return nil
}

func applyMigrations(cfg config.Config, dir string) error {
	if cfg.DB.Driver != config.DriverPostgres {
		return fmt.Errorf("--migrate needs db.driver=%s, got %q", config.DriverPostgres, cfg.DB.Driver)
	}
	m, err := migrate.New("file://"+dir, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("cannot init migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("cannot apply migrations: %w", err)
	}
	return nil
}
