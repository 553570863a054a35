package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

func NewPostgresPool(ctx context.Context, cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	log.Info("Connect PostgreSQL successfully.")
	return pool, nil
}

// Stores is the persistence selected by db.driver.
type Stores struct {
	Documents service.DocumentStore
	Users     identity.Repository
	Close     func(ctx context.Context) error
}

func OpenStores(ctx context.Context, cfg config.Config, log logger.Logger) (*Stores, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres, "":
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Documents: NewPostgresDocumentStore(pool, log),
			Users:     NewPostgresUserRepo(pool, log),
			Close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		db, err := NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := EnsureMongoIndexes(ctx, db); err != nil {
			_ = db.Client().Disconnect(ctx)
			return nil, fmt.Errorf("ensure mongo indexes failed: %w", err)
		}
		return &Stores{
			Documents: NewMongoDocumentStore(db, log),
			Users:     NewMongoUserRepo(db),
			Close:     db.Client().Disconnect,
		}, nil

	case config.DriverMemory:
		log.Warn("Using in-memory stores; data is lost on exit.")
		return &Stores{
			Documents: NewMemoryDocumentStore(),
			Users:     NewMemoryUserRepo(),
			Close:     func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
}

// OpenSessionStore uses Redis when it answers, and process memory otherwise.
func OpenSessionStore(ctx context.Context, cfg config.Config, log logger.Logger) (service.SessionStore, func() error) {
	if cfg.Redis.Addr == "" {
		return NewMemorySessionStore(), func() error { return nil }
	}
	rdb, err := NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn("Redis unavailable, sessions will not persist", zap.Error(err))
		return NewMemorySessionStore(), func() error { return nil }
	}
	return NewRedisSessionStore(rdb), rdb.Close
}
