// Package factory constructs configured backing stores.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yumelog/yumelog/internal/config"
	"github.com/yumelog/yumelog/internal/store"
	"github.com/yumelog/yumelog/internal/store/postgres"
	"github.com/yumelog/yumelog/internal/store/sqlite"
)

// NewStore opens the configured store driver and applies pending migrations.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("sqlite store ready")
		return sqlite.NewWithDB(db), nil
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("postgres store ready")
		return postgres.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}
