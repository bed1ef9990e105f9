package dictionary

import (
	"context"
	"fmt"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
)

// Open loads the dictionary named by the configuration.
func Open(ctx context.Context, cfg config.DictionaryConfig) (*Dictionary, error) {
	switch cfg.Source {
	case "", "builtin":
		return Builtin(), nil
	case "yaml", "json":
		return LoadFile(cfg.Path)
	case "sqlite":
		return loadSQL(ctx, DialectSQLite, cfg.Path, cfg.Table)
	case "postgres":
		return loadSQL(ctx, DialectPostgres, cfg.DSN, cfg.Table)
	default:
		return nil, fmt.Errorf("unknown dictionary source %q", cfg.Source)
	}
}

func loadSQL(ctx context.Context, dialect Dialect, dsn, table string) (*Dictionary, error) {
	db, err := OpenDB(dialect, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	src, err := NewSQLSource(db, dialect, table)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx)
}
