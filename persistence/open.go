package persistence

import (
	"context"
	"fmt"

	"github.com/wfunc/blackjack/config"
)

// Open connects the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Database, error) {
	var (
		db  Database
		err error
	)
	pg := cfg.Postgres
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemory(), nil
	case config.DriverPostgres:
		var s *PostgreSQL
		s, err = NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
		db = s
	case config.DriverGormPostgres:
		var s *GormStore
		s, err = NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
		db = s
	case config.DriverSQLite:
		var s *GormStore
		s, err = NewGormSQLite(cfg.SQLite.Path)
		db = s
	case config.DriverRedis:
		var s *Redis
		s, err = NewRedis(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		db = s
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	return db, nil
}
