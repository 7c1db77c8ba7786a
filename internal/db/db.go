// Package db opens the gorm connection pool for the configured driver.
package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/infoscreen/infoscreen/internal/config"
	"github.com/infoscreen/infoscreen/internal/db/dsn"
	gormadapter "github.com/infoscreen/infoscreen/internal/logger/adapter/gorm"
)

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	source, err := dsn.Create(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return gormsqlite.Open(source), nil
	case config.DriverPostgres:
		return gormpostgres.Open(source), nil
	case config.DriverMySQL:
		return gormmysql.Open(source), nil
	default:
		return nil, errors.Wrapf(dsn.ErrUnknownDriver, "%q", cfg.Driver)
	}
}

// Open connects to the database, sizes the pool and checks the connection.
// verbose logs every statement.
func Open(ctx context.Context, cfg config.DB, verbose bool) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	var l gormlogger.Interface = gormadapter.New(cfg.SlowThreshold)
	if verbose {
		l = l.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: l})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database pool")
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	log.Info().Str("driver", cfg.Driver).Int("max_open_conns", cfg.MaxOpenConns).Msg("database connected")

	return db, nil
}

// Close closes the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database pool")
	}

	return errors.Wrap(sqlDB.Close(), "failed to close database")
}
