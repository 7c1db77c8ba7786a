// Package migrations applies the embedded, forward-only schema migrations.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	migratesource "github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/infoscreen/infoscreen/internal/config"
	"github.com/infoscreen/infoscreen/internal/db/dsn"
	"github.com/infoscreen/infoscreen/internal/db/models"
	"github.com/infoscreen/infoscreen/internal/logger/adapter/stdlogger"
)

// MigrationsTable keeps the applied version.
const MigrationsTable = "schema_migrations"

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var migrationFiles embed.FS

var (
	// ErrDirty is returned if a previous migration failed halfway.
	ErrDirty = errors.New("migration is dirty, please fix it before proceeding")
	// ErrSettingsTableMissing is returned by Verify if the schema was never applied.
	ErrSettingsTableMissing = errors.New("settings table does not exist, run the migrations first")
)

// Up applies all pending migrations for the configured driver.
func Up(ctx context.Context, cfg config.DB) error {
	m, closeFn, err := newMigrate(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	_, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "failed to get current version")
	}

	if dirty {
		return ErrDirty
	}

	err = m.Up()

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug().Str("driver", cfg.Driver).Msg("database schema is up to date")
	case err != nil:
		return errors.Wrap(err, "migration failed")
	default:
		log.Info().Str("driver", cfg.Driver).Msg("database migrations applied")
	}

	return nil
}

// Version returns the applied version. A database without migrations reports 0.
func Version(ctx context.Context, cfg config.DB) (uint, bool, error) {
	m, closeFn, err := newMigrate(ctx, cfg)
	if err != nil {
		return 0, false, err
	}
	defer closeFn()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return v, dirty, errors.Wrap(err, "failed to get current version")
}

// Latest returns the highest version embedded for driver.
func Latest(driver string) (uint, error) {
	src, err := source(driver)
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()

	v, err := src.First()
	if err != nil {
		return 0, errors.Wrap(err, "no migrations embedded")
	}

	for {
		next, err := src.Next(v)
		if err != nil {
			return v, nil //nolint:nilerr
		}

		v = next
	}
}

// Verify checks that the settings table exists.
func Verify(db *gorm.DB) error {
	if !db.Migrator().HasTable(&models.Settings{}) {
		return ErrSettingsTableMissing
	}

	return nil
}

func source(driver string) (migratesource.Driver, error) {
	sub, err := fs.Sub(migrationFiles, driver)
	if err != nil {
		return nil, errors.Wrapf(err, "no migrations for driver %q", driver)
	}

	d, err := iofs.New(sub, ".")
	if err != nil {
		return nil, errors.Wrapf(err, "no migrations for driver %q", driver)
	}

	return d, nil
}

// newMigrate opens a dedicated connection for the migration run. closeFn releases it.
func newMigrate(ctx context.Context, cfg config.DB) (*migrate.Migrate, func(), error) {
	driverName, err := dsn.DriverName(cfg.Driver)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	dataSource, err := dsn.Create(cfg)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	src, err := source(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := sql.Open(driverName, dataSource)
	if err != nil {
		_ = src.Close()
		return nil, nil, errors.Wrap(err, "failed to open migration connection")
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = src.Close()
		_ = sqlDB.Close()

		return nil, nil, errors.Wrap(err, "failed to ping database")
	}

	dbDriver, err := databaseDriver(cfg.Driver, sqlDB)
	if err != nil {
		_ = src.Close()
		_ = sqlDB.Close()

		return nil, nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, dbDriver)
	if err != nil {
		_ = src.Close()
		_ = dbDriver.Close()

		return nil, nil, errors.Wrap(err, "failed to create migrate instance")
	}

	m.Log = stdlogger.New("migrate")

	closeFn := func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migration instance")
		}
	}

	return m, closeFn, nil
}

func databaseDriver(driver string, sqlDB *sql.DB) (database.Driver, error) {
	var (
		d   database.Driver
		err error
	)

	switch driver {
	case config.DriverSQLite:
		d, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{MigrationsTable: MigrationsTable})
	case config.DriverPostgres:
		d, err = migratepgx.WithInstance(sqlDB, &migratepgx.Config{MigrationsTable: MigrationsTable})
	case config.DriverMySQL:
		d, err = migratemysql.WithInstance(sqlDB, &migratemysql.Config{MigrationsTable: MigrationsTable})
	default:
		return nil, errors.Wrapf(dsn.ErrUnknownDriver, "%q", driver)
	}

	return d, errors.Wrapf(err, "failed to create %s migration driver", driver)
}
