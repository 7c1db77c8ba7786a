package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/infoscreen/infoscreen/internal/config"
	"github.com/infoscreen/infoscreen/internal/db/dsn"
	"github.com/infoscreen/infoscreen/internal/db/models"
)

func sqliteConfig(t *testing.T) config.DB {
	t.Helper()

	cfg := config.Default().DB
	cfg.URL = filepath.Join(t.TempDir(), "infoscreen.db")

	return cfg
}

func openGorm(t *testing.T, cfg config.DB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(cfg.URL), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestLatest(t *testing.T) {
	for _, driver := range []string{config.DriverSQLite, config.DriverPostgres, config.DriverMySQL} {
		t.Run(driver, func(t *testing.T) {
			v, err := Latest(driver)
			require.NoError(t, err)
			assert.Equal(t, uint(1), v)
		})
	}

	_, err := Latest(config.DriverMemory)
	require.Error(t, err)
}

func TestUpSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	v, dirty, err := Version(ctx, cfg)
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, dirty)

	require.NoError(t, Up(ctx, cfg))
	// a second run has nothing to do
	require.NoError(t, Up(ctx, cfg))

	latest, err := Latest(cfg.Driver)
	require.NoError(t, err)

	v, dirty, err = Version(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, latest, v)
	assert.False(t, dirty)

	db := openGorm(t, cfg)
	require.NoError(t, Verify(db))

	// the schema accepts what the store writes and enforces the interval bound
	require.NoError(t, db.Create(&models.Settings{ID: "a", SlideInterval: 1000}).Error)
	require.Error(t, db.Create(&models.Settings{ID: "b", SlideInterval: 999}).Error)
}

func TestVerifyWithoutSchema(t *testing.T) {
	db := openGorm(t, sqliteConfig(t))

	require.ErrorIs(t, Verify(db), ErrSettingsTableMissing)
}

func TestUpUnsupportedDriver(t *testing.T) {
	cfg := config.DB{Driver: config.DriverMemory}

	require.ErrorIs(t, Up(context.Background(), cfg), dsn.ErrNoDSN)
}
