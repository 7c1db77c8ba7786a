package setting

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/infoscreen/infoscreen/internal/db/models"
	"github.com/infoscreen/infoscreen/internal/settings"
)

// setupTestDB creates a file backed SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.db")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Settings{})
	require.NoError(t, err, "failed to migrate test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, rows []models.Settings) {
	t.Helper()
	for _, row := range rows {
		err := db.Create(&row).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		seedData      []models.Settings
		expectedError error
		expected      models.Settings
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			expectedError: ErrDBNil,
		},
		{
			name:          "empty table",
			dbParam:       db,
			expectedError: ErrSettingsNotFound,
		},
		{
			name:     "successful get",
			dbParam:  db,
			seedData: []models.Settings{{ID: "abc", DarkMode: true, SlideInterval: 4000}},
			expected: models.Settings{ID: "abc", DarkMode: true, SlideInterval: 4000},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			got, err := Get(ctx, tc.dbParam)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tc.expected, *got)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		input         models.Settings
		seedData      []models.Settings
		expectedError error
		expected      models.Settings
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			input:         models.DefaultSettings("a"),
			expectedError: ErrDBNil,
		},
		{
			name:          "empty id",
			dbParam:       db,
			input:         models.DefaultSettings(""),
			expectedError: ErrSettingsIDEmpty,
		},
		{
			name:     "creates on empty table",
			dbParam:  db,
			input:    models.DefaultSettings("a"),
			expected: models.DefaultSettings("a"),
		},
		{
			name:     "keeps existing record",
			dbParam:  db,
			input:    models.DefaultSettings("b"),
			seedData: []models.Settings{{ID: "existing", DarkMode: true, SlideInterval: 2000}},
			expected: models.Settings{ID: "existing", DarkMode: true, SlideInterval: 2000},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			got, err := Create(ctx, tc.dbParam, tc.input)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, *got)

			n, err := Count(ctx, tc.dbParam)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestReplace(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		input         models.Settings
		seedData      []models.Settings
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			input:         models.DefaultSettings("a"),
			expectedError: ErrDBNil,
		},
		{
			name:          "empty id",
			dbParam:       db,
			input:         models.Settings{SlideInterval: 2000},
			expectedError: ErrSettingsIDEmpty,
		},
		{
			name:    "inserts into empty table",
			dbParam: db,
			input:   models.Settings{ID: "a", DarkMode: true, SlideInterval: 1000},
		},
		{
			name:     "overwrites same id",
			dbParam:  db,
			input:    models.Settings{ID: "a", DarkMode: false, SlideInterval: 9000},
			seedData: []models.Settings{models.DefaultSettings("a")},
		},
		{
			name:     "replaces record with another id",
			dbParam:  db,
			input:    models.Settings{ID: "b", DarkMode: true, SlideInterval: 1500},
			seedData: []models.Settings{models.DefaultSettings("a")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			err := Replace(ctx, tc.dbParam, tc.input)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)

			n, err := Count(ctx, tc.dbParam)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n, "table must hold exactly one row")

			got, err := Get(ctx, tc.dbParam)
			require.NoError(t, err)
			assert.Equal(t, tc.input, *got)
		})
	}
}

func TestRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, settings.ErrNotFound)

	created, err := repo.Create(ctx, models.DefaultSettings("first"))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings("first"), created)

	v := models.Settings{ID: "first", DarkMode: true, SlideInterval: 1000}
	require.NoError(t, repo.Save(ctx, v))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("nil database is a connection error", func(t *testing.T) {
		repo := NewRepository(nil)

		_, err := repo.Load(ctx)
		require.ErrorIs(t, err, settings.ErrConnection)
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("closed pool is a connection error", func(t *testing.T) {
		db := setupTestDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		repo := NewRepository(db)

		_, err = repo.Load(ctx)
		require.ErrorIs(t, err, settings.ErrConnection)

		err = repo.Save(ctx, models.DefaultSettings("x"))
		require.ErrorIs(t, err, settings.ErrConnection)
	})

	t.Run("missing table is a database error", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.Migrator().DropTable(&models.Settings{}))

		repo := NewRepository(db)

		_, err := repo.Load(ctx)
		require.ErrorIs(t, err, settings.ErrDatabase)

		_, err = repo.Create(ctx, models.DefaultSettings("x"))
		require.ErrorIs(t, err, settings.ErrDatabase)

		err = repo.Save(ctx, models.DefaultSettings("x"))
		require.ErrorIs(t, err, settings.ErrDatabase)
	})
}

func TestStoreOverDatabase(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := settings.New(NewRepository(db))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.DarkMode)
	assert.Equal(t, models.DefaultSlideInterval, got.SlideInterval)

	stored, err := Get(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, got, *stored)

	v := models.Settings{ID: "adopted", DarkMode: true, SlideInterval: 1000}
	require.NoError(t, store.Set(ctx, v))

	stored, err = Get(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, v, *stored)

	n, err := Count(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
