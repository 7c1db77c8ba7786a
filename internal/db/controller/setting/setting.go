// Package setting provides database operations for the settings record.
package setting

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/infoscreen/infoscreen/internal/db/models"
	"github.com/infoscreen/infoscreen/internal/settings"
)

const (
	idNotEqualPattern = "id <> ?"
)

var (
	// ErrSettingsNotFound is returned when the settings table is empty.
	ErrSettingsNotFound = errors.New("settings not found")
	// ErrSettingsIDEmpty is returned when attempting to write a record with an empty id.
	ErrSettingsIDEmpty = errors.New("settings id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves the settings record.
func Get(ctx context.Context, db *gorm.DB) (*models.Settings, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.Settings
	result := db.WithContext(ctx).Order("id").First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// Create inserts v unless a settings record already exists, and returns the stored record.
func Create(ctx context.Context, db *gorm.DB, v models.Settings) (*models.Settings, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if v.ID == "" {
		return nil, ErrSettingsIDEmpty
	}

	var stored models.Settings
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Order("id").First(&stored)
		if result.Error == nil {
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		stored = v

		// a concurrent creator may have won the race on the same id
		result = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&stored)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return tx.Order("id").First(&stored).Error
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// Replace stores v as the only settings record. Rows with another id are removed
// and the row with v's id is inserted or overwritten.
func Replace(ctx context.Context, db *gorm.DB, v models.Settings) error {
	if db == nil {
		return ErrDBNil
	}
	if v.ID == "" {
		return ErrSettingsIDEmpty
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(idNotEqualPattern, v.ID).Delete(&models.Settings{}).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"dark_mode", "slide_interval"}),
		}).Create(&v).Error
	})
}

// Count returns the number of rows in the settings table.
func Count(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	if err := db.WithContext(ctx).Model(&models.Settings{}).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}

// Repository adapts the functions of this package to settings.Repository.
type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements settings.Repository.
var _ settings.Repository = (*Repository)(nil)

// NewRepository returns a repository backed by db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load implements settings.Repository.
func (r *Repository) Load(ctx context.Context) (models.Settings, error) {
	if err := r.acquire(ctx, "load"); err != nil {
		return models.Settings{}, err
	}

	s, err := Get(ctx, r.db)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return models.Settings{}, settings.NewNotFoundError("load")
		}
		return models.Settings{}, settings.NewDatabaseError("load", err)
	}

	return *s, nil
}

// Create implements settings.Repository.
func (r *Repository) Create(ctx context.Context, v models.Settings) (models.Settings, error) {
	if err := r.acquire(ctx, "create"); err != nil {
		return models.Settings{}, err
	}

	s, err := Create(ctx, r.db, v)
	if err != nil {
		return models.Settings{}, settings.NewDatabaseError("create", err)
	}

	return *s, nil
}

// Save implements settings.Repository.
func (r *Repository) Save(ctx context.Context, v models.Settings) error {
	if err := r.acquire(ctx, "save"); err != nil {
		return err
	}

	if err := Replace(ctx, r.db, v); err != nil {
		return settings.NewDatabaseError("save", err)
	}

	return nil
}

// acquire checks that a pooled connection can be obtained before any query runs.
func (r *Repository) acquire(ctx context.Context, op string) error {
	if r.db == nil {
		return settings.NewConnectionError(op, ErrDBNil)
	}

	sqlDB, err := r.db.DB()
	if err != nil {
		return settings.NewConnectionError(op, err)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		return settings.NewConnectionError(op, err)
	}

	return nil
}
