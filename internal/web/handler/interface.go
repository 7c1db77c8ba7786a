package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/infoscreen/infoscreen/internal/config"
	"github.com/infoscreen/infoscreen/internal/db/models"
)

// SettingsStore is what handlers need from the settings store.
type SettingsStore interface {
	Get(ctx context.Context) (models.Settings, error)
	Set(ctx context.Context, v models.Settings) error
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, store SettingsStore) error
}
