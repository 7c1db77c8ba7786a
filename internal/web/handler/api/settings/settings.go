// Package settings serves the settings record as JSON under /api/settings.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/infoscreen/infoscreen/internal/config"
	"github.com/infoscreen/infoscreen/internal/db/models"
	settingsstore "github.com/infoscreen/infoscreen/internal/settings"
	"github.com/infoscreen/infoscreen/internal/web/handler"
)

const (
	// Path is the path of the settings resource below handler.APIPath.
	Path = "/settings"

	msgInvalidJSON = "Invalid JSON body"
	statusSuccess  = "success"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the body of a successful write.
type StatusResponse struct {
	Status string `json:"status"`
}

// Service is the settings API handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	store handler.SettingsStore
}

// Init registers GET and POST /api/settings.
func (s *Service) Init(app *fiber.App, cfg *config.Config, store handler.SettingsStore) error {
	if app == nil || cfg == nil || store == nil {
		return errors.New(handler.ErrNilACSMsg)
	}

	s.cfg = cfg
	s.store = store

	app.Route(handler.APIPath+Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get returns the current settings, creating the defaults on first use.
func (s *Service) Get(c *fiber.Ctx) error {
	v, err := s.store.Get(c.UserContext())
	if err != nil {
		log.Error().Err(err).Str("kind", settingsstore.KindOf(err).String()).Msg("failed to load settings")

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.JSON(v)
}

// Post replaces the settings with the request body.
// Every failure, validation or backend, is answered with 400.
func (s *Service) Post(c *fiber.Ctx) error {
	var v models.Settings

	if err := c.App().Config().JSONDecoder(c.Body(), &v); err != nil {
		log.Debug().Err(err).Msg("failed to decode settings body")

		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidJSON})
	}

	if err := s.store.Set(c.UserContext(), v); err != nil {
		kind := settingsstore.KindOf(err)
		if kind == settingsstore.KindValidation {
			log.Debug().Err(err).Msg("rejected settings update")
		} else {
			log.Error().Err(err).Str("kind", kind.String()).Msg("failed to save settings")
		}

		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(StatusResponse{Status: statusSuccess})
}
