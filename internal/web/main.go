// Package web wires the fiber app: middleware, health checks, metrics and the API handlers.
package web

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/infoscreen/infoscreen/internal/config"
	fiberlogger "github.com/infoscreen/infoscreen/internal/logger/adapter/fiber"
	"github.com/infoscreen/infoscreen/internal/web/handler"
	apisettings "github.com/infoscreen/infoscreen/internal/web/handler/api/settings"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start serves on ln until the app is shut down.
func (s *Service) Start(ln net.Listener) error {
	log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	if err := s.App.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// Alive reports whether /checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// WaitShutdown blocks until SIGINT or SIGTERM and then shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown lets /checkalive fail for Webserver.ShutDownTime seconds, unless fast shutdown
// is configured, and then stops the http server.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this instance from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service serving store.
func New(cfg *config.Config, store handler.SettingsStore) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if store == nil {
		panic("store cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: cfg.Webserver.ReadBufferSize,
			BodyLimit:      cfg.Webserver.BodyLimit,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			StrictRouting:  false,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   errorHandler,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.Webserver.FastShutDown || cfg.DevMode,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: handler.CheckAlivePath,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Webserver.AllowOrigins,
		AllowMethods: fiber.MethodGet + "," + fiber.MethodPost + "," + fiber.MethodOptions,
		AllowHeaders: fiber.HeaderContentType,
	}))

	app.Use(requestTimeout(cfg.Webserver.RequestTimeout))

	app.Get(handler.CheckAlivePath, service.checkAlive)
	app.Get(handler.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes)
	for _, h := range []handler.Service{&apisettings.Service{}} {
		if err := h.Init(app, cfg, store); err != nil {
			log.Fatal().Err(err).Msg("failed to init handler")
		}
	}

	return service
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// requestTimeout bounds the user context handlers pass to the store.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()

		c.SetUserContext(ctx)

		return c.Next()
	}
}

// errorHandler answers every unhandled error with a JSON body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(apisettings.ErrorResponse{Error: err.Error()})
}
