// Package daemon assembles the database, the settings store and the web service.
package daemon

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/infoscreen/infoscreen/internal/config"
	"github.com/infoscreen/infoscreen/internal/db"
	"github.com/infoscreen/infoscreen/internal/db/controller/setting"
	"github.com/infoscreen/infoscreen/internal/db/migrations"
	"github.com/infoscreen/infoscreen/internal/settings"
	"github.com/infoscreen/infoscreen/internal/settings/memrepo"
	"github.com/infoscreen/infoscreen/internal/web"
)

// ErrConfigNil is returned by New without a config.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	store      *settings.Store
	webService *web.Service
}

// New prepares the backend, the settings store and the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	d := &Daemon{cfg: cfg}

	repo, err := d.repository(ctx)
	if err != nil {
		return nil, err
	}

	policy, err := settings.ParseIDPolicy(cfg.Store.IDPolicy)
	if err != nil {
		d.Close()
		return nil, errors.Wrap(err, "invalid store config")
	}

	d.store = settings.New(repo,
		settings.WithIDPolicy(policy),
		settings.WithBackendTimeout(cfg.Store.BackendTimeout),
	)

	if err = seed(ctx, cfg, d.store); err != nil {
		d.Close()
		return nil, err
	}

	d.webService = web.New(cfg, d.store)

	return d, nil
}

// repository opens the configured backend.
func (d *Daemon) repository(ctx context.Context) (settings.Repository, error) {
	if d.cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("memory driver selected: settings are lost on restart")
		return memrepo.New(), nil
	}

	if d.cfg.DB.Migrate {
		if err := migrations.Up(ctx, d.cfg.DB); err != nil {
			return nil, errors.Wrap(err, "failed to migrate database")
		}
	}

	gdb, err := db.Open(ctx, d.cfg.DB, d.cfg.DevMode)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	d.db = gdb

	if err = migrations.Verify(gdb); err != nil {
		d.Close()
		return nil, err //nolint:wrapcheck
	}

	return setting.NewRepository(gdb), nil
}

// Store returns the settings store.
func (d *Daemon) Store() *settings.Store {
	return d.store
}

// Web returns the web service.
func (d *Daemon) Web() *web.Service {
	return d.webService
}

// Start listens on the configured port and serves until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	ln, err := Listen(d.cfg.Webserver)
	if err != nil {
		return err
	}

	return d.Serve(ln, d.webService.WaitShutdown)
}

// Serve serves on ln until wait returns and the server is shut down.
func (d *Daemon) Serve(ln net.Listener, wait func()) error {
	defer d.Close()

	done := make(chan error, 1)

	go func() { done <- d.webService.Start(ln) }()

	stopped := make(chan struct{})

	go func() {
		wait()
		close(stopped)
	}()

	select {
	case err := <-done:
		// the server died on its own
		return err
	case <-stopped:
		return <-done
	}
}

// Close releases the database pool.
func (d *Daemon) Close() {
	if d.db == nil {
		return
	}

	if err := db.Close(d.db); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}

	d.db = nil
}
