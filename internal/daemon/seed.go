package daemon

import (
	"context"

	"github.com/pkg/errors"

	"github.com/infoscreen/infoscreen/internal/config"
	"github.com/infoscreen/infoscreen/internal/settings"
)

// seed loads the settings record into the cache, creating the defaults on an empty table.
func seed(ctx context.Context, cfg *config.Config, store *settings.Store) error {
	if !cfg.Store.WarmUp {
		return nil
	}

	return errors.Wrap(store.WarmUp(ctx), "failed to load settings at startup")
}
