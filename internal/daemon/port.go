package daemon

import (
	"fmt"
	"net"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/infoscreen/infoscreen/internal/config"
)

// ErrNoFreePort is returned if every port of the autoPort range is taken.
var ErrNoFreePort = errors.New("no free port in range")

// Listen opens the listener for cfg. With AutoPort the first free port of
// [PortRangeStart, PortRangeEnd) is used.
func Listen(cfg config.Webserver) (net.Listener, error) {
	if !cfg.AutoPort {
		ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port)))
		return ln, errors.Wrap(err, "failed to listen")
	}

	for port := cfg.PortRangeStart; port < cfg.PortRangeEnd; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Address, strconv.Itoa(port)))
		if err != nil {
			log.Debug().Err(err).Int("port", port).Msg("port taken")
			continue
		}

		log.Info().Int("port", port).Msg("found free port")

		return ln, nil
	}

	return nil, errors.Wrap(ErrNoFreePort, fmt.Sprintf("[%d, %d)", cfg.PortRangeStart, cfg.PortRangeEnd))
}
