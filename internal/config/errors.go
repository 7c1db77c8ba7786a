package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0 without autoPort.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrInvalidPortRange error if the autoPort range is empty or out of bounds.
	ErrInvalidPortRange = errors.New("config webserver.portRangeStart..portRangeEnd is not a valid port range")

	// ErrUnknownDBDriver error if config db.driver is not supported.
	ErrUnknownDBDriver = errors.New("config db.driver is not supported")

	// ErrEmptyDBLocation error if neither db.url nor db.host/db.name are set.
	ErrEmptyDBLocation = errors.New("config db.url or db.host and db.name must be set")

	// ErrInvalidIDPolicy error if config store.idPolicy is unknown.
	ErrInvalidIDPolicy = errors.New("config store.idPolicy is not supported")
)
