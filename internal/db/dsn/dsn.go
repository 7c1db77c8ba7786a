// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/infoscreen/infoscreen/internal/config"
)

const (
	defaultPostgresPort = 5432
	defaultMySQLPort    = 3306
)

var (
	// ErrNoDSN is returned for drivers that do not connect to a database.
	ErrNoDSN = errors.New("driver has no data source name")
	// ErrUnknownDriver is returned for unsupported drivers.
	ErrUnknownDriver = errors.New("unknown database driver")
	// ErrInvalidURL is returned if db.url cannot be parsed for the driver.
	ErrInvalidURL = errors.New("invalid database url")
)

// Create builds the Data Source Name for the configured driver.
func Create(cfg config.DB) (string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite(cfg), nil
	case config.DriverPostgres:
		return postgres(cfg), nil
	case config.DriverMySQL:
		return mysql(cfg)
	case config.DriverMemory:
		return "", ErrNoDSN
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// DriverName returns the database/sql driver name registered for the configured driver.
func DriverName(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite3", nil
	case config.DriverPostgres:
		return "pgx", nil
	case config.DriverMySQL:
		return "mysql", nil
	case config.DriverMemory:
		return "", ErrNoDSN
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func sqlite(cfg config.DB) string {
	out := cfg.URL
	for _, prefix := range []string{"sqlite3://", "sqlite://", "file://"} {
		out = strings.TrimPrefix(out, prefix)
	}

	return withQuery(out, cfg.Extras)
}

// postgres accepts both URL and key=value forms in db.url.
func postgres(cfg config.DB) string {
	if cfg.URL != "" {
		if strings.Contains(cfg.URL, "://") {
			return withQuery(cfg.URL, cfg.Extras)
		}

		return withParams(cfg.URL, cfg.Extras)
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPostgresPort
	}

	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		cfg.Host,
		port,
		cfg.User,
		cfg.Password,
		cfg.Name,
	)

	return withParams(out, cfg.Extras)
}

// mysql returns the go-sql-driver format user:password@tcp(host:port)/name?extras.
// A mysql:// URL in db.url is converted to that format.
func mysql(cfg config.DB) (string, error) {
	if cfg.URL == "" {
		port := cfg.Port
		if port == 0 {
			port = defaultMySQLPort
		}

		out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			cfg.User,
			cfg.Password,
			cfg.Host,
			port,
			cfg.Name,
		)

		return withQuery(out, cfg.Extras), nil
	}

	if !strings.HasPrefix(cfg.URL, "mysql://") {
		return withQuery(cfg.URL, cfg.Extras), nil
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	host := u.Host
	if u.Port() == "" {
		host = fmt.Sprintf("%s:%d", u.Hostname(), defaultMySQLPort)
	}

	var userInfo string
	if u.User != nil {
		userInfo = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			userInfo += ":" + pw
		}

		userInfo += "@"
	}

	out := fmt.Sprintf("%stcp(%s)/%s", userInfo, host, strings.TrimPrefix(u.Path, "/"))
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}

	return withQuery(out, cfg.Extras), nil
}

// withQuery appends extras as URL query parameters.
func withQuery(base, extras string) string {
	switch {
	case extras == "":
		return base
	case strings.Contains(base, "?"):
		return base + "&" + extras
	default:
		return base + "?" + extras
	}
}

// withParams appends extras to a key=value connection string.
func withParams(base, extras string) string {
	if extras == "" {
		return base
	}

	return base + " " + extras
}
