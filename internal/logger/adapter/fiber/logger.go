// Package fiber provides a zerolog based access log middleware for fiber.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/infoscreen/infoscreen/internal/logger"
)

// HeaderResponseTime carries the handling time in seconds.
const HeaderResponseTime = "X-Response-Time"

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError is set on responses the error handler could not render.
	CacheControlError string

	// CheckAliveURI is not logged if Config.DisableCheckAlive is set.
	CheckAliveURI string
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{ //nolint:gochecknoglobals
	Next:              nil,
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	return cfg
}

// New creates a fiber access log middleware. Entries are written without a level
// to the rolling access file and, if enabled, to stdout.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	accessLog := newAccessLogger(cfg.Config)

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		start := time.Now()

		// errors are rendered here so the logged status is the one sent
		chainErr := ctx.Next()
		if chainErr != nil {
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		} else if cfg.Config.DisableCheckAlive && cfg.CheckAliveURI != "" && ctx.Path() == cfg.CheckAliveURI {
			ctx.Set(HeaderResponseTime, strconv.FormatFloat(time.Since(start).Seconds(), 'f', 6, 64))
			return nil
		}

		logRequest(accessLog, ctx, start, chainErr)

		return nil
	}
}

func logRequest(l zerolog.Logger, ctx *fiber.Ctx, start time.Time, chainErr error) {
	elapsed := time.Since(start).Seconds()
	ctx.Set(HeaderResponseTime, strconv.FormatFloat(elapsed, 'f', 6, 64))

	// fasthttp normalizes the path; log what the client actually sent
	uri := ctx.Path()
	if q := ctx.Request().URI().QueryString(); len(q) > 0 {
		uri += "?" + string(q)
	}

	e := l.Log().
		Str("ip", ctx.IP()).
		Int("status", ctx.Response().StatusCode()).
		Float64("elapsed", elapsed).
		Str("uri", uri).
		Str("method", ctx.Method()).
		Bytes("host", ctx.Request().Host()).
		Str("forwarded_for", ctx.Get(fiber.HeaderXForwardedFor)).
		Str("user_agent", ctx.Get(fiber.HeaderUserAgent)).
		Str("origin", ctx.Get(fiber.HeaderOrigin)).
		Str("referer", ctx.Get(fiber.HeaderReferer))

	if chainErr != nil {
		e = e.Err(chainErr)
	}

	e.Send()
}

func newAccessLogger(cfg logger.Log) zerolog.Logger {
	var writers []io.Writer

	if cfg.File.Enabled {
		if err := logger.EnsureDir(cfg.File.Path); err != nil {
			log.Error().Err(err).Str("path", cfg.File.Path).Msg("access file logging disabled")
		} else {
			writers = append(writers, cfg.File.Access.Writer(cfg.File.Path))
		}
	}

	if cfg.Console.Enabled && cfg.EnableAccessLogToConsole {
		if cfg.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				NoColor:      cfg.Console.NoColor,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)
}
