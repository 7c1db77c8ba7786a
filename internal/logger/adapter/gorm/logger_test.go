package gorm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func TestTrace(t *testing.T) {
	sqlFunc := func() (string, int64) { return "SELECT 1", 1 }

	testCases := []struct {
		name      string
		level     gormlogger.LogLevel
		slow      time.Duration
		begin     time.Time
		err       error
		wantLevel string
	}{
		{name: "silent", level: gormlogger.Silent, err: errors.New("boom")},
		{name: "error logged", level: gormlogger.Error, begin: time.Now(), err: errors.New("boom"), wantLevel: "error"},
		{name: "record not found ignored", level: gormlogger.Warn, begin: time.Now(), err: gorm.ErrRecordNotFound},
		{name: "slow query", level: gormlogger.Warn, slow: time.Millisecond, begin: time.Now().Add(-time.Second), wantLevel: "warn"},
		{name: "fast query at warn", level: gormlogger.Warn, slow: time.Hour, begin: time.Now()},
		{name: "every query at info", level: gormlogger.Info, begin: time.Now(), wantLevel: "debug"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLog(t)
			l := New(tc.slow).LogMode(tc.level)

			l.Trace(context.Background(), tc.begin, sqlFunc, tc.err)

			if tc.wantLevel == "" {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, "SELECT 1", entry["sql"])
			assert.Equal(t, "gorm", entry["component"])
		})
	}
}

func TestMessages(t *testing.T) {
	buf := captureLog(t)
	ctx := context.Background()

	l := New(0)
	l.Info(ctx, "hidden %d", 1)
	l.Warn(ctx, "shown %d", 2)
	l.Error(ctx, "shown %d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "shown 2")
	assert.Contains(t, lines[1], "shown 3")
}
