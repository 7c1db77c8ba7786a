package app

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		devMode = false
	})

	require.NoError(t, rootCmd.Execute())

	return out.String()
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("INFOSCREEN_LOG_CONSOLE_ENABLED", "false")
	t.Setenv("INFOSCREEN_DB_PASSWORD", "secret")

	out := run(t, "config", "--config", "../etc/")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Infoscreen", decoded["title"])
	assert.NotContains(t, out, "secret")
}

func TestConfigCommandMasksURL(t *testing.T) {
	t.Setenv("INFOSCREEN_LOG_CONSOLE_ENABLED", "false")
	t.Setenv("INFOSCREEN_DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://screen:secret@db:5432/screen")

	out := run(t, "config", "--config", "../etc/")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.NotContains(t, out, "secret")

	dbSection, ok := decoded["db"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "postgres://screen:****@db:5432/screen", dbSection["url"])
}

func TestMigrateCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "infoscreen.db")
	t.Setenv("INFOSCREEN_LOG_CONSOLE_ENABLED", "false")
	t.Setenv("INFOSCREEN_DB_URL", dbPath)

	out := run(t, "migrate", "version", "--config", "../etc/")
	assert.Equal(t, "current: 0 (dirty: false)\nlatest: 1\n", out)

	run(t, "migrate", "--config", "../etc/")

	out = run(t, "migrate", "version", "--config", "../etc/")
	assert.Equal(t, "current: 1 (dirty: false)\nlatest: 1\n", out)
}

func TestDevFlag(t *testing.T) {
	t.Setenv("INFOSCREEN_LOG_CONSOLE_ENABLED", "false")

	run(t, "config", "--config", "../etc/", "--dev")

	assert.True(t, cfg.DevMode)
	assert.Equal(t, "debug", cfg.Log.Level)
}
