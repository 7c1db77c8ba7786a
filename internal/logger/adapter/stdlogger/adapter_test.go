package stdlogger_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infoscreen/infoscreen/internal/logger"
	"github.com/infoscreen/infoscreen/internal/logger/adapter/stdlogger"
)

func TestAdapter(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         logger.Log
		wantLines   int
		wantVerbose bool
	}{
		{
			name:      "no logger enabled",
			cfg:       logger.Log{Level: "info", ServiceName: "test", AppName: "test"},
			wantLines: 0,
		},
		{
			name:      "console enabled log level info",
			cfg:       logger.Log{Level: "info", ServiceName: "test", AppName: "test", Console: logger.Console{Enabled: true}},
			wantLines: 4,
		},
		{
			name:        "console enabled log level debug",
			cfg:         logger.Log{Level: "debug", ServiceName: "test", AppName: "test", Console: logger.Console{Enabled: true}},
			wantLines:   5,
			wantVerbose: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, verbose := captureAdapter(t, tc.cfg)

			lines := 0
			if trimmed := strings.TrimSpace(out); trimmed != "" {
				lines = len(strings.Split(trimmed, "\n"))
			}

			assert.Equal(t, tc.wantLines, lines, out)
			assert.Equal(t, tc.wantVerbose, verbose)

			if lines > 0 {
				assert.Contains(t, out, `"component":"migrate"`)
				assert.NotContains(t, out, `\n`)
			}
		})
	}
}

func captureAdapter(t *testing.T, cfg logger.Log) (string, bool) {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	l := stdlogger.New("migrate")
	l.Debugf("stdlogger %s", "test debug")
	l.Infof("stdlogger %s", "test info")
	l.Warningf("stdlogger %s", "test warning")
	l.Errorf("stdlogger %s", "test error")
	l.Printf("applied version %d\n", 1)
	verbose := l.Verbose()

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return <-outC, verbose
}
