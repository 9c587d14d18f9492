package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiceSpeak/nicespeak-admin/internal/logger"
)

var errTest = errors.New("storage unavailable")

func TestInit(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      logger.Log
		wantOut  bool
		wantJSON bool
	}{
		{
			name: "no writer",
			cfg:  logger.Log{LogLevel: "info", ServiceName: "admin", AppName: "nicespeak-admin"},
		},
		{
			name:    "console writer",
			cfg:     logger.Log{LogLevel: "info", ServiceName: "admin", AppName: "nicespeak-admin", Console: logger.Console{Enabled: true, UseConsoleWriter: true}},
			wantOut: true,
		},
		{
			name:     "json console",
			cfg:      logger.Log{LogLevel: "info", LogEnv: "test", ServiceName: "admin", AppName: "nicespeak-admin", Console: logger.Console{Enabled: true}},
			wantOut:  true,
			wantJSON: true,
		},
		{
			name:     "json console trace with caller",
			cfg:      logger.Log{LogLevel: "trace", ServiceName: "admin", AppName: "nicespeak-admin", ReportCaller: true, Console: logger.Console{Enabled: true}},
			wantOut:  true,
			wantJSON: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := capture(t, tc.cfg)

			if !tc.wantOut {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if !tc.wantJSON {
				return
			}

			for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
				assert.Equal(t, tc.cfg.AppName, entry["app"])

				if tc.cfg.LogEnv != "" {
					assert.Equal(t, tc.cfg.LogEnv, entry["env"])
				}
			}
		})
	}
}

func TestInit_InvalidConfig(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "loud", ServiceName: "admin", AppName: "admin"})
	require.Error(t, err)

	err = logger.Init(logger.Log{LogLevel: "info", AppName: "admin"})
	require.ErrorIs(t, err, logger.ErrServiceNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "info", ServiceName: "admin"})
	require.ErrorIs(t, err, logger.ErrAppNameIsEmpty)
}

func TestInit_RollingFiles(t *testing.T) {
	dir := t.TempDir()

	cfg := logger.Log{
		LogLevel:    "info",
		ServiceName: "admin",
		AppName:     "nicespeak-admin",
		File: logger.LogFile{
			Enabled:      true,
			Path:         dir,
			ErrorLog:     "error.log",
			ErrorMaxSize: 1,
			InfoLog:      "info.log",
			InfoMaxSize:  1,
			TraceLog:     "trace.log",
			WarnLog:      "warn.log",
		},
	}

	require.NoError(t, logger.Init(cfg))

	log.Info().Msg("menu created")
	log.Error().Err(errTest).Msg("request failed")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "menu created")
	assert.NotContains(t, string(info), "request failed")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "storage unavailable")

	_, err = os.Stat(filepath.Join(dir, "warn.log"))
	assert.True(t, os.IsNotExist(err))
}

// capture initialises the logger with stdout and stderr redirected and returns what was written.
func capture(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	t.Cleanup(func() {
		os.Stdout = stdout
		os.Stderr = stderr
	})

	require.NoError(t, logger.Init(cfg))

	log.Info().Str("user_id", "u-1").Msg("login succeeded")
	log.Error().Err(errTest).Msg("request failed")
	log.Trace().Msg("trace details")

	done := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	_ = w.Close()

	return <-done
}
