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

	"github.com/usermgmt-go/usermgmt/internal/logger"
)

var errSample = errors.New("sample failure") //nolint:gochecknoglobals

// captureInit runs Init with stdout and stderr redirected and emits one info, error and trace event.
func captureInit(t *testing.T, cfg logger.Log) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	stdout, stderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = w, w

	t.Cleanup(func() {
		os.Stdout, os.Stderr = stdout, stderr
	})

	done := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	initErr := logger.Init(cfg)

	log.Info().Msg("user created")
	log.Error().Err(errSample).Msg("user update failed")
	log.Trace().Msg("group lookup")

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr

	require.NoError(t, initErr)

	return <-done
}

func jsonLines(t *testing.T, out string) []map[string]any {
	t.Helper()

	var lines []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line %q", line)

		lines = append(lines, m)
	}

	return lines
}

func TestInitOutput(t *testing.T) {
	base := logger.Log{AppName: "usermgmt", ServiceName: "api", LogEnv: "test"}

	tests := []struct {
		name      string
		level     string
		console   logger.Console
		caller    bool
		wantEmpty bool
		wantJSON  bool
		wantMsgs  []string
	}{
		{
			name:      "no writer enabled",
			level:     "info",
			wantEmpty: true,
		},
		{
			name:     "json at info skips trace",
			level:    "info",
			console:  logger.Console{Enabled: true},
			wantJSON: true,
			wantMsgs: []string{"user created", "user update failed"},
		},
		{
			name:     "json at trace with caller",
			level:    "trace",
			console:  logger.Console{Enabled: true},
			caller:   true,
			wantJSON: true,
			wantMsgs: []string{"user created", "user update failed", "group lookup"},
		},
		{
			name:     "human readable",
			level:    "info",
			console:  logger.Console{Enabled: true, UseConsoleWriter: true},
			wantMsgs: []string{"user created", "user update failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.LogLevel = tt.level
			cfg.Console = tt.console
			cfg.ReportCaller = tt.caller

			out := captureInit(t, cfg)

			if tt.wantEmpty {
				assert.Empty(t, out)
				return
			}

			if !tt.wantJSON {
				for _, msg := range tt.wantMsgs {
					assert.Contains(t, out, msg)
				}

				assert.NotContains(t, out, `"message"`)

				return
			}

			lines := jsonLines(t, out)
			require.Len(t, lines, len(tt.wantMsgs))

			for i, line := range lines {
				assert.Equal(t, tt.wantMsgs[i], line["message"])
				assert.Equal(t, "usermgmt", line["app"])
				assert.Equal(t, "api", line["service"])
				assert.Equal(t, "test", line["env"])

				_, hasCaller := line["caller"]
				assert.Equal(t, tt.caller, hasCaller)
			}
		})
	}
}

func TestInitErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logger.Log
		wantErr error
	}{
		{
			name:    "missing service name",
			cfg:     logger.Log{LogLevel: "info", AppName: "usermgmt"},
			wantErr: logger.ErrServiceNameIsEmpty,
		},
		{
			name:    "missing app name",
			cfg:     logger.Log{LogLevel: "info", ServiceName: "api"},
			wantErr: logger.ErrAppNameIsEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, logger.Init(tt.cfg), tt.wantErr)
		})
	}

	err := logger.Init(logger.Log{LogLevel: "verbose", AppName: "usermgmt", ServiceName: "api"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loglevel verbose is not supported")
}

func TestRollingFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	require.NoError(t, logger.Init(logger.Log{
		LogLevel:    "info",
		AppName:     "usermgmt",
		ServiceName: "api",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			ErrorLog: "error.log",
			InfoLog:  "info.log",
			TraceLog: "trace.log",
			WarnLog:  "warn.log",
		},
	}))

	log.Info().Msg("info line")
	log.Warn().Msg("warn line")
	log.Error().Msg("error line")

	tests := []struct {
		file    string
		want    string
		without string
	}{
		{"info.log", "info line", "warn line"},
		{"warn.log", "warn line", "error line"},
		{"error.log", "error line", "info line"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			assert.Contains(t, string(content), tt.want)
			assert.NotContains(t, string(content), tt.without)
		})
	}

	assert.NotNil(t, logger.NewRollingAccessFile(logger.Log{File: logger.LogFile{Path: dir, AccessLog: "access.log"}}))
}
