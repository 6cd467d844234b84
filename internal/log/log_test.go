package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliamunaev/barrier-pipeline/internal/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    slog.Level
		wantErr error
	}{
		"empty":   {in: "", want: slog.LevelInfo},
		"debug":   {in: "debug", want: slog.LevelDebug},
		"trace":   {in: "TRACE", want: slog.LevelDebug},
		"info":    {in: "info", want: slog.LevelInfo},
		"warning": {in: "warning", want: slog.LevelWarn},
		"error":   {in: "Error", want: slog.LevelError},
		"unknown": {in: "loud", want: slog.LevelInfo, wantErr: log.ErrUnknownLevel},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateHandler(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h, err := log.CreateHandler(&buf, "info", "json")
		require.NoError(t, err)

		slog.New(h).Info("drained", "pending", 2)

		var out map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "drained", out["msg"])
		assert.InDelta(t, 2, out["pending"], 0)
	})

	t.Run("logfmt", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h, err := log.CreateHandler(&buf, "debug", "logfmt")
		require.NoError(t, err)

		slog.New(h).Debug("acquired", "value", 3)
		assert.Contains(t, buf.String(), "msg=acquired")
		assert.Contains(t, buf.String(), "value=3")
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h, err := log.CreateHandler(&buf, "warn", "text")
		require.NoError(t, err)

		slog.New(h).Info("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := log.CreateHandler(&bytes.Buffer{}, "info", "xml")
		require.ErrorIs(t, err, log.ErrUnknownFormat)
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Parallel()

		_, err := log.CreateHandler(&bytes.Buffer{}, "loud", "json")
		require.ErrorIs(t, err, log.ErrUnknownLevel)
	})
}
