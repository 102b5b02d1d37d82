package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:       "info",
		Format:      "json",
		Output:      &buf,
		ServiceName: "ocr-extractor",
	})

	logger.With().Str("run_id", "abc").Logger().
		Info().
		Str("file", "scan.png").
		Int("pages", 2).
		Dur("elapsed", 1500*time.Millisecond).
		Err(errors.New("boom")).
		Msg("done")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "ocr-extractor", entry["service"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "scan.png", entry["file"])
	assert.Equal(t, float64(2), entry["pages"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "done", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json", Output: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.WithOperation("pdf").Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"operation":"pdf"`)
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"":         zerolog.WarnLevel,
		"nonsense": zerolog.WarnLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNopDiscards(t *testing.T) {
	// Must not panic and must not write anywhere.
	Nop().Error().Str("k", "v").Msg("discarded")
}
