package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"DEBUG", zerolog.DebugLevel},
		{"debug", zerolog.DebugLevel},
		{"WARNING", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Level: "INFO", Format: "json", Output: &buf}, "pipeline")

	l.Debug("hidden %d", 1)
	l.Info("loaded %d rows", 42)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "pipeline", entry["component"])
	assert.Equal(t, "loaded 42 rows", entry["message"])
}

func TestLogger_WithChildName(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Format: "json", Output: &buf}, "app").With("cache")

	assert.Equal(t, "app.cache", l.Name())
	l.Warning("slow")
	assert.Contains(t, buf.String(), `"component":"app.cache"`)
}

func TestLogger_CriticalExits(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Format: "json", Output: &buf}, "app")
	code := -1
	l.exit = func(c int) { code = c }

	l.Critical("boom")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "boom")
}
