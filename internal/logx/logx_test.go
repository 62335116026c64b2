package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "warn")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("agent", "random").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "agent=")
	assert.Contains(t, out, "logx_test.go:")
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestNewLoggerBadLevel(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestShortCaller(t *testing.T) {
	got := shortCaller(0, "/src/gameplay/internal/match/match.go", 42)
	assert.Equal(t, "match.go:42", strings.TrimSpace(got))
	assert.Len(t, got, 20)
}
