package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLogger_fields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Info("session refreshed", "record", "abc", "attempt", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "session refreshed", line["message"])
	assert.Equal(t, "abc", line["record"])
	assert.Equal(t, float64(2), line["attempt"])
	assert.Equal(t, "info", line["level"])
}

func TestZeroLogger_oddArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	// a dangling key must not panic
	l.Warn("partial", "key")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "partial", line["message"])
}
