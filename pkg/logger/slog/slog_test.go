package slog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carevault/carevault.go/pkg/logger"
)

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var log logger.Logger = h
	log.Info("session credential refreshed", "expires", "2024-06-01T13:00:00Z")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "session credential refreshed", entry["msg"])
	assert.Equal(t, "2024-06-01T13:00:00Z", entry["expires"])
}
