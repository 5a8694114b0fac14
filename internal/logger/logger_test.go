package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"liberty/internal/config"
	"liberty/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewHandler(&buf, config.Log{Level: "info", Format: config.LogFormatJSON}))

	log.Debug("hidden")
	log.Warn("image delete failed", "path", "a.png", "error", errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "image delete failed", record["msg"])
	assert.Equal(t, "a.png", record["path"])
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewHandler(&buf, config.Log{Level: "debug", Format: config.LogFormatText}))

	log.Debug("seeded category", "name", "Chairs")

	assert.Contains(t, buf.String(), "seeded category")
	assert.Contains(t, buf.String(), "Chairs")
}
