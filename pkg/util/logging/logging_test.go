package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conflict-resolver/pkg/config"
)

func TestNew_JSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer
	logger := New(&buf, config.LoggingConfig{Level: "warn", Format: config.FormatJSON})

	logger.Info("dropped")
	logger.Warn("kept", "relation", "lww-resolution")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "lww-resolution", entry["relation"])
}

func TestNew_EnvOverridesLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	var buf bytes.Buffer
	logger := New(&buf, config.LoggingConfig{Level: "error", Format: config.FormatText})

	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "service="+ServiceName)
}
