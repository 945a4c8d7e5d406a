package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyscan-project/lazyscan/pkg/logging"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, logging.LevelWarn, logging.FormatText)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, logging.LevelInfo, logging.FormatJSON)

	log.With(map[string]any{"component": "deleter"}).Info("deletion executed", map[string]any{"path": "/tmp/x"})

	var entry struct {
		Level   string         `json:"level"`
		Message string         `json:"message"`
		Fields  map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, "deletion executed", entry.Message)
	assert.Equal(t, "deleter", entry.Fields["component"])
	assert.Equal(t, "/tmp/x", entry.Fields["path"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, logging.LevelInfo, logging.ParseLevel("bogus"))
}
