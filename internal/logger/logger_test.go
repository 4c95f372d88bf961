package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestInfoWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("ordering-service", &buf)

	log.Info("item_added", "Item added to cart", "req-1", map[string]interface{}{"item": "Soup"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "Item added to cart", lines[0]["message"])
	assert.Equal(t, "ordering-service", lines[0]["service"])
	assert.Equal(t, "item_added", lines[0]["action"])
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "Soup", lines[0]["item"])
	assert.Contains(t, lines[0], "timestamp")
}

func TestErrorIncludesErrorGroup(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("chef-service", &buf)

	log.Error("save_failed", "Failed to save meal", "req-2", errors.New("boom"), nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	group, ok := lines[0]["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "boom", group["msg"])
	assert.NotEmpty(t, group["stack"])
}

func TestSetLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("svc", &buf)
	log.SetLevel("info")

	log.Debug("noise", "hidden", "", nil)
	assert.Empty(t, buf.String())

	log.SetLevel("not-a-level")
	log.Warn("still", "visible", "", nil)
	assert.NotEmpty(t, buf.String())
}

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, GenerateRequestID())
}
