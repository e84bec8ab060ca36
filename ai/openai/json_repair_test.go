package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	t.Run("unquoted keys", func(t *testing.T) {
		in := `{keywords: ["fix"], confidence: 0.9}`
		out := repairJSON(in)
		assert.Equal(t, `{"keywords": ["fix"], "confidence": 0.9}`, out)
	})

	t.Run("half-quoted key", func(t *testing.T) {
		in := `{"keywords": [], confidence": 0.5}`
		out := repairJSON(in)

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &payload))
		assert.Contains(t, payload, "confidence")
	})

	t.Run("trailing comma", func(t *testing.T) {
		in := `{"keywords": ["fix", "bug",], "confidence": 1,}`
		out := repairJSON(in)

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &payload))
	})

	t.Run("valid JSON unchanged", func(t *testing.T) {
		in := `{"keywords": ["fix"], "filters": {"priority": "1"}, "confidence": 0.9}`
		assert.Equal(t, in, repairJSON(in))
	})
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, stripFences("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, stripFences("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, stripFences(`  {"a": 1}  `))
}
