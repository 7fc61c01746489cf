package ollama

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdictJSON_Direct(t *testing.T) {
	fields, err := parseVerdictJSON(`{"explanation": "ok", "correct": true}`)
	require.NoError(t, err)
	assert.Equal(t, true, fields["correct"])
}

func TestParseVerdictJSON_Fenced(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"plain fence", "```\n{\"correct\": true}\n```"},
		{"json fence", "```json\n{\"correct\": true}\n```"},
		{"upper json fence", "```JSON\n{\"correct\": true}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := parseVerdictJSON(tt.in)
			require.NoError(t, err)
			assert.Equal(t, true, fields["correct"])
		})
	}
}

func TestParseVerdictJSON_SurroundingProse(t *testing.T) {
	fields, err := parseVerdictJSON(`Voici mon verdict: {"explanation": "raison", "relevant": false} en espérant que cela aide.`)
	require.NoError(t, err)
	assert.Equal(t, false, fields["relevant"])
}

func TestParseVerdictJSON_BracesInsideStrings(t *testing.T) {
	fields, err := parseVerdictJSON(`préambule {"explanation": "contient { et } et \"guillemets\"", "grounded": true} fin`)
	require.NoError(t, err)
	assert.Equal(t, true, fields["grounded"])
}

func TestParseVerdictJSON_NotJSON(t *testing.T) {
	_, err := parseVerdictJSON("je ne peux pas répondre en JSON")
	require.Error(t, err)
}

func TestFirstJSONObject(t *testing.T) {
	got, ok := firstJSONObject(`avant {"a": {"nested": 1}} après`)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"nested": 1}}`, got)

	_, ok = firstJSONObject("rien ici")
	assert.False(t, ok)

	_, ok = firstJSONObject(`{"unbalanced": `)
	assert.False(t, ok)
}
