package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "PlainJSON",
			input:    `{"reactions": []}`,
			expected: `{"reactions": []}`,
		},
		{
			name:     "JSONFence",
			input:    "```json\n{\"reactions\": []}\n```",
			expected: `{"reactions": []}`,
		},
		{
			name:     "BareFence",
			input:    "```\n{\"reactions\": []}\n```",
			expected: `{"reactions": []}`,
		},
		{
			name:     "FenceWithLanguageIdentifier",
			input:    "```javascript\n{\"reactions\": []}\n```",
			expected: `{"reactions": []}`,
		},
		{
			name:     "SurroundingWhitespace",
			input:    "  \n```json\n{\"a\": 1}\n```  \n",
			expected: `{"a": 1}`,
		},
		{
			name:     "BraceOnFirstLineAfterFence",
			input:    "```{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestParseLLMContent(t *testing.T) {
	t.Run("ValidPayload", func(t *testing.T) {
		content := `{"reactions": [{"persona_name": "Ana", "content": "I love this", "sentiment": "positive", "relevance_score": 0.9, "toxicity_score": 0.01}]}`
		resp, err := parseLLMContent(ProviderOpenAI, content)
		require.NoError(t, err)
		require.Len(t, resp.Reactions, 1)
		assert.Equal(t, "Ana", resp.Reactions[0].PersonaName)
		assert.Equal(t, "positive", resp.Reactions[0].Sentiment)
		assert.InDelta(t, 0.9, resp.Reactions[0].RelevanceScore, 1e-9)
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := parseLLMContent(ProviderOpenAI, "I am sorry, I cannot help with that.")
		require.Error(t, err)
		var malformed *MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, ProviderOpenAI, malformed.Provider)
		assert.Contains(t, malformed.Reason, "not valid JSON")
	})

	t.Run("MissingReactionsKey", func(t *testing.T) {
		_, err := parseLLMContent(ProviderAnthropic, `{"personas": []}`)
		var malformed *MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Contains(t, malformed.Reason, "missing reactions")
	})

	t.Run("EmptyReactions", func(t *testing.T) {
		_, err := parseLLMContent(ProviderGoogle, `{"reactions": []}`)
		var malformed *MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Contains(t, malformed.Reason, "empty reactions")
	})
}

func TestNewProviderError(t *testing.T) {
	t.Run("ShortBodyKept", func(t *testing.T) {
		err := NewProviderError(ProviderXAI, 429, "rate limited")
		assert.Equal(t, 429, err.StatusCode)
		assert.Contains(t, err.Error(), "xai API error 429: rate limited")
	})

	t.Run("LongBodyTruncated", func(t *testing.T) {
		body := strings.Repeat("x", 2000)
		err := NewProviderError(ProviderOpenAI, 500, body)
		assert.LessOrEqual(t, len(err.Body), 503) // 500 bytes plus ellipsis
		assert.True(t, strings.HasSuffix(err.Body, "..."))
	})
}
