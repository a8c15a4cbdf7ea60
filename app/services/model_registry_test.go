package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultModelRegistry(t *testing.T) {
	registry := DefaultModelRegistry()

	t.Run("ResolvesAllBuiltinModels", func(t *testing.T) {
		expected := map[string]struct {
			provider Provider
			apiModel string
		}{
			"xai/grok-3-mini-fast":                  {ProviderXAI, "grok-3-mini-fast"},
			"xai/grok-3-fast":                       {ProviderXAI, "grok-3-fast"},
			"openai/gpt-4o-mini":                    {ProviderOpenAI, "gpt-4o-mini"},
			"openai/gpt-4o":                         {ProviderOpenAI, "gpt-4o"},
			"anthropic/claude-3-5-haiku-latest":     {ProviderAnthropic, "claude-3-5-haiku-latest"},
			"anthropic/claude-sonnet-4-20250514":    {ProviderAnthropic, "claude-sonnet-4-20250514"},
			"google/gemini-2.0-flash":               {ProviderGoogle, "gemini-2.0-flash"},
			"google/gemini-2.5-flash-preview-05-20": {ProviderGoogle, "gemini-2.5-flash-preview-05-20"},
		}

		for modelID, want := range expected {
			cfg, err := registry.Resolve(modelID)
			require.NoError(t, err, "model %s should resolve", modelID)
			assert.Equal(t, want.provider, cfg.Provider)
			assert.Equal(t, want.apiModel, cfg.APIModel)
		}
	})

	t.Run("DefaultModelResolves", func(t *testing.T) {
		cfg, err := registry.Resolve(DefaultModelID)
		require.NoError(t, err)
		assert.Equal(t, ProviderXAI, cfg.Provider)
	})

	t.Run("UnknownModelFails", func(t *testing.T) {
		_, err := registry.Resolve("mistral/mistral-large")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownModel)
		assert.Contains(t, err.Error(), "mistral/mistral-large")
	})

	t.Run("EmptyModelIDFails", func(t *testing.T) {
		_, err := registry.Resolve("")
		assert.ErrorIs(t, err, ErrUnknownModel)
	})

	t.Run("ModelIDsSorted", func(t *testing.T) {
		ids := registry.ModelIDs()
		assert.Len(t, ids, 8)
		assert.True(t, sort.StringsAreSorted(ids))
	})
}
