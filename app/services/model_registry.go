// Package services contains external service integrations: LLM providers,
// prompt construction, and token management.
package services

import (
	"errors"
	"fmt"
	"sort"
)

// Provider identifies one of the supported LLM vendors
type Provider string

const (
	ProviderXAI       Provider = "xai"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// DefaultModelID is used when a simulation does not specify a model
const DefaultModelID = "xai/grok-3-mini-fast"

// ErrUnknownModel is returned when a model identifier is not in the registry
var ErrUnknownModel = errors.New("unknown model")

// ModelConfig maps a public model identifier to its provider and the model
// name the provider's API expects
type ModelConfig struct {
	Provider Provider
	APIModel string
}

// ModelRegistry is the static table of supported models. It is constructed
// once at startup and injected; the table is fixed at deploy time and not
// user-extensible.
type ModelRegistry struct {
	models map[string]ModelConfig
}

// NewModelRegistry creates a registry from an explicit table
func NewModelRegistry(models map[string]ModelConfig) *ModelRegistry {
	return &ModelRegistry{models: models}
}

// DefaultModelRegistry returns the registry of all supported public model
// identifiers, keyed "<provider-slug>/<model-name>". These identifiers are
// stored on simulations and shown in the UI.
func DefaultModelRegistry() *ModelRegistry {
	return NewModelRegistry(map[string]ModelConfig{
		// xAI (Grok)
		"xai/grok-3-mini-fast": {Provider: ProviderXAI, APIModel: "grok-3-mini-fast"},
		"xai/grok-3-fast":      {Provider: ProviderXAI, APIModel: "grok-3-fast"},
		// OpenAI
		"openai/gpt-4o-mini": {Provider: ProviderOpenAI, APIModel: "gpt-4o-mini"},
		"openai/gpt-4o":      {Provider: ProviderOpenAI, APIModel: "gpt-4o"},
		// Anthropic (Claude)
		"anthropic/claude-3-5-haiku-latest":  {Provider: ProviderAnthropic, APIModel: "claude-3-5-haiku-latest"},
		"anthropic/claude-sonnet-4-20250514": {Provider: ProviderAnthropic, APIModel: "claude-sonnet-4-20250514"},
		// Google (Gemini)
		"google/gemini-2.0-flash":                 {Provider: ProviderGoogle, APIModel: "gemini-2.0-flash"},
		"google/gemini-2.5-flash-preview-05-20":   {Provider: ProviderGoogle, APIModel: "gemini-2.5-flash-preview-05-20"},
	})
}

// Resolve looks up a public model identifier and returns its configuration.
// Pure lookup, no I/O.
func (r *ModelRegistry) Resolve(modelID string) (ModelConfig, error) {
	cfg, ok := r.models[modelID]
	if !ok {
		return ModelConfig{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}
	return cfg, nil
}

// ModelIDs returns all registered public identifiers, sorted
func (r *ModelRegistry) ModelIDs() []string {
	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
