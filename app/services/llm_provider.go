package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ozvena/ozvena/utils"
)

// Sampling temperature shared by all providers: enough diversity across
// personas without degrading output-format reliability.
const samplingTemperature = 0.7

// ErrMissingCredential is returned when the API key for a provider is not
// configured. Checked before any network call; absence is a configuration
// error, not a retryable condition.
var ErrMissingCredential = errors.New("API key not configured")

// PersonaReaction is one synthetic audience member's reaction as returned
// by the LLM
type PersonaReaction struct {
	PersonaName    string  `json:"persona_name"`
	Content        string  `json:"content"`
	Sentiment      string  `json:"sentiment"`
	RelevanceScore float64 `json:"relevance_score"`
	ToxicityScore  float64 `json:"toxicity_score"`
}

// LLMResponse is the normalized payload every provider must produce
type LLMResponse struct {
	Reactions []PersonaReaction `json:"reactions"`
}

// ProviderError represents a non-success HTTP status from an LLM provider.
// The body is truncated for diagnostics; there is no automatic retry.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// NewProviderError builds a ProviderError with the body truncated
func NewProviderError(provider Provider, statusCode int, body string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: statusCode,
		Body:       utils.Truncate(body, utils.ErrorBodyLimit),
	}
}

// MalformedResponseError represents a successful HTTP call whose body could
// not be turned into a reactions array
type MalformedResponseError struct {
	Provider Provider
	Reason   string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s returned malformed response: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s returned malformed response: %s", e.Provider, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ProviderClient is the uniform interface over the four LLM vendor APIs.
// Each implementation owns its own request/response marshalling and its own
// provider-specific quirk handling.
type ProviderClient interface {
	Name() string
	Call(ctx context.Context, apiModel, systemPrompt, userPrompt string) (*LLMResponse, error)
}

// parseLLMContent parses the text content a provider produced into the
// normalized response shape. Scores and sentiment values are passed through
// untouched; the orchestrator's validation step is the single point of truth
// for acceptability.
func parseLLMContent(provider Provider, content string) (*LLMResponse, error) {
	var resp LLMResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, &MalformedResponseError{Provider: provider, Reason: "content is not valid JSON", Err: err}
	}
	if resp.Reactions == nil {
		return nil, &MalformedResponseError{Provider: provider, Reason: "missing reactions array"}
	}
	if len(resp.Reactions) == 0 {
		return nil, &MalformedResponseError{Provider: provider, Reason: "empty reactions array"}
	}
	return &resp, nil
}

// CleanJSONBlock removes markdown code fence wrappers from model output.
// Some providers wrap JSON in ```json ... ``` blocks even when instructed
// not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line, if any
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
