package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reactionsJSON = `{"reactions": [{"persona_name": "Sam", "content": "I would try this", "sentiment": "positive", "relevance_score": 0.8, "toxicity_score": 0.02}]}`

func TestOpenAICompatibleClient(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotReq openAIChatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			resp := map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": reactionsJSON}},
				},
			}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewOpenAICompatibleClient(ProviderXAI, server.URL, "test-key", server.Client())
		resp, err := client.Call(context.Background(), "grok-3-mini-fast", "system prompt", "user prompt")
		require.NoError(t, err)
		require.Len(t, resp.Reactions, 1)
		assert.Equal(t, "Sam", resp.Reactions[0].PersonaName)

		assert.Equal(t, "grok-3-mini-fast", gotReq.Model)
		require.Len(t, gotReq.Messages, 2)
		assert.Equal(t, "system", gotReq.Messages[0].Role)
		assert.Equal(t, "user", gotReq.Messages[1].Role)
		assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)
		assert.InDelta(t, 0.7, gotReq.Temperature, 1e-9)
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		client := NewOpenAICompatibleClient(ProviderOpenAI, "http://localhost:1", "", nil)
		_, err := client.Call(context.Background(), "gpt-4o", "s", "u")
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("RateLimited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": "rate limit exceeded"}`))
		}))
		defer server.Close()

		client := NewOpenAICompatibleClient(ProviderXAI, server.URL, "k", server.Client())
		_, err := client.Call(context.Background(), "grok-3-fast", "s", "u")
		var provErr *ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
		assert.Contains(t, provErr.Body, "rate limit exceeded")
	})

	t.Run("ContentNotJSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resp := map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "Sorry, I cannot do that."}},
				},
			}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewOpenAICompatibleClient(ProviderOpenAI, server.URL, "k", server.Client())
		_, err := client.Call(context.Background(), "gpt-4o-mini", "s", "u")
		var malformed *MalformedResponseError
		require.ErrorAs(t, err, &malformed)
	})

	t.Run("EmptyChoices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer server.Close()

		client := NewOpenAICompatibleClient(ProviderOpenAI, server.URL, "k", server.Client())
		_, err := client.Call(context.Background(), "gpt-4o-mini", "s", "u")
		var malformed *MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Contains(t, malformed.Reason, "no content")
	})
}

func TestAnthropicClient(t *testing.T) {
	t.Run("SuccessWithFencedContent", func(t *testing.T) {
		var gotReq anthropicRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			resp := map[string]any{
				"content": []map[string]any{
					{"text": "```json\n" + reactionsJSON + "\n```"},
				},
			}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewAnthropicClient(server.URL, "test-key", server.Client())
		resp, err := client.Call(context.Background(), "claude-3-5-haiku-latest", "system prompt", "user prompt")
		require.NoError(t, err)
		require.Len(t, resp.Reactions, 1)

		assert.Equal(t, "claude-3-5-haiku-latest", gotReq.Model)
		assert.Equal(t, 4096, gotReq.MaxTokens)
		assert.Equal(t, "system prompt", gotReq.System)
		require.Len(t, gotReq.Messages, 1)
		assert.Equal(t, "user", gotReq.Messages[0].Role)
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		client := NewAnthropicClient("", "", nil)
		_, err := client.Call(context.Background(), "claude-3-5-haiku-latest", "s", "u")
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("UpstreamError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("overloaded"))
		}))
		defer server.Close()

		client := NewAnthropicClient(server.URL, "k", server.Client())
		_, err := client.Call(context.Background(), "claude-3-5-haiku-latest", "s", "u")
		var provErr *ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, http.StatusServiceUnavailable, provErr.StatusCode)
	})
}

func TestGoogleClient(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotReq googleGenerateRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			resp := map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{{"text": reactionsJSON}}}},
				},
			}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewGoogleClient(server.URL, "test-key", server.Client())
		resp, err := client.Call(context.Background(), "gemini-2.0-flash", "system prompt", "user prompt")
		require.NoError(t, err)
		require.Len(t, resp.Reactions, 1)

		// System and user prompts are concatenated into one part
		require.Len(t, gotReq.Contents, 1)
		require.Len(t, gotReq.Contents[0].Parts, 1)
		assert.Equal(t, "system prompt\n\nuser prompt", gotReq.Contents[0].Parts[0].Text)
		assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMimeType)
		assert.InDelta(t, 0.7, gotReq.GenerationConfig.Temperature, 1e-9)
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		client := NewGoogleClient("", "", nil)
		_, err := client.Call(context.Background(), "gemini-2.0-flash", "s", "u")
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("NoCandidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
		}))
		defer server.Close()

		client := NewGoogleClient(server.URL, "k", server.Client())
		_, err := client.Call(context.Background(), "gemini-2.0-flash", "s", "u")
		var malformed *MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Contains(t, malformed.Reason, "no content")
	})
}
