package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

// AnthropicClient calls the Anthropic Messages API for Claude models. The
// system prompt is a top-level field rather than a message, and the output
// may arrive wrapped in markdown code fences even when instructed otherwise.
type AnthropicClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewAnthropicClient creates a client for the Anthropic Messages API
func NewAnthropicClient(baseURL, apiKey string, httpClient *http.Client) *AnthropicClient {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AnthropicClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: httpClient,
	}
}

func (c *AnthropicClient) Name() string { return string(ProviderAnthropic) }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Call POSTs to the messages endpoint and parses the first content block.
// Code fences are stripped before parsing because Claude does not guarantee
// fence-free output.
func (c *AnthropicClient) Call(ctx context.Context, apiModel, systemPrompt, userPrompt string) (*LLMResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", ProviderAnthropic, ErrMissingCredential)
	}

	reqBody := anthropicRequest{
		Model:     apiModel,
		MaxTokens: anthropicMaxTokens,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userPrompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := c.BaseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", ProviderAnthropic, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(ProviderAnthropic, resp.StatusCode, string(body))
	}

	var msgResp anthropicResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return nil, &MalformedResponseError{Provider: ProviderAnthropic, Reason: "response envelope is not valid JSON", Err: err}
	}
	if len(msgResp.Content) == 0 || msgResp.Content[0].Text == "" {
		return nil, &MalformedResponseError{Provider: ProviderAnthropic, Reason: "no content in response"}
	}

	cleaned := CleanJSONBlock(msgResp.Content[0].Text)
	return parseLLMContent(ProviderAnthropic, cleaned)
}
