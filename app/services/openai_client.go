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

// OpenAICompatibleClient calls a chat-completions API in the OpenAI wire
// format. It serves both OpenAI itself and OpenAI-schema-compatible vendors
// (xAI); only the base URL and credential differ.
type OpenAICompatibleClient struct {
	provider   Provider
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewOpenAICompatibleClient creates a client for an OpenAI-schema endpoint
func NewOpenAICompatibleClient(provider Provider, baseURL, apiKey string, httpClient *http.Client) *OpenAICompatibleClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAICompatibleClient{
		provider:   provider,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: httpClient,
	}
}

func (c *OpenAICompatibleClient) Name() string { return string(c.provider) }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIChatRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
	Temperature    float64              `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Call POSTs the prompts to the chat-completions endpoint and parses the
// first choice's content as the normalized reactions payload. JSON mode is
// requested to force structured output.
func (c *OpenAICompatibleClient) Call(ctx context.Context, apiModel, systemPrompt, userPrompt string) (*LLMResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", c.provider, ErrMissingCredential)
	}

	reqBody := openAIChatRequest{
		Model: apiModel,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
		Temperature:    samplingTemperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := c.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(c.provider, resp.StatusCode, string(body))
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &MalformedResponseError{Provider: c.provider, Reason: "response envelope is not valid JSON", Err: err}
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, &MalformedResponseError{Provider: c.provider, Reason: "no content in response"}
	}

	return parseLLMContent(c.provider, chatResp.Choices[0].Message.Content)
}
