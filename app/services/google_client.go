package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// GoogleClient calls the Google Generative Language API for Gemini models.
// The transport has no separate system role, so system and user prompts are
// concatenated into a single content block; responseMimeType forces JSON
// output.
type GoogleClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewGoogleClient creates a client for the Generative Language API
func NewGoogleClient(baseURL, apiKey string, httpClient *http.Client) *GoogleClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: httpClient,
	}
}

func (c *GoogleClient) Name() string { return string(ProviderGoogle) }

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googleGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type googleGenerateRequest struct {
	Contents         []googleContent        `json:"contents"`
	GenerationConfig googleGenerationConfig `json:"generationConfig"`
}

type googleGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Call POSTs to the generateContent endpoint and parses the first candidate's
// first part as the normalized reactions payload.
func (c *GoogleClient) Call(ctx context.Context, apiModel, systemPrompt, userPrompt string) (*LLMResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", ProviderGoogle, ErrMissingCredential)
	}

	reqBody := googleGenerateRequest{
		Contents: []googleContent{
			{Parts: []googlePart{{Text: systemPrompt + "\n\n" + userPrompt}}},
		},
		GenerationConfig: googleGenerationConfig{
			Temperature:      samplingTemperature,
			ResponseMimeType: "application/json",
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.BaseURL, apiModel, url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", ProviderGoogle, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(ProviderGoogle, resp.StatusCode, string(body))
	}

	var genResp googleGenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, &MalformedResponseError{Provider: ProviderGoogle, Reason: "response envelope is not valid JSON", Err: err}
	}
	if len(genResp.Candidates) == 0 ||
		len(genResp.Candidates[0].Content.Parts) == 0 ||
		genResp.Candidates[0].Content.Parts[0].Text == "" {
		return nil, &MalformedResponseError{Provider: ProviderGoogle, Reason: "no content in response"}
	}

	return parseLLMContent(ProviderGoogle, genResp.Candidates[0].Content.Parts[0].Text)
}
