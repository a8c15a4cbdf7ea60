package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ozvena/ozvena/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider call latencies partitioned by provider and outcome
	llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_provider_request_duration_seconds",
			Help:    "LLM provider call latencies in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "outcome"},
	)
)

// LLMService routes a generation request to the right provider client based
// on the public model identifier.
type LLMService interface {
	Generate(ctx context.Context, modelID, systemPrompt, userPrompt string) (*LLMResponse, error)
}

// LLMServiceImpl implements LLMService over the four provider clients
type LLMServiceImpl struct {
	registry *ModelRegistry
	clients  map[Provider]ProviderClient
}

// NewLLMService creates the provider router. Clients are constructed once;
// a missing credential is detected at call time so that a deployment using
// only a subset of providers still starts.
func NewLLMService(registry *ModelRegistry, cfg config.LLMConfig) LLMService {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	return &LLMServiceImpl{
		registry: registry,
		clients: map[Provider]ProviderClient{
			ProviderXAI:       NewOpenAICompatibleClient(ProviderXAI, cfg.XAIBaseURL, cfg.XAIAPIKey, httpClient),
			ProviderOpenAI:    NewOpenAICompatibleClient(ProviderOpenAI, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, httpClient),
			ProviderAnthropic: NewAnthropicClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, httpClient),
			ProviderGoogle:    NewGoogleClient(cfg.GoogleBaseURL, cfg.GoogleAPIKey, httpClient),
		},
	}
}

// Generate resolves the model identifier and dispatches to its provider.
// Every failure (unknown model, missing credential, provider error,
// malformed response) is returned as-is; callers decide terminal handling.
func (s *LLMServiceImpl) Generate(ctx context.Context, modelID, systemPrompt, userPrompt string) (*LLMResponse, error) {
	modelCfg, err := s.registry.Resolve(modelID)
	if err != nil {
		return nil, err
	}

	client, ok := s.clients[modelCfg.Provider]
	if !ok {
		return nil, fmt.Errorf("no client for provider %s", modelCfg.Provider)
	}

	start := time.Now()
	resp, err := client.Call(ctx, modelCfg.APIModel, systemPrompt, userPrompt)

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	llmRequestDuration.WithLabelValues(client.Name(), outcome).Observe(time.Since(start).Seconds())

	return resp, err
}
