package inference

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"cg-server/internal/config"
	"cg-server/internal/domain/generation"
)

const (
	textSystemPrompt = "You are a helpful writing assistant."
	jsonSystemPrompt = "Reply with ONLY one valid JSON object."
)

// InferenceProvider dispatches completion calls to the configured upstream
// for each provider name. OpenAI clients are cached per API key since tenants
// bring their own credentials.
type InferenceProvider struct {
	gemini *GeminiClient
	logger zerolog.Logger

	mu            sync.Mutex
	openaiClients map[string]*openai.Client
}

func NewInferenceProvider(cfg *config.Config, log zerolog.Logger) generation.Upstream {
	return &InferenceProvider{
		gemini:        NewGeminiClient(cfg.GeminiBaseURL, cfg.UpstreamTimeout),
		logger:        log.With().Str("component", "inference").Logger(),
		openaiClients: make(map[string]*openai.Client),
	}
}

func (ip *InferenceProvider) Complete(ctx context.Context, req generation.CompletionRequest) (string, error) {
	switch req.Provider {
	case generation.ProviderGemini:
		return ip.gemini.GenerateContent(ctx, req.APIKey, req.Model, req.Prompt, req.Temperature, req.JSONObject)
	case generation.ProviderOpenAI:
		return ip.completeOpenAI(ctx, req)
	default:
		return "", fmt.Errorf("unsupported provider %q", req.Provider)
	}
}

func (ip *InferenceProvider) completeOpenAI(ctx context.Context, req generation.CompletionRequest) (string, error) {
	client := ip.openaiClientFor(req.APIKey)

	system := textSystemPrompt
	ccReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: float32(req.Temperature),
	}
	if req.JSONObject {
		system = jsonSystemPrompt
		ccReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	ccReq.Messages = []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}

	resp, err := client.CreateChatCompletion(ctx, ccReq)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (ip *InferenceProvider) openaiClientFor(apiKey string) *openai.Client {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	if client, ok := ip.openaiClients[apiKey]; ok {
		return client
	}
	client := openai.NewClient(apiKey)
	ip.openaiClients[apiKey] = client
	return client
}
