package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	httpclients "cg-server/internal/utils/httpclients"
)

// GeminiClient talks to the Generative Language REST API. There is no official
// Go SDK pinned here, so requests go through the shared resty client.
type GeminiClient struct {
	client  *resty.Client
	baseURL string
}

func NewGeminiClient(baseURL string, timeout time.Duration) *GeminiClient {
	client := httpclients.NewClient("GeminiClient")
	client.SetTimeout(timeout)
	return &GeminiClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent issues one non-streaming generateContent call and returns
// the concatenated text parts of the first candidate.
func (g *GeminiClient) GenerateContent(ctx context.Context, apiKey, model, prompt string, temperature float64, jsonObject bool) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature: temperature,
		},
	}
	if jsonObject {
		body.GenerationConfig.ResponseMimeType = "application/json"
	}

	var result geminiResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", apiKey).
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		if result.Error != nil && result.Error.Message != "" {
			return "", fmt.Errorf("gemini: %s (status %d)", result.Error.Message, resp.StatusCode())
		}
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode())
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
