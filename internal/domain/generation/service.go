package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"cg-server/internal/utils/platformerrors"
)

// CompletionRequest is a single-turn request to an upstream provider.
type CompletionRequest struct {
	Provider    string
	Model       string
	APIKey      string
	Prompt      string
	Temperature float64
	// JSONObject constrains or instructs the response to one JSON object.
	JSONObject bool
}

// Upstream issues completion calls against a provider.
type Upstream interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Params carries one resolved generation call.
type Params struct {
	Site        string
	Provider    string
	Model       string
	Temperature float64
	Prompt      string
}

// Service coordinates provider resolution and upstream calls.
type Service struct {
	upstream Upstream
	tenants  *TenantKeys
	logger   zerolog.Logger
}

// NewService constructs a generation service.
func NewService(upstream Upstream, tenants *TenantKeys, logger zerolog.Logger) *Service {
	return &Service{
		upstream: upstream,
		tenants:  tenants,
		logger:   logger.With().Str("component", "generation-service").Logger(),
	}
}

// Tenants exposes the tenant credential store for upserts and sweeps.
func (s *Service) Tenants() *TenantKeys {
	return s.tenants
}

// Resolve picks provider and model for a site using its stored credentials.
func (s *Service) Resolve(ctx context.Context, opts Options, site string) (string, string, error) {
	return ResolveProviderAndModel(ctx, opts, s.tenants.Resolve(site))
}

// GenerateText issues one free-text completion and returns the trimmed
// response. Provider failures surface as a single upstream error kind; no
// retry is performed.
func (s *Service) GenerateText(ctx context.Context, p Params) (string, error) {
	apiKey, err := s.keyFor(ctx, p.Provider, p.Site)
	if err != nil {
		return "", err
	}

	out, err := s.upstream.Complete(ctx, CompletionRequest{
		Provider:    p.Provider,
		Model:       p.Model,
		APIKey:      apiKey,
		Prompt:      p.Prompt,
		Temperature: p.Temperature,
	})
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerUpstream, err, "text generation failed")
	}
	return strings.TrimSpace(out), nil
}

// GenerateDocument issues one completion constrained to a JSON document and
// parses it, degrading to a single-section draft when parsing fails.
func (s *Service) GenerateDocument(ctx context.Context, p Params) (Document, error) {
	apiKey, err := s.keyFor(ctx, p.Provider, p.Site)
	if err != nil {
		return Document{}, err
	}

	out, err := s.upstream.Complete(ctx, CompletionRequest{
		Provider:    p.Provider,
		Model:       p.Model,
		APIKey:      apiKey,
		Prompt:      p.Prompt,
		Temperature: p.Temperature,
		JSONObject:  true,
	})
	if err != nil {
		return Document{}, platformerrors.AsError(ctx, platformerrors.LayerUpstream, err, "document generation failed")
	}
	return ParseDocument(out), nil
}

func (s *Service) keyFor(ctx context.Context, provider, site string) (string, error) {
	keys := s.tenants.Resolve(site)
	switch provider {
	case ProviderOpenAI:
		if keys.OpenAIKey == "" {
			return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "OpenAI key missing for this site")
		}
		return keys.OpenAIKey, nil
	case ProviderGemini:
		if keys.GeminiKey == "" {
			return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "Gemini key missing for this site")
		}
		return keys.GeminiKey, nil
	default:
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, fmt.Sprintf("unknown provider %q", provider))
	}
}
