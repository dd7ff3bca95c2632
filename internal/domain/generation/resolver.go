package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"cg-server/internal/utils/platformerrors"
)

// Supported upstream providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Provider default models.
const (
	OpenAIDefaultModel = "gpt-4o-mini"
	GeminiDefaultModel = "gemini-1.5-flash"
)

// DefaultTemperature applies when the request carries no usable value.
const DefaultTemperature = 0.7

var allowedModels = map[string]map[string]struct{}{
	ProviderGemini: {
		"gemini-1.5-flash": {},
		"gemini-1.5-pro":   {},
		"gemini-1.0-pro":   {},
	},
	ProviderOpenAI: {
		"gpt-4o-mini": {},
		"gpt-4o":      {},
		"gpt-4.1-mini": {},
		"gpt-4.1":     {},
	},
}

// Options are the caller-supplied generation knobs.
type Options struct {
	Provider    string
	Model       string
	Temperature any
}

// NormalizeProvider maps case-insensitive synonyms to a canonical provider.
func NormalizeProvider(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "gemini", "google", "googleai", "gai":
		return ProviderGemini
	case "openai", "chatgpt", "oai", "gpt":
		return ProviderOpenAI
	default:
		return strings.ToLower(strings.TrimSpace(p))
	}
}

// modelBelongsTo infers a provider from a model name, or returns "".
func modelBelongsTo(m string) string {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "" {
		return ""
	}
	if _, ok := allowedModels[ProviderGemini][m]; ok || strings.Contains(m, "gemini") {
		return ProviderGemini
	}
	if _, ok := allowedModels[ProviderOpenAI][m]; ok || strings.HasPrefix(m, "gpt") {
		return ProviderOpenAI
	}
	return ""
}

// validateModel returns the model if allow-listed for the provider, otherwise
// the provider default.
func validateModel(provider, m string) (string, error) {
	m = strings.TrimSpace(m)
	defaults := map[string]string{
		ProviderGemini: GeminiDefaultModel,
		ProviderOpenAI: OpenAIDefaultModel,
	}
	fallback, ok := defaults[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider %q", provider)
	}
	if _, ok := allowedModels[provider][m]; ok {
		return m, nil
	}
	return fallback, nil
}

// ResolveProviderAndModel picks the upstream provider and model for a request:
// explicit hint first, then model-name inference, then whichever provider has
// a configured key (openai checked before gemini), defaulting to openai. An
// explicit provider conflicting with an explicit model's provider fails.
func ResolveProviderAndModel(ctx context.Context, opts Options, keys ProviderKeys) (string, string, error) {
	requestedProvider := NormalizeProvider(opts.Provider)
	requestedModel := strings.TrimSpace(opts.Model)

	provider := requestedProvider
	if provider == "" {
		provider = modelBelongsTo(requestedModel)
	}
	if provider == "" {
		switch {
		case keys.OpenAIKey != "":
			provider = ProviderOpenAI
		case keys.GeminiKey != "":
			provider = ProviderGemini
		default:
			provider = ProviderOpenAI
		}
	}
	provider = NormalizeProvider(provider)

	model, err := validateModel(provider, requestedModel)
	if err != nil {
		return "", "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "resolve provider")
	}

	if requestedProvider != "" && requestedModel != "" {
		if belongs := modelBelongsTo(requestedModel); belongs != "" && belongs != provider {
			return "", "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("model %q is not a %s model", requestedModel, provider))
		}
	}
	return provider, model, nil
}

// ClampTemperature coerces the raw value to a float in [0.0, 2.0]. Anything
// non-numeric falls back to the default.
func ClampTemperature(v any) float64 {
	t := DefaultTemperature
	switch x := v.(type) {
	case float64:
		t = x
	case float32:
		t = float64(x)
	case int:
		t = float64(x)
	case json.Number:
		if parsed, err := x.Float64(); err == nil {
			t = parsed
		}
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			t = parsed
		}
	}
	if t < 0.0 {
		return 0.0
	}
	if t > 2.0 {
		return 2.0
	}
	return t
}
