package dto

import (
	"cg-server/internal/domain/rewrite"
)

// GenerateOptions tunes one generation call. Temperature is declared loosely
// because plugin clients send it as number or string interchangeably.
type GenerateOptions struct {
	Mode          string `json:"mode" binding:"omitempty,genmode"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Temperature   any    `json:"temperature"`
	ReferenceText string `json:"reference_text"`
	SitemapURL    string `json:"sitemap_url"`
	DryRun        bool   `json:"dry_run"`
}

// GenerateRequest is the shared payload of the generate endpoints. Provider
// keys may ride in the body or in X-Openai-Key / X-Gemini-Key headers.
type GenerateRequest struct {
	Site      string           `json:"site"`
	Prompt    string           `json:"prompt"`
	OpenAIKey string           `json:"openai_key"`
	GeminiKey string           `json:"gemini_key"`
	Options   *GenerateOptions `json:"options"`
	Elementor []any            `json:"elementor"`
}

// TextResponse is the replacer-mode result.
type TextResponse struct {
	Text string `json:"text"`
}

// ElementorResponse returns the rewritten tree. DryRunParts is only populated
// when the caller asked for a preview.
type ElementorResponse struct {
	Elementor   []any          `json:"elementor"`
	DryRunParts []rewrite.Part `json:"dry_run_parts,omitempty"`
}

// PreviewResponse is the rendered blog preview.
type PreviewResponse struct {
	HTML  string `json:"html"`
	Title string `json:"title"`
}
