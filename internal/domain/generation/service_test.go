package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"cg-server/internal/utils/platformerrors"
)

type fakeUpstream struct {
	lastReq CompletionRequest
	out     string
	err     error
}

func (f *fakeUpstream) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.lastReq = req
	return f.out, f.err
}

func newTestService(upstream Upstream, fallback ProviderKeys) *Service {
	return NewService(upstream, NewTenantKeys(fallback, time.Hour), zerolog.Nop())
}

func TestGenerateText(t *testing.T) {
	upstream := &fakeUpstream{out: "  rewritten copy \n"}
	svc := newTestService(upstream, ProviderKeys{OpenAIKey: "sk-global"})

	out, err := svc.GenerateText(context.Background(), Params{
		Site:        "acme.io",
		Provider:    ProviderOpenAI,
		Model:       OpenAIDefaultModel,
		Temperature: 0.4,
		Prompt:      "rewrite this",
	})
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if out != "rewritten copy" {
		t.Errorf("output not trimmed: %q", out)
	}
	if upstream.lastReq.APIKey != "sk-global" {
		t.Errorf("fallback key not used: %q", upstream.lastReq.APIKey)
	}
	if upstream.lastReq.JSONObject {
		t.Error("free-text call must not request a JSON object")
	}
}

func TestGenerateText_TenantKeyOverridesFallback(t *testing.T) {
	upstream := &fakeUpstream{out: "ok"}
	svc := newTestService(upstream, ProviderKeys{GeminiKey: "global-gm"})
	svc.Tenants().Upsert("acme.io", "", "tenant-gm")

	_, err := svc.GenerateText(context.Background(), Params{
		Site:     "https://www.acme.io",
		Provider: ProviderGemini,
		Model:    GeminiDefaultModel,
		Prompt:   "hi",
	})
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if upstream.lastReq.APIKey != "tenant-gm" {
		t.Errorf("tenant key not preferred: %q", upstream.lastReq.APIKey)
	}
}

func TestGenerateText_MissingKey(t *testing.T) {
	svc := newTestService(&fakeUpstream{}, ProviderKeys{})

	_, err := svc.GenerateText(context.Background(), Params{
		Site:     "acme.io",
		Provider: ProviderGemini,
		Model:    GeminiDefaultModel,
		Prompt:   "hi",
	})
	if err == nil {
		t.Fatal("expected error for missing provider key")
	}
	var pe *platformerrors.PlatformError
	if !errors.As(err, &pe) || pe.Type != platformerrors.ErrorTypeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGenerateText_UpstreamFailure(t *testing.T) {
	upstream := &fakeUpstream{err: errors.New("429 rate limited")}
	svc := newTestService(upstream, ProviderKeys{OpenAIKey: "sk"})

	_, err := svc.GenerateText(context.Background(), Params{
		Site:     "acme.io",
		Provider: ProviderOpenAI,
		Model:    OpenAIDefaultModel,
		Prompt:   "hi",
	})
	if err == nil {
		t.Fatal("expected upstream error")
	}
	var pe *platformerrors.PlatformError
	if !errors.As(err, &pe) || pe.Type != platformerrors.ErrorTypeUpstreamError {
		t.Errorf("expected upstream error type, got %v", err)
	}
}

func TestGenerateDocument(t *testing.T) {
	upstream := &fakeUpstream{out: `{"title":"T","sections":[{"heading":"H","text":"B"}],"faq":[]}`}
	svc := newTestService(upstream, ProviderKeys{OpenAIKey: "sk"})

	doc, err := svc.GenerateDocument(context.Background(), Params{
		Site:     "acme.io",
		Provider: ProviderOpenAI,
		Model:    OpenAIDefaultModel,
		Prompt:   "write about Go",
	})
	if err != nil {
		t.Fatalf("GenerateDocument failed: %v", err)
	}
	if !upstream.lastReq.JSONObject {
		t.Error("document call must request a JSON object")
	}
	if doc.Title != "T" || len(doc.Sections) != 1 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestGenerateDocument_DegradedParse(t *testing.T) {
	upstream := &fakeUpstream{out: "not json at all"}
	svc := newTestService(upstream, ProviderKeys{OpenAIKey: "sk"})

	doc, err := svc.GenerateDocument(context.Background(), Params{
		Site:     "acme.io",
		Provider: ProviderOpenAI,
		Model:    OpenAIDefaultModel,
		Prompt:   "write",
	})
	if err != nil {
		t.Fatalf("GenerateDocument failed: %v", err)
	}
	if doc.Title != "Draft" || len(doc.Sections) != 1 {
		t.Errorf("expected degraded draft document, got %+v", doc)
	}
}

func TestMakeBlogPrompt(t *testing.T) {
	p := MakeBlogPrompt("pricing page copy", "ref text", "https://acme.io/sitemap.xml")
	for _, want := range []string{
		"single valid JSON object",
		"---REFERENCE START---\nref text\n---REFERENCE END---",
		"https://acme.io/sitemap.xml",
		"Topic/Prompt:\npricing page copy",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	bare := MakeBlogPrompt("topic", "", "")
	if strings.Contains(bare, "REFERENCE START") || strings.Contains(bare, "INTERNAL links") {
		t.Error("optional constraints leaked into bare prompt")
	}
}

func TestMakeFieldPrompt(t *testing.T) {
	html := MakeFieldPrompt("make it friendlier", "<p>old</p>", true)
	if !strings.Contains(html, "HTML content") {
		t.Error("HTML format not named")
	}
	if !strings.Contains(html, "---BEGIN CONTENT---\n<p>old</p>\n---END CONTENT---") {
		t.Error("content markers missing")
	}

	plain := MakeFieldPrompt("shorter", "old title", false)
	if !strings.Contains(plain, "plain text content") {
		t.Error("plain text format not named")
	}
}
