package generatehandler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cg-server/internal/domain/generation"
	"cg-server/internal/domain/rewrite"
	"cg-server/internal/infrastructure/metrics"
	"cg-server/internal/infrastructure/observability"
	"cg-server/internal/interfaces/httpserver/dto"
	"cg-server/internal/interfaces/httpserver/middlewares"
	"cg-server/internal/interfaces/httpserver/responses"
	"cg-server/internal/utils/platformerrors"
)

// Generation modes dispatched from options.mode.
const (
	ModeReplacer  = "replacer"
	ModeBlog      = "blog"
	ModeElementor = "elementor"
)

// Handler serves the generate endpoints consumed by the WordPress plugin.
type Handler struct {
	generation *generation.Service
	rewriter   *rewrite.Rewriter
	logger     zerolog.Logger
}

func NewHandler(genService *generation.Service, logger zerolog.Logger) *Handler {
	h := &Handler{
		generation: genService,
		logger:     logger.With().Str("component", "generate-handler").Logger(),
	}
	h.rewriter = rewrite.NewRewriter(h.fieldGenerator(), logger)
	return h
}

// call carries one request's resolved generation parameters.
type call struct {
	site        string
	provider    string
	model       string
	temperature float64
	opts        dto.GenerateOptions
}

// prepare upserts tenant keys from body and headers, then resolves provider,
// model, and temperature. Raw keys are never logged, presence only.
func (h *Handler) prepare(c *gin.Context, req *dto.GenerateRequest) (*call, bool) {
	site := generation.NormalizeSite(req.Site)
	tenants := h.generation.Tenants()
	tenants.Upsert(site, req.OpenAIKey, req.GeminiKey)
	tenants.Upsert(site, c.GetHeader("X-Openai-Key"), c.GetHeader("X-Gemini-Key"))

	opts := dto.GenerateOptions{}
	if req.Options != nil {
		opts = *req.Options
	}

	provider, model, err := h.generation.Resolve(c.Request.Context(), generation.Options{
		Provider: opts.Provider,
		Model:    opts.Model,
	}, site)
	if err != nil {
		responses.HandleError(c, err, "invalid provider options")
		return nil, false
	}

	keys := tenants.Resolve(site)
	h.logger.Info().
		Str("request_id", c.GetString("request_id")).
		Str("tenant", middlewares.TenantFromContext(c)).
		Str("site", site).
		Str("provider", provider).
		Str("model", model).
		Bool("openai_key", keys.OpenAIKey != "").
		Bool("gemini_key", keys.GeminiKey != "").
		Int("prompt_len", len(strings.TrimSpace(req.Prompt))).
		Msg("generation start")

	return &call{
		site:        site,
		provider:    provider,
		model:       model,
		temperature: generation.ClampTemperature(opts.Temperature),
		opts:        opts,
	}, true
}

// GenerateContent dispatches on options.mode: replacer returns plain text,
// blog returns a structured document, elementor rewrites a content tree.
func (h *Handler) GenerateContent(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request payload")
		return
	}

	cl, ok := h.prepare(c, &req)
	if !ok {
		return
	}

	mode := strings.ToLower(cl.opts.Mode)
	if mode == "" {
		mode = ModeReplacer
	}

	switch mode {
	case ModeBlog:
		h.generateBlog(c, cl, &req)
	case ModeElementor:
		h.generateElementor(c, cl, &req)
	default:
		h.generateText(c, cl, &req)
	}
}

// BlogPreview runs the blog path and renders the document to preview markup.
func (h *Handler) BlogPreview(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, err, "invalid request payload")
		return
	}

	cl, ok := h.prepare(c, &req)
	if !ok {
		return
	}

	doc, err := h.generateDocument(c.Request.Context(), cl, &req)
	if err != nil {
		h.failGeneration(c, "preview", cl.provider, err)
		return
	}

	metrics.RecordGeneration("preview", cl.provider, "ok")
	c.JSON(http.StatusOK, dto.PreviewResponse{
		HTML:  generation.RenderPreviewHTML(doc),
		Title: doc.Title,
	})
}

func (h *Handler) generateText(c *gin.Context, cl *call, req *dto.GenerateRequest) {
	start := time.Now()
	text, err := h.generation.GenerateText(c.Request.Context(), generation.Params{
		Site:        cl.site,
		Provider:    cl.provider,
		Model:       cl.model,
		Temperature: cl.temperature,
		Prompt:      req.Prompt,
	})
	if err != nil {
		h.failGeneration(c, ModeReplacer, cl.provider, err)
		return
	}
	metrics.RecordUpstreamDuration(cl.provider, cl.model, time.Since(start).Seconds())
	metrics.RecordGeneration(ModeReplacer, cl.provider, "ok")

	h.logger.Info().Str("site", cl.site).Int("text_len", len(text)).Msg("text generation ok")
	c.JSON(http.StatusOK, dto.TextResponse{Text: text})
}

func (h *Handler) generateBlog(c *gin.Context, cl *call, req *dto.GenerateRequest) {
	doc, err := h.generateDocument(c.Request.Context(), cl, req)
	if err != nil {
		h.failGeneration(c, ModeBlog, cl.provider, err)
		return
	}

	metrics.RecordGeneration(ModeBlog, cl.provider, "ok")
	h.logger.Info().
		Str("site", cl.site).
		Int("title_len", len(doc.Title)).
		Int("sections", len(doc.Sections)).
		Msg("blog generation ok")
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) generateDocument(ctx context.Context, cl *call, req *dto.GenerateRequest) (generation.Document, error) {
	composite := generation.MakeBlogPrompt(
		req.Prompt,
		strings.TrimSpace(cl.opts.ReferenceText),
		strings.TrimSpace(cl.opts.SitemapURL),
	)

	start := time.Now()
	doc, err := h.generation.GenerateDocument(ctx, generation.Params{
		Site:        cl.site,
		Provider:    cl.provider,
		Model:       cl.model,
		Temperature: cl.temperature,
		Prompt:      composite,
	})
	if err != nil {
		return generation.Document{}, err
	}
	metrics.RecordUpstreamDuration(cl.provider, cl.model, time.Since(start).Seconds())
	return doc, nil
}

type generationParamsKey struct{}

func (h *Handler) generateElementor(c *gin.Context, cl *call, req *dto.GenerateRequest) {
	if len(req.Elementor) == 0 {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, nil, "elementor tree is required")
		return
	}

	ctx := context.WithValue(c.Request.Context(), generationParamsKey{}, generation.Params{
		Site:        cl.site,
		Provider:    cl.provider,
		Model:       cl.model,
		Temperature: cl.temperature,
	})

	tree, parts, err := h.rewriter.Rewrite(ctx, req.Elementor, req.Prompt, cl.opts.DryRun)
	if err != nil {
		h.failGeneration(c, ModeElementor, cl.provider, err)
		return
	}

	metrics.RewriteFieldsPerRequest.Observe(float64(len(parts)))
	metrics.RecordGeneration(ModeElementor, cl.provider, "ok")
	h.logger.Info().
		Str("site", cl.site).
		Int("fields", len(parts)).
		Bool("dry_run", cl.opts.DryRun).
		Msg("tree rewrite ok")

	resp := dto.ElementorResponse{Elementor: tree}
	if cl.opts.DryRun {
		resp.DryRunParts = parts
	}
	c.JSON(http.StatusOK, resp)
}

// fieldGenerator adapts the generation service into the per-field callback
// used by the tree rewriter.
func (h *Handler) fieldGenerator() rewrite.Generator {
	return func(ctx context.Context, instruction, content string, isHTML bool) (string, error) {
		params, ok := ctx.Value(generationParamsKey{}).(generation.Params)
		if !ok {
			return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "generation parameters missing")
		}
		params.Prompt = generation.MakeFieldPrompt(instruction, content, isHTML)
		return h.generation.GenerateText(ctx, params)
	}
}

func (h *Handler) failGeneration(c *gin.Context, mode, provider string, err error) {
	metrics.RecordGeneration(mode, provider, "error")
	observability.RecordError(c.Request.Context(), err)

	var pe *platformerrors.PlatformError
	if errors.As(err, &pe) && pe.Type == platformerrors.ErrorTypeUpstreamError {
		metrics.RecordProviderError(provider)
		h.logger.Error().Err(err).
			Str("mode", mode).
			Str("provider", provider).
			Str("trace_id", observability.GetTraceID(c.Request.Context())).
			Msg("generation failed")
		responses.HandleUpstreamError(c, err)
		return
	}

	h.logger.Warn().Err(err).Str("mode", mode).Msg("generation rejected")
	responses.HandleError(c, err, "generation failed")
}
