// Package chef turns pantry ingredients and preferences into a recipe by
// calling a text provider and, optionally, an image provider.
package chef

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchen-assistant/internal/llm"
	"kitchen-assistant/internal/metrics"
	"kitchen-assistant/internal/recipe"
	"kitchen-assistant/internal/shared"

	"go.uber.org/zap"
)

var (
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrUnknownProvider       = errors.New("unknown provider")
	ErrMalformedRecipe       = errors.New("malformed recipe response")
)

// Stage is a step of a generation.
type Stage string

const (
	StageIdle            Stage = "idle"
	StageGeneratingText  Stage = "generating-text"
	StageGeneratingImage Stage = "generating-image"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
)

// imageProvider labels image stage metrics.
const imageProvider = "openai-images"

// Request is the input of one generation.
type Request struct {
	SelectedIngredients []string
	AllIngredients      []string
	Preferences         Preferences
	Provider            Provider
}

// MetricsRecorder persists per-stage metadata.
type MetricsRecorder interface {
	RecordMeta(ctx context.Context, meta shared.StageMeta) error
}

// Chef runs the generation pipeline. It is safe for concurrent use.
type Chef struct {
	text      map[Provider]llm.TextGenerator
	images    llm.ImageGenerator
	recorder  MetricsRecorder
	collector *metrics.Collector
	nextID    func() int64
	log       *zap.Logger
}

// Option configures a Chef.
type Option func(*Chef)

// WithTextGenerator binds a text generator to a provider.
func WithTextGenerator(p Provider, gen llm.TextGenerator) Option {
	return func(c *Chef) {
		if gen != nil {
			c.text[p] = gen
		}
	}
}

// WithImageGenerator sets the image generator. Without one every image is
// a placeholder.
func WithImageGenerator(gen llm.ImageGenerator) Option {
	return func(c *Chef) { c.images = gen }
}

// WithMetrics stores stage metadata through r.
func WithMetrics(r MetricsRecorder) Option {
	return func(c *Chef) { c.recorder = r }
}

// WithCollector counts stages on Prometheus counters.
func WithCollector(col *metrics.Collector) Option {
	return func(c *Chef) { c.collector = col }
}

// WithIDSource replaces the process-wide id source.
func WithIDSource(ids *shared.IDSource) Option {
	return func(c *Chef) { c.nextID = ids.Next }
}

// New creates a Chef.
func New(log *zap.Logger, opts ...Option) *Chef {
	c := &Chef{
		text:   make(map[Provider]llm.TextGenerator),
		nextID: shared.NextID,
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateRecipe produces one complete recipe. It fails only when the text
// stage fails for a provider without a mock fallback, or when the request
// itself is invalid. Image problems never fail the generation.
func (c *Chef) GenerateRecipe(ctx context.Context, req Request) (recipe.Recipe, error) {
	if !req.Provider.Valid() {
		return recipe.Recipe{}, fmt.Errorf("%w: %q", ErrUnknownProvider, req.Provider)
	}
	if err := req.Preferences.Validate(); err != nil {
		return recipe.Recipe{}, fmt.Errorf("invalid preferences: %w", err)
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return recipe.Recipe{}, err
	}

	log := c.log.With(zap.String("provider", string(req.Provider)))
	log.Debug("generation stage", zap.String("stage", string(StageGeneratingText)))

	draft, err := c.generateText(ctx, req.Provider, prompt, log)
	if err != nil {
		log.Error("recipe generation failed", zap.String("stage", string(StageFailed)), zap.Error(err))
		return recipe.Recipe{}, err
	}

	r := draft.Assemble(c.nextID())

	if req.Preferences.GenerateImage {
		log.Debug("generation stage", zap.String("stage", string(StageGeneratingImage)))
		r.Image = c.generateImage(ctx, draft, log)
	}

	log.Info("recipe generated",
		zap.String("stage", string(StageDone)),
		zap.Int64("id", r.ID),
		zap.String("title", r.Title),
		zap.Bool("image", r.HasImage()))
	return r, nil
}

func (c *Chef) generateText(ctx context.Context, p Provider, prompt llm.Prompt, log *zap.Logger) (recipe.Draft, error) {
	start := time.Now()
	meta := shared.StageMeta{Stage: string(StageGeneratingText), Provider: string(p)}

	gen, ok := c.text[p]
	if !ok {
		if !p.FallsBackToMock() {
			meta.Outcome = shared.OutcomeFailed
			c.observe(ctx, meta, start)
			return recipe.Draft{}, fmt.Errorf("%w: %s", ErrProviderNotConfigured, p)
		}
		meta.Outcome = shared.OutcomeFallback
		meta.Usage.Model = mockModel
		c.observe(ctx, meta, start)
		return MockDraft(prompt.User), nil
	}

	resp, err := gen.GenerateContent(ctx, prompt)
	meta.Usage = resp.Usage
	var draft recipe.Draft
	if err == nil {
		draft, err = DecodeDraft(resp.Content)
	}
	if err == nil {
		meta.Outcome = shared.OutcomeOK
		c.observe(ctx, meta, start)
		return draft, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		meta.Outcome = shared.OutcomeFailed
		c.observe(ctx, meta, start)
		return recipe.Draft{}, ctxErr
	}

	if !p.FallsBackToMock() {
		meta.Outcome = shared.OutcomeFailed
		c.observe(ctx, meta, start)
		return recipe.Draft{}, fmt.Errorf("text generation with %s failed: %w", p, err)
	}

	log.Warn("text provider failed, using mock recipe", zap.Error(err))
	meta.Outcome = shared.OutcomeFallback
	c.observe(ctx, meta, start)
	return MockDraft(prompt.User), nil
}

func (c *Chef) generateImage(ctx context.Context, d recipe.Draft, log *zap.Logger) string {
	start := time.Now()
	meta := shared.StageMeta{Stage: string(StageGeneratingImage), Provider: imageProvider}

	if c.images != nil {
		uri, err := c.images.GenerateImage(ctx, llm.ImageRequest{Title: d.Title, Description: d.Description})
		if err == nil {
			_, err = recipe.DecodePNGDataURI(uri)
		}
		if err == nil {
			meta.Outcome = shared.OutcomeOK
			c.observe(ctx, meta, start)
			return uri
		}
		log.Warn("image generation failed, using placeholder", zap.Error(err))
	}

	uri, err := Placeholder(d.Title)
	if err != nil {
		log.Error("placeholder image failed", zap.Error(err))
		meta.Outcome = shared.OutcomeFailed
		c.observe(ctx, meta, start)
		return ""
	}
	meta.Outcome = shared.OutcomeFallback
	c.observe(ctx, meta, start)
	return uri
}

func (c *Chef) observe(ctx context.Context, meta shared.StageMeta, start time.Time) {
	meta.Latency = time.Since(start)
	c.collector.ObserveStage(meta)
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordMeta(context.WithoutCancel(ctx), meta); err != nil {
		c.log.Warn("failed to record generation metric", zap.String("stage", meta.Stage), zap.Error(err))
	}
}
