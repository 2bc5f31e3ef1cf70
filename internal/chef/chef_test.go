package chef

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"kitchen-assistant/internal/llm"
	"kitchen-assistant/internal/recipe"
	"kitchen-assistant/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validRecipeJSON = `{
	"title": "Tomato Rice",
	"description": "Rice cooked with tomatoes.",
	"estimatedTime": "25 minutes",
	"ingredients": ["1 cup rice", "2 tomatoes"],
	"procedure": "1. Cook.\n2. Eat."
}`

type mockTextGenerator struct {
	content string
	err     error
	calls   int
	last    llm.Prompt
	mu      sync.Mutex
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt llm.Prompt) (llm.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.last = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.content,
		Usage:   shared.TokenUsage{PromptTokens: 10, CompletionTokens: 20, Model: "test-model"},
	}, nil
}

type mockImageGenerator struct {
	uri string
	err error
}

func (m *mockImageGenerator) GenerateImage(ctx context.Context, req llm.ImageRequest) (string, error) {
	return m.uri, m.err
}

type recordingMetrics struct {
	mu    sync.Mutex
	metas []shared.StageMeta
}

func (r *recordingMetrics) RecordMeta(ctx context.Context, meta shared.StageMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metas = append(r.metas, meta)
	return nil
}

func newRequest(p Provider, generateImage bool) Request {
	prefs := DefaultPreferences()
	prefs.GenerateImage = generateImage
	return Request{
		SelectedIngredients: []string{"rice"},
		AllIngredients:      []string{"rice", "tomato"},
		Preferences:         prefs,
		Provider:            p,
	}
}

func TestGenerateRecipe_ProviderTable(t *testing.T) {
	ctx := context.Background()
	upstream := errors.New("upstream down")

	t.Run("OpenAIUnconfigured", func(t *testing.T) {
		c := New(zap.NewNop())
		_, err := c.GenerateRecipe(ctx, newRequest(ProviderOpenAI, false))
		assert.ErrorIs(t, err, ErrProviderNotConfigured)
	})

	t.Run("GeminiUnconfigured", func(t *testing.T) {
		c := New(zap.NewNop())
		_, err := c.GenerateRecipe(ctx, newRequest(ProviderGemini, false))
		assert.ErrorIs(t, err, ErrProviderNotConfigured)
	})

	t.Run("OpenAIUpstreamError", func(t *testing.T) {
		c := New(zap.NewNop(), WithTextGenerator(ProviderOpenAI, &mockTextGenerator{err: upstream}))
		_, err := c.GenerateRecipe(ctx, newRequest(ProviderOpenAI, false))
		assert.ErrorIs(t, err, upstream)
	})

	t.Run("GeminiMalformed", func(t *testing.T) {
		c := New(zap.NewNop(), WithTextGenerator(ProviderGemini, &mockTextGenerator{content: `{"title": "x"}`}))
		_, err := c.GenerateRecipe(ctx, newRequest(ProviderGemini, false))
		assert.ErrorIs(t, err, ErrMalformedRecipe)
	})

	t.Run("OpenAISuccess", func(t *testing.T) {
		gen := &mockTextGenerator{content: validRecipeJSON}
		c := New(zap.NewNop(), WithTextGenerator(ProviderOpenAI, gen))

		r, err := c.GenerateRecipe(ctx, newRequest(ProviderOpenAI, false))
		require.NoError(t, err)
		assert.Equal(t, "Tomato Rice", r.Title)
		assert.Equal(t, []string{"1 cup rice", "2 tomatoes"}, r.Ingredients)
		assert.Positive(t, r.ID)
		assert.False(t, r.HasImage())
		assert.Contains(t, gen.last.User, "- rice")
		assert.NotEmpty(t, gen.last.System)
	})

	for _, p := range []Provider{ProviderLocal, ProviderGroq, ProviderAnthropic} {
		t.Run(string(p)+"FallsBackOnError", func(t *testing.T) {
			c := New(zap.NewNop(), WithTextGenerator(p, &mockTextGenerator{err: upstream}))
			r, err := c.GenerateRecipe(ctx, newRequest(p, false))
			require.NoError(t, err)
			assert.Equal(t, "Simple Garlic Pasta", r.Title)
		})

		t.Run(string(p)+"FallsBackOnMalformed", func(t *testing.T) {
			c := New(zap.NewNop(), WithTextGenerator(p, &mockTextGenerator{content: "not json"}))
			r, err := c.GenerateRecipe(ctx, newRequest(p, false))
			require.NoError(t, err)
			assert.NotEmpty(t, r.Ingredients)
		})
	}

	t.Run("AnthropicUnconfiguredUsesMock", func(t *testing.T) {
		c := New(zap.NewNop())
		req := newRequest(ProviderAnthropic, false)
		req.Preferences.Prompt = "something for dessert"
		r, err := c.GenerateRecipe(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Easy Fruit Crumble", r.Title)
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		c := New(zap.NewNop())
		_, err := c.GenerateRecipe(ctx, newRequest(Provider("bard"), false))
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("InvalidPreferences", func(t *testing.T) {
		c := New(zap.NewNop())
		req := newRequest(ProviderGroq, false)
		req.Preferences.EffortLevel = "extreme"
		_, err := c.GenerateRecipe(ctx, req)
		assert.Error(t, err)
	})

	t.Run("CanceledContextDoesNotFallBack", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		c := New(zap.NewNop(), WithTextGenerator(ProviderLocal, &mockTextGenerator{err: context.Canceled}))
		_, err := c.GenerateRecipe(cctx, newRequest(ProviderLocal, false))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGenerateRecipe_Image(t *testing.T) {
	ctx := context.Background()
	validURI := recipe.EncodePNGDataURI([]byte("\x89PNG fake"))

	t.Run("Disabled", func(t *testing.T) {
		c := New(zap.NewNop(), WithImageGenerator(&mockImageGenerator{uri: validURI}))
		r, err := c.GenerateRecipe(ctx, newRequest(ProviderGroq, false))
		require.NoError(t, err)
		assert.Empty(t, r.Image)
	})

	t.Run("Success", func(t *testing.T) {
		c := New(zap.NewNop(), WithImageGenerator(&mockImageGenerator{uri: validURI}))
		r, err := c.GenerateRecipe(ctx, newRequest(ProviderGroq, true))
		require.NoError(t, err)
		assert.Equal(t, validURI, r.Image)
	})

	placeholderCases := map[string]llm.ImageGenerator{
		"NoGenerator":   nil,
		"UpstreamError": &mockImageGenerator{err: errors.New("quota")},
		"NotADataURI":   &mockImageGenerator{uri: "https://example.com/x.png"},
		"BadBase64":     &mockImageGenerator{uri: recipe.PNGDataURIPrefix + "!!!"},
	}
	for name, gen := range placeholderCases {
		t.Run(name, func(t *testing.T) {
			var opts []Option
			if gen != nil {
				opts = append(opts, WithImageGenerator(gen))
			}
			c := New(zap.NewNop(), opts...)
			r, err := c.GenerateRecipe(ctx, newRequest(ProviderGroq, true))
			require.NoError(t, err)

			want, err := Placeholder(r.Title)
			require.NoError(t, err)
			assert.Equal(t, want, r.Image)
		})
	}
}

func TestGenerateRecipe_IDsAndMetrics(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	ids := shared.NewIDSource(func() time.Time { return frozen })
	rec := &recordingMetrics{}

	c := New(zap.NewNop(),
		WithIDSource(ids),
		WithMetrics(rec),
		WithTextGenerator(ProviderOpenAI, &mockTextGenerator{content: validRecipeJSON}),
	)

	first, err := c.GenerateRecipe(context.Background(), newRequest(ProviderOpenAI, true))
	require.NoError(t, err)
	second, err := c.GenerateRecipe(context.Background(), newRequest(ProviderOpenAI, false))
	require.NoError(t, err)

	assert.Equal(t, int64(1_700_000_000_000), first.ID)
	assert.Greater(t, second.ID, first.ID)

	require.Len(t, rec.metas, 3)
	assert.Equal(t, string(StageGeneratingText), rec.metas[0].Stage)
	assert.Equal(t, shared.OutcomeOK, rec.metas[0].Outcome)
	assert.Equal(t, "test-model", rec.metas[0].Usage.Model)
	assert.Equal(t, string(StageGeneratingImage), rec.metas[1].Stage)
	assert.Equal(t, shared.OutcomeFallback, rec.metas[1].Outcome)
}

func TestGenerateRecipe_Concurrent(t *testing.T) {
	c := New(zap.NewNop())

	const n = 8
	results := make([]recipe.Recipe, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := c.GenerateRecipe(context.Background(), newRequest(ProviderAnthropic, false))
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, r := range results {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
}
