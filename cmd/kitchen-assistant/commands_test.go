package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"kitchen-assistant/internal/app"
	"kitchen-assistant/internal/chef"
	"kitchen-assistant/internal/config"
	"kitchen-assistant/internal/cookbook"
	"kitchen-assistant/internal/database"
	"kitchen-assistant/internal/metrics"
	"kitchen-assistant/internal/recipe"
	"kitchen-assistant/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEnv(t *testing.T) (*env, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:      dir,
		DatabasePath: filepath.Join(dir, "kitchen.db"),
		StorageQuota: 1 << 20,
	}

	db, err := database.NewDB(cfg.DatabasePath, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	backend, err := storage.NewFileBackend(cfg.StorePath(), cfg.StorageQuota)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(registry)
	require.NoError(t, err)

	metricsStore := metrics.NewStore(db.SQL)
	book := cookbook.New(storage.NewStore(backend, zap.NewNop()), recipe.NewImageRepository(db.SQL), collector, zap.NewNop())
	kitchen := chef.New(zap.NewNop(), chef.WithMetrics(metricsStore), chef.WithCollector(collector))
	application := app.New(context.Background(), book, kitchen, chef.ProviderAnthropic, zap.NewNop())
	t.Cleanup(application.Close)

	out := &bytes.Buffer{}
	return &env{cfg: cfg, app: application, book: book, metrics: metricsStore, registry: registry, out: out}, out
}

func TestDispatch_Workflow(t *testing.T) {
	ctx := context.Background()
	e, out := newTestEnv(t)

	require.NoError(t, e.dispatch(ctx, "add", []string{"fresh", "basil"}))
	assert.Contains(t, out.String(), "Welcome to Commis", "first run shows onboarding")
	assert.Contains(t, out.String(), "fresh basil")
	assert.True(t, e.book.OnboardingSeen())

	out.Reset()
	require.NoError(t, e.dispatch(ctx, "add", []string{"FRESH BASIL"}))
	assert.Contains(t, out.String(), "Not added")
	assert.NotContains(t, out.String(), "Welcome")

	out.Reset()
	require.NoError(t, e.dispatch(ctx, "generate", []string{"-prompt", "a green salad", "-effort", "medium"}))
	assert.Contains(t, out.String(), "Quick Mediterranean Salad")

	recipes := e.app.Recipes()
	require.Len(t, recipes, 1)
	assert.True(t, recipes[0].HasImage())

	imgPath := filepath.Join(t.TempDir(), "dish.png")
	id := recipes[0].ID
	out.Reset()
	require.NoError(t, e.dispatch(ctx, "show", []string{formatID(id), "-image-out", imgPath}))
	data, err := os.ReadFile(imgPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])

	out.Reset()
	require.NoError(t, e.dispatch(ctx, "metrics", nil))
	assert.Contains(t, out.String(), "FALLBACKS")

	require.NoError(t, e.dispatch(ctx, "delete", []string{formatID(id)}))
	assert.Error(t, e.dispatch(ctx, "delete", []string{formatID(id)}))

	out.Reset()
	require.NoError(t, e.dispatch(ctx, "sweep-images", nil))
	assert.Contains(t, out.String(), "Removed 0 orphan images.")
}

func TestDispatch_Errors(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEnv(t)

	assert.ErrorIs(t, e.dispatch(ctx, "nope", nil), errUsage)
	assert.ErrorIs(t, e.dispatch(ctx, "remove", nil), errUsage)
	assert.Error(t, e.dispatch(ctx, "toggle", []string{"abc"}))
	assert.Error(t, e.dispatch(ctx, "generate", []string{"-provider", "bard"}))
	assert.ErrorIs(t, e.dispatch(ctx, "generate", []string{"-effort", "heroic"}), app.ErrInvalidPreferences)
	assert.ErrorIs(t, e.dispatch(ctx, "generate", []string{"-provider", "openai"}), chef.ErrProviderNotConfigured)
}

func TestDispatch_GenerationFailure(t *testing.T) {
	ctx := context.Background()
	e, out := newTestEnv(t)

	err := e.dispatch(ctx, "generate", []string{"-provider", "openai"})
	assert.ErrorIs(t, err, chef.ErrProviderNotConfigured)
	assert.Contains(t, out.String(), "Recipe generation failed, please try again.")
	assert.NotContains(t, out.String(), "API key")
	assert.Empty(t, e.app.Recipes())
}

func TestExportMetrics(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEnv(t)

	require.NoError(t, e.dispatch(ctx, "generate", []string{"-prompt", "soup"}))
	require.NoError(t, e.exportMetrics())

	data, err := os.ReadFile(filepath.Join(e.cfg.DataDir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "kitchen_generations_total")
	assert.Contains(t, string(data), `provider="anthropic"`)
}

func TestDispatch_Onboarding(t *testing.T) {
	ctx := context.Background()
	e, out := newTestEnv(t)

	require.NoError(t, e.dispatch(ctx, "onboarding", nil))
	assert.Contains(t, out.String(), "Generate Recipes")
	assert.False(t, e.book.OnboardingSeen())

	require.NoError(t, e.dispatch(ctx, "stats", nil))
	assert.True(t, e.book.OnboardingSeen())

	require.NoError(t, e.dispatch(ctx, "onboarding", []string{"reset"}))
	assert.False(t, e.book.OnboardingSeen())
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
