package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"kitchen-assistant/internal/app"
	"kitchen-assistant/internal/chef"
	"kitchen-assistant/internal/config"
	"kitchen-assistant/internal/cookbook"
	"kitchen-assistant/internal/database"
	"kitchen-assistant/internal/llm"
	"kitchen-assistant/internal/logger"
	"kitchen-assistant/internal/metrics"
	"kitchen-assistant/internal/recipe"
	"kitchen-assistant/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		return 1
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewDB(cfg.DatabasePath, log)
	if err != nil {
		log.Error("Failed to initialize database", zap.Error(err))
		return 1
	}
	defer db.Close()

	backend, err := storage.NewFileBackend(cfg.StorePath(), cfg.StorageQuota)
	if err != nil {
		log.Error("Failed to initialize structured store", zap.Error(err))
		return 1
	}

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		log.Error("Failed to register metrics", zap.Error(err))
		return 1
	}
	metricsStore := metrics.NewStore(db.SQL)

	book := cookbook.New(
		storage.NewStore(backend, log),
		recipe.NewImageRepository(db.SQL),
		collector,
		log,
	)

	opts, closers, err := providerOptions(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize providers", zap.Error(err))
		return 1
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	opts = append(opts, chef.WithMetrics(metricsStore), chef.WithCollector(collector))
	kitchen := chef.New(log, opts...)

	provider, err := chef.ParseProvider(cfg.DefaultProvider)
	if err != nil {
		log.Error("Invalid default provider", zap.Error(err))
		return 1
	}

	e := &env{
		cfg:      cfg,
		book:     book,
		metrics:  metricsStore,
		registry: registry,
		out:      os.Stdout,
	}
	// Runs after the application has flushed its pending writes.
	defer func() {
		if err := e.exportMetrics(); err != nil {
			log.Warn("Failed to export metrics", zap.Error(err))
		}
	}()

	e.app = app.New(ctx, book, kitchen, provider, log)
	defer e.app.Close()

	if err := e.dispatch(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		}
		return 1
	}
	return 0
}

// providerOptions binds every configured text provider and the image
// generator. local is always bound.
func providerOptions(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]chef.Option, []llm.Closer, error) {
	var opts []chef.Option
	var closers []llm.Closer

	if cfg.OpenAIAPIKey != "" {
		openaiClient, err := llm.NewOpenAIClient(cfg)
		if err != nil {
			return nil, closers, err
		}
		opts = append(opts,
			chef.WithTextGenerator(chef.ProviderOpenAI, openaiClient),
			chef.WithImageGenerator(llm.NewImageClient(cfg)))
	} else {
		log.Debug("OPENAI_API_KEY not set; openai text and images disabled")
	}

	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, geminiClient)
		opts = append(opts, chef.WithTextGenerator(chef.ProviderGemini, geminiClient))
	}

	if cfg.GroqAPIKey != "" {
		opts = append(opts, chef.WithTextGenerator(chef.ProviderGroq, llm.NewGroqClient(cfg)))
	}

	localClient, err := llm.NewLocalClient(cfg)
	if err != nil {
		return nil, closers, err
	}
	opts = append(opts, chef.WithTextGenerator(chef.ProviderLocal, localClient))

	return opts, closers, nil
}

func printUsage() {
	fmt.Println("Usage: kitchen-assistant <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingredients        List pantry ingredients")
	fmt.Println("  add <text...>      Add an ingredient")
	fmt.Println("  remove <id>        Remove an ingredient")
	fmt.Println("  toggle <id>        Select or deselect an ingredient")
	fmt.Println("  toggle-all         Select all, or deselect all when half or more are selected")
	fmt.Println("  generate           Generate a recipe (-prompt -effort -flexibility -image -provider)")
	fmt.Println("  recipes            List saved recipes")
	fmt.Println("  show <id>          Print a recipe (-image-out file.png)")
	fmt.Println("  delete <id>        Delete a recipe and its image")
	fmt.Println("  sidebar            Toggle the collapsed sidebar flag")
	fmt.Println("  sweep-images       Remove stored images without a recipe")
	fmt.Println("  onboarding [reset] Show the getting-started guide")
	fmt.Println("  metrics            Show daily generation usage (-days)")
	fmt.Println("  metrics-cleanup    Remove old metric records (-days)")
	fmt.Println("  stats              Show storage and process health")
}
