package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"kitchen-assistant/internal/app"
	"kitchen-assistant/internal/chef"
	"kitchen-assistant/internal/config"
	"kitchen-assistant/internal/cookbook"
	"kitchen-assistant/internal/metrics"
	"kitchen-assistant/internal/recipe"

	"github.com/prometheus/client_golang/prometheus"
)

var errUsage = errors.New("usage")

var onboardingSteps = []struct{ title, description string }{
	{"Welcome to Commis", "Your personal AI-powered kitchen companion for recipe inspiration."},
	{"Add Ingredients", "Run `add <ingredient>` for what you have, then `toggle <id>` the ones you want to use."},
	{"Set Preferences", "Pass -effort, -flexibility and -prompt to `generate` for specific requests."},
	{"Generate Recipes", "Run `generate` to create a personalized recipe from your ingredients."},
}

// env carries what the commands need.
type env struct {
	cfg      *config.Config
	app      *app.App
	book     *cookbook.Cookbook
	metrics  *metrics.Store
	registry prometheus.Gatherer
	out      io.Writer
}

// exportMetrics writes the process counters to <data>/metrics.prom in the
// text exposition format.
func (e *env) exportMetrics() error {
	if e.registry == nil {
		return nil
	}
	return prometheus.WriteToTextfile(filepath.Join(e.cfg.DataDir, "metrics.prom"), e.registry)
}

func (e *env) dispatch(ctx context.Context, cmd string, args []string) error {
	if cmd != "onboarding" && !e.book.OnboardingSeen() {
		e.printOnboarding()
		if err := e.book.MarkOnboardingSeen(); err != nil {
			fmt.Fprintf(e.out, "(could not remember onboarding: %v)\n\n", err)
		}
	}

	switch cmd {
	case "ingredients":
		e.printIngredients()
	case "add":
		text := strings.Join(args, " ")
		if !e.app.AddIngredient(text) {
			fmt.Fprintf(e.out, "Not added: %q is empty or already listed.\n", strings.TrimSpace(text))
			return nil
		}
		e.printIngredients()
	case "remove", "toggle":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		ok := e.app.RemoveIngredient
		if cmd == "toggle" {
			ok = e.app.ToggleIngredient
		}
		if !ok(id) {
			return fmt.Errorf("no ingredient with id %d", id)
		}
		e.printIngredients()
	case "toggle-all":
		e.app.ToggleAllIngredients()
		e.printIngredients()
	case "generate":
		return e.generate(ctx, args)
	case "recipes":
		e.printRecipes()
	case "show":
		return e.show(args)
	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if !e.app.DeleteRecipe(id) {
			return fmt.Errorf("no recipe with id %d", id)
		}
		fmt.Fprintf(e.out, "Deleted recipe %d.\n", id)
	case "sidebar":
		fmt.Fprintf(e.out, "Sidebar collapsed: %t\n", e.app.ToggleSidebar())
	case "sweep-images":
		e.app.Flush()
		removed, err := e.book.SweepOrphanImages(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Removed %d orphan images.\n", removed)
	case "onboarding":
		if len(args) > 0 && args[0] == "reset" {
			if err := e.book.ResetOnboarding(); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Onboarding will show on the next run.")
			return nil
		}
		e.printOnboarding()
	case "metrics":
		return e.usage(ctx, args)
	case "metrics-cleanup":
		fs := flag.NewFlagSet("metrics-cleanup", flag.ContinueOnError)
		days := fs.Int("days", 30, "Keep records for the last N days")
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		affected, err := e.metrics.Cleanup(ctx, *days)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Successfully removed %d old metric records.\n", affected)
	case "stats":
		e.printStats()
	default:
		fmt.Fprintf(e.out, "Unknown command: %s\n", cmd)
		return errUsage
	}
	return nil
}

func (e *env) generate(ctx context.Context, args []string) error {
	current := e.app.Preferences()

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	prompt := fs.String("prompt", current.Prompt, "Free-text directions, e.g. \"something for breakfast\"")
	effort := fs.String("effort", string(current.EffortLevel), "Effort level: low, medium or high")
	flexibility := fs.String("flexibility", string(current.Flexibility), "strict or allow-groceries")
	withImage := fs.Bool("image", current.GenerateImage, "Generate a picture of the dish")
	provider := fs.String("provider", string(e.app.Provider()), "Text provider: openai, anthropic, local, groq or gemini")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	p, err := chef.ParseProvider(*provider)
	if err != nil {
		return err
	}
	if err := e.app.SetProvider(p); err != nil {
		return err
	}
	err = e.app.UpdatePreferences(chef.Preferences{
		Prompt:        *prompt,
		EffortLevel:   chef.EffortLevel(*effort),
		Flexibility:   chef.Flexibility(*flexibility),
		GenerateImage: *withImage,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "Generating a recipe with %s...\n", p)
	r, err := e.app.GenerateRecipe(ctx)
	if err != nil {
		fmt.Fprintln(e.out, "Recipe generation failed, please try again.")
		return err
	}
	printRecipe(e.out, r)
	return nil
}

func (e *env) show(args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	imageOut := fs.String("image-out", "", "Write the recipe image to this PNG file")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	r, ok := e.app.Recipe(id)
	if !ok {
		return fmt.Errorf("no recipe with id %d", id)
	}
	printRecipe(e.out, r)

	if *imageOut == "" {
		return nil
	}
	if !r.HasImage() {
		return fmt.Errorf("recipe %d has no image", id)
	}
	data, err := recipe.DecodePNGDataURI(r.Image)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*imageOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	fmt.Fprintf(e.out, "Image written to %s\n", *imageOut)
	return nil
}

func (e *env) usage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("metrics", flag.ContinueOnError)
	days := fs.Int("days", 7, "Number of days to report")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rows, err := e.metrics.GetDailyUsage(ctx, *days)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintf(e.out, "No generations in the last %d days.\n", *days)
		return nil
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tSTAGES\tFALLBACKS\tFAILURES\tPROMPT TOKENS\tCOMPLETION TOKENS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", r.Date, r.Generations, r.Fallbacks, r.Failures, r.TotalPrompt, r.TotalCompletion)
	}
	return w.Flush()
}

func (e *env) printIngredients() {
	list := e.app.Ingredients()
	if len(list) == 0 {
		fmt.Fprintln(e.out, "No ingredients yet. Add one with `add <text>`.")
		return
	}
	for _, ing := range list {
		mark := " "
		if ing.Selected {
			mark = "x"
		}
		fmt.Fprintf(e.out, "[%s] %d  %s\n", mark, ing.ID, ing.Text)
	}
}

func (e *env) printRecipes() {
	list := e.app.Recipes()
	if len(list) == 0 {
		fmt.Fprintln(e.out, "No saved recipes.")
		return
	}
	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTIME\tIMAGE")
	for _, r := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", r.ID, r.Title, r.EstimatedTime, r.HasImage())
	}
	_ = w.Flush()
}

func (e *env) printOnboarding() {
	for i, step := range onboardingSteps {
		fmt.Fprintf(e.out, "%d. %s\n   %s\n", i+1, step.title, step.description)
	}
	fmt.Fprintln(e.out)
}

func (e *env) printStats() {
	h := metrics.GetSysHealth(e.cfg.StorePath(), e.cfg.StorageQuota, e.cfg.DatabasePath)
	fmt.Fprintf(e.out, "Structured store: %s of %s (%.1f%%)\n",
		metrics.HumanBytes(h.StoreBytes), metrics.HumanBytes(h.StoreQuota), h.QuotaUsedPercent())
	fmt.Fprintf(e.out, "Image database:   %s\n", metrics.HumanBytes(h.DatabaseBytes))
	fmt.Fprintf(e.out, "Memory:           %d MB allocated, %d MB from OS, %d GC cycles\n", h.AllocMB, h.SysMB, h.NumGC)
	fmt.Fprintf(e.out, "Goroutines:       %d\n", h.Goroutines)
	fmt.Fprintf(e.out, "Recipes:          %d\n", len(e.app.Recipes()))
}

func printRecipe(w io.Writer, r recipe.Recipe) {
	fmt.Fprintf(w, "\n%s  (#%d)\n%s\n\nTime: %s\n\nIngredients:\n", r.Title, r.ID, r.Description, r.EstimatedTime)
	for _, ing := range r.Ingredients {
		fmt.Fprintf(w, "  - %s\n", ing)
	}
	fmt.Fprintf(w, "\nProcedure:\n%s\n", r.Procedure)
	if r.HasImage() {
		fmt.Fprintln(w, "\n(image available, use `show <id> -image-out file.png`)")
	}
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	return id, nil
}
