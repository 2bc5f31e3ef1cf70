// Package app holds the in-memory kitchen state and applies user actions to
// it. Every mutation is persisted in the background, in order.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"kitchen-assistant/internal/chef"
	"kitchen-assistant/internal/pantry"
	"kitchen-assistant/internal/recipe"
	"kitchen-assistant/internal/shared"

	"go.uber.org/zap"
)

var (
	ErrGenerationFailed   = errors.New("recipe generation failed")
	ErrInvalidPreferences = errors.New("invalid preferences")
)

// Generator produces recipes.
type Generator interface {
	GenerateRecipe(ctx context.Context, req chef.Request) (recipe.Recipe, error)
}

// Book loads and saves the kitchen state.
type Book interface {
	LoadIngredients() []pantry.Ingredient
	SaveIngredients(list []pantry.Ingredient) error
	LoadRecipes(ctx context.Context) []recipe.Recipe
	SaveRecipes(ctx context.Context, recipes []recipe.Recipe) error
	DeleteRecipe(ctx context.Context, id int64, current []recipe.Recipe) []recipe.Recipe
	LoadSidebarCollapsed() bool
	SaveSidebarCollapsed(collapsed bool) error
}

// App is the application state controller. It is safe for concurrent use.
type App struct {
	mu          sync.Mutex
	ingredients []pantry.Ingredient
	recipes     []recipe.Recipe
	prefs       chef.Preferences
	provider    chef.Provider
	sidebar     bool
	generating  int

	book   Book
	gen    Generator
	nextID func() int64
	log    *zap.Logger

	persist *persister
}

// New loads the persisted state through book and starts the persistence
// worker. An invalid provider falls back to chef.DefaultProvider. Call
// Close to flush pending writes.
func New(ctx context.Context, book Book, gen Generator, provider chef.Provider, log *zap.Logger) *App {
	if !provider.Valid() {
		log.Warn("unknown provider, using default",
			zap.String("provider", string(provider)),
			zap.String("default", string(chef.DefaultProvider)))
		provider = chef.DefaultProvider
	}

	a := &App{
		ingredients: book.LoadIngredients(),
		recipes:     book.LoadRecipes(ctx),
		prefs:       chef.DefaultPreferences(),
		provider:    provider,
		sidebar:     book.LoadSidebarCollapsed(),
		book:        book,
		gen:         gen,
		nextID:      shared.NextID,
		log:         log,
		persist:     newPersister(context.WithoutCancel(ctx), log),
	}

	log.Info("kitchen state loaded",
		zap.Int("ingredients", len(a.ingredients)),
		zap.Int("recipes", len(a.recipes)))
	return a
}

// AddIngredient adds an unselected ingredient. It reports false, and
// changes nothing, when text is blank or already listed.
func (a *App) AddIngredient(text string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	list, ok := pantry.Add(a.ingredients, a.nextID(), text)
	if !ok {
		return false
	}
	a.setIngredients(list)
	return true
}

// RemoveIngredient deletes the ingredient with the given id.
func (a *App) RemoveIngredient(id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	list, ok := pantry.Remove(a.ingredients, id)
	if !ok {
		return false
	}
	a.setIngredients(list)
	return true
}

// ToggleIngredient flips the selection of one ingredient.
func (a *App) ToggleIngredient(id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	list, ok := pantry.Toggle(a.ingredients, id)
	if !ok {
		return false
	}
	a.setIngredients(list)
	return true
}

// ToggleAllIngredients selects every ingredient when fewer than half are
// selected and deselects every ingredient otherwise.
func (a *App) ToggleAllIngredients() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.ingredients) == 0 {
		return
	}
	a.setIngredients(pantry.ToggleAll(a.ingredients))
}

// setIngredients must be called with a.mu held.
func (a *App) setIngredients(list []pantry.Ingredient) {
	a.ingredients = list
	snapshot := append([]pantry.Ingredient(nil), list...)
	a.persist.enqueue("ingredients", func(ctx context.Context) {
		_ = a.book.SaveIngredients(snapshot)
	})
}

// UpdatePreferences replaces the generation preferences.
func (a *App) UpdatePreferences(p chef.Preferences) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.prefs = p
	return nil
}

// SetProvider selects the text provider for later generations.
func (a *App) SetProvider(p chef.Provider) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", chef.ErrUnknownProvider, p)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.provider = p
	return nil
}

// ToggleSidebar flips the sidebar flag and returns the new value.
func (a *App) ToggleSidebar() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sidebar = !a.sidebar
	collapsed := a.sidebar
	a.persist.enqueue("sidebar", func(ctx context.Context) {
		_ = a.book.SaveSidebarCollapsed(collapsed)
	})
	return collapsed
}

// GenerateRecipe runs a generation with the current ingredients,
// preferences and provider, and puts the result first in the recipe list.
// On failure nothing is added and the error wraps ErrGenerationFailed.
// Generations may overlap; each one is added when it finishes.
func (a *App) GenerateRecipe(ctx context.Context) (recipe.Recipe, error) {
	a.mu.Lock()
	req := chef.Request{
		SelectedIngredients: pantry.SelectedTexts(a.ingredients),
		AllIngredients:      pantry.Texts(a.ingredients),
		Preferences:         a.prefs,
		Provider:            a.provider,
	}
	a.generating++
	a.mu.Unlock()

	r, err := a.gen.GenerateRecipe(ctx, req)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.generating--

	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	list := make([]recipe.Recipe, 0, len(a.recipes)+1)
	list = append(list, r)
	list = append(list, a.recipes...)
	a.recipes = list

	snapshot := append([]recipe.Recipe(nil), list...)
	a.persist.enqueue("recipes", func(ctx context.Context) {
		_ = a.book.SaveRecipes(ctx, snapshot)
	})
	return r, nil
}

// DeleteRecipe removes a recipe and its image. It reports false when no
// recipe has the id.
func (a *App) DeleteRecipe(id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	before := a.recipes
	remaining := make([]recipe.Recipe, 0, len(before))
	for _, r := range before {
		if r.ID != id {
			remaining = append(remaining, r)
		}
	}
	if len(remaining) == len(before) {
		return false
	}
	a.recipes = remaining

	snapshot := append([]recipe.Recipe(nil), before...)
	a.persist.enqueue("delete-recipe", func(ctx context.Context) {
		a.book.DeleteRecipe(ctx, id, snapshot)
	})
	return true
}

// Ingredients returns a copy of the ingredient list.
func (a *App) Ingredients() []pantry.Ingredient {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]pantry.Ingredient{}, a.ingredients...)
}

// Recipes returns a copy of the recipe list, most recent first.
func (a *App) Recipes() []recipe.Recipe {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]recipe.Recipe{}, a.recipes...)
}

// Recipe returns the recipe with the given id.
func (a *App) Recipe(id int64) (recipe.Recipe, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.recipes {
		if r.ID == id {
			return r, true
		}
	}
	return recipe.Recipe{}, false
}

// Preferences returns the current generation preferences.
func (a *App) Preferences() chef.Preferences {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prefs
}

// Provider returns the selected text provider.
func (a *App) Provider() chef.Provider {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.provider
}

// SidebarCollapsed returns the sidebar flag.
func (a *App) SidebarCollapsed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sidebar
}

// IsGenerating reports whether a generation is in flight. It is advisory.
func (a *App) IsGenerating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generating > 0
}

// Flush blocks until every write queued so far has been attempted.
func (a *App) Flush() {
	a.persist.flush()
}

// Close flushes pending writes and stops the persistence worker. Mutations
// after Close are applied in memory only.
func (a *App) Close() {
	a.persist.close()
}
