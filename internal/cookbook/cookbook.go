// Package cookbook persists the kitchen state. Small records go to the
// structured store; recipe images go to the image store, keyed by recipe id.
package cookbook

import (
	"context"
	"encoding/json"
	"fmt"

	"kitchen-assistant/internal/metrics"
	"kitchen-assistant/internal/pantry"
	"kitchen-assistant/internal/recipe"
	"kitchen-assistant/internal/storage"

	"go.uber.org/zap"
)

// Store keys.
const (
	KeySidebarCollapsed = "sidebarCollapsed"
	KeyIngredients      = "kitchenAppIngredients_v2"
	KeyRecipes          = "kitchenAppRecipes_v1"
	KeyOnboarding       = "onboardingCompleted"
)

// Store labels for persistence failure counters.
const (
	storeStructured = "structured"
	storeImages     = "images"
)

// ImageStore holds recipe images keyed by recipe id.
type ImageStore interface {
	Put(ctx context.Context, id int64, imageData string) error
	Get(ctx context.Context, id int64) (string, bool, error)
	Delete(ctx context.Context, id int64) error
	IDs(ctx context.Context) ([]int64, error)
}

// Cookbook is the persistence façade used by the application controller.
type Cookbook struct {
	store     *storage.Store
	images    ImageStore
	collector *metrics.Collector
	log       *zap.Logger
}

// New creates a Cookbook. collector may be nil.
func New(store *storage.Store, images ImageStore, collector *metrics.Collector, log *zap.Logger) *Cookbook {
	return &Cookbook{store: store, images: images, collector: collector, log: log}
}

// SaveRecipes writes every image to the image store, then the recipe list
// without images to the structured store. Image failures are logged and do
// not stop the list from being written. The returned error reports a failed
// list write only.
func (c *Cookbook) SaveRecipes(ctx context.Context, recipes []recipe.Recipe) error {
	stripped := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.HasImage() {
			if err := c.images.Put(ctx, r.ID, r.Image); err != nil {
				c.log.Error("failed to save recipe image", zap.Int64("id", r.ID), zap.Error(err))
				c.collector.PersistenceFailed(storeImages)
			}
		}
		stripped = append(stripped, r.WithoutImage())
	}

	if err := c.store.Save(KeyRecipes, stripped); err != nil {
		c.log.Error("failed to save recipes", zap.Int("count", len(stripped)), zap.Error(err))
		c.collector.PersistenceFailed(storeStructured)
		return err
	}
	return nil
}

// LoadRecipes reads the recipe list and attaches each stored image. A
// missing or unreadable image leaves the recipe without one.
func (c *Cookbook) LoadRecipes(ctx context.Context) []recipe.Recipe {
	recipes := storage.Load[[]recipe.Recipe](c.store, KeyRecipes, nil)
	if len(recipes) == 0 {
		return []recipe.Recipe{}
	}

	for i := range recipes {
		recipes[i].Image = ""
		data, ok, err := c.images.Get(ctx, recipes[i].ID)
		if err != nil {
			c.log.Warn("failed to load recipe image", zap.Int64("id", recipes[i].ID), zap.Error(err))
			continue
		}
		if ok {
			recipes[i].Image = data
		}
	}
	return recipes
}

// DeleteRecipe removes the image for id, then persists current without the
// recipe and returns the filtered list. current is not modified.
func (c *Cookbook) DeleteRecipe(ctx context.Context, id int64, current []recipe.Recipe) []recipe.Recipe {
	if err := c.images.Delete(ctx, id); err != nil {
		c.log.Error("failed to delete recipe image", zap.Int64("id", id), zap.Error(err))
		c.collector.PersistenceFailed(storeImages)
	}

	remaining := make([]recipe.Recipe, 0, len(current))
	for _, r := range current {
		if r.ID != id {
			remaining = append(remaining, r)
		}
	}

	// errors are logged by SaveRecipes
	_ = c.SaveRecipes(ctx, remaining)
	return remaining
}

// SaveIngredients writes the full ingredient list.
func (c *Cookbook) SaveIngredients(list []pantry.Ingredient) error {
	if list == nil {
		list = []pantry.Ingredient{}
	}
	if err := c.store.Save(KeyIngredients, list); err != nil {
		c.log.Error("failed to save ingredients", zap.Int("count", len(list)), zap.Error(err))
		c.collector.PersistenceFailed(storeStructured)
		return err
	}
	return nil
}

// LoadIngredients reads the ingredient list, empty when absent or corrupt.
func (c *Cookbook) LoadIngredients() []pantry.Ingredient {
	list := storage.Load[[]pantry.Ingredient](c.store, KeyIngredients, nil)
	if list == nil {
		return []pantry.Ingredient{}
	}
	return list
}

// SaveSidebarCollapsed writes the sidebar flag.
func (c *Cookbook) SaveSidebarCollapsed(collapsed bool) error {
	if err := c.store.Save(KeySidebarCollapsed, collapsed); err != nil {
		c.log.Error("failed to save sidebar state", zap.Error(err))
		c.collector.PersistenceFailed(storeStructured)
		return err
	}
	return nil
}

// LoadSidebarCollapsed reads the sidebar flag, false when absent.
func (c *Cookbook) LoadSidebarCollapsed() bool {
	return storage.Load(c.store, KeySidebarCollapsed, false)
}

// OnboardingSeen reports whether the first-run walkthrough was completed.
func (c *Cookbook) OnboardingSeen() bool {
	v, ok := c.store.LoadRaw(KeyOnboarding)
	return ok && v == "true"
}

// MarkOnboardingSeen records that the walkthrough was completed.
func (c *Cookbook) MarkOnboardingSeen() error {
	return c.store.SaveRaw(KeyOnboarding, "true")
}

// ResetOnboarding makes the walkthrough show again.
func (c *Cookbook) ResetOnboarding() error {
	return c.store.Remove(KeyOnboarding)
}

// SweepOrphanImages deletes stored images whose recipe is no longer in the
// saved list and returns how many were removed.
func (c *Cookbook) SweepOrphanImages(ctx context.Context) (int, error) {
	ids, err := c.images.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored images: %w", err)
	}

	var saved []recipe.Recipe
	if raw, ok := c.store.LoadRaw(KeyRecipes); ok {
		// an unreadable list must not be mistaken for an empty one
		if err := json.Unmarshal([]byte(raw), &saved); err != nil {
			return 0, fmt.Errorf("recipe list is unreadable, refusing to sweep: %w", err)
		}
	}

	known := make(map[int64]struct{}, len(saved))
	for _, r := range saved {
		known[r.ID] = struct{}{}
	}

	removed := 0
	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}
		if err := c.images.Delete(ctx, id); err != nil {
			return removed, fmt.Errorf("failed to delete orphan image %d: %w", id, err)
		}
		removed++
	}
	if removed > 0 {
		c.log.Info("removed orphan recipe images", zap.Int("count", removed))
	}
	return removed, nil
}
