package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	upsertImageQuery = `INSERT INTO recipe_images (id, image_data) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET image_data = excluded.image_data`
	getImageQuery    = `SELECT id, image_data FROM recipe_images WHERE id = ?`
	deleteImageQuery = `DELETE FROM recipe_images WHERE id = ?`
	listImageIDs     = `SELECT id FROM recipe_images ORDER BY id`
)

// StoredImage is a row of the recipe_images table.
type StoredImage struct {
	ID        int64  `db:"id"`
	ImageData string `db:"image_data"`
}

// ImageRepository is a database-backed store of recipe images keyed by recipe ID.
type ImageRepository struct {
	db *sqlx.DB
}

// NewImageRepository creates a new ImageRepository.
func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Put inserts or replaces the image stored for a recipe.
func (r *ImageRepository) Put(ctx context.Context, id int64, imageData string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin image transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsertImageQuery, id, imageData); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to store image for recipe %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit image for recipe %d: %w", id, err)
	}
	return nil
}

// Get retrieves the image for a recipe. A missing image is reported with
// ok=false and a nil error.
func (r *ImageRepository) Get(ctx context.Context, id int64) (string, bool, error) {
	var row StoredImage
	if err := r.db.GetContext(ctx, &row, getImageQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get image for recipe %d: %w", id, err)
	}
	return row.ImageData, true, nil
}

// Delete removes the image for a recipe. Deleting a missing image succeeds.
func (r *ImageRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, deleteImageQuery, id); err != nil {
		return fmt.Errorf("failed to delete image for recipe %d: %w", id, err)
	}
	return nil
}

// IDs lists the recipe IDs that currently have an image.
func (r *ImageRepository) IDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, listImageIDs); err != nil {
		return nil, fmt.Errorf("failed to list image ids: %w", err)
	}
	return ids, nil
}
