package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/palclasses/site-api/internal/model"
)

// ImageRepo reads and writes the `site_images` table.  Only the image URL
// is stored; uploads happen elsewhere.
type ImageRepo struct {
	db *sql.DB
}

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{db: db} }

const imageColumns = "id, page, section_key, image_url, display_order, updated_at"

// ListImages returns every image row that belongs to one of pages, ordered
// by display order within a page.
func (r *ImageRepo) ListImages(ctx context.Context, pages ...string) ([]model.ImageRow, error) {
	if len(pages) == 0 {
		return []model.ImageRow{}, nil
	}
	in, args := inClause(pages)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+imageColumns+" FROM site_images WHERE page IN ("+in+") ORDER BY page, display_order, section_key", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ImageRow, 0)
	for rows.Next() {
		var img model.ImageRow
		if err := rows.Scan(&img.ID, &img.Page, &img.SectionKey, &img.ImageURL, &img.DisplayOrder, &img.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertImage writes or replaces the row addressed by (img.Page, img.SectionKey).
func (r *ImageRepo) UpsertImage(ctx context.Context, img model.ImageRow) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if img.UpdatedAt.IsZero() {
		img.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO site_images (`+imageColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE image_url = VALUES(image_url),
		 display_order = VALUES(display_order), updated_at = VALUES(updated_at)`,
		img.ID, img.Page, img.SectionKey, img.ImageURL, img.DisplayOrder, img.UpdatedAt)
	return err
}

// DeleteImage removes a row by id and returns the page it belonged to.
func (r *ImageRepo) DeleteImage(ctx context.Context, id string) (string, error) {
	return deleteByID(ctx, r.db, "site_images", id)
}
