package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/palclasses/site-api/internal/model"
)

// ContentRepo reads and writes the `site_content` table.
type ContentRepo struct {
	db *sql.DB
}

func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{db: db} }

const contentColumns = "id, page, section_key, content_type, content_value, updated_at"

// upsertContentSQL relies on the (page, section_key) unique key: a second
// write for the same pair updates the existing row and keeps its id.
const upsertContentSQL = `INSERT INTO site_content (` + contentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE content_type = VALUES(content_type),
	content_value = VALUES(content_value), updated_at = VALUES(updated_at)`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ListContent returns every row that belongs to one of pages.
func (r *ContentRepo) ListContent(ctx context.Context, pages ...string) ([]model.ContentRow, error) {
	if len(pages) == 0 {
		return []model.ContentRow{}, nil
	}
	in, args := inClause(pages)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+contentColumns+" FROM site_content WHERE page IN ("+in+") ORDER BY page, section_key", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ContentRow, 0)
	for rows.Next() {
		var c model.ContentRow
		var ct string
		if err := rows.Scan(&c.ID, &c.Page, &c.SectionKey, &ct, &c.ContentValue, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.ContentType = model.ContentType(ct)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertContent writes or replaces the row addressed by (row.Page, row.SectionKey).
func (r *ContentRepo) UpsertContent(ctx context.Context, row model.ContentRow) error {
	return upsertContent(ctx, r.db, row)
}

// UpsertContentBatch applies rows in one transaction.  Either every row is
// written or none is; the returned error names the first failing key.
func (r *ContentRepo) UpsertContentBatch(ctx context.Context, rows []model.ContentRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op after commit

	for _, row := range rows {
		if err := upsertContent(ctx, tx, row); err != nil {
			return fmt.Errorf("upsert %s/%s: %w", row.Page, row.SectionKey, err)
		}
	}
	return tx.Commit()
}

// DeleteContent removes a row by id and returns the page it belonged to.
func (r *ContentRepo) DeleteContent(ctx context.Context, id string) (string, error) {
	return deleteByID(ctx, r.db, "site_content", id)
}

func upsertContent(ctx context.Context, ex execer, row model.ContentRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	_, err := ex.ExecContext(ctx, upsertContentSQL,
		row.ID, row.Page, row.SectionKey, string(row.ContentType), row.ContentValue, row.UpdatedAt)
	return err
}

// deleteByID looks up the page of the row first so callers can refresh it.
// table is always a package constant, never user input.
func deleteByID(ctx context.Context, db *sql.DB, table, id string) (string, error) {
	var page string
	err := db.QueryRowContext(ctx, "SELECT page FROM "+table+" WHERE id = ?", id).Scan(&page)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", ErrNotFound
	}
	return page, nil
}

func inClause(vals []string) (string, []any) {
	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", "), args
}
