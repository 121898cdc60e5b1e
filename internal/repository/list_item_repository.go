package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/palclasses/site-api/internal/model"
)

// ListItemRepo stores repeatable CMS items in `cms_list_items`.  Each item
// has its own id and an explicit sort_order, so deleting one item never
// renumbers the others.
type ListItemRepo struct {
	db *sql.DB
}

func NewListItemRepo(db *sql.DB) *ListItemRepo { return &ListItemRepo{db: db} }

const listItemColumns = "id, page, list_key, sort_order, fields, image_url, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListItem(s rowScanner) (model.ListItem, error) {
	var (
		it  model.ListItem
		raw []byte
	)
	if err := s.Scan(&it.ID, &it.Page, &it.ListKey, &it.Order, &raw, &it.ImageURL, &it.UpdatedAt); err != nil {
		return model.ListItem{}, err
	}
	it.Fields = map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &it.Fields); err != nil {
			return model.ListItem{}, err
		}
	}
	return it, nil
}

// ListByPages returns the items of every list on pages, sorted by list and
// then by order.
func (r *ListItemRepo) ListByPages(ctx context.Context, pages ...string) ([]model.ListItem, error) {
	if len(pages) == 0 {
		return []model.ListItem{}, nil
	}
	in, args := inClause(pages)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listItemColumns+" FROM cms_list_items WHERE page IN ("+in+") ORDER BY page, list_key, sort_order, id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ListItem, 0)
	for rows.Next() {
		it, err := scanListItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one item.
func (r *ListItemRepo) GetByID(ctx context.Context, id string) (model.ListItem, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+listItemColumns+" FROM cms_list_items WHERE id = ?", id)
	it, err := scanListItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ListItem{}, ErrNotFound
	}
	return it, err
}

// Create appends item to the end of its list.  When maxItems is positive
// and the list is already full, ErrConflict is returned.
func (r *ListItemRepo) Create(ctx context.Context, item model.ListItem, maxItems int) (model.ListItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ListItem{}, err
	}
	defer tx.Rollback()

	var (
		count int
		last  int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(sort_order), -1) FROM cms_list_items
		 WHERE page = ? AND list_key = ? FOR UPDATE`, item.Page, item.ListKey).Scan(&count, &last)
	if err != nil {
		return model.ListItem{}, err
	}
	if maxItems > 0 && count >= maxItems {
		return model.ListItem{}, ErrConflict
	}

	item.ID = uuid.NewString()
	item.Order = last + 1
	item.UpdatedAt = time.Now().UTC()
	if err := insertListItem(ctx, tx, item); err != nil {
		return model.ListItem{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.ListItem{}, err
	}
	return item, nil
}

// Import writes items as the initial content of an empty list, keeping
// their slice order.  A list that already has items yields ErrConflict.
func (r *ListItemRepo) Import(ctx context.Context, page, listKey string, items []model.ListItem) ([]model.ListItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cms_list_items WHERE page = ? AND list_key = ? FOR UPDATE`,
		page, listKey).Scan(&count)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	out := make([]model.ListItem, 0, len(items))
	for i, it := range items {
		it.ID = uuid.NewString()
		it.Page, it.ListKey, it.Order, it.UpdatedAt = page, listKey, i, now
		if err := insertListItem(ctx, tx, it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the fields and image of an item.  Its position is kept.
func (r *ListItemRepo) Update(ctx context.Context, id string, fields map[string]string, imageURL string) (model.ListItem, error) {
	raw, err := marshalFields(fields)
	if err != nil {
		return model.ListItem{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE cms_list_items SET fields = ?, image_url = ?, updated_at = ? WHERE id = ?`,
		raw, imageURL, time.Now().UTC(), id)
	if err != nil {
		return model.ListItem{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ListItem{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes one item and returns its page.
func (r *ListItemRepo) Delete(ctx context.Context, id string) (string, error) {
	return deleteByID(ctx, r.db, "cms_list_items", id)
}

// Reorder assigns sort_order 0..n-1 following ids.  ids must name every
// item of the list exactly once, otherwise ErrConflict is returned and
// nothing changes.
func (r *ListItemRepo) Reorder(ctx context.Context, page, listKey string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM cms_list_items WHERE page = ? AND list_key = ? FOR UPDATE`, page, listKey)
	if err != nil {
		return err
	}
	current := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		current[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if len(ids) != len(current) {
		return ErrConflict
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !current[id] || seen[id] {
			return ErrConflict
		}
		seen[id] = true
	}

	now := time.Now().UTC()
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cms_list_items SET sort_order = ?, updated_at = ? WHERE id = ?`, i, now, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertListItem(ctx context.Context, ex execer, it model.ListItem) error {
	raw, err := marshalFields(it.Fields)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx,
		"INSERT INTO cms_list_items ("+listItemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		it.ID, it.Page, it.ListKey, it.Order, raw, it.ImageURL, it.UpdatedAt)
	return err
}

func marshalFields(fields map[string]string) ([]byte, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	return json.Marshal(fields)
}
