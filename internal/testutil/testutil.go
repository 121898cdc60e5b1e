// Package testutil provides in-memory stores and helpers shared by the
// service, handler and router tests.
package testutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palclasses/site-api/internal/model"
	"github.com/palclasses/site-api/internal/notify"
	"github.com/palclasses/site-api/internal/repository"
)

// TestLogger returns a logger that discards everything.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Store keeps leads, CMS rows and list items in memory.  It
// satisfies the store interfaces of the service package and counts the
// calls tests care about.
type Store struct {
	mu       sync.Mutex
	leads    map[model.LeadKind][]model.Lead
	content  []model.ContentRow
	images   []model.ImageRow
	items    []model.ListItem
	ListCall int
	// FailWrites makes every write return ErrWriteFailed.
	FailWrites bool
	// FailReads makes ListContent return ErrReadFailed.
	FailReads bool
	// LeadDeadline is the context deadline seen by the last CreateLead.
	LeadDeadline time.Time
}

// ErrWriteFailed is returned by writes when Store.FailWrites is set.
var ErrWriteFailed = errors.New("write failed")

// ErrReadFailed is returned by ListContent when Store.FailReads is set.
var ErrReadFailed = errors.New("read failed")

func NewStore() *Store {
	return &Store{leads: map[model.LeadKind][]model.Lead{}}
}

// Leads returns a copy of the stored leads of kind in insertion order.
func (s *Store) Leads(kind model.LeadKind) []model.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Lead(nil), s.leads[kind]...)
}

// ContentRows returns a copy of every content row.
func (s *Store) ContentRows() []model.ContentRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ContentRow(nil), s.content...)
}

// Leads

func (s *Store) CreateLead(ctx context.Context, lead model.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LeadDeadline, _ = ctx.Deadline()
	if s.FailWrites {
		return ErrWriteFailed
	}
	s.leads[lead.Kind()] = append(s.leads[lead.Kind()], lead)
	return nil
}

func (s *Store) ListLeads(_ context.Context, kind model.LeadKind, page model.Page) ([]model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCall++
	out := append([]model.Lead(nil), s.leads[kind]...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].LeadID() > out[j].LeadID()
	})
	if page.Limit > 0 {
		if page.Offset >= len(out) {
			return []model.Lead{}, nil
		}
		out = out[page.Offset:min(len(out), page.Offset+page.Limit)]
	}
	if out == nil {
		out = []model.Lead{}
	}
	return out, nil
}

func (s *Store) UpdateAdmissionStatus(_ context.Context, id string, status model.AdmissionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads[model.LeadAdmission] {
		if a := l.(*model.AdmissionApplication); a.ID == id {
			a.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

// Content

func (s *Store) ListContent(_ context.Context, pages ...string) ([]model.ContentRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads {
		return nil, ErrReadFailed
	}
	out := []model.ContentRow{}
	for _, c := range s.content {
		if contains(pages, c.Page) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) UpsertContent(_ context.Context, row model.ContentRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrWriteFailed
	}
	s.upsertContent(row)
	return nil
}

func (s *Store) UpsertContentBatch(_ context.Context, rows []model.ContentRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrWriteFailed
	}
	for _, r := range rows {
		s.upsertContent(r)
	}
	return nil
}

func (s *Store) upsertContent(row model.ContentRow) {
	row.UpdatedAt = time.Now().UTC()
	for i, c := range s.content {
		if c.Page == row.Page && c.SectionKey == row.SectionKey {
			row.ID = c.ID
			s.content[i] = row
			return
		}
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	s.content = append(s.content, row)
}

func (s *Store) DeleteContent(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.content {
		if c.ID == id {
			s.content = append(s.content[:i], s.content[i+1:]...)
			return c.Page, nil
		}
	}
	return "", repository.ErrNotFound
}

// Images

func (s *Store) ListImages(_ context.Context, pages ...string) ([]model.ImageRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.ImageRow{}
	for _, img := range s.images {
		if contains(pages, img.Page) {
			out = append(out, img)
		}
	}
	return out, nil
}

func (s *Store) UpsertImage(_ context.Context, img model.ImageRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrWriteFailed
	}
	img.UpdatedAt = time.Now().UTC()
	for i, cur := range s.images {
		if cur.Page == img.Page && cur.SectionKey == img.SectionKey {
			img.ID = cur.ID
			s.images[i] = img
			return nil
		}
	}
	img.ID = uuid.NewString()
	s.images = append(s.images, img)
	return nil
}

func (s *Store) DeleteImage(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, img := range s.images {
		if img.ID == id {
			s.images = append(s.images[:i], s.images[i+1:]...)
			return img.Page, nil
		}
	}
	return "", repository.ErrNotFound
}

// List items

func (s *Store) ListByPages(_ context.Context, pages ...string) ([]model.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.ListItem{}
	for _, it := range s.items {
		if contains(pages, it.Page) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.ListKey != b.ListKey {
			return a.ListKey < b.ListKey
		}
		return a.Order < b.Order
	})
	return out, nil
}

func (s *Store) GetByID(_ context.Context, id string) (model.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.ListItem{}, repository.ErrNotFound
}

func (s *Store) Create(_ context.Context, item model.ListItem, maxItems int) (model.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, last := 0, -1
	for _, it := range s.items {
		if it.Page == item.Page && it.ListKey == item.ListKey {
			count++
			last = max(last, it.Order)
		}
	}
	if maxItems > 0 && count >= maxItems {
		return model.ListItem{}, repository.ErrConflict
	}
	item.ID, item.Order, item.UpdatedAt = uuid.NewString(), last+1, time.Now().UTC()
	s.items = append(s.items, item)
	return item, nil
}

func (s *Store) Import(_ context.Context, page, listKey string, items []model.ListItem) ([]model.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Page == page && it.ListKey == listKey {
			return nil, repository.ErrConflict
		}
	}
	out := make([]model.ListItem, 0, len(items))
	for i, it := range items {
		it.ID, it.Page, it.ListKey, it.Order, it.UpdatedAt = uuid.NewString(), page, listKey, i, time.Now().UTC()
		s.items = append(s.items, it)
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) Update(_ context.Context, id string, fields map[string]string, imageURL string) (model.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			it.Fields, it.ImageURL, it.UpdatedAt = fields, imageURL, time.Now().UTC()
			s.items[i] = it
			return it, nil
		}
	}
	return model.ListItem{}, repository.ErrNotFound
}

func (s *Store) Delete(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return it.Page, nil
		}
	}
	return "", repository.ErrNotFound
}

func (s *Store) Reorder(_ context.Context, page, listKey string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := map[string]int{}
	for i, it := range s.items {
		if it.Page == page && it.ListKey == listKey {
			pos[it.ID] = i
		}
	}
	if len(pos) != len(ids) {
		return repository.ErrConflict
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if _, ok := pos[id]; !ok || seen[id] {
			return repository.ErrConflict
		}
		seen[id] = true
	}
	for order, id := range ids {
		s.items[pos[id]].Order = order
	}
	return nil
}

// Admins keeps administrator records in memory.
type Admins struct {
	mu     sync.Mutex
	admins []model.Admin
}

// Add inserts an admin and returns it with an id.
func (s *Admins) Add(email, hash string) model.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	a := model.Admin{ID: uuid.NewString(), Email: strings.ToLower(email), PasswordHash: hash,
		Role: model.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	s.admins = append(s.admins, a)
	return a
}

func (s *Admins) GetByEmail(_ context.Context, email string) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range s.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Admin{}, repository.ErrNotFound
}

func (s *Admins) GetByID(_ context.Context, id string) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Admin{}, repository.ErrNotFound
}

func (s *Admins) UpdateProfile(_ context.Context, id, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	target := -1
	for i, a := range s.admins {
		switch {
		case a.ID == id:
			target = i
		case email != "" && a.Email == email:
			return repository.ErrEmailExists
		}
	}
	if target < 0 {
		return repository.ErrNotFound
	}
	if email != "" {
		s.admins[target].Email = email
	}
	if passwordHash != "" {
		s.admins[target].PasswordHash = passwordHash
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Mailer records messages and can be told to fail.
type Mailer struct {
	mu   sync.Mutex
	Sent []notify.Message
	Err  error
}

func (m *Mailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return m.Err
}

// Invalidator counts cache invalidations.
type Invalidator struct {
	mu    sync.Mutex
	Calls int
}

func (i *Invalidator) Invalidate(context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Calls++
	return nil
}
