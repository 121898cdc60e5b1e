// Package cms turns the flat `site_content` / `site_images` rows of a page
// into values the site renders: scalar lookups with a site-wide fallback,
// list reconstruction over indexed keys and typed sections.
package cms

import (
	"strconv"
	"strings"

	"github.com/palclasses/site-api/internal/model"
)

// GlobalPage holds site-wide values (header, footer, contact details).
// Page-scoped lookups fall back to it.
const GlobalPage = "global"

// MaxListItems bounds every indexed list scan.  Items at index 50 or later
// are never returned.
const MaxListItems = 50

// Resolver answers lookups over one fetched snapshot.  It never touches the
// store; callers refetch after a write to see new values.
type Resolver struct {
	page    string
	global  bool
	content map[string]map[string]string // page -> key -> value
	images  map[string]map[string]string // page -> key -> url
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithoutGlobal disables the fallback to GlobalPage.
func WithoutGlobal() Option {
	return func(r *Resolver) { r.global = false }
}

// NewResolver indexes content and images for page.  Rows of other pages
// than page and GlobalPage are ignored.
func NewResolver(page string, content []model.ContentRow, images []model.ImageRow, opts ...Option) *Resolver {
	r := &Resolver{
		page:    page,
		global:  page != GlobalPage,
		content: map[string]map[string]string{},
		images:  map[string]map[string]string{},
	}
	for _, o := range opts {
		o(r)
	}
	for _, c := range content {
		if r.relevant(c.Page) {
			put(r.content, c.Page, c.SectionKey, c.ContentValue)
		}
	}
	for _, img := range images {
		if r.relevant(img.Page) {
			put(r.images, img.Page, img.SectionKey, img.ImageURL)
		}
	}
	return r
}

// Page returns the page the resolver was built for.
func (r *Resolver) Page() string { return r.page }

// Content returns the value stored under key, the global value when the
// page has none, or fallback.  Empty values count as missing.
func (r *Resolver) Content(key, fallback string) string {
	return r.lookup(r.content, key, fallback)
}

// Image is Content for image URLs.
func (r *Resolver) Image(key, fallback string) string {
	return r.lookup(r.images, key, fallback)
}

// ListItems rebuilds the list stored under listKey.  Index i exists when a
// row keyed listKey_i_fields[0] exists; the first missing index ends the
// list.  Missing fields of an existing item are "".
func (r *Resolver) ListItems(listKey string, fields []string) []map[string]string {
	out := []map[string]string{}
	if len(fields) == 0 {
		return out
	}
	for i := 0; i < MaxListItems; i++ {
		if !r.has(r.content, ListFieldKey(listKey, i, fields[0])) {
			break
		}
		item := make(map[string]string, len(fields))
		for _, f := range fields {
			item[f] = r.Content(ListFieldKey(listKey, i, f), "")
		}
		out = append(out, item)
	}
	return out
}

// ListImages returns the image URL of every item in listKey, aligned with
// ListItems.  An item that exists only through its content rows yields ""
// so positions stay aligned.
func (r *Resolver) ListImages(listKey, imageKey string) []string {
	out := []string{}
	for i := 0; i < MaxListItems; i++ {
		if url := r.Image(ListFieldKey(listKey, i, imageKey), ""); url != "" {
			out = append(out, url)
			continue
		}
		if !r.hasPrefix(listKey, i) {
			break
		}
		out = append(out, "")
	}
	return out
}

// ListItemCount returns the number of contiguous indices, from 0, that
// have at least one content row.
func (r *Resolver) ListItemCount(listKey string) int {
	n := 0
	for n < MaxListItems && r.hasPrefix(listKey, n) {
		n++
	}
	return n
}

// ListFieldKey builds the flat key for field of item i in listKey.
func ListFieldKey(listKey string, i int, field string) string {
	return listKey + "_" + strconv.Itoa(i) + "_" + field
}

func (r *Resolver) relevant(page string) bool {
	return page == r.page || (r.global && page == GlobalPage)
}

func (r *Resolver) lookup(m map[string]map[string]string, key, fallback string) string {
	if v := m[r.page][key]; v != "" {
		return v
	}
	if r.global {
		if v := m[GlobalPage][key]; v != "" {
			return v
		}
	}
	return fallback
}

func (r *Resolver) has(m map[string]map[string]string, key string) bool {
	if _, ok := m[r.page][key]; ok {
		return true
	}
	if r.global {
		_, ok := m[GlobalPage][key]
		return ok
	}
	return false
}

func (r *Resolver) hasPrefix(listKey string, i int) bool {
	p := listKey + "_" + strconv.Itoa(i) + "_"
	pages := []string{r.page}
	if r.global {
		pages = append(pages, GlobalPage)
	}
	for _, page := range pages {
		for k := range r.content[page] {
			if strings.HasPrefix(k, p) {
				return true
			}
		}
	}
	return false
}

func put(m map[string]map[string]string, page, key, val string) {
	if m[page] == nil {
		m[page] = map[string]string{}
	}
	m[page][key] = val
}
