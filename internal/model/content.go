package model

import "time"

// ContentType tells the front end how to render a ContentRow value.
type ContentType string

const (
	ContentText ContentType = "text"
	ContentHTML ContentType = "html"
	ContentJSON ContentType = "json"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentHTML, ContentJSON:
		return true
	}
	return false
}

// ContentRow is one editable value in the `site_content` table.  The pair
// (Page, SectionKey) is unique: writing the same pair replaces the row.
//
// Fields:
//  ID           – row id (uuid).
//  Page         – page slug ("home", "about", ...); "global" holds site-wide values.
//  SectionKey   – key within the page, e.g. hero_title or highlight_0_title.
//  ContentType  – text, html or json.
//  ContentValue – the stored value.
type ContentRow struct {
	ID           string      `json:"id"`
	Page         string      `json:"page"`
	SectionKey   string      `json:"section_key"`
	ContentType  ContentType `json:"content_type"`
	ContentValue string      `json:"content_value"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ImageRow is an image reference in the `site_images` table.  It is keyed
// like ContentRow but independently of it.
type ImageRow struct {
	ID           string    `json:"id"`
	Page         string    `json:"page"`
	SectionKey   string    `json:"section_key"`
	ImageURL     string    `json:"image_url"`
	DisplayOrder int       `json:"display_order"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListItem is one entry of a repeatable section (testimonials, toppers,
// gallery images, ...) stored as its own row in `cms_list_items`.  Items
// are ordered by Order; gaps are allowed.
type ListItem struct {
	ID        string            `json:"id"`
	Page      string            `json:"page"`
	ListKey   string            `json:"list_key"`
	Order     int               `json:"order"`
	Fields    map[string]string `json:"fields"`
	ImageURL  string            `json:"image_url,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}
