package cms

import "github.com/palclasses/site-api/internal/model"

// PageData is everything the site needs to render one page: the raw rows
// of the page and of GlobalPage, the structured list items, and the
// sections resolved through the schema when the page has one.
type PageData struct {
	Page     string             `json:"page"`
	Content  []model.ContentRow `json:"content"`
	Images   []model.ImageRow   `json:"images"`
	Lists    []model.ListItem   `json:"lists"`
	Sections []SectionData      `json:"sections,omitempty"`

	resolver *Resolver
}

// NewPageData builds a snapshot for page.  schema may be nil.
func NewPageData(page string, content []model.ContentRow, images []model.ImageRow, lists []model.ListItem, schema *Schema) *PageData {
	pd := &PageData{
		Page:     page,
		Content:  nonNil(content),
		Images:   nonNil(images),
		Lists:    nonNil(lists),
		resolver: NewResolver(page, content, images),
	}
	if schema != nil {
		if ps, ok := schema.Page(page); ok {
			pd.Sections = ps.Resolve(pd.resolver, lists)
		}
	}
	return pd
}

// Resolver returns the page-scoped resolver over the snapshot, with global
// fallback enabled.
func (p *PageData) Resolver() *Resolver { return p.resolver }

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
