package cms

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/palclasses/site-api/internal/model"
)

// FieldType tells the dashboard which editor to render for a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldHTML     FieldType = "html"
	FieldURL      FieldType = "url"
	FieldNumber   FieldType = "number"
)

type Field struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
}

type ImageField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ListSpec describes a repeatable item inside a section.
type ListSpec struct {
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	Fields   []Field      `json:"fields"`
	Images   []ImageField `json:"images,omitempty"`
	MaxItems int          `json:"max_items"`
}

type Section struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Fields []Field      `json:"fields"`
	Images []ImageField `json:"images,omitempty"`
	List   *ListSpec    `json:"list,omitempty"`
}

type PageSchema struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Sections []Section `json:"sections"`
}

// Schema is the set of editable pages.  It is read-only after construction.
type Schema struct {
	Pages []PageSchema `json:"pages"`
	index map[string]int
}

// NewSchema indexes pages by id.
func NewSchema(pages []PageSchema) *Schema {
	s := &Schema{Pages: pages, index: make(map[string]int, len(pages))}
	for i, p := range pages {
		s.index[p.ID] = i
		for j := range p.Sections {
			if p.Sections[j].Fields == nil {
				p.Sections[j].Fields = []Field{}
			}
		}
	}
	return s
}

// Page returns the schema of page id.
func (s *Schema) Page(id string) (*PageSchema, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.Pages[i], true
}

// List returns the list spec named listKey on page.
func (s *Schema) List(page, listKey string) (*ListSpec, bool) {
	p, ok := s.Page(page)
	if !ok {
		return nil, false
	}
	for i := range p.Sections {
		if l := p.Sections[i].List; l != nil && l.Key == listKey {
			return l, true
		}
	}
	return nil, false
}

// Allows reports whether key is an editable content or image key of page.
// Indexed list keys are accepted for indices below the list's MaxItems.
func (s *Schema) Allows(page, key string) bool {
	p, ok := s.Page(page)
	if !ok {
		return false
	}
	listKey, idx, field, indexed := ParseListKey(key)
	for _, sec := range p.Sections {
		for _, f := range sec.Fields {
			if f.Key == key {
				return true
			}
		}
		for _, img := range sec.Images {
			if img.Key == key {
				return true
			}
		}
		if !indexed || sec.List == nil || sec.List.Key != listKey || idx >= listCap(sec.List) {
			continue
		}
		if sec.List.hasField(field) {
			return true
		}
	}
	return false
}

func (l *ListSpec) hasField(name string) bool {
	for _, f := range l.Fields {
		if f.Key == name {
			return true
		}
	}
	for _, img := range l.Images {
		if img.Key == name {
			return true
		}
	}
	return false
}

func listCap(l *ListSpec) int {
	if l.MaxItems > 0 && l.MaxItems < MaxListItems {
		return l.MaxItems
	}
	return MaxListItems
}

var listKeyRe = regexp.MustCompile(`^(.+?)_(\d+)_(.+)$`)

// ParseListKey splits "gallery_item_3_image" into ("gallery_item", 3,
// "image").  The first all-digit segment is taken as the index.
func ParseListKey(key string) (listKey string, index int, field string, ok bool) {
	m := listKeyRe.FindStringSubmatch(key)
	if m == nil {
		return "", 0, "", false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, "", false
	}
	return m[1], n, m[3], true
}

// SectionData is a section resolved against a snapshot.
type SectionData struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
	Images map[string]string `json:"images,omitempty"`
	Items  []ItemData        `json:"items,omitempty"`
}

// ItemData is one list item.  ID is empty for items rebuilt from indexed
// keys.
type ItemData struct {
	ID     string            `json:"id,omitempty"`
	Fields map[string]string `json:"fields"`
	Images map[string]string `json:"images,omitempty"`
}

// Resolve builds the typed sections of p.  Lists are taken from items when
// any exist for the list, otherwise from indexed content keys.
func (p *PageSchema) Resolve(r *Resolver, items []model.ListItem) []SectionData {
	byList := map[string][]model.ListItem{}
	for _, it := range items {
		byList[it.Page+"/"+it.ListKey] = append(byList[it.Page+"/"+it.ListKey], it)
	}

	out := make([]SectionData, 0, len(p.Sections))
	for _, sec := range p.Sections {
		sd := SectionData{ID: sec.ID, Fields: make(map[string]string, len(sec.Fields))}
		for _, f := range sec.Fields {
			sd.Fields[f.Key] = r.Content(f.Key, "")
		}
		if len(sec.Images) > 0 {
			sd.Images = make(map[string]string, len(sec.Images))
			for _, img := range sec.Images {
				sd.Images[img.Key] = r.Image(img.Key, "")
			}
		}
		if sec.List != nil {
			structured := byList[p.ID+"/"+sec.List.Key]
			if len(structured) == 0 && p.ID != GlobalPage && r.global {
				structured = byList[GlobalPage+"/"+sec.List.Key]
			}
			if len(structured) > 0 {
				sd.Items = structuredItems(sec.List, structured)
			} else {
				sd.Items = legacyItems(r, sec.List)
			}
		}
		out = append(out, sd)
	}
	return out
}

func structuredItems(spec *ListSpec, items []model.ListItem) []ItemData {
	sorted := append([]model.ListItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	out := make([]ItemData, 0, len(sorted))
	for _, it := range sorted {
		d := ItemData{ID: it.ID, Fields: make(map[string]string, len(spec.Fields))}
		for _, f := range spec.Fields {
			d.Fields[f.Key] = it.Fields[f.Key]
		}
		if len(spec.Images) > 0 {
			d.Images = map[string]string{spec.Images[0].Key: it.ImageURL}
		}
		out = append(out, d)
	}
	return out
}

func legacyItems(r *Resolver, spec *ListSpec) []ItemData {
	names := make([]string, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		names = append(names, f.Key)
	}
	rows := r.ListItems(spec.Key, names)
	out := make([]ItemData, len(rows))
	for i, row := range rows {
		out[i] = ItemData{Fields: row}
	}
	for _, img := range spec.Images {
		for i, url := range r.ListImages(spec.Key, img.Key) {
			if i >= len(out) {
				break
			}
			if out[i].Images == nil {
				out[i].Images = map[string]string{}
			}
			out[i].Images[img.Key] = url
		}
	}
	return out
}
