package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/palclasses/site-api/internal/cms"
	"github.com/palclasses/site-api/internal/model"
	"github.com/palclasses/site-api/internal/validation"
)

// ContentStore persists `site_content` rows.
type ContentStore interface {
	ListContent(ctx context.Context, pages ...string) ([]model.ContentRow, error)
	UpsertContent(ctx context.Context, row model.ContentRow) error
	UpsertContentBatch(ctx context.Context, rows []model.ContentRow) error
	DeleteContent(ctx context.Context, id string) (string, error)
}

// ImageStore persists `site_images` rows.
type ImageStore interface {
	ListImages(ctx context.Context, pages ...string) ([]model.ImageRow, error)
	UpsertImage(ctx context.Context, img model.ImageRow) error
	DeleteImage(ctx context.Context, id string) (string, error)
}

// ListStore persists structured list items.
type ListStore interface {
	ListByPages(ctx context.Context, pages ...string) ([]model.ListItem, error)
	GetByID(ctx context.Context, id string) (model.ListItem, error)
	Create(ctx context.Context, item model.ListItem, maxItems int) (model.ListItem, error)
	Import(ctx context.Context, page, listKey string, items []model.ListItem) ([]model.ListItem, error)
	Update(ctx context.Context, id string, fields map[string]string, imageURL string) (model.ListItem, error)
	Delete(ctx context.Context, id string) (string, error)
	Reorder(ctx context.Context, page, listKey string, ids []string) error
}

// CacheInvalidator drops cached public page responses.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ContentInput is one content write.
type ContentInput struct {
	Page         string `json:"page"`
	SectionKey   string `json:"section_key"`
	ContentType  string `json:"content_type"`
	ContentValue string `json:"content_value"`
}

// ImageInput is one image reference write.
type ImageInput struct {
	Page         string `json:"page"`
	SectionKey   string `json:"section_key"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
}

// ListItemInput is the editable part of a list item.
type ListItemInput struct {
	Fields   map[string]string `json:"fields"`
	ImageURL string            `json:"image_url"`
}

// CMSOptions configures a CMSService.  Zero values are usable.
type CMSOptions struct {
	Schema     *cms.Schema
	StrictKeys bool
	Cache      CacheInvalidator
	Logger     *slog.Logger
}

// CMSService implements page reads and every content write.  Each write
// returns the freshly fetched page, so callers never hold a stale
// snapshot after a successful save.
type CMSService struct {
	content  ContentStore
	images   ImageStore
	lists    ListStore
	schema   *cms.Schema
	strict   bool
	cache    CacheInvalidator
	sanitize *bluemonday.Policy
	log      *slog.Logger
}

func NewCMSService(content ContentStore, images ImageStore, lists ListStore, opts CMSOptions) *CMSService {
	if opts.Schema == nil {
		opts.Schema = cms.DefaultSchema()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &CMSService{
		content:  content,
		images:   images,
		lists:    lists,
		schema:   opts.Schema,
		strict:   opts.StrictKeys,
		cache:    opts.Cache,
		sanitize: bluemonday.UGCPolicy(),
		log:      opts.Logger.With("component", "cms"),
	}
}

// Schema returns the editable page schema.
func (s *CMSService) Schema() *cms.Schema { return s.schema }

var pageSlug = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// FetchPage loads every row of page and of the global page.
func (s *CMSService) FetchPage(ctx context.Context, page string) (*cms.PageData, error) {
	page = strings.ToLower(strings.TrimSpace(page))
	if !pageSlug.MatchString(page) {
		return nil, validation.NewError("page", "page must be a lowercase slug")
	}
	pages := []string{page}
	if page != cms.GlobalPage {
		pages = append(pages, cms.GlobalPage)
	}

	content, err := s.content.ListContent(ctx, pages...)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	images, err := s.images.ListImages(ctx, pages...)
	if err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	lists, err := s.lists.ListByPages(ctx, pages...)
	if err != nil {
		return nil, fmt.Errorf("load lists: %w", err)
	}
	return cms.NewPageData(page, content, images, lists, s.schema), nil
}

// UpsertContent writes or replaces one content row and returns its page.
// The page is nil when the row was stored but could not be read back.
func (s *CMSService) UpsertContent(ctx context.Context, in ContentInput) (*cms.PageData, error) {
	row, err := s.prepareContent(in, "")
	if err != nil {
		return nil, err
	}
	if err := s.content.UpsertContent(ctx, row); err != nil {
		return nil, fmt.Errorf("upsert content: %w", err)
	}
	return s.refresh(ctx, row.Page)
}

// BatchUpsertContent writes all items or none.  Items without a page
// inherit page.  Every invalid item is reported in one *validation.Error.
func (s *CMSService) BatchUpsertContent(ctx context.Context, page string, items []ContentInput) (*cms.PageData, error) {
	if len(items) == 0 {
		return nil, validation.NewError("items", "items must not be empty")
	}
	rows := make([]model.ContentRow, 0, len(items))
	agg := &validation.Error{Fields: map[string]string{}}
	for i, in := range items {
		row, err := s.prepareContent(in, page)
		if err != nil {
			var verr *validation.Error
			if !errors.As(err, &verr) {
				return nil, err
			}
			for f, msg := range verr.Fields {
				agg.Fields[fmt.Sprintf("items[%d].%s", i, f)] = msg
			}
			continue
		}
		rows = append(rows, row)
	}
	if len(agg.Fields) > 0 {
		return nil, agg
	}
	if err := s.content.UpsertContentBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("batch upsert: %w", err)
	}

	refreshPage := rows[0].Page
	if page != "" {
		refreshPage = page
	}
	return s.refresh(ctx, refreshPage)
}

// DeleteContent removes a content row by id and returns its page.
func (s *CMSService) DeleteContent(ctx context.Context, id string) (*cms.PageData, error) {
	page, err := s.content.DeleteContent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, page)
}

// UpsertImage writes or replaces one image reference and returns its page.
func (s *CMSService) UpsertImage(ctx context.Context, in ImageInput) (*cms.PageData, error) {
	page, key := normPage(in.Page), strings.TrimSpace(in.SectionKey)
	if err := s.checkKey(page, key); err != nil {
		return nil, err
	}
	imageURL := strings.TrimSpace(in.ImageURL)
	if err := checkImageURL("image_url", imageURL); err != nil {
		return nil, err
	}
	err := s.images.UpsertImage(ctx, model.ImageRow{
		Page: page, SectionKey: key, ImageURL: imageURL, DisplayOrder: in.DisplayOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert image: %w", err)
	}
	return s.refresh(ctx, page)
}

// DeleteImage removes an image reference by id and returns its page.
func (s *CMSService) DeleteImage(ctx context.Context, id string) (*cms.PageData, error) {
	page, err := s.images.DeleteImage(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, page)
}

// AddListItem appends an item to page/listKey.  The list's MaxItems from
// the schema bounds its length.
func (s *CMSService) AddListItem(ctx context.Context, page, listKey string, in ListItemInput) (model.ListItem, error) {
	page, listKey = normPage(page), strings.TrimSpace(listKey)
	spec, err := s.listSpec(page, listKey)
	if err != nil {
		return model.ListItem{}, err
	}
	fields, imageURL, err := s.prepareItem(spec, in)
	if err != nil {
		return model.ListItem{}, err
	}
	maxItems := cms.MaxListItems
	if spec != nil && spec.MaxItems > 0 {
		maxItems = spec.MaxItems
	}
	it, err := s.lists.Create(ctx, model.ListItem{Page: page, ListKey: listKey, Fields: fields, ImageURL: imageURL}, maxItems)
	if err != nil {
		return model.ListItem{}, err
	}
	s.invalidate(ctx)
	return it, nil
}

// UpdateListItem replaces the fields and image of an item.
func (s *CMSService) UpdateListItem(ctx context.Context, id string, in ListItemInput) (model.ListItem, error) {
	cur, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return model.ListItem{}, err
	}
	spec, err := s.listSpec(cur.Page, cur.ListKey)
	if err != nil {
		return model.ListItem{}, err
	}
	fields, imageURL, err := s.prepareItem(spec, in)
	if err != nil {
		return model.ListItem{}, err
	}
	it, err := s.lists.Update(ctx, id, fields, imageURL)
	if err != nil {
		return model.ListItem{}, err
	}
	s.invalidate(ctx)
	return it, nil
}

// DeleteListItem removes an item.  The remaining items keep their order.
func (s *CMSService) DeleteListItem(ctx context.Context, id string) error {
	if _, err := s.lists.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ReorderList sets the order of page/listKey to ids and returns the list.
func (s *CMSService) ReorderList(ctx context.Context, page, listKey string, ids []string) ([]model.ListItem, error) {
	page, listKey = normPage(page), strings.TrimSpace(listKey)
	if len(ids) == 0 {
		return nil, validation.NewError("ids", "ids must not be empty")
	}
	if err := s.lists.Reorder(ctx, page, listKey, ids); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.listItems(ctx, page, listKey)
}

// ImportLegacyList copies the indexed rows listKey_i_field of page into
// structured items.  The flat rows are left in place.
func (s *CMSService) ImportLegacyList(ctx context.Context, page, listKey string) ([]model.ListItem, error) {
	page, listKey = normPage(page), strings.TrimSpace(listKey)
	spec, ok := s.schema.List(page, listKey)
	if !ok {
		return nil, validation.NewError("listKey", "unknown list "+page+"/"+listKey)
	}

	content, err := s.content.ListContent(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	images, err := s.images.ListImages(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	r := cms.NewResolver(page, content, images, cms.WithoutGlobal())

	names := make([]string, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		names = append(names, f.Key)
	}
	rows := r.ListItems(listKey, names)
	var urls []string
	if len(spec.Images) > 0 {
		urls = r.ListImages(listKey, spec.Images[0].Key)
	}
	if len(rows) == 0 {
		return nil, validation.NewError("listKey", "no indexed items to import")
	}

	items := make([]model.ListItem, len(rows))
	for i, fields := range rows {
		items[i].Fields = fields
		if i < len(urls) {
			items[i].ImageURL = urls[i]
		}
	}
	out, err := s.lists.Import(ctx, page, listKey, items)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return out, nil
}

func (s *CMSService) listItems(ctx context.Context, page, listKey string) ([]model.ListItem, error) {
	all, err := s.lists.ListByPages(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]model.ListItem, 0, len(all))
	for _, it := range all {
		if it.ListKey == listKey {
			out = append(out, it)
		}
	}
	return out, nil
}

// refresh invalidates cached pages and refetches page.  It runs after a
// write has been stored, so a failed refetch is logged and reported as a
// nil page rather than an error.
func (s *CMSService) refresh(ctx context.Context, page string) (*cms.PageData, error) {
	s.invalidate(ctx)
	pd, err := s.FetchPage(ctx, page)
	if err != nil {
		s.log.Warn("refetch after write failed", "page", page, "err", err)
		return nil, nil
	}
	return pd, nil
}

func (s *CMSService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("page cache invalidation failed", "err", err)
	}
}

func (s *CMSService) prepareContent(in ContentInput, defaultPage string) (model.ContentRow, error) {
	page := normPage(in.Page)
	if page == "" {
		page = normPage(defaultPage)
	}
	key := strings.TrimSpace(in.SectionKey)
	if err := s.checkKey(page, key); err != nil {
		return model.ContentRow{}, err
	}

	ct := model.ContentType(strings.ToLower(strings.TrimSpace(in.ContentType)))
	if ct == "" {
		ct = model.ContentText
	}
	if !ct.Valid() {
		return model.ContentRow{}, validation.NewError("content_type", "content_type must be one of text, html, json")
	}

	value := in.ContentValue
	switch ct {
	case model.ContentHTML:
		value = s.sanitize.Sanitize(value)
	case model.ContentJSON:
		if !json.Valid([]byte(value)) {
			return model.ContentRow{}, validation.NewError("content_value", "content_value must be valid JSON")
		}
	}
	return model.ContentRow{Page: page, SectionKey: key, ContentType: ct, ContentValue: value}, nil
}

func (s *CMSService) checkKey(page, key string) error {
	if !pageSlug.MatchString(page) {
		return validation.NewError("page", "page must be a lowercase slug")
	}
	if key == "" || len(key) > 191 {
		return validation.NewError("section_key", "section_key is required")
	}
	if s.strict && !s.schema.Allows(page, key) {
		return validation.NewError("section_key", fmt.Sprintf("unknown key %q for page %q", key, page))
	}
	return nil
}

// listSpec returns the schema of page/listKey.  Lists outside the schema
// are accepted, with a nil spec, unless strict keys are on.
func (s *CMSService) listSpec(page, listKey string) (*cms.ListSpec, error) {
	if !pageSlug.MatchString(page) {
		return nil, validation.NewError("page", "page must be a lowercase slug")
	}
	if listKey == "" {
		return nil, validation.NewError("listKey", "listKey is required")
	}
	spec, ok := s.schema.List(page, listKey)
	if !ok && s.strict {
		return nil, validation.NewError("listKey", "unknown list "+page+"/"+listKey)
	}
	return spec, nil
}

func (s *CMSService) prepareItem(spec *cms.ListSpec, in ListItemInput) (map[string]string, string, error) {
	fields := make(map[string]string, len(in.Fields))
	for k, v := range in.Fields {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if spec != nil && s.strict && !specHasField(spec, k) {
			return nil, "", validation.NewError("fields."+k, "unknown field "+k)
		}
		fields[k] = v
	}
	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL != "" {
		if err := checkImageURL("image_url", imageURL); err != nil {
			return nil, "", err
		}
	}
	return fields, imageURL, nil
}

func specHasField(spec *cms.ListSpec, key string) bool {
	for _, f := range spec.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// checkImageURL accepts absolute http(s) URLs and site-relative paths.
func checkImageURL(field, raw string) error {
	if raw == "" {
		return validation.NewError(field, field+" is required")
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError(field, field+" must be an http(s) URL or a site path")
	}
	return nil
}

func normPage(p string) string { return strings.ToLower(strings.TrimSpace(p)) }
