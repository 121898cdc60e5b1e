package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palclasses/site-api/internal/repository"
	"github.com/palclasses/site-api/internal/testutil"
	"github.com/palclasses/site-api/internal/validation"
)

func newCMS(store *testutil.Store, strict bool) (*CMSService, *testutil.Invalidator) {
	inv := &testutil.Invalidator{}
	return NewCMSService(store, store, store, CMSOptions{
		StrictKeys: strict,
		Cache:      inv,
		Logger:     testutil.TestLogger(),
	}), inv
}

func TestUpsertContent_ReplacesRow(t *testing.T) {
	store := testutil.NewStore()
	svc, inv := newCMS(store, false)
	ctx := context.Background()

	_, err := svc.UpsertContent(ctx, ContentInput{Page: "home", SectionKey: "hero_title", ContentValue: "v1"})
	require.NoError(t, err)
	pd, err := svc.UpsertContent(ctx, ContentInput{Page: "home", SectionKey: "hero_title", ContentValue: "v2"})
	require.NoError(t, err)

	rows := store.ContentRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "v2", rows[0].ContentValue)
	assert.Equal(t, "v2", pd.Resolver().Content("hero_title", ""))
	assert.Equal(t, 2, inv.Calls)
}

func TestUpsertContent_SanitizesHTMLAndChecksJSON(t *testing.T) {
	store := testutil.NewStore()
	svc, _ := newCMS(store, false)
	ctx := context.Background()

	pd, err := svc.UpsertContent(ctx, ContentInput{Page: "about", SectionKey: "founder_message",
		ContentType: "html", ContentValue: `<p>Hello<script>alert(1)</script></p>`})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", pd.Resolver().Content("founder_message", ""))

	_, err = svc.UpsertContent(ctx, ContentInput{Page: "about", SectionKey: "meta", ContentType: "json", ContentValue: "{oops"})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "content_value")

	_, err = svc.UpsertContent(ctx, ContentInput{Page: "about", SectionKey: "x", ContentType: "markdown"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "content_type")
}

func TestUpsertContent_StrictKeys(t *testing.T) {
	svc, _ := newCMS(testutil.NewStore(), true)
	ctx := context.Background()

	_, err := svc.UpsertContent(ctx, ContentInput{Page: "home", SectionKey: "highlight_2_title", ContentValue: "ok"})
	require.NoError(t, err)

	_, err = svc.UpsertContent(ctx, ContentInput{Page: "home", SectionKey: "made_up", ContentValue: "no"})
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))
}

func TestUpsertContent_StoreFailureSkipsRefresh(t *testing.T) {
	store := testutil.NewStore()
	store.FailWrites = true
	svc, inv := newCMS(store, false)

	pd, err := svc.UpsertContent(context.Background(), ContentInput{Page: "home", SectionKey: "a", ContentValue: "b"})
	assert.ErrorIs(t, err, testutil.ErrWriteFailed)
	assert.Nil(t, pd)
	assert.Zero(t, inv.Calls)
}

func TestUpsertContent_RefetchFailureKeepsSave(t *testing.T) {
	store := testutil.NewStore()
	svc, inv := newCMS(store, false)
	ctx := context.Background()

	_, err := svc.UpsertContent(ctx, ContentInput{Page: "home", SectionKey: "hero_title", ContentValue: "v1"})
	require.NoError(t, err)

	store.FailReads = true
	pd, err := svc.UpsertContent(ctx, ContentInput{Page: "home", SectionKey: "hero_title", ContentValue: "v2"})
	require.NoError(t, err)
	assert.Nil(t, pd)
	assert.Equal(t, 2, inv.Calls)

	rows := store.ContentRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "v2", rows[0].ContentValue)
}

func TestBatchUpsertContent_AllOrNothing(t *testing.T) {
	store := testutil.NewStore()
	svc, _ := newCMS(store, false)
	ctx := context.Background()

	_, err := svc.BatchUpsertContent(ctx, "home", []ContentInput{
		{SectionKey: "stat_0_value", ContentValue: "15"},
		{SectionKey: "", ContentValue: "missing key"},
		{SectionKey: "stat_0_label", ContentType: "json", ContentValue: "nope"},
	})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "items[1].section_key")
	assert.Contains(t, verr.Fields, "items[2].content_value")
	assert.Empty(t, store.ContentRows())

	pd, err := svc.BatchUpsertContent(ctx, "home", []ContentInput{
		{SectionKey: "stat_0_value", ContentValue: "15"},
		{SectionKey: "stat_0_label", ContentValue: "Years"},
	})
	require.NoError(t, err)
	assert.Len(t, store.ContentRows(), 2)
	assert.Equal(t, []map[string]string{{"value": "15", "label": "Years"}},
		pd.Resolver().ListItems("stat", []string{"value", "label"}))
}

func TestFetchPage_GlobalFallback(t *testing.T) {
	store := testutil.NewStore()
	svc, _ := newCMS(store, false)
	ctx := context.Background()

	_, err := svc.UpsertContent(ctx, ContentInput{Page: "global", SectionKey: "phone1", ContentValue: "+91 80803 21805"})
	require.NoError(t, err)

	pd, err := svc.FetchPage(ctx, "contact")
	require.NoError(t, err)
	assert.Equal(t, "+91 80803 21805", pd.Resolver().Content("phone1", ""))

	_, err = svc.FetchPage(ctx, "../etc")
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))
}

func TestDeleteContent_RefreshesOwningPage(t *testing.T) {
	store := testutil.NewStore()
	svc, _ := newCMS(store, false)
	ctx := context.Background()

	pd, err := svc.UpsertContent(ctx, ContentInput{Page: "results", SectionKey: "hero_title", ContentValue: "Results"})
	require.NoError(t, err)
	id := pd.Content[0].ID

	pd, err = svc.DeleteContent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "results", pd.Page)
	assert.Empty(t, pd.Content)

	_, err = svc.DeleteContent(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpsertImage_ValidatesURL(t *testing.T) {
	store := testutil.NewStore()
	svc, _ := newCMS(store, false)
	ctx := context.Background()

	pd, err := svc.UpsertImage(ctx, ImageInput{Page: "global", SectionKey: "site_logo", ImageURL: "https://cdn.example/logo.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/logo.png", pd.Resolver().Image("site_logo", ""))

	_, err = svc.UpsertImage(ctx, ImageInput{Page: "global", SectionKey: "site_logo", ImageURL: "javascript:alert(1)"})
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))

	_, err = svc.UpsertImage(ctx, ImageInput{Page: "home", SectionKey: "hero_image", ImageURL: "/uploads/hero.jpg"})
	assert.NoError(t, err)
}

func TestListItems_Lifecycle(t *testing.T) {
	store := testutil.NewStore()
	svc, _ := newCMS(store, false)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		it, err := svc.AddListItem(ctx, "home", "testimonial", ListItemInput{Fields: map[string]string{"name": name}})
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}

	require.NoError(t, svc.DeleteListItem(ctx, ids[1]))
	pd, err := svc.FetchPage(ctx, "home")
	require.NoError(t, err)
	var names []string
	for _, sec := range pd.Sections {
		if sec.ID == "testimonials" {
			for _, it := range sec.Items {
				names = append(names, it.Fields["name"])
			}
		}
	}
	assert.Equal(t, []string{"A", "C"}, names)

	items, err := svc.ReorderList(ctx, "home", "testimonial", []string{ids[2], ids[0]})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].ID)

	_, err = svc.ReorderList(ctx, "home", "testimonial", []string{ids[0]})
	assert.ErrorIs(t, err, repository.ErrConflict)

	updated, err := svc.UpdateListItem(ctx, ids[0], ListItemInput{Fields: map[string]string{"name": "A+"}})
	require.NoError(t, err)
	assert.Equal(t, "A+", updated.Fields["name"])
}

func TestAddListItem_RespectsMaxItems(t *testing.T) {
	svc, _ := newCMS(testutil.NewStore(), false)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := svc.AddListItem(ctx, "home", "stat", ListItemInput{Fields: map[string]string{"value": "1"}})
		require.NoError(t, err)
	}
	_, err := svc.AddListItem(ctx, "home", "stat", ListItemInput{Fields: map[string]string{"value": "1"}})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestImportLegacyList(t *testing.T) {
	store := testutil.NewStore()
	svc, _ := newCMS(store, false)
	ctx := context.Background()

	_, err := svc.BatchUpsertContent(ctx, "results", []ContentInput{
		{SectionKey: "topper_0_name", ContentValue: "Meera"},
		{SectionKey: "topper_0_score", ContentValue: "98%"},
		{SectionKey: "topper_1_name", ContentValue: "Om"},
		{SectionKey: "topper_3_name", ContentValue: "unreachable"},
	})
	require.NoError(t, err)
	_, err = svc.UpsertImage(ctx, ImageInput{Page: "results", SectionKey: "topper_1_photo", ImageURL: "https://cdn/om.jpg"})
	require.NoError(t, err)

	items, err := svc.ImportLegacyList(ctx, "results", "topper")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "98%", items[0].Fields["score"])
	assert.Equal(t, "", items[0].ImageURL)
	assert.Equal(t, "https://cdn/om.jpg", items[1].ImageURL)

	_, err = svc.ImportLegacyList(ctx, "results", "topper")
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = svc.ImportLegacyList(ctx, "results", "nothing")
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))
}

func TestListItemFallsBackToLegacyRows(t *testing.T) {
	store := testutil.NewStore()
	svc, _ := newCMS(store, false)
	ctx := context.Background()

	_, err := svc.UpsertContent(ctx, ContentInput{Page: "admission", SectionKey: "fee_0_level", ContentValue: "Primary"})
	require.NoError(t, err)
	pd, err := svc.FetchPage(ctx, "admission")
	require.NoError(t, err)

	for _, sec := range pd.Sections {
		if sec.ID == "fees" {
			require.Len(t, sec.Items, 1)
			assert.Equal(t, "Primary", sec.Items[0].Fields["level"])
			return
		}
	}
	t.Fatal("fees section not resolved")
}
