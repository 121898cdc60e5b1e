package cms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palclasses/site-api/internal/model"
)

func TestParseListKey(t *testing.T) {
	tests := []struct {
		key     string
		listKey string
		index   int
		field   string
		ok      bool
	}{
		{"highlight_0_title", "highlight", 0, "title", true},
		{"gallery_item_12_image", "gallery_item", 12, "image", true},
		{"course_1_batchSize", "course", 1, "batchSize", true},
		{"hero_btn1_text", "", 0, "", false},
		{"phone1", "", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			l, i, f, ok := ParseListKey(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.listKey, l)
			assert.Equal(t, tt.index, i)
			assert.Equal(t, tt.field, f)
		})
	}
}

func TestSchema_Allows(t *testing.T) {
	s := DefaultSchema()

	assert.True(t, s.Allows("home", "hero_title"))
	assert.True(t, s.Allows("home", "hero_image"))
	assert.True(t, s.Allows("home", "highlight_5_desc"))
	assert.False(t, s.Allows("home", "highlight_6_desc"), "beyond max items")
	assert.False(t, s.Allows("home", "highlight_0_price"))
	assert.True(t, s.Allows("results", "topper_3_photo"))
	assert.True(t, s.Allows("global", "phone1"))
	assert.False(t, s.Allows("contact", "phone1"))
	assert.False(t, s.Allows("blog", "hero_title"))
}

func TestSchema_List(t *testing.T) {
	s := DefaultSchema()
	l, ok := s.List("gallery", "gallery_item")
	require.True(t, ok)
	assert.Equal(t, 30, l.MaxItems)

	_, ok = s.List("contact", "step")
	assert.False(t, ok)
}

func TestResolve_PrefersStructuredItems(t *testing.T) {
	s := DefaultSchema()
	ps, ok := s.Page("admission")
	require.True(t, ok)

	content := []model.ContentRow{
		row("admission", "process_title", "How to join"),
		row("admission", "step_0_title", "Legacy step"),
		row("admission", "fee_0_level", "Primary"),
		row("admission", "fee_0_monthly", "1500"),
	}
	items := []model.ListItem{
		{ID: "s2", Page: "admission", ListKey: "step", Order: 7, Fields: map[string]string{"title": "Second"}},
		{ID: "s1", Page: "admission", ListKey: "step", Order: 2, Fields: map[string]string{"title": "First", "desc": "Visit"}},
	}

	sections := ps.Resolve(NewResolver("admission", content, nil), items)
	require.Len(t, sections, 3)

	process := sections[1]
	assert.Equal(t, "How to join", process.Fields["process_title"])
	require.Len(t, process.Items, 2)
	assert.Equal(t, "s1", process.Items[0].ID)
	assert.Equal(t, "Second", process.Items[1].Fields["title"])
	assert.Equal(t, "", process.Items[1].Fields["desc"])

	fees := sections[2]
	require.Len(t, fees.Items, 1)
	assert.Empty(t, fees.Items[0].ID)
	assert.Equal(t, "1500", fees.Items[0].Fields["monthly"])
	assert.Equal(t, "", fees.Items[0].Fields["yearly"])
}

func TestNewPageData_ResolvesGlobalIntoPage(t *testing.T) {
	pd := NewPageData("contact",
		[]model.ContentRow{row("global", "phone1", "123")},
		nil, nil, DefaultSchema())

	assert.Equal(t, "123", pd.Resolver().Content("phone1", ""))
	assert.NotNil(t, pd.Images)
	assert.NotNil(t, pd.Lists)
	require.NotEmpty(t, pd.Sections)
	assert.Equal(t, "hero", pd.Sections[0].ID)
}
