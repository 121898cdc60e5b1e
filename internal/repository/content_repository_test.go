package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palclasses/site-api/internal/model"
)

func TestContentRepo_ListContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewContentRepo(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "page", "section_key", "content_type", "content_value", "updated_at"}).
		AddRow("c1", "contact", "hero_title", "text", "Reach us", now).
		AddRow("c2", "global", "phone1", "text", "+91 99999", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM site_content WHERE page IN (?, ?)")).
		WithArgs("contact", "global").
		WillReturnRows(rows)

	got, err := repo.ListContent(context.Background(), "contact", "global")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.ContentText, got[0].ContentType)
	assert.Equal(t, "phone1", got[1].SectionKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_ListContentNoPages(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	got, err := NewContentRepo(db).ListContent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_UpsertUsesUniqueKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewContentRepo(db)

	for _, v := range []string{"v1", "v2"} {
		mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE content_type = VALUES(content_type)")).
			WithArgs(sqlmock.AnyArg(), "home", "hero_title", "text", v, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	ctx := context.Background()
	require.NoError(t, repo.UpsertContent(ctx, model.ContentRow{Page: "home", SectionKey: "hero_title", ContentType: model.ContentText, ContentValue: "v1"}))
	require.NoError(t, repo.UpsertContent(ctx, model.ContentRow{Page: "home", SectionKey: "hero_title", ContentType: model.ContentText, ContentValue: "v2"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_BatchRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewContentRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO site_content")).
		WithArgs(sqlmock.AnyArg(), "home", "a", "text", "1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO site_content")).
		WithArgs(sqlmock.AnyArg(), "home", "b", "text", "2", sqlmock.AnyArg()).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err = repo.UpsertContentBatch(context.Background(), []model.ContentRow{
		{Page: "home", SectionKey: "a", ContentType: model.ContentText, ContentValue: "1"},
		{Page: "home", SectionKey: "b", ContentType: model.ContentText, ContentValue: "2"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "home/b")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_BatchCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO site_content")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewContentRepo(db).UpsertContentBatch(context.Background(), []model.ContentRow{
		{Page: "home", SectionKey: "a", ContentType: model.ContentText, ContentValue: "1"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_DeleteContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewContentRepo(db)

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT page FROM site_content WHERE id = ?")).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"page"}).AddRow("about"))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM site_content WHERE id = ?")).
			WithArgs("c1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		page, err := repo.DeleteContent(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, "about", page)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT page FROM site_content WHERE id = ?")).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"page"}))

		_, err := repo.DeleteContent(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepo_UpsertAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewImageRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO site_images")).
		WithArgs(sqlmock.AnyArg(), "gallery", "gallery_item_0_image", "https://cdn.example/a.jpg", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM site_images WHERE page IN (?)")).
		WithArgs("gallery").
		WillReturnRows(sqlmock.NewRows([]string{"id", "page", "section_key", "image_url", "display_order", "updated_at"}).
			AddRow("i1", "gallery", "gallery_item_0_image", "https://cdn.example/a.jpg", 0, time.Now()))

	ctx := context.Background()
	require.NoError(t, repo.UpsertImage(ctx, model.ImageRow{Page: "gallery", SectionKey: "gallery_item_0_image", ImageURL: "https://cdn.example/a.jpg"}))
	got, err := repo.ListImages(ctx, "gallery")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example/a.jpg", got[0].ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
