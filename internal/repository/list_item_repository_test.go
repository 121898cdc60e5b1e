package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palclasses/site-api/internal/model"
)

var listItemCols = []string{"id", "page", "list_key", "sort_order", "fields", "image_url", "updated_at"}

func TestListItemRepo_CreateAppends(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(MAX(sort_order), -1) FROM cms_list_items")).
		WithArgs("home", "testimonial").
		WillReturnRows(sqlmock.NewRows([]string{"count", "max"}).AddRow(2, 4))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cms_list_items")).
		WithArgs(sqlmock.AnyArg(), "home", "testimonial", 5, []byte(`{"name":"Ravi"}`), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	it, err := NewListItemRepo(db).Create(context.Background(), model.ListItem{
		Page: "home", ListKey: "testimonial", Fields: map[string]string{"name": "Ravi"},
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, it.Order)
	assert.NotEmpty(t, it.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItemRepo_CreateFullList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count", "max"}).AddRow(3, 2))
	mock.ExpectRollback()

	_, err = NewListItemRepo(db).Create(context.Background(), model.ListItem{Page: "home", ListKey: "stat"}, 3)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItemRepo_ListByPagesDecodesFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM cms_list_items WHERE page IN (?, ?)")).
		WithArgs("results", "global").
		WillReturnRows(sqlmock.NewRows(listItemCols).
			AddRow("a", "results", "topper", 0, []byte(`{"name":"Meera","score":"98%"}`), "https://cdn/x.jpg", time.Now()).
			AddRow("b", "results", "topper", 3, []byte(`{}`), "", time.Now()))

	got, err := NewListItemRepo(db).ListByPages(context.Background(), "results", "global")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "98%", got[0].Fields["score"])
	assert.Equal(t, 3, got[1].Order)
	assert.NotNil(t, got[1].Fields)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItemRepo_Reorder(t *testing.T) {
	ids := sqlmock.NewRows([]string{"id"}).AddRow("a").AddRow("b").AddRow("c")

	t.Run("permutation", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM cms_list_items")).
			WithArgs("home", "stat").WillReturnRows(ids)
		for i, id := range []string{"c", "a", "b"} {
			mock.ExpectExec(regexp.QuoteMeta("UPDATE cms_list_items SET sort_order = ?")).
				WithArgs(i, sqlmock.AnyArg(), id).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, NewListItemRepo(db).Reorder(context.Background(), "home", "stat", []string{"c", "a", "b"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM cms_list_items")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("a").AddRow("b"))
		mock.ExpectRollback()

		err = NewListItemRepo(db).Reorder(context.Background(), "home", "stat", []string{"a", "x"})
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListItemRepo_ImportRejectsNonEmptyList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM cms_list_items")).
		WithArgs("about", "method").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err = NewListItemRepo(db).Import(context.Background(), "about", "method", []model.ListItem{{}})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItemRepo_UpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE cms_list_items SET fields = ?")).
		WithArgs([]byte(`{"title":"x"}`), "", sqlmock.AnyArg(), "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = NewListItemRepo(db).Update(context.Background(), "gone", map[string]string{"title": "x"}, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
