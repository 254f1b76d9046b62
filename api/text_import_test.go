package api

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestItemFromCSV(t *testing.T) {
	header := []string{"sub_category_id", "derge_id", "english_title", "sermon_id", "yana_id", "order_index", "is_active"}
	cols := make(map[string]int)
	for i, h := range header {
		cols[h] = i
	}

	item := itemFromCSV(cols, []string{"5", " D7 ", "Sutra of Golden Light", "", "x", "", "No"})
	assert.EqualValues(t, 5, item.SubCategoryID)
	assert.Equal(t, null.StringFrom("D7"), item.DergeID)
	assert.Equal(t, null.StringFrom("Sutra of Golden Light"), item.EnglishTitle)
	assert.False(t, item.TibetanTitle.Valid, "missing column")
	assert.False(t, item.SermonID.Valid, "blank reference is null")
	assert.Equal(t, null.Int64From(0), item.YanaID, "unparsable reference is 0")
	assert.False(t, nullID(item.YanaID).Valid)
	assert.Equal(t, 0, item.OrderIndex)
	require.NotNil(t, item.IsActive)
	assert.False(t, *item.IsActive)

	item = itemFromCSV(cols, []string{"5"})
	require.NotNil(t, item.IsActive)
	assert.True(t, *item.IsActive, "short record defaults to active")
}

func TestImportResponseConclude(t *testing.T) {
	r := newImportResponse()
	r.ImportedCount = 3
	r.conclude()
	assert.Equal(t, IMPORT_STATUS_SUCCESS, r.Status)
	assert.Equal(t, "Import completed: 3 texts imported, 0 errors", r.Message)
	assert.NotNil(t, r.Errors)

	r = newImportResponse()
	r.ImportedCount = 1
	r.addError("Row 3: Sermon with ID 9 not found")
	r.conclude()
	assert.Equal(t, IMPORT_STATUS_PARTIAL, r.Status)
	assert.Equal(t, 1, r.ErrorCount)

	r = newImportResponse()
	r.addError("Item 1: sub_category_id is required")
	r.conclude()
	assert.Equal(t, IMPORT_STATUS_FAILED, r.Status)
}

func TestImportUnsupported(t *testing.T) {
	imp := new(TextImporter)
	_, err := imp.ImportFile(context.Background(), "texts.xlsx", strings.NewReader(""))
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, err.Code)
	assert.Equal(t, "Only CSV and JSON files are supported", err.Error())
}

func newImporter(t *testing.T) (*TextImporter, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.Nil(t, err)
	return &TextImporter{DB: db}, mock, db
}

func TestImportCSVRowErrors(t *testing.T) {
	imp, mock, db := newImporter(t)
	defer db.Close()

	created := make([]int64, 0)
	imp.OnCreate = func(id int64) { created = append(created, id) }

	// row 2: missing sub category
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "sub_categories"`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// row 3: unknown sermon
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "sub_categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "sermons"`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// row 4: imported
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "sub_categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "kagyur_texts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	data := "sub_category_id,derge_id,english_title,sermon_id\n" +
		"8,D1,First,\n" +
		"5,D2,Second,9\n" +
		"5,D3,Third,\n"
	resp, err := imp.ImportFile(context.Background(), "texts.CSV", strings.NewReader(data))
	require.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())

	assert.Equal(t, 1, resp.ImportedCount)
	assert.Equal(t, 2, resp.ErrorCount)
	assert.Equal(t, []string{
		"Row 2: Sub-category with ID 8 not found",
		"Row 3: Sermon with ID 9 not found",
	}, resp.Errors)
	assert.Equal(t, IMPORT_STATUS_PARTIAL, resp.Status)
	assert.Equal(t, []int64{41}, created)
}

func TestImportJSONSingleObject(t *testing.T) {
	imp, mock, db := newImporter(t)
	defer db.Close()

	resp, err := imp.ImportFile(context.Background(), "one.json", strings.NewReader(`{"english_title": "No category"}`))
	require.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"Item 1: sub_category_id is required"}, resp.Errors)
	assert.Equal(t, IMPORT_STATUS_FAILED, resp.Status)

	_, err = imp.ImportFile(context.Background(), "bad.json", strings.NewReader(`[{"a":`))
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestImportJSONTooLarge(t *testing.T) {
	imp, mock, db := newImporter(t)
	defer db.Close()
	imp.MaxSize = 16

	_, err := imp.ImportFile(context.Background(), "big.json",
		strings.NewReader(`[{"sub_category_id": 5, "english_title": "Long"}]`))
	require.NotNil(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.Code)
	assert.Nil(t, mock.ExpectationsWereMet())
}
