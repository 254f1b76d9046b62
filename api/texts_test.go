package api

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/volatiletech/null/v8"

	"github.com/karchag/karchag-backend/storage"
)

type TextsSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	al   ActivityLogger
}

func (suite *TextsSuite) SetupTest() {
	var err error
	suite.db, suite.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	suite.Require().Nil(err)
	suite.al = ActivityLogger{UserID: null.Int64From(1), IPAddress: null.StringFrom("127.0.0.1")}
}

func (suite *TextsSuite) TearDownTest() {
	suite.db.Close()
}

func TestTexts(t *testing.T) {
	suite.Run(t, new(TextsSuite))
}

func (suite *TextsSuite) expectSubCategory(cid, sid int64, found bool) {
	rows := sqlmock.NewRows([]string{"id", "main_category_id", "name_english"})
	if found {
		rows.AddRow(sid, cid, "Vinaya")
	}
	suite.mock.ExpectQuery(`FROM "sub_categories" WHERE \(id=\$1 AND main_category_id=\$2\)`).
		WithArgs(sid, cid).
		WillReturnRows(rows)
}

func (suite *TextsSuite) expectLookup(table string, id int64, exists bool) {
	n := 0
	if exists {
		n = 1
	}
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "` + table + `" WHERE \(id=\$1\)`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func (suite *TextsSuite) expectInsert(table string, id int64) {
	suite.mock.ExpectQuery(`INSERT INTO "` + table + `" .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
}

func (suite *TextsSuite) request() TextCreateRequest {
	return TextCreateRequest{
		DergeID:      null.StringFrom("D1"),
		EnglishTitle: null.StringFrom("The Chapter on Going Forth"),
		SermonID:     null.Int64From(2),
		YesheDeSpans: []SpanRequest{
			{Volumes: []VolumeRequest{
				{VolumeNumber: null.StringFrom("1"), StartPage: null.StringFrom("1b"), EndPage: null.StringFrom("3a")},
			}},
		},
	}
}

func (suite *TextsSuite) TestCreateCommitsWholeTree() {
	suite.expectSubCategory(1, 5, true)
	suite.expectLookup("sermons", 2, true)
	suite.mock.ExpectBegin()
	suite.expectInsert("kagyur_texts", 100)
	suite.expectInsert("yeshe_de_spans", 7)
	suite.expectInsert("volumes", 70)
	suite.expectInsert("audit_logs", 1)
	suite.mock.ExpectCommit()

	t, err := handleCreateText(context.Background(), suite.db, suite.al, 1, 5, suite.request())
	suite.Require().Nil(err)
	suite.EqualValues(100, t.ID)
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestCreateMissingSubCategory() {
	suite.expectSubCategory(1, 5, false)

	_, err := handleCreateText(context.Background(), suite.db, suite.al, 1, 5, suite.request())
	suite.Require().NotNil(err)
	suite.Equal(http.StatusNotFound, err.Code)
	suite.Equal("Sub-category 5 not found in category 1", err.Error())
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestCreateUnknownLookup() {
	suite.expectSubCategory(1, 5, true)
	suite.expectLookup("sermons", 2, false)

	_, err := handleCreateText(context.Background(), suite.db, suite.al, 1, 5, suite.request())
	suite.Require().NotNil(err)
	suite.Equal(http.StatusBadRequest, err.Code)
	suite.Equal("Invalid sermon_id: 2", err.Error())
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestCreateRollsBackOnForeignKeyViolation() {
	suite.expectSubCategory(1, 5, true)
	suite.expectLookup("sermons", 2, true)
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO "kagyur_texts"`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "kagyur_texts_sermon_id_fkey"})
	suite.mock.ExpectRollback()

	_, err := handleCreateText(context.Background(), suite.db, suite.al, 1, 5, suite.request())
	suite.Require().NotNil(err)
	suite.Equal(http.StatusBadRequest, err.Code)
	suite.Equal("Invalid sermon_id provided", err.Error())
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestCreateRollsBackPartialTree() {
	suite.expectSubCategory(1, 5, true)
	suite.expectLookup("sermons", 2, true)
	suite.mock.ExpectBegin()
	suite.expectInsert("kagyur_texts", 100)
	suite.expectInsert("yeshe_de_spans", 7)
	suite.mock.ExpectQuery(`INSERT INTO "volumes"`).
		WillReturnError(&pq.Error{Code: "23502", Column: "yeshe_de_span_id"})
	suite.mock.ExpectRollback()

	_, err := handleCreateText(context.Background(), suite.db, suite.al, 1, 5, suite.request())
	suite.Require().NotNil(err)
	suite.Equal(http.StatusBadRequest, err.Code)
	suite.Equal("Required field is missing", err.Error())
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestCreateDuplicate() {
	req := suite.request()
	req.SermonID = null.Int64From(0)

	suite.expectSubCategory(1, 5, true)
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`INSERT INTO "kagyur_texts"`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "kagyur_texts_derge_id_key"})
	suite.mock.ExpectRollback()

	_, err := handleCreateText(context.Background(), suite.db, suite.al, 1, 5, req)
	suite.Require().NotNil(err)
	suite.Equal(http.StatusConflict, err.Code)
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) expectText(id int64, found bool) {
	rows := sqlmock.NewRows([]string{"id", "sub_category_id", "english_title", "is_active"})
	if found {
		rows.AddRow(id, 5, "Old title", true)
	}
	suite.mock.ExpectQuery(`FROM "kagyur_texts" WHERE \(id=\$1\)`).
		WithArgs(id).
		WillReturnRows(rows)
}

func (suite *TextsSuite) expectTextUpdate(id int64, title string) {
	suite.mock.ExpectQuery(`UPDATE "kagyur_texts" SET .* WHERE "id"=\$15 RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sub_category_id", "english_title", "is_active"}).
			AddRow(id, 5, title, true))
}

func (suite *TextsSuite) updateRequest() TextUpdateRequest {
	title := "The Chapter on Medicine"
	return TextUpdateRequest{
		EnglishTitle: &title,
		TextSummary:  &TextSummaryRequest{PurposeEnglish: null.StringFrom("To heal")},
		YesheDeSpans: &[]SpanRequest{
			{Volumes: []VolumeRequest{
				{VolumeNumber: null.StringFrom("3"), StartPage: null.StringFrom("1b")},
				{VolumeNumber: null.StringFrom("4"), EndPage: null.StringFrom("12a"), OrderIndex: 1},
			}},
		},
	}
}

func (suite *TextsSuite) TestUpdateReplacesSpansAndInsertsSummary() {
	suite.mock.ExpectBegin()
	suite.expectText(100, true)
	suite.expectTextUpdate(100, "The Chapter on Medicine")
	suite.mock.ExpectQuery(`FROM "text_summaries" WHERE \(text_id = \$1\)`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	suite.expectInsert("text_summaries", 9)
	suite.mock.ExpectExec(`DELETE FROM "yeshe_de_spans" WHERE \(text_id = \$1\)`).
		WithArgs(int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	suite.expectInsert("yeshe_de_spans", 8)
	suite.expectInsert("volumes", 80)
	suite.expectInsert("volumes", 81)
	suite.expectInsert("audit_logs", 1)
	suite.mock.ExpectCommit()

	t, err := handleUpdateText(context.Background(), suite.db, suite.al, 100, suite.updateRequest())
	suite.Require().Nil(err)
	suite.EqualValues(100, t.ID)
	suite.Equal("The Chapter on Medicine", t.EnglishTitle.String)
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestUpdateExistingSummaryKeepsSpans() {
	r := suite.updateRequest()
	r.YesheDeSpans = nil

	suite.mock.ExpectBegin()
	suite.expectText(100, true)
	suite.expectTextUpdate(100, "The Chapter on Medicine")
	suite.mock.ExpectQuery(`FROM "text_summaries" WHERE \(text_id = \$1\)`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text_id"}).AddRow(9, 100))
	suite.mock.ExpectQuery(`UPDATE "text_summaries" SET .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text_id"}).AddRow(9, 100))
	suite.expectInsert("audit_logs", 1)
	suite.mock.ExpectCommit()

	_, err := handleUpdateText(context.Background(), suite.db, suite.al, 100, r)
	suite.Require().Nil(err)
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestUpdateRollsBackOnNestedFailure() {
	suite.mock.ExpectBegin()
	suite.expectText(100, true)
	suite.expectTextUpdate(100, "The Chapter on Medicine")
	suite.mock.ExpectQuery(`FROM "text_summaries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	suite.expectInsert("text_summaries", 9)
	suite.mock.ExpectExec(`DELETE FROM "yeshe_de_spans"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.expectInsert("yeshe_de_spans", 8)
	suite.expectInsert("volumes", 80)
	suite.mock.ExpectQuery(`INSERT INTO "volumes"`).
		WillReturnError(&pq.Error{Code: "23502", Column: "yeshe_de_span_id"})
	suite.mock.ExpectRollback()

	_, err := handleUpdateText(context.Background(), suite.db, suite.al, 100, suite.updateRequest())
	suite.Require().NotNil(err)
	suite.Equal(http.StatusBadRequest, err.Code)
	suite.Equal("Required field is missing", err.Error())
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestUpdateInvalidReference() {
	sermon := int64(9)

	suite.mock.ExpectBegin()
	suite.expectText(100, true)
	suite.expectLookup("sermons", 9, false)
	suite.mock.ExpectRollback()

	_, err := handleUpdateText(context.Background(), suite.db, suite.al, 100, TextUpdateRequest{SermonID: &sermon})
	suite.Require().NotNil(err)
	suite.Equal(http.StatusBadRequest, err.Code)
	suite.Equal("Invalid sermon_id: 9", err.Error())
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestUpdateMissingText() {
	suite.mock.ExpectBegin()
	suite.expectText(100, false)
	suite.mock.ExpectRollback()

	_, err := handleUpdateText(context.Background(), suite.db, suite.al, 100, suite.updateRequest())
	suite.Require().NotNil(err)
	suite.Equal(http.StatusNotFound, err.Code)
	suite.Equal("Text not found", err.Error())
	suite.Nil(suite.mock.ExpectationsWereMet())
}

func (suite *TextsSuite) TestDeleteRemovesStoredAudio() {
	dir := suite.T().TempDir()
	store, err := storage.NewLocalStorage(dir, "/uploads")
	suite.Require().Nil(err)
	key := "audio/chapter.mp3"
	suite.Require().Nil(store.Put(context.Background(), key, strings.NewReader("ID3"), 3, "audio/mpeg"))

	suite.mock.ExpectBegin()
	suite.expectText(100, true)
	suite.mock.ExpectQuery(`FROM "kagyur_audio" WHERE \(text_id = \$1\)`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text_id", "audio_url"}).
			AddRow(1, 100, store.URL(key)).
			AddRow(2, 100, "https://cdn.example.com/other.mp3"))
	suite.mock.ExpectExec(`DELETE FROM "kagyur_texts" WHERE "id"=\$1`).
		WithArgs(int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.expectInsert("audit_logs", 1)
	suite.mock.ExpectCommit()

	herr := handleDeleteText(context.Background(), suite.db, store, suite.al, 100)
	suite.Require().Nil(herr)
	suite.Nil(suite.mock.ExpectationsWereMet())

	_, err = os.Stat(filepath.Join(dir, "audio", "chapter.mp3"))
	suite.True(os.IsNotExist(err), "stored object is removed")
}

func (suite *TextsSuite) TestDeleteKeepsAudioOnRollback() {
	dir := suite.T().TempDir()
	store, err := storage.NewLocalStorage(dir, "/uploads")
	suite.Require().Nil(err)
	key := "audio/chapter.mp3"
	suite.Require().Nil(store.Put(context.Background(), key, strings.NewReader("ID3"), 3, "audio/mpeg"))

	suite.mock.ExpectBegin()
	suite.expectText(100, true)
	suite.mock.ExpectQuery(`FROM "kagyur_audio"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text_id", "audio_url"}).AddRow(1, 100, store.URL(key)))
	suite.mock.ExpectExec(`DELETE FROM "kagyur_texts"`).
		WillReturnError(sql.ErrConnDone)
	suite.mock.ExpectRollback()

	herr := handleDeleteText(context.Background(), suite.db, store, suite.al, 100)
	suite.Require().NotNil(herr)
	suite.Equal(http.StatusInternalServerError, herr.Code)
	suite.Nil(suite.mock.ExpectationsWereMet())

	_, err = os.Stat(filepath.Join(dir, "audio", "chapter.mp3"))
	suite.Nil(err, "object survives a failed delete")
}
