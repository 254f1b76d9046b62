package models

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

type ModelsSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	ctx  context.Context
}

func (suite *ModelsSuite) SetupTest() {
	var err error
	suite.db, suite.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	suite.Require().Nil(err)
	suite.ctx = context.Background()
}

func (suite *ModelsSuite) TearDownTest() {
	suite.Nil(suite.mock.ExpectationsWereMet())
	suite.db.Close()
}

func TestModels(t *testing.T) {
	suite.Run(t, new(ModelsSuite))
}

func (suite *ModelsSuite) TestFindNotFound() {
	suite.mock.ExpectQuery(`SELECT "kagyur_texts"\.\* FROM "kagyur_texts" WHERE \(id=\$1\) LIMIT 1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	t, err := FindKagyurText(suite.ctx, suite.db, 7)
	suite.Nil(t)
	suite.Equal(sql.ErrNoRows, err)
}

func (suite *ModelsSuite) TestOneBindsColumns() {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mock.ExpectQuery(`SELECT "sermons"\.\* FROM "sermons" WHERE \(id=\$1\) LIMIT 1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name_english", "name_tibetan", "order_index", "is_active", "created_at", "updated_at"}).
			AddRow(3, "First Turning", "ཆོས་འཁོར་དང་པོ།", 1, true, ts, ts))

	s, err := SermonsTable.Find(suite.ctx, suite.db, 3)
	suite.Require().Nil(err)
	suite.EqualValues(3, s.ID)
	suite.Equal("First Turning", s.NameEnglish)
	suite.True(s.NameTibetan.Valid)
	suite.Equal(1, s.OrderIndex)
	suite.True(s.IsActive)
}

func (suite *ModelsSuite) TestCount() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "yanas" WHERE \(is_active = \$1\)`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := Yanas(qm.Where("is_active = ?", true)).Count(suite.ctx, suite.db)
	suite.Require().Nil(err)
	suite.EqualValues(4, n)
}

func (suite *ModelsSuite) TestInsertReturnsStoredRow() {
	suite.mock.ExpectQuery(`INSERT INTO "volumes" \("yeshe_de_span_id","volume_number","start_page","end_page","order_index","created_at","updated_at"\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7\) RETURNING \*`).
		WithArgs(int64(5), "12", "1a", "20b", 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "yeshe_de_span_id"}).AddRow(42, 5))

	v := &Volume{
		YesheDeSpanID: 5,
		VolumeNumber:  null.StringFrom("12"),
		StartPage:     null.StringFrom("1a"),
		EndPage:       null.StringFrom("20b"),
	}
	suite.Require().Nil(v.Insert(suite.ctx, suite.db))
	suite.EqualValues(42, v.ID)
	suite.False(v.CreatedAt.IsZero())
}

func (suite *ModelsSuite) TestUpdateMissingRow() {
	suite.mock.ExpectQuery(`UPDATE "editions" SET .* WHERE "id"=\$14 RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e := &Edition{ID: 9, NameEnglish: "Derge"}
	suite.Equal(sql.ErrNoRows, e.Update(suite.ctx, suite.db))
}

func (suite *ModelsSuite) TestDelete() {
	suite.mock.ExpectExec(`DELETE FROM "kagyur_news" WHERE "id"=\$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := (&KagyurNews{ID: 2}).Delete(suite.ctx, suite.db)
	suite.Require().Nil(err)
	suite.EqualValues(1, n)
}

func (suite *ModelsSuite) TestPublicationStatus() {
	var p Publication = &KangyurVideo{PublicationStatus: "draft"}
	d := null.TimeFrom(time.Now())
	p.SetStatus("published", d, true)
	suite.Equal("published", p.GetStatus())
	suite.True(p.(*KangyurVideo).IsActive)
	suite.Equal(d, p.(*KangyurVideo).PublishedDate)
}
