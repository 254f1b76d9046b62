package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CatalogStatsSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
}

func (suite *CatalogStatsSuite) SetupTest() {
	var err error
	suite.db, suite.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	suite.Require().Nil(err)
	// counts run concurrently
	suite.mock.MatchExpectationsInOrder(false)
}

func (suite *CatalogStatsSuite) TearDownTest() {
	suite.db.Close()
}

func TestCatalogStats(t *testing.T) {
	suite.Run(t, new(CatalogStatsSuite))
}

func (suite *CatalogStatsSuite) expectCounts() {
	for table, n := range map[string]int{
		"kagyur_texts":      120,
		"main_categories":   4,
		"sermons":           3,
		"yanas":             2,
		"translation_types": 5,
	} {
		suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "` + table + `" WHERE \(is_active = \$1\)`).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
	}
	suite.mock.ExpectQuery(`FROM main_categories mc`).
		WillReturnRows(sqlmock.NewRows([]string{"name_english", "count"}).
			AddRow("Discipline", 13).
			AddRow("Sutra", 107))
	suite.mock.ExpectQuery(`FROM yanas y`).
		WillReturnRows(sqlmock.NewRows([]string{"name_english", "count"}).
			AddRow("Mahayana", 90))
}

func (suite *CatalogStatsSuite) TestLoad() {
	suite.expectCounts()

	stats, err := LoadCatalogStats(context.Background(), suite.db)
	suite.Require().Nil(err)
	suite.Nil(suite.mock.ExpectationsWereMet())

	suite.EqualValues(120, stats.TotalTexts)
	suite.EqualValues(4, stats.TotalCategories)
	suite.EqualValues(3, stats.TotalSermons)
	suite.EqualValues(2, stats.TotalYanas)
	suite.EqualValues(5, stats.TotalTranslationTypes)
	suite.Equal([]NameCount{{"Discipline", 13}, {"Sutra", 107}}, stats.TextsByCategory)

	b, err := json.Marshal(stats.TextsByYana)
	suite.Require().Nil(err)
	suite.JSONEq(`[["Mahayana",90]]`, string(b))
}

func (suite *CatalogStatsSuite) TestCacheKeepsLastGood() {
	c := NewCatalogStatsCacheImpl(suite.db)
	suite.Nil(c.Get())

	suite.expectCounts()
	suite.Require().Nil(c.Refresh())
	first := c.Get()
	suite.Require().NotNil(first)

	suite.mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("connection reset"))
	suite.NotNil(c.Refresh())
	suite.Equal(first, c.Get())
}
