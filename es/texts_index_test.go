package es

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/volatiletech/null/v8"
	"gopkg.in/olivere/elastic.v6"

	"github.com/karchag/karchag-backend/models"
)

type TextsIndexSuite struct {
	suite.Suite
	server   *httptest.Server
	requests []string
	bodies   []string
	index    *TextsIndex
}

func (suite *TextsIndexSuite) SetupTest() {
	suite.requests = nil
	suite.bodies = nil
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := ioutil.ReadAll(r.Body)
		suite.requests = append(suite.requests, r.Method+" "+r.URL.Path)
		suite.bodies = append(suite.bodies, string(b))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/_search"):
			w.Write([]byte(`{"took":1,"hits":{"total":2,"max_score":2.5,"hits":[
				{"_index":"kangyur_texts","_type":"text","_id":"7","_score":2.5,"_source":{"id":7,"sub_category_id":3,"english_title":"Heart Sutra","derge_id":"D21"}},
				{"_index":"kangyur_texts","_type":"text","_id":"8","_score":1.5,"_source":{"id":8,"sub_category_id":3,"english_title":"Diamond Sutra"}}]}}`))
		case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/404"):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"_index":"kangyur_texts","_type":"text","_id":"404","result":"not_found","found":false}`))
		case r.Method == http.MethodDelete:
			w.Write([]byte(`{"_index":"kangyur_texts","_type":"text","_id":"1","result":"deleted","found":true}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"unexpected"}`))
		}
	}))

	esc, err := elastic.NewClient(
		elastic.SetURL(suite.server.URL),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	suite.Require().Nil(err)
	suite.index = NewTextsIndex(esc, nil, "kangyur_texts")
}

func (suite *TextsIndexSuite) TearDownTest() {
	suite.server.Close()
}

func TestTextsIndex(t *testing.T) {
	suite.Run(t, new(TextsIndexSuite))
}

func (suite *TextsIndexSuite) TestSearch() {
	res, err := suite.index.Search(context.TODO(), "sutra", 0, 10)
	suite.Require().Nil(err)
	suite.EqualValues(2, res.Total)
	suite.Require().Len(res.Hits, 2)
	suite.EqualValues(7, res.Hits[0].ID)
	suite.Equal("Heart Sutra", res.Hits[0].EnglishTitle)
	suite.Equal("D21", res.Hits[0].DergeID)
	suite.Equal(2.5, res.Hits[0].Score)

	suite.Equal("POST /kangyur_texts/_search", suite.requests[0])
	suite.Contains(suite.bodies[0], `"multi_match"`)
	suite.Contains(suite.bodies[0], `"sutra"`)
}

func (suite *TextsIndexSuite) TestTextDelete() {
	suite.Nil(suite.index.TextDelete(1))
	suite.Equal("DELETE /kangyur_texts/text/1", suite.requests[0])

	// already gone is fine
	suite.Nil(suite.index.TextDelete(404))
}

func (suite *TextsIndexSuite) TestReindexReferencingUnknownTable() {
	suite.NotNil(suite.index.ReindexReferencing("users", 1))
}

func (suite *TextsIndexSuite) TestNewTextDocument() {
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	doc := NewTextDocument(TextSource{
		Text: &models.KagyurText{
			ID:            7,
			SubCategoryID: 3,
			DergeID:       null.StringFrom("D21"),
			EnglishTitle:  null.StringFrom("Heart Sutra"),
			TibetanTitle:  null.StringFrom("ཤེས་རབ་སྙིང་པོ།"),
			UpdatedAt:     ts,
		},
		SubCategory: &models.SubCategory{ID: 3, MainCategoryID: 1},
		Summary: &models.TextSummary{
			PurposeEnglish:     null.StringFrom("<p>To <b>liberate</b> beings. <a href=\"http://x\">more</a></p>"),
			TextSummaryEnglish: null.StringFrom("Form is emptiness."),
			RelationEnglish:    null.StringFrom("   "),
		},
		Yana: &models.Lookup{NameEnglish: "Mahayana"},
	})

	suite.EqualValues(1, doc.MainCategoryID)
	suite.Equal("Mahayana", doc.Yana)
	suite.Empty(doc.Sermon)
	suite.Equal("D21", doc.DergeID)
	suite.Equal(ts, doc.UpdatedAt)
	suite.NotContains(doc.SummaryEnglish, "<b>")
	suite.NotContains(doc.SummaryEnglish, "http://x")
	suite.Contains(doc.SummaryEnglish, "liberate")
	suite.Contains(doc.SummaryEnglish, "Form is emptiness.")
	suite.Empty(doc.SummaryTibetan)
}
