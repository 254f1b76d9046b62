package api

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
)

func TestPaging(t *testing.T) {
	cases := []struct {
		r                   ListRequest
		page, limit, offset int
	}{
		{ListRequest{}, 1, 20, 0},
		{ListRequest{Page: 3, Limit: 10}, 3, 10, 20},
		{ListRequest{Page: 2, Limit: 500}, 2, 100, 100},
		{ListRequest{Page: -4, Limit: -1}, 1, 20, 0},
		{ListRequest{Page: math.MaxInt, Limit: 100}, consts.MAX_PAGE, 100, (consts.MAX_PAGE - 1) * 100},
	}
	for _, tc := range cases {
		page, limit, offset := tc.r.paging()
		assert.Equal(t, tc.page, page, "page %+v", tc.r)
		assert.Equal(t, tc.limit, limit, "limit %+v", tc.r)
		assert.Equal(t, tc.offset, offset, "offset %+v", tc.r)
	}
}

func TestPagination(t *testing.T) {
	p := NewPagination(1, 20, 45)
	assert.EqualValues(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = NewPagination(3, 20, 45)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(1, 20, 0)
	assert.EqualValues(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)

	assert.EqualValues(t, 1, totalPages(20, 20))
	assert.EqualValues(t, 2, totalPages(21, 20))
	assert.EqualValues(t, 0, totalPages(5, 0))

	info := NewPageInfo(2, 10, 31)
	assert.Equal(t, PageInfo{Total: 31, Page: 2, Limit: 10, Pages: 4}, info)
}

func TestLocalize(t *testing.T) {
	tb := null.StringFrom("བཀའ་འགྱུར།")
	assert.Equal(t, "Kangyur", localize(consts.LANG_ENGLISH, "Kangyur", tb))
	assert.Equal(t, tb.String, localize(consts.LANG_TIBETAN, "Kangyur", tb))
	assert.Equal(t, "Kangyur", localize(consts.LANG_TIBETAN, "Kangyur", null.String{}))
	assert.Equal(t, "Kangyur", localize(consts.LANG_TIBETAN, "Kangyur", null.StringFrom("")))

	en := null.StringFrom("desc")
	assert.Equal(t, en, localizeNull(consts.LANG_TIBETAN, en, null.String{}))
	assert.Equal(t, tb, localizeNull(consts.LANG_TIBETAN, en, tb))

	l := &models.Lookup{ID: 3, NameEnglish: "Mahayana", NameTibetan: null.StringFrom("ཐེག་ཆེན།"), OrderIndex: 2, IsActive: true}
	v := NewLookupView(consts.LANG_TIBETAN, l)
	assert.Equal(t, "ཐེག་ཆེན།", v.Name)
	assert.EqualValues(t, 3, v.ID)
}

func TestNullID(t *testing.T) {
	assert.False(t, nullID(null.Int64{}).Valid)
	assert.False(t, nullID(null.Int64From(0)).Valid)
	assert.Equal(t, null.Int64From(4), nullID(null.Int64From(4)))
}

func TestPartialUpdateHelpers(t *testing.T) {
	s := "old"
	setString(&s, nil)
	assert.Equal(t, "old", s)
	n := "new"
	setString(&s, &n)
	assert.Equal(t, "new", s)

	ns := null.String{}
	setNullString(&ns, &n)
	assert.Equal(t, null.StringFrom("new"), ns)

	ni := null.Int{}
	y := 1737
	setNullInt(&ni, &y)
	assert.Equal(t, null.IntFrom(1737), ni)

	assert.True(t, boolOr(nil, true))
	f := false
	assert.False(t, boolOr(&f, true))
}

func TestValidVideoURL(t *testing.T) {
	assert.True(t, validVideoURL("https://www.youtube.com/watch?v=x"))
	assert.True(t, validVideoURL("http://example.com/v.mp4"))
	assert.False(t, validVideoURL("ftp://example.com/v.mp4"))
	assert.False(t, validVideoURL("www.youtube.com"))
	assert.False(t, validVideoURL(""))
}

func TestPublicationStatus(t *testing.T) {
	status, date := initialStatus(nil)
	assert.Equal(t, consts.PUB_STATUS_DRAFT, status)
	assert.False(t, date.Valid)

	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	status, date = initialStatus(&d)
	assert.Equal(t, consts.PUB_STATUS_PUBLISHED, status)
	assert.Equal(t, d, date.Time)

	n := &models.KagyurNews{PublicationStatus: consts.PUB_STATUS_DRAFT, IsActive: true}
	bad := "archived"
	err := applyStatusChange(n, true, &bad, nil)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)

	published := consts.PUB_STATUS_PUBLISHED
	require.Nil(t, applyStatusChange(n, false, &published, nil))
	assert.Equal(t, consts.PUB_STATUS_PUBLISHED, n.PublicationStatus)
	assert.True(t, n.PublishedDate.Valid, "publishing sets a date")
	assert.False(t, n.IsActive)

	assert.Equal(t, DEFAULT_LATEST, latestLimit(LatestRequest{}))
	assert.Equal(t, MAX_LATEST, latestLimit(LatestRequest{Limit: 1000}))
	assert.Equal(t, 3, latestLimit(LatestRequest{Limit: 3}))
}

func TestPublicationListMods(t *testing.T) {
	mods, err := publicationListMods(PublicationListRequest{})
	assert.Nil(t, err)
	assert.Empty(t, mods)

	mods, err = publicationListMods(PublicationListRequest{Status: consts.PUB_STATUS_DRAFT, Search: "losar"})
	assert.Nil(t, err)
	assert.Len(t, mods, 2)

	_, err = publicationListMods(PublicationListRequest{Status: "deleted"})
	require.NotNil(t, err)
	assert.Equal(t, errInvalidStatus, err.Err)
}

func TestStaticOr(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/news/:id", staticOr("latest",
		func(c *gin.Context) { c.String(http.StatusOK, "latest") },
		func(c *gin.Context) { c.String(http.StatusOK, "item "+c.Param("id")) }))

	for path, body := range map[string]string{
		"/news/latest": "latest",
		"/news/12":     "item 12",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, body, w.Body.String(), path)
	}
}
