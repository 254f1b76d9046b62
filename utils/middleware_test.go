package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggerMiddleware(), ErrorHandlingMiddleware(), RecoveryMiddleware())

	router.GET("/public", func(c *gin.Context) {
		c.AbortWithError(http.StatusNotFound, errors.New("Text not found")).SetType(gin.ErrorTypePublic)
	})
	router.GET("/private", func(c *gin.Context) {
		c.AbortWithError(http.StatusInternalServerError, errors.New("db is down")).SetType(gin.ErrorTypePrivate)
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.MustGet(consts.CTX_REQUEST_ID)})
	})
	return router
}

func serve(t *testing.T, router *gin.Engine, path string, header http.Header) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestErrorHandlingMiddleware(t *testing.T) {
	router := testRouter()

	w, body := serve(t, router, "/public", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Text not found", body["error"])

	w, body = serve(t, router, "/private", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", body["error"], "private details are hidden")

	w, body = serve(t, router, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", body["error"])
}

func TestRequestID(t *testing.T) {
	router := testRouter()

	w, body := serve(t, router, "/ok", nil)
	rid := w.Header().Get(consts.HEADER_REQUEST_ID)
	assert.Len(t, rid, 36)
	assert.Equal(t, rid, body["request_id"])

	header := http.Header{}
	header.Set(consts.HEADER_REQUEST_ID, "abc-123")
	w, body = serve(t, router, "/ok", header)
	assert.Equal(t, "abc-123", w.Header().Get(consts.HEADER_REQUEST_ID))
	assert.Equal(t, "abc-123", body["request_id"])
}

func TestBindErrorMessage(t *testing.T) {
	var v struct{ A int }
	err := json.Unmarshal([]byte(`{"A": "x"}`), &v)
	require.NotNil(t, err)
	assert.Contains(t, BindErrorMessage(err), "expecting int got string")

	assert.Equal(t, "plain", BindErrorMessage(errors.New("plain")))
}

func TestDeepestStack(t *testing.T) {
	assert.Nil(t, deepestStack(nil))

	inner := errors.New("inner")
	wrapped := errors.Wrap(errors.Wrap(inner, "middle"), "outer")

	st := deepestStack(wrapped)
	require.NotNil(t, st)
	assert.Equal(t, inner.(stackTracer).StackTrace(), st)

	rs := rollbarStack(st)
	require.NotEmpty(t, rs)
	assert.Equal(t, "TestDeepestStack", rs[0].Method)
	assert.True(t, strings.HasSuffix(rs[0].Filename, "utils/middleware_test.go"), rs[0].Filename)
	assert.True(t, rs[0].Line > 0)
}

func TestBaseURL(t *testing.T) {
	c := &gin.Context{}
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/feeds/news.rss", nil)
	c.Request.Host = "library.local:8080"
	assert.Equal(t, "http://library.local:8080", BaseURL(c))

	c.Request.Header.Set("X-Forwarded-Proto", "https")
	c.Request.Header.Set("X-Forwarded-Host", "kangyur.org")
	assert.Equal(t, "https://kangyur.org", BaseURL(c))
}
