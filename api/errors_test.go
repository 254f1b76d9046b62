package api

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gopkg.in/gin-gonic/gin.v1"
)

func TestIntegrityViolation(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{&pq.Error{Code: "23503", Constraint: "kagyur_texts_yana_id_fkey"}, http.StatusBadRequest, "Invalid yana_id provided"},
		{&pq.Error{Code: "23503", Constraint: "kagyur_texts_translation_type_id_fkey"}, http.StatusBadRequest, "Invalid translation_type_id provided"},
		{&pq.Error{Code: "23503", Constraint: "fk_texts_sub_category_id"}, http.StatusBadRequest, "Invalid sub_category_id provided"},
		{&pq.Error{Code: "23503", Constraint: "volumes_yeshe_de_span_id_fkey", Message: "insert or update violates"}, http.StatusBadRequest, "Foreign key constraint violation: insert or update violates"},
		{&pq.Error{Code: "23505"}, http.StatusConflict, "Duplicate entry - this text may already exist"},
		{&pq.Error{Code: "23502"}, http.StatusBadRequest, "Required field is missing"},
	}

	for _, tc := range cases {
		code, msg, ok := IntegrityViolation(errors.Wrap(tc.err, "models: unable to insert"))
		assert.True(t, ok, tc.msg)
		assert.Equal(t, tc.code, code, tc.msg)
		assert.Equal(t, tc.msg, msg)
	}

	_, _, ok := IntegrityViolation(&pq.Error{Code: "42P01"})
	assert.False(t, ok, "undefined table")
	_, _, ok = IntegrityViolation(errors.New("connection refused"))
	assert.False(t, ok, "plain error")
}

func TestWrapDBError(t *testing.T) {
	assert.Nil(t, wrapDBError(nil, ""))

	err := wrapDBError(&pq.Error{Code: "23505"}, "Category with this English name already exists")
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, "Category with this English name already exists", err.Error())
	assert.Equal(t, gin.ErrorTypePublic, err.Type)

	err = wrapDBError(&pq.Error{Code: "23505"}, "")
	assert.Equal(t, http.StatusConflict, err.Code)

	err = wrapDBError(errors.New("boom"), "dup")
	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Equal(t, gin.ErrorTypePrivate, err.Type)
}

func TestNotFoundOr(t *testing.T) {
	err := notFoundOr(sql.ErrNoRows, "News item not found")
	assert.Equal(t, http.StatusNotFound, err.Code)
	assert.Equal(t, "News item not found", err.Error())

	err = notFoundOr(errors.Wrap(sql.ErrNoRows, "find"), "x")
	assert.Equal(t, http.StatusNotFound, err.Code)

	err = notFoundOr(errors.New("boom"), "x")
	assert.Equal(t, http.StatusInternalServerError, err.Code)
}
