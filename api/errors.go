package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gopkg.in/gin-gonic/gin.v1"
)

type HttpError struct {
	Code int
	Err  error
	Type gin.ErrorType
}

func (e HttpError) Error() string {
	return e.Err.Error()
}

func (e HttpError) Abort(c *gin.Context) {
	c.AbortWithError(e.Code, e.Err).SetType(e.Type)
}

func NewHttpError(code int, err error, t gin.ErrorType) *HttpError {
	return &HttpError{Code: code, Err: err, Type: t}
}

func NewNotFoundError(msg string) *HttpError {
	return NewHttpError(http.StatusNotFound, errors.New(msg), gin.ErrorTypePublic)
}

func NewBadRequestError(err error) *HttpError {
	return NewHttpError(http.StatusBadRequest, err, gin.ErrorTypePublic)
}

func NewUnauthorizedError(err error) *HttpError {
	return NewHttpError(http.StatusUnauthorized, err, gin.ErrorTypePublic)
}

func NewForbiddenError(err error) *HttpError {
	return NewHttpError(http.StatusForbidden, err, gin.ErrorTypePublic)
}

func NewConflictError(err error) *HttpError {
	return NewHttpError(http.StatusConflict, err, gin.ErrorTypePublic)
}

func NewInternalError(err error) *HttpError {
	return NewHttpError(http.StatusInternalServerError, err, gin.ErrorTypePrivate)
}

// Postgres SQLSTATE codes of integrity violations
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// Foreign keys of kagyur_texts, by constraint name
var textForeignKeyMessages = map[string]string{
	"kagyur_texts_sermon_id_fkey":           "Invalid sermon_id provided",
	"kagyur_texts_yana_id_fkey":             "Invalid yana_id provided",
	"kagyur_texts_translation_type_id_fkey": "Invalid translation_type_id provided",
	"kagyur_texts_sub_category_id_fkey":     "Invalid sub_category_id provided",
}

// IntegrityViolation maps a postgres constraint failure to a user facing message.
// It returns ok=false for any other error.
func IntegrityViolation(err error) (code int, msg string, ok bool) {
	pqErr, isPq := errors.Cause(err).(*pq.Error)
	if !isPq {
		return 0, "", false
	}

	switch pqErr.Code {
	case pgForeignKeyViolation:
		if m, found := textForeignKeyMessages[pqErr.Constraint]; found {
			return http.StatusBadRequest, m, true
		}
		for _, col := range []string{"sermon_id", "yana_id", "translation_type_id", "sub_category_id"} {
			if strings.Contains(pqErr.Constraint, col) {
				return http.StatusBadRequest, "Invalid " + col + " provided", true
			}
		}
		return http.StatusBadRequest, "Foreign key constraint violation: " + pqErr.Message, true
	case pgUniqueViolation:
		return http.StatusConflict, "Duplicate entry - this text may already exist", true
	case pgNotNullViolation:
		return http.StatusBadRequest, "Required field is missing", true
	}

	return 0, "", false
}

// wrapDBError turns integrity violations into public errors, everything else is internal.
// duplicateMsg, when set, replaces the default message of unique violations.
func wrapDBError(err error, duplicateMsg string) *HttpError {
	if err == nil {
		return nil
	}
	if code, msg, ok := IntegrityViolation(err); ok {
		if code == http.StatusConflict && duplicateMsg != "" {
			return NewBadRequestError(errors.New(duplicateMsg))
		}
		return NewHttpError(code, errors.New(msg), gin.ErrorTypePublic)
	}
	return NewInternalError(err)
}

// notFoundOr maps sql.ErrNoRows to a 404 with msg
func notFoundOr(err error, msg string) *HttpError {
	if errors.Cause(err) == sql.ErrNoRows {
		return NewNotFoundError(msg)
	}
	return NewInternalError(err)
}
