package utils

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	log "github.com/Sirupsen/logrus"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stvp/rollbar"
	"gopkg.in/gin-gonic/gin.v1"
	"gopkg.in/go-playground/validator.v8"
	"gopkg.in/olivere/elastic.v6"

	"github.com/karchag/karchag-backend/consts"
)

// Set DB, ES, events publisher, media storage, stats cache & token manager in context.
// ES may be nil when search indexing is not configured.
func DataStoresMiddleware(db *sql.DB, esc *elastic.Client, publisher, storage, cm, tokens interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(consts.CTX_DB, db)
		c.Set(consts.CTX_ES, esc)
		c.Set(consts.CTX_PUBLISHER, publisher)
		c.Set(consts.CTX_STORAGE, storage)
		c.Set(consts.CTX_CACHE, cm)
		c.Set(consts.CTX_TOKENS, tokens)
		c.Next()
	}
}

// LoggerMiddleware writes an access log entry per request.
// Requests are tagged with X-Request-ID, generated unless the client sent one.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.RequestURI() // some evil middleware modify this values

		rid := c.Request.Header.Get(consts.HEADER_REQUEST_ID)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set(consts.CTX_REQUEST_ID, rid)
		c.Writer.Header().Set(consts.HEADER_REQUEST_ID, rid)

		c.Next()

		entry := log.WithFields(log.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"latency":    time.Since(start),
			"ip":         c.ClientIP(),
			"user-agent": c.Request.UserAgent(),
			"request-id": rid,
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error()
		} else {
			entry.Info()
		}
	}
}

// Recover with error
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rval := recover(); rval != nil {
				debug.PrintStack()
				err, ok := rval.(error)
				if !ok {
					err = errors.Errorf("panic: %s", rval)
				}
				c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
			}
		}()

		c.Next()
	}
}

func RollbarRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rval := recover(); rval != nil {
				err, ok := rval.(error)
				if !ok {
					err = errors.Errorf("%s", rval)
				}
				rollbar.RequestError(rollbar.CRIT, c.Request, err)
				c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
			}
		}()

		c.Next()
	}
}

func ValidationErrorMessage(e *validator.FieldError) string {
	switch e.Tag {
	case "required":
		return "required"
	case "max":
		return fmt.Sprintf("cannot be longer than %s", e.Param)
	case "min":
		return fmt.Sprintf("must be longer than %s", e.Param)
	case "len":
		return fmt.Sprintf("must be %s characters long", e.Param)
	case "email":
		return "invalid email format"
	case "eq", "oneof":
		return "invalid value"
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param)
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param)
	default:
		return "invalid value"
	}
}

func BindErrorMessage(err error) string {
	switch e := err.(type) {
	case *json.SyntaxError:
		return fmt.Sprintf("json: %s [offset: %d]", e.Error(), e.Offset)
	case *json.UnmarshalTypeError:
		return fmt.Sprintf("json: expecting %s got %s [offset: %d]", e.Type.String(), e.Value, e.Offset)
	default:
		return err.Error()
	}
}

// Handle all errors
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the first public or bind error is rendered.
		// AbortWithError may have flushed the status already so Written() can't be trusted here.
		rendered := false
		for _, e := range c.Errors {
			switch e.Type {
			case gin.ErrorTypePublic:
				if e.Err != nil && !rendered {
					log.Warnf("Public error: %s", e.Error())
					c.JSON(c.Writer.Status(), gin.H{"status": "error", "error": e.Error()})
					rendered = true
				}

			case gin.ErrorTypeBind:
				if rendered {
					continue
				}
				rendered = true

				// Keep the preset response status
				status := http.StatusBadRequest
				if c.Writer.Status() != http.StatusOK {
					status = c.Writer.Status()
				}

				switch errs := e.Err.(type) {
				case validator.ValidationErrors:
					errMap := make(map[string]string)
					for field, err := range errs {
						msg := ValidationErrorMessage(err)
						log.WithFields(log.Fields{
							"field": field,
							"error": msg,
						}).Warn("Validation error")
						errMap[err.Field] = msg
					}
					c.JSON(status, gin.H{"status": "error", "errors": errMap})
				default:
					log.WithFields(log.Fields{
						"error": e.Err.Error(),
					}).Warn("Bind error")
					c.JSON(status, gin.H{
						"status": "error",
						"error":  BindErrorMessage(e.Err),
					})
				}

			default:
				// Log all other errors
				log.Error(e.Err)
				LogRequestError(c.Request, e.Err)
			}
		}

		// If there was no public or bind error, display default 500 message
		if !rendered {
			c.JSON(http.StatusInternalServerError,
				gin.H{"status": "error", "error": "Internal Server Error"})
		}
	}
}
