package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"gopkg.in/gin-gonic/gin.v1"
	"gopkg.in/olivere/elastic.v6"

	"github.com/karchag/karchag-backend/auth"
	"github.com/karchag/karchag-backend/cache"
	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/events"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/storage"
	"github.com/karchag/karchag-backend/utils"
)

// responds with JSON of the given status or aborts the request with the given error.
func concludeRequestWithStatus(c *gin.Context, status int, resp interface{}, err *HttpError) {
	if err == nil {
		c.JSON(status, resp)
	} else {
		err.Abort(c)
	}
}

// responds with JSON or aborts the request with the given error.
func concludeRequest(c *gin.Context, resp interface{}, err *HttpError) {
	concludeRequestWithStatus(c, http.StatusOK, resp, err)
}

func getDB(c *gin.Context) *sql.DB {
	return c.MustGet(consts.CTX_DB).(*sql.DB)
}

func getESC(c *gin.Context) *elastic.Client {
	if v, ok := c.Get(consts.CTX_ES); ok {
		if esc, ok := v.(*elastic.Client); ok {
			return esc
		}
	}
	return nil
}

func getPublisher(c *gin.Context) events.Publisher {
	if v, ok := c.Get(consts.CTX_PUBLISHER); ok {
		if p, ok := v.(events.Publisher); ok && p != nil {
			return p
		}
	}
	return new(events.NoopPublisher)
}

func getStorage(c *gin.Context) storage.Storage {
	if v, ok := c.Get(consts.CTX_STORAGE); ok {
		if s, ok := v.(storage.Storage); ok {
			return s
		}
	}
	return nil
}

func getCache(c *gin.Context) cache.CacheManager {
	if v, ok := c.Get(consts.CTX_CACHE); ok {
		if cm, ok := v.(cache.CacheManager); ok {
			return cm
		}
	}
	return nil
}

func getTokens(c *gin.Context) *auth.TokenManager {
	return c.MustGet(consts.CTX_TOKENS).(*auth.TokenManager)
}

// currentUser is set by the authentication middleware
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(consts.CTX_USER); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func paramID(c *gin.Context, name string) (int64, *HttpError) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, NewBadRequestError(errors.Errorf("Invalid %s: %s", name, c.Param(name)))
	}
	return id, nil
}

func openTransaction(ctx context.Context, db *sql.DB) (*sql.Tx, *HttpError) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewInternalError(errors.Wrap(err, "begin transaction"))
	}
	return tx, nil
}

// closeTransaction commits when there is no error and rolls back otherwise.
// A failed commit is returned as an error of its own.
func closeTransaction(tx *sql.Tx, err *HttpError) *HttpError {
	if err != nil {
		if eTx := tx.Rollback(); eTx != nil {
			log.Errorf("rollback: %s", eTx.Error())
		}
		return err
	}

	if eTx := tx.Commit(); eTx != nil {
		return wrapDBError(eTx, "")
	}
	return nil
}

// inTransaction runs f in a transaction, rolling back on error or panic
func inTransaction(ctx context.Context, db *sql.DB, f func(tx *sql.Tx) *HttpError) (err *HttpError) {
	tx, err := openTransaction(ctx, db)
	if err != nil {
		return err
	}

	defer func() {
		if rval := recover(); rval != nil {
			tx.Rollback()
			panic(rval)
		}
	}()

	return closeTransaction(tx, f(tx))
}

// publishEvent notifies listeners of a committed change. Failures are only logged.
func publishEvent(c *gin.Context, eventType string, table string, id int64) {
	e := events.NewEvent(eventType, table, id)
	if err := getPublisher(c).Publish(e); err != nil {
		log.Errorf("publish %s %s:%d: %s", eventType, table, id, err.Error())
		utils.LogError(err)
	}
}

// ActivityLogger writes audit records for the acting user of a request.
type ActivityLogger struct {
	UserID    null.Int64
	IPAddress null.String
}

func NewActivityLogger(c *gin.Context) ActivityLogger {
	al := ActivityLogger{IPAddress: null.StringFrom(c.ClientIP())}
	if u := currentUser(c); u != nil {
		al.UserID = null.Int64From(u.ID)
	}
	if al.IPAddress.String == "" {
		al.IPAddress = null.String{}
	}
	return al
}

// Log inserts an audit record. Old and new values are stored as JSON.
func (al ActivityLogger) Log(ctx context.Context, exec boil.ContextExecutor, action string, table string, recordID int64, oldValues, newValues interface{}) error {
	entry := &models.AuditLog{
		UserID:    al.UserID,
		TableName: table,
		Action:    action,
		IPAddress: al.IPAddress,
	}
	if recordID > 0 {
		entry.RecordID = null.Int64From(recordID)
	}

	var err error
	if entry.OldValues, err = toNullJSON(oldValues); err != nil {
		return err
	}
	if entry.NewValues, err = toNullJSON(newValues); err != nil {
		return err
	}

	return entry.Insert(ctx, exec)
}

func toNullJSON(v interface{}) (null.JSON, error) {
	if v == nil {
		return null.JSON{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return null.JSON{}, errors.Wrap(err, "json.Marshal audit values")
	}
	return null.JSONFrom(b), nil
}
