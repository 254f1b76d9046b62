package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
)

// Handlers of the sermons, yanas and translation_types vocabularies.
// They differ only in the table they are bound to.

func lookupNotFound(t models.LookupTable) string {
	return t.Label + " not found"
}

func lookupDuplicate(t models.LookupTable) string {
	return t.Label + " with this English name already exists"
}

func LookupsHandler(t models.LookupTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r BaseRequest
		if c.Bind(&r) != nil {
			return
		}

		views, err := activeLookups(c.Request.Context(), getDB(c), t, r.Lang())
		if err != nil {
			NewInternalError(err).Abort(c)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func LookupHandler(t models.LookupTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r BaseRequest
		if c.Bind(&r) != nil {
			return
		}
		id, herr := paramID(c, "id")
		if herr != nil {
			herr.Abort(c)
			return
		}

		l, err := t.Query(ACTIVE_MOD, qm.Where("id = ?", id)).One(c.Request.Context(), getDB(c))
		if err != nil {
			notFoundOr(err, lookupNotFound(t)).Abort(c)
			return
		}
		c.JSON(http.StatusOK, NewLookupView(r.Lang(), l))
	}
}

// Admin

func AdminLookupsHandler(t models.LookupTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := t.Query(ORDERED_MOD).All(c.Request.Context(), getDB(c))
		if err != nil {
			NewInternalError(err).Abort(c)
			return
		}
		c.JSON(http.StatusOK, emptyIfNil(items))
	}
}

func AdminLookupHandler(t models.LookupTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, herr := paramID(c, "id")
		if herr != nil {
			herr.Abort(c)
			return
		}

		l, err := t.Find(c.Request.Context(), getDB(c), id)
		if err != nil {
			notFoundOr(err, lookupNotFound(t)).Abort(c)
			return
		}
		c.JSON(http.StatusOK, l)
	}
}

func CreateLookupHandler(t models.LookupTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r LookupRequest
		if c.Bind(&r) != nil {
			return
		}

		l := &models.Lookup{
			NameEnglish: strings.TrimSpace(r.NameEnglish),
			NameTibetan: r.NameTibetan,
			OrderIndex:  r.OrderIndex,
			IsActive:    boolOr(r.IsActive, true),
		}

		al := NewActivityLogger(c)
		ctx := c.Request.Context()
		err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
			if err := t.Insert(ctx, tx, l); err != nil {
				return wrapDBError(err, lookupDuplicate(t))
			}
			if err := al.Log(ctx, tx, consts.AUDIT_CREATE, t.Name, l.ID, nil, l); err != nil {
				return NewInternalError(err)
			}
			return nil
		})
		if err == nil {
			publishEvent(c, consts.E_LOOKUP_UPDATE, t.Name, l.ID)
		}

		concludeRequestWithStatus(c, http.StatusCreated, l, err)
	}
}

func UpdateLookupHandler(t models.LookupTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r LookupUpdateRequest
		if c.Bind(&r) != nil {
			return
		}
		id, herr := paramID(c, "id")
		if herr != nil {
			herr.Abort(c)
			return
		}

		var l *models.Lookup
		al := NewActivityLogger(c)
		ctx := c.Request.Context()
		err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
			var err error
			l, err = t.Find(ctx, tx, id)
			if err != nil {
				return notFoundOr(err, lookupNotFound(t))
			}
			old := *l

			setString(&l.NameEnglish, r.NameEnglish)
			setNullString(&l.NameTibetan, r.NameTibetan)
			setInt(&l.OrderIndex, r.OrderIndex)
			setBool(&l.IsActive, r.IsActive)

			if err := t.Update(ctx, tx, l); err != nil {
				return wrapDBError(err, lookupDuplicate(t))
			}
			if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, t.Name, l.ID, old, l); err != nil {
				return NewInternalError(err)
			}
			return nil
		})
		if err == nil {
			publishEvent(c, consts.E_LOOKUP_UPDATE, t.Name, id)
		}

		concludeRequest(c, l, err)
	}
}

func DeleteLookupHandler(t models.LookupTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, herr := paramID(c, "id")
		if herr != nil {
			herr.Abort(c)
			return
		}

		al := NewActivityLogger(c)
		ctx := c.Request.Context()
		err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
			l, err := t.Find(ctx, tx, id)
			if err != nil {
				return notFoundOr(err, lookupNotFound(t))
			}

			referenced, err := models.KagyurTexts(qm.Where(t.TextColumn+" = ?", id)).Exists(ctx, tx)
			if err != nil {
				return NewInternalError(err)
			}
			if referenced {
				return NewBadRequestError(errors.Errorf("Cannot delete %s: it is referenced by texts", strings.ToLower(t.Label)))
			}

			if _, err := t.Delete(ctx, tx, id); err != nil {
				return wrapDBError(err, "")
			}
			if err := al.Log(ctx, tx, consts.AUDIT_DELETE, t.Name, id, l, nil); err != nil {
				return NewInternalError(err)
			}
			return nil
		})
		if err == nil {
			publishEvent(c, consts.E_LOOKUP_UPDATE, t.Name, id)
		}

		concludeRequest(c, MessageResponse{Message: t.Label + " deleted successfully"}, err)
	}
}
