package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
)

const editionNotFound = "Edition not found"

func EditionsHandler(c *gin.Context) {
	var r ListRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleEditions(c.Request.Context(), getDB(c), r, []qm.QueryMod{ACTIVE_MOD})
	concludeRequest(c, resp, err)
}

func EditionHandler(c *gin.Context) {
	var r BaseRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	e, err := models.Editions(ACTIVE_MOD, qm.Where("id = ?", id)).One(c.Request.Context(), getDB(c))
	if err != nil {
		notFoundOr(err, editionNotFound).Abort(c)
		return
	}
	c.JSON(http.StatusOK, NewEditionView(r.Lang(), e))
}

func handleEditions(ctx context.Context, exec boil.ContextExecutor, r ListRequest, mods []qm.QueryMod) (*EditionsResponse, *HttpError) {
	page, limit, offset := r.paging()
	total, err := models.Editions(mods...).Count(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := &EditionsResponse{PageInfo: NewPageInfo(page, limit, total), Editions: make([]*EditionView, 0)}
	if total == 0 {
		return resp, nil
	}

	mods = append(mods, ORDERED_MOD, qm.Limit(limit), qm.Offset(offset))
	editions, err := models.Editions(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	lang := r.Lang()
	for _, e := range editions {
		resp.Editions = append(resp.Editions, NewEditionView(lang, e))
	}
	return resp, nil
}

// Admin

func AdminEditionsHandler(c *gin.Context) {
	var r ListRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleEditions(c.Request.Context(), getDB(c), r, nil)
	concludeRequest(c, resp, err)
}

func AdminEditionHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	e, err := models.FindEdition(c.Request.Context(), getDB(c), id)
	if err != nil {
		notFoundOr(err, editionNotFound).Abort(c)
		return
	}
	c.JSON(http.StatusOK, e)
}

func CreateEditionHandler(c *gin.Context) {
	var r EditionRequest
	if c.Bind(&r) != nil {
		return
	}

	e := &models.Edition{
		NameEnglish:        r.NameEnglish,
		NameTibetan:        r.NameTibetan,
		DescriptionEnglish: r.DescriptionEnglish,
		DescriptionTibetan: r.DescriptionTibetan,
		Abbreviation:       r.Abbreviation,
		Publisher:          r.Publisher,
		PublicationYear:    r.PublicationYear,
		Location:           r.Location,
		TotalVolumes:       r.TotalVolumes,
		OrderIndex:         r.OrderIndex,
		IsActive:           boolOr(r.IsActive, true),
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		if err := e.Insert(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_EDITIONS, e.ID, nil, e); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_EDITION_CHANGE, consts.TBL_EDITIONS, e.ID)
	}

	concludeRequestWithStatus(c, http.StatusCreated, e, err)
}

func UpdateEditionHandler(c *gin.Context) {
	var r EditionUpdateRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	var e *models.Edition
	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		var err error
		e, err = models.FindEdition(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, editionNotFound)
		}
		old := *e

		setString(&e.NameEnglish, r.NameEnglish)
		setNullString(&e.NameTibetan, r.NameTibetan)
		setNullString(&e.DescriptionEnglish, r.DescriptionEnglish)
		setNullString(&e.DescriptionTibetan, r.DescriptionTibetan)
		setNullString(&e.Abbreviation, r.Abbreviation)
		setNullString(&e.Publisher, r.Publisher)
		setNullInt(&e.PublicationYear, r.PublicationYear)
		setNullString(&e.Location, r.Location)
		setNullInt(&e.TotalVolumes, r.TotalVolumes)
		setInt(&e.OrderIndex, r.OrderIndex)
		setBool(&e.IsActive, r.IsActive)

		if err := e.Update(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_EDITIONS, e.ID, old, e); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_EDITION_CHANGE, consts.TBL_EDITIONS, id)
	}

	concludeRequest(c, e, err)
}

func DeleteEditionHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		e, err := models.FindEdition(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, editionNotFound)
		}
		if _, err := e.Delete(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_DELETE, consts.TBL_EDITIONS, id, e, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_EDITION_CHANGE, consts.TBL_EDITIONS, id)
	}

	concludeRequest(c, MessageResponse{Message: "Edition deleted successfully"}, err)
}
