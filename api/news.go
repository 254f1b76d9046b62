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

const newsNotFound = "News item not found"

func findNews(ctx context.Context, exec boil.ContextExecutor, id int64) (publicationRecord, error) {
	n, err := models.FindKagyurNews(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func publicNewsMods() []qm.QueryMod {
	return []qm.QueryMod{ACTIVE_MOD, PUBLISHED_MOD}
}

// Public

func NewsListHandler(c *gin.Context) {
	var r ListRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleNewsList(c.Request.Context(), getDB(c), publicNewsMods(), r.paging)
	concludeRequest(c, resp, err)
}

func LatestNewsHandler(c *gin.Context) {
	var r LatestRequest
	if c.Bind(&r) != nil {
		return
	}

	mods := append(publicNewsMods(), RECENT_MOD, qm.Limit(latestLimit(r)))
	news, err := models.KagyurNewsItems(mods...).All(c.Request.Context(), getDB(c))
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(news))
}

func NewsItemHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	mods := append(publicNewsMods(), qm.Where("id = ?", id))
	n, err := models.KagyurNewsItems(mods...).One(c.Request.Context(), getDB(c))
	if err != nil {
		notFoundOr(err, newsNotFound).Abort(c)
		return
	}
	c.JSON(http.StatusOK, n)
}

func handleNewsList(ctx context.Context, exec boil.ContextExecutor, mods []qm.QueryMod, paging func() (int, int, int)) (*NewsListResponse, *HttpError) {
	page, limit, offset := paging()
	total, err := models.KagyurNewsItems(mods...).Count(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := &NewsListResponse{PageInfo: NewPageInfo(page, limit, total), News: make([]*models.KagyurNews, 0)}
	if total == 0 {
		return resp, nil
	}

	mods = append(mods, RECENT_MOD, qm.Limit(limit), qm.Offset(offset))
	news, err := models.KagyurNewsItems(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	resp.News = emptyIfNil(news)

	return resp, nil
}

// Admin

func AdminNewsListHandler(c *gin.Context) {
	var r PublicationListRequest
	if c.Bind(&r) != nil {
		return
	}

	mods, herr := publicationListMods(r)
	if herr != nil {
		herr.Abort(c)
		return
	}

	resp, err := handleNewsList(c.Request.Context(), getDB(c), mods, r.paging)
	concludeRequest(c, resp, err)
}

func AdminNewsItemHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	n, err := models.FindKagyurNews(c.Request.Context(), getDB(c), id)
	if err != nil {
		notFoundOr(err, newsNotFound).Abort(c)
		return
	}
	c.JSON(http.StatusOK, n)
}

func NewsStatsHandler(c *gin.Context) {
	resp, err := loadPublicationStats(c.Request.Context(), getDB(c), consts.TBL_NEWS)
	concludeRequest(c, resp, err)
}

func CreateNewsHandler(c *gin.Context) {
	var r NewsRequest
	if c.Bind(&r) != nil {
		return
	}

	status, date := initialStatus(r.PublishedDate)
	n := &models.KagyurNews{
		TibetanTitle:      r.TibetanTitle,
		EnglishTitle:      r.EnglishTitle,
		TibetanContent:    r.TibetanContent,
		EnglishContent:    r.EnglishContent,
		PublicationStatus: status,
		PublishedDate:     date,
		IsActive:          boolOr(r.IsActive, true),
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		if err := n.Insert(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_NEWS, n.ID, nil, n); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_NEWS_CHANGE, consts.TBL_NEWS, n.ID)
	}

	concludeRequestWithStatus(c, http.StatusCreated, n, err)
}

func UpdateNewsHandler(c *gin.Context) {
	var r NewsUpdateRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	var n *models.KagyurNews
	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		var err error
		n, err = models.FindKagyurNews(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, newsNotFound)
		}
		old := *n

		setString(&n.TibetanTitle, r.TibetanTitle)
		setString(&n.EnglishTitle, r.EnglishTitle)
		setString(&n.TibetanContent, r.TibetanContent)
		setString(&n.EnglishContent, r.EnglishContent)
		active := n.IsActive
		setBool(&active, r.IsActive)
		if herr := applyStatusChange(n, active, r.PublicationStatus, r.PublishedDate); herr != nil {
			return herr
		}

		if err := n.Update(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_NEWS, n.ID, old, n); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_NEWS_CHANGE, consts.TBL_NEWS, id)
	}

	concludeRequest(c, n, err)
}

func DeleteNewsHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		n, err := models.FindKagyurNews(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, newsNotFound)
		}
		if _, err := n.Delete(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_DELETE, consts.TBL_NEWS, id, n, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_NEWS_CHANGE, consts.TBL_NEWS, id)
	}

	concludeRequest(c, MessageResponse{Message: "News item deleted successfully"}, err)
}

func PublishNewsHandler(c *gin.Context) {
	changeNewsPublication(c, true)
}

func UnpublishNewsHandler(c *gin.Context) {
	changeNewsPublication(c, false)
}

func changeNewsPublication(c *gin.Context, publish bool) {
	r, ok := bindPublishRequest(c)
	if !ok {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	rec, err := changePublication(c.Request.Context(), getDB(c), NewActivityLogger(c),
		consts.TBL_NEWS, id, findNews, newsNotFound, publish, r.PublishedDate)
	if err == nil {
		publishEvent(c, consts.E_NEWS_CHANGE, consts.TBL_NEWS, id)
	}

	concludeRequest(c, rec, err)
}
