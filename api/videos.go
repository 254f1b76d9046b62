package api

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

const videoNotFound = "Video not found"

var errVideoURL = errors.New("Video URL must start with http:// or https://")

func findVideo(ctx context.Context, exec boil.ContextExecutor, id int64) (publicationRecord, error) {
	v, err := models.FindKangyurVideo(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Public

func VideosHandler(c *gin.Context) {
	var r ListRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleVideos(c.Request.Context(), getDB(c), []qm.QueryMod{PUBLISHED_MOD}, r.paging)
	concludeRequest(c, resp, err)
}

func LatestVideosHandler(c *gin.Context) {
	var r LatestRequest
	if c.Bind(&r) != nil {
		return
	}

	videos, err := models.KangyurVideos(PUBLISHED_MOD, RECENT_MOD, qm.Limit(latestLimit(r))).
		All(c.Request.Context(), getDB(c))
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(videos))
}

const (
	DEFAULT_VIDEO_SEARCH = 10
	MAX_VIDEO_SEARCH     = 50
)

// SearchVideosHandler matches published videos by title or description.
func SearchVideosHandler(c *gin.Context) {
	var r VideoSearchRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleSearchVideos(c.Request.Context(), getDB(c), r)
	concludeRequest(c, resp, err)
}

func handleSearchVideos(ctx context.Context, exec boil.ContextExecutor, r VideoSearchRequest) (*VideoSearchResponse, *HttpError) {
	q := utils.NormalizeQuery(r.Query)
	if q == "" {
		return nil, NewBadRequestError(errors.New("Query is required"))
	}
	limit := r.Limit
	if limit <= 0 {
		limit = DEFAULT_VIDEO_SEARCH
	}
	limit = utils.Min(limit, MAX_VIDEO_SEARCH)

	p := "%" + q + "%"
	videos, err := models.KangyurVideos(
		PUBLISHED_MOD,
		qm.Where("(english_title ILIKE ? OR tibetan_title ILIKE ? OR english_description ILIKE ? OR tibetan_description ILIKE ?)", p, p, p, p),
		RECENT_MOD,
		qm.Limit(limit),
	).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &VideoSearchResponse{Videos: emptyIfNil(videos), Query: q}, nil
}

func VideoHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	v, err := models.KangyurVideos(PUBLISHED_MOD, qm.Where("id = ?", id)).One(c.Request.Context(), getDB(c))
	if err != nil {
		notFoundOr(err, videoNotFound).Abort(c)
		return
	}
	c.JSON(http.StatusOK, v)
}

func handleVideos(ctx context.Context, exec boil.ContextExecutor, mods []qm.QueryMod, paging func() (int, int, int)) (*VideosListResponse, *HttpError) {
	page, limit, offset := paging()
	total, err := models.KangyurVideos(mods...).Count(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := &VideosListResponse{PageInfo: NewPageInfo(page, limit, total), Videos: make([]*models.KangyurVideo, 0)}
	if total == 0 {
		return resp, nil
	}

	mods = append(mods, RECENT_MOD, qm.Limit(limit), qm.Offset(offset))
	videos, err := models.KangyurVideos(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	resp.Videos = emptyIfNil(videos)

	return resp, nil
}

// Admin

func AdminVideosHandler(c *gin.Context) {
	var r PublicationListRequest
	if c.Bind(&r) != nil {
		return
	}

	mods, herr := publicationListMods(r)
	if herr != nil {
		herr.Abort(c)
		return
	}

	resp, err := handleVideos(c.Request.Context(), getDB(c), mods, r.paging)
	concludeRequest(c, resp, err)
}

func AdminVideoHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	v, err := models.FindKangyurVideo(c.Request.Context(), getDB(c), id)
	if err != nil {
		notFoundOr(err, videoNotFound).Abort(c)
		return
	}
	c.JSON(http.StatusOK, v)
}

func VideoStatsHandler(c *gin.Context) {
	resp, err := loadPublicationStats(c.Request.Context(), getDB(c), consts.TBL_VIDEOS)
	concludeRequest(c, resp, err)
}

func CreateVideoHandler(c *gin.Context) {
	var r VideoRequest
	if c.Bind(&r) != nil {
		return
	}
	r.VideoURL = strings.TrimSpace(r.VideoURL)
	if !validVideoURL(r.VideoURL) {
		NewBadRequestError(errVideoURL).Abort(c)
		return
	}

	status, date := initialStatus(r.PublishedDate)
	v := &models.KangyurVideo{
		TibetanTitle:       r.TibetanTitle,
		EnglishTitle:       r.EnglishTitle,
		TibetanDescription: r.TibetanDescription,
		EnglishDescription: r.EnglishDescription,
		VideoURL:           r.VideoURL,
		PublicationStatus:  status,
		PublishedDate:      date,
		IsActive:           boolOr(r.IsActive, true),
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		if err := v.Insert(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_VIDEOS, v.ID, nil, v); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_VIDEO_CHANGE, consts.TBL_VIDEOS, v.ID)
	}

	concludeRequestWithStatus(c, http.StatusCreated, v, err)
}

func UpdateVideoHandler(c *gin.Context) {
	var r VideoUpdateRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}
	if r.VideoURL != nil {
		url := strings.TrimSpace(*r.VideoURL)
		if !validVideoURL(url) {
			NewBadRequestError(errVideoURL).Abort(c)
			return
		}
		r.VideoURL = &url
	}

	var v *models.KangyurVideo
	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		var err error
		v, err = models.FindKangyurVideo(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, videoNotFound)
		}
		old := *v

		setString(&v.TibetanTitle, r.TibetanTitle)
		setString(&v.EnglishTitle, r.EnglishTitle)
		setString(&v.TibetanDescription, r.TibetanDescription)
		setString(&v.EnglishDescription, r.EnglishDescription)
		setString(&v.VideoURL, r.VideoURL)
		active := v.IsActive
		setBool(&active, r.IsActive)
		if herr := applyStatusChange(v, active, r.PublicationStatus, r.PublishedDate); herr != nil {
			return herr
		}

		if err := v.Update(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_VIDEOS, v.ID, old, v); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_VIDEO_CHANGE, consts.TBL_VIDEOS, id)
	}

	concludeRequest(c, v, err)
}

func DeleteVideoHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		v, err := models.FindKangyurVideo(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, videoNotFound)
		}
		if _, err := v.Delete(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_DELETE, consts.TBL_VIDEOS, id, v, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_VIDEO_CHANGE, consts.TBL_VIDEOS, id)
	}

	concludeRequest(c, MessageResponse{Message: "Video deleted successfully"}, err)
}

func PublishVideoHandler(c *gin.Context) {
	changeVideoPublication(c, true)
}

func UnpublishVideoHandler(c *gin.Context) {
	changeVideoPublication(c, false)
}

func changeVideoPublication(c *gin.Context, publish bool) {
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
		consts.TBL_VIDEOS, id, findVideo, videoNotFound, publish, r.PublishedDate)
	if err == nil {
		publishEvent(c, consts.E_VIDEO_CHANGE, consts.TBL_VIDEOS, id)
	}

	concludeRequest(c, rec, err)
}
