package api

import (
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/storage"
	"github.com/karchag/karchag-backend/utils"
)

const AUDIO_KEY_PREFIX = "audio"

var errNotAudio = errors.New("File must be an audio file")

// Public

func AudioListHandler(c *gin.Context) {
	var r AudioRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleAudioList(c.Request.Context(), getDB(c), r, true)
	concludeRequest(c, resp, err)
}

func AudioHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	a, err := models.KagyurAudios(qm.Where("id = ?", id), ACTIVE_MOD).One(c.Request.Context(), getDB(c))
	if err != nil {
		notFoundOr(err, "Audio file not found").Abort(c)
		return
	}
	c.JSON(http.StatusOK, a)
}

// SubCategoryAudioHandler lists the audio of the active texts of a sub-category.
func SubCategoryAudioHandler(c *gin.Context) {
	var r AudioRequest
	if c.Bind(&r) != nil {
		return
	}
	cid, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}
	sid, herr := paramID(c, "sid")
	if herr != nil {
		herr.Abort(c)
		return
	}

	ctx := c.Request.Context()
	db := getDB(c)
	exists, err := models.SubCategories(
		qm.Where("id=? AND main_category_id=?", sid, cid),
		ACTIVE_MOD,
	).Exists(ctx, db)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	if !exists {
		NewNotFoundError("Sub-category not found").Abort(c)
		return
	}

	r.SubCategoryID = sid
	resp, herr := handleAudioList(ctx, db, r, true)
	concludeRequest(c, resp, herr)
}

func handleAudioList(ctx context.Context, exec boil.ContextExecutor, r AudioRequest, activeOnly bool) (*AudioListResponse, *HttpError) {
	mods := make([]qm.QueryMod, 0)
	if activeOnly {
		mods = append(mods, ACTIVE_MOD)
	}
	if r.SubCategoryID > 0 {
		mods = append(mods, qm.Where("text_id IN (SELECT id FROM kagyur_texts WHERE sub_category_id = ? AND is_active = true)", r.SubCategoryID))
	}
	if narrator := strings.TrimSpace(r.Narrator); narrator != "" {
		p := "%" + narrator + "%"
		mods = append(mods, qm.Where("(narrator_name_english ILIKE ? OR narrator_name_tibetan ILIKE ?)", p, p))
	}
	if r.Quality != "" {
		if !audioQualityRE.MatchString(r.Quality) {
			return nil, NewBadRequestError(errors.Errorf("Invalid audio quality: %s", r.Quality))
		}
		mods = append(mods, qm.Where("audio_quality = ?", r.Quality))
	}
	if r.Language != "" {
		mods = append(mods, qm.Where("audio_language = ?", r.Language))
	}
	if r.TextID > 0 {
		mods = append(mods, qm.Where("text_id = ?", r.TextID))
	}

	page, limit, offset := r.paging()
	total, err := models.KagyurAudios(mods...).Count(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := &AudioListResponse{PageInfo: NewPageInfo(page, limit, total), AudioFiles: make([]*models.KagyurAudio, 0)}
	if total == 0 {
		return resp, nil
	}

	mods = append(mods, qm.OrderBy("text_id, order_index, id"), qm.Limit(limit), qm.Offset(offset))
	audio, err := models.KagyurAudios(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	resp.AudioFiles = emptyIfNil(audio)

	return resp, nil
}

// Admin

func AdminAudioListHandler(c *gin.Context) {
	var r AudioRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleAudioList(c.Request.Context(), getDB(c), r, false)
	concludeRequest(c, resp, err)
}

func AdminAudioHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	a, err := models.FindKagyurAudio(c.Request.Context(), getDB(c), id)
	if err != nil {
		notFoundOr(err, "Audio file not found").Abort(c)
		return
	}
	c.JSON(http.StatusOK, a)
}

func AdminTextAudioHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	ctx := c.Request.Context()
	db := getDB(c)
	if _, err := models.FindKagyurText(ctx, db, id); err != nil {
		notFoundOr(err, "Text not found").Abort(c)
		return
	}

	audio, err := models.KagyurAudios(qm.Where("text_id = ?", id), ORDERED_MOD).All(ctx, db)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audio_files": emptyIfNil(audio)})
}

// UploadAudioHandler stores the uploaded file and creates its record.
func UploadAudioHandler(c *gin.Context) {
	textID, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}
	store := getStorage(c)
	if store == nil {
		NewHttpError(http.StatusServiceUnavailable, errors.New("Media storage is not configured"), gin.ErrorTypePublic).Abort(c)
		return
	}

	narrator := strings.TrimSpace(c.PostForm("narrator_name_english"))
	if narrator == "" {
		NewBadRequestError(errors.New("narrator_name_english is required")).Abort(c)
		return
	}
	quality := c.DefaultPostForm("audio_quality", consts.AUDIO_QUALITY_STANDARD)
	if !audioQualityRE.MatchString(quality) {
		NewBadRequestError(errors.Errorf("Invalid audio quality: %s", quality)).Abort(c)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		NewBadRequestError(errors.New("No file uploaded")).Abort(c)
		return
	}
	defer file.Close()

	a := &models.KagyurAudio{
		TextID:              textID,
		NarratorNameEnglish: narrator,
		AudioQuality:        quality,
		AudioLanguage:       c.DefaultPostForm("audio_language", consts.AUDIO_LANGUAGE_TIBETAN),
		OrderIndex:          utils.ParseIntOrZero(c.PostForm("order_index")),
		IsActive:            utils.ParseBoolOrTrue(c.PostForm("is_active")),
	}
	if v := strings.TrimSpace(c.PostForm("narrator_name_tibetan")); v != "" {
		a.NarratorNameTibetan = null.StringFrom(v)
	}
	if v, err := strconv.Atoi(c.PostForm("duration")); err == nil {
		a.Duration = null.IntFrom(v)
	}

	ctx := c.Request.Context()
	db := getDB(c)
	if _, err := models.FindKagyurText(ctx, db, textID); err != nil {
		notFoundOr(err, "Text not found").Abort(c)
		return
	}

	key, herr := storeAudio(ctx, store, file, header)
	if herr != nil {
		herr.Abort(c)
		return
	}
	a.AudioURL = store.URL(key)
	a.FileName = header.Filename
	a.FileSize = header.Size

	al := NewActivityLogger(c)
	herr = inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		if err := a.Insert(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_AUDIO, a.ID, nil, a); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if herr != nil {
		removeStoredObject(ctx, store, key)
		herr.Abort(c)
		return
	}

	publishEvent(c, consts.E_AUDIO_CHANGE, consts.TBL_AUDIO, a.ID)
	c.JSON(http.StatusCreated, a)
}

func storeAudio(ctx context.Context, store storage.Storage, file multipart.File, header *multipart.FileHeader) (string, *HttpError) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") {
		return "", NewBadRequestError(errNotAudio)
	}

	key := storage.NewKey(AUDIO_KEY_PREFIX, header.Filename)
	if err := store.Put(ctx, key, file, header.Size, contentType); err != nil {
		return "", NewInternalError(errors.Wrapf(err, "store %s", header.Filename))
	}
	return key, nil
}

func removeStoredObject(ctx context.Context, store storage.Storage, key string) {
	if err := store.Delete(ctx, key); err != nil {
		log.Errorf("remove stored object %s: %s", key, err.Error())
		utils.LogError(err)
	}
}

func UpdateAudioHandler(c *gin.Context) {
	var r AudioUpdateRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}
	if r.AudioQuality != nil && !audioQualityRE.MatchString(*r.AudioQuality) {
		NewBadRequestError(errors.Errorf("Invalid audio quality: %s", *r.AudioQuality)).Abort(c)
		return
	}

	var a *models.KagyurAudio
	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		var err error
		a, err = models.FindKagyurAudio(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Audio file not found")
		}
		old := *a

		setString(&a.NarratorNameEnglish, r.NarratorNameEnglish)
		setNullString(&a.NarratorNameTibetan, r.NarratorNameTibetan)
		setString(&a.AudioQuality, r.AudioQuality)
		setString(&a.AudioLanguage, r.AudioLanguage)
		if r.Duration != nil {
			a.Duration = null.IntFrom(*r.Duration)
		}
		setInt(&a.OrderIndex, r.OrderIndex)
		setBool(&a.IsActive, r.IsActive)

		if err := a.Update(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_AUDIO, a.ID, old, a); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_AUDIO_CHANGE, consts.TBL_AUDIO, id)
	}

	concludeRequest(c, a, err)
}

// ReplaceAudioFileHandler swaps the stored file of an audio record.
// The previous object is removed once the record points at the new one.
func ReplaceAudioFileHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}
	store := getStorage(c)
	if store == nil {
		NewHttpError(http.StatusServiceUnavailable, errors.New("Media storage is not configured"), gin.ErrorTypePublic).Abort(c)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		NewBadRequestError(errors.New("No file uploaded")).Abort(c)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	db := getDB(c)
	a, err := models.FindKagyurAudio(ctx, db, id)
	if err != nil {
		notFoundOr(err, "Audio file not found").Abort(c)
		return
	}
	old := *a

	key, herr := storeAudio(ctx, store, file, header)
	if herr != nil {
		herr.Abort(c)
		return
	}
	a.AudioURL = store.URL(key)
	a.FileName = header.Filename
	a.FileSize = header.Size

	al := NewActivityLogger(c)
	herr = inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		if err := a.Update(ctx, tx); err != nil {
			return notFoundOr(err, "Audio file not found")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_AUDIO, a.ID, old, a); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if herr != nil {
		removeStoredObject(ctx, store, key)
		herr.Abort(c)
		return
	}

	if oldKey, ok := store.KeyFromURL(old.AudioURL); ok {
		removeStoredObject(ctx, store, oldKey)
	}

	publishEvent(c, consts.E_AUDIO_CHANGE, consts.TBL_AUDIO, id)
	c.JSON(http.StatusOK, a)
}

func DeleteAudioHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	var a *models.KagyurAudio
	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		var err error
		a, err = models.FindKagyurAudio(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Audio file not found")
		}
		if _, err := a.Delete(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_DELETE, consts.TBL_AUDIO, id, a, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		err.Abort(c)
		return
	}

	if store := getStorage(c); store != nil {
		if key, ok := store.KeyFromURL(a.AudioURL); ok {
			removeStoredObject(ctx, store, key)
		}
	}

	publishEvent(c, consts.E_AUDIO_CHANGE, consts.TBL_AUDIO, id)
	c.JSON(http.StatusOK, MessageResponse{Message: "Audio file deleted successfully"})
}
