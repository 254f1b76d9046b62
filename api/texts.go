package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/storage"
)

var audioQualityRE = regexp.MustCompile(consts.AUDIO_QUALITY_PATTERN)

// Public

func TextsHandler(c *gin.Context) {
	var r ListRequest
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

	resp, err := handleTexts(c.Request.Context(), getDB(c), cid, sid, r)
	concludeRequest(c, resp, err)
}

func TextHandler(c *gin.Context) {
	cid, sid, tid, herr := textPath(c)
	if herr != nil {
		herr.Abort(c)
		return
	}

	resp, err := handleText(c.Request.Context(), getDB(c), cid, sid, tid)
	concludeRequest(c, resp, err)
}

func TextAudioHandler(c *gin.Context) {
	cid, sid, tid, herr := textPath(c)
	if herr != nil {
		herr.Abort(c)
		return
	}
	quality := c.Query("quality")
	if quality != "" && !audioQualityRE.MatchString(quality) {
		NewBadRequestError(errors.Errorf("Invalid audio quality: %s", quality)).Abort(c)
		return
	}

	resp, err := handleTextAudio(c.Request.Context(), getDB(c), cid, sid, tid, quality)
	concludeRequest(c, resp, err)
}

func textPath(c *gin.Context) (cid, sid, tid int64, err *HttpError) {
	if cid, err = paramID(c, "id"); err != nil {
		return
	}
	if sid, err = paramID(c, "sid"); err != nil {
		return
	}
	tid, err = paramID(c, "tid")
	return
}

func handleTexts(ctx context.Context, exec boil.ContextExecutor, cid, sid int64, r ListRequest) (*TextsResponse, *HttpError) {
	exists, err := models.SubCategories(
		qm.Where("id = ? AND main_category_id = ?", sid, cid),
		ACTIVE_MOD,
	).Exists(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	if !exists {
		return nil, NewNotFoundError("Sub-category not found")
	}

	mods := []qm.QueryMod{qm.Where("sub_category_id = ?", sid), ACTIVE_MOD}
	return listTexts(ctx, exec, mods, r)
}

func listTexts(ctx context.Context, exec boil.ContextExecutor, mods []qm.QueryMod, r ListRequest) (*TextsResponse, *HttpError) {
	page, limit, offset := r.paging()

	total, err := models.KagyurTexts(mods...).Count(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := &TextsResponse{
		Texts:      make([]*models.KagyurText, 0),
		Pagination: NewPagination(page, limit, total),
	}
	if total == 0 {
		return resp, nil
	}

	mods = append(mods, ORDERED_MOD, qm.Limit(limit), qm.Offset(offset))
	texts, err := models.KagyurTexts(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	resp.Texts = emptyIfNil(texts)

	return resp, nil
}

func findPublicText(ctx context.Context, exec boil.ContextExecutor, cid, sid, tid int64) (*models.KagyurText, *HttpError) {
	t, err := models.KagyurTexts(
		qm.Where("id = ? AND sub_category_id = ?", tid, sid),
		qm.Where("sub_category_id IN (SELECT id FROM sub_categories WHERE main_category_id = ?)", cid),
		ACTIVE_MOD,
	).One(ctx, exec)
	if err != nil {
		return nil, notFoundOr(err, "Text not found")
	}
	return t, nil
}

func handleText(ctx context.Context, exec boil.ContextExecutor, cid, sid, tid int64) (*TextDetail, *HttpError) {
	t, herr := findPublicText(ctx, exec, cid, sid, tid)
	if herr != nil {
		return nil, herr
	}

	detail, err := loadTextDetail(ctx, exec, t, detailOptions{withAudio: true, activeAudioOnly: true})
	if err != nil {
		return nil, NewInternalError(err)
	}
	return detail, nil
}

func handleTextAudio(ctx context.Context, exec boil.ContextExecutor, cid, sid, tid int64, quality string) (gin.H, *HttpError) {
	ok, err := models.SubCategories(qm.Where("id = ? AND main_category_id = ?", sid, cid)).Exists(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	if !ok {
		return nil, NewNotFoundError("Invalid category/subcategory combination")
	}
	if _, herr := findPublicText(ctx, exec, cid, sid, tid); herr != nil {
		return nil, herr
	}

	mods := []qm.QueryMod{qm.Where("text_id = ?", tid), ACTIVE_MOD}
	if quality != "" {
		mods = append(mods, qm.Where("audio_quality = ?", quality))
	}
	mods = append(mods, ORDERED_MOD)

	audio, err := models.KagyurAudios(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return gin.H{"audio_files": emptyIfNil(audio)}, nil
}

// Admin

func AdminTextsHandler(c *gin.Context) {
	var r AdminTextsRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleAdminTexts(c.Request.Context(), getDB(c), r)
	concludeRequest(c, resp, err)
}

func AdminTextHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	ctx := c.Request.Context()
	db := getDB(c)
	t, err := models.FindKagyurText(ctx, db, id)
	if err != nil {
		notFoundOr(err, "Text not found").Abort(c)
		return
	}

	detail, err := loadTextDetail(ctx, db, t, detailOptions{withSubCategory: true, withAudio: true})
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func handleAdminTexts(ctx context.Context, exec boil.ContextExecutor, r AdminTextsRequest) (*TextsResponse, *HttpError) {
	mods := make([]qm.QueryMod, 0)
	if r.SubCategoryID > 0 {
		mods = append(mods, qm.Where("sub_category_id = ?", r.SubCategoryID))
	}
	if r.CategoryID > 0 {
		mods = append(mods, qm.Where("sub_category_id IN (SELECT id FROM sub_categories WHERE main_category_id = ?)", r.CategoryID))
	}
	if s := strings.TrimSpace(r.Search); s != "" {
		mods = append(mods, textSearchMod(s))
	}

	return listTexts(ctx, exec, mods, r.ListRequest)
}

// textSearchMod is a case insensitive match on any title or the derge id
func textSearchMod(term string) qm.QueryMod {
	p := "%" + term + "%"
	return qm.Where(`(tibetan_title ILIKE ? OR chinese_title ILIKE ? OR sanskrit_title ILIKE ?
		OR english_title ILIKE ? OR derge_id ILIKE ?)`, p, p, p, p, p)
}

func CreateTextHandler(c *gin.Context) {
	var r TextCreateRequest
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

	t, err := handleCreateText(c.Request.Context(), getDB(c), NewActivityLogger(c), cid, sid, r)
	if err != nil {
		err.Abort(c)
		return
	}

	publishEvent(c, consts.E_TEXT_CREATE, consts.TBL_TEXTS, t.ID)
	c.JSON(http.StatusCreated, TextCreateResponse{
		Message: "Text created successfully",
		TextID:  t.ID,
		Status:  "success",
	})
}

// handleCreateText persists a text with its summary, spans and volumes
// or nothing at all.
func handleCreateText(ctx context.Context, db *sql.DB, al ActivityLogger, cid, sid int64, r TextCreateRequest) (*models.KagyurText, *HttpError) {
	if _, err := models.FindSubCategoryInCategory(ctx, db, cid, sid); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Sub-category %d not found in category %d", sid, cid))
	}
	if err := validateTextReferences(ctx, db, nullID(r.SermonID), nullID(r.YanaID), nullID(r.TranslationTypeID)); err != nil {
		return nil, err
	}

	var t *models.KagyurText
	err := inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		var herr *HttpError
		if t, herr = insertTextTree(ctx, tx, sid, r); herr != nil {
			return herr
		}
		if err := al.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_TEXTS, t.ID, nil, t); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// validateTextReferences checks that the given lookup references exist.
func validateTextReferences(ctx context.Context, exec boil.ContextExecutor, sermonID, yanaID, translationTypeID null.Int64) *HttpError {
	refs := []struct {
		table models.LookupTable
		id    null.Int64
	}{
		{models.SermonsTable, sermonID},
		{models.YanasTable, yanaID},
		{models.TranslationTypesTable, translationTypeID},
	}

	for _, ref := range refs {
		if !ref.id.Valid {
			continue
		}
		exists, err := ref.table.Exists(ctx, exec, ref.id.Int64)
		if err != nil {
			return NewInternalError(err)
		}
		if !exists {
			return NewBadRequestError(errors.Errorf("Invalid %s: %d", ref.table.TextColumn, ref.id.Int64))
		}
	}

	return nil
}

// insertTextTree inserts the text, its summary, spans and volumes using tx.
// Integrity violations are reported with the reference that caused them.
func insertTextTree(ctx context.Context, tx boil.ContextExecutor, subCategoryID int64, r TextCreateRequest) (*models.KagyurText, *HttpError) {
	t := &models.KagyurText{
		SubCategoryID:     subCategoryID,
		DergeID:           r.DergeID,
		YesheDeID:         r.YesheDeID,
		TibetanTitle:      r.TibetanTitle,
		ChineseTitle:      r.ChineseTitle,
		SanskritTitle:     r.SanskritTitle,
		EnglishTitle:      r.EnglishTitle,
		SermonID:          nullID(r.SermonID),
		YanaID:            nullID(r.YanaID),
		TranslationTypeID: nullID(r.TranslationTypeID),
		OrderIndex:        r.OrderIndex,
		IsActive:          boolOr(r.IsActive, true),
	}
	if err := t.Insert(ctx, tx); err != nil {
		return nil, wrapDBError(err, "")
	}

	if r.TextSummary != nil {
		s := &models.TextSummary{TextID: t.ID}
		r.TextSummary.apply(s)
		if err := s.Insert(ctx, tx); err != nil {
			return nil, wrapDBError(err, "")
		}
	}

	if err := insertSpans(ctx, tx, t.ID, r.YesheDeSpans); err != nil {
		return nil, err
	}

	return t, nil
}

func insertSpans(ctx context.Context, tx boil.ContextExecutor, textID int64, spans []SpanRequest) *HttpError {
	for _, sr := range spans {
		span := &models.YesheDeSpan{TextID: textID}
		if err := span.Insert(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		for _, vr := range sr.Volumes {
			v := &models.Volume{
				YesheDeSpanID: span.ID,
				VolumeNumber:  vr.VolumeNumber,
				StartPage:     vr.StartPage,
				EndPage:       vr.EndPage,
				OrderIndex:    vr.OrderIndex,
			}
			if err := v.Insert(ctx, tx); err != nil {
				return wrapDBError(err, "")
			}
		}
	}
	return nil
}

func UpdateTextHandler(c *gin.Context) {
	var r TextUpdateRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	t, err := handleUpdateText(c.Request.Context(), getDB(c), NewActivityLogger(c), id, r)
	if err == nil {
		publishEvent(c, consts.E_TEXT_UPDATE, consts.TBL_TEXTS, id)
	}
	concludeRequest(c, t, err)
}

// handleUpdateText applies a partial update. A given summary is upserted and
// given spans replace the existing ones, all in one transaction.
func handleUpdateText(ctx context.Context, db *sql.DB, al ActivityLogger, id int64, r TextUpdateRequest) (*models.KagyurText, *HttpError) {
	var t *models.KagyurText
	err := inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		var err error
		t, err = models.FindKagyurText(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Text not found")
		}
		old := *t

		if r.SubCategoryID != nil && *r.SubCategoryID != t.SubCategoryID {
			if _, err := models.FindSubCategory(ctx, tx, *r.SubCategoryID); err != nil {
				if errors.Cause(err) == sql.ErrNoRows {
					return NewBadRequestError(errors.Errorf("Invalid sub_category_id: %d", *r.SubCategoryID))
				}
				return NewInternalError(err)
			}
			t.SubCategoryID = *r.SubCategoryID
		}

		refs := []struct {
			src *int64
			dst *null.Int64
		}{
			{r.SermonID, &t.SermonID},
			{r.YanaID, &t.YanaID},
			{r.TranslationTypeID, &t.TranslationTypeID},
		}
		for _, ref := range refs {
			if ref.src != nil {
				*ref.dst = nullID(null.Int64From(*ref.src))
			}
		}
		if herr := validateTextReferences(ctx, tx, t.SermonID, t.YanaID, t.TranslationTypeID); herr != nil {
			return herr
		}

		setNullString(&t.DergeID, r.DergeID)
		setNullString(&t.YesheDeID, r.YesheDeID)
		setNullString(&t.TibetanTitle, r.TibetanTitle)
		setNullString(&t.ChineseTitle, r.ChineseTitle)
		setNullString(&t.SanskritTitle, r.SanskritTitle)
		setNullString(&t.EnglishTitle, r.EnglishTitle)
		setInt(&t.OrderIndex, r.OrderIndex)
		setBool(&t.IsActive, r.IsActive)

		if err := t.Update(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}

		if r.TextSummary != nil {
			if herr := upsertSummary(ctx, tx, t.ID, r.TextSummary); herr != nil {
				return herr
			}
		}

		if r.YesheDeSpans != nil {
			if _, err := models.YesheDeSpans(qm.Where("text_id = ?", t.ID)).DeleteAll(ctx, tx); err != nil {
				return NewInternalError(err)
			}
			if herr := insertSpans(ctx, tx, t.ID, *r.YesheDeSpans); herr != nil {
				return herr
			}
		}

		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_TEXTS, t.ID, old, t); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func upsertSummary(ctx context.Context, tx boil.ContextExecutor, textID int64, r *TextSummaryRequest) *HttpError {
	s, err := models.TextSummaries(qm.Where("text_id = ?", textID)).One(ctx, tx)
	if err != nil {
		if errors.Cause(err) != sql.ErrNoRows {
			return NewInternalError(err)
		}
		s = &models.TextSummary{TextID: textID}
		r.apply(s)
		return wrapDBError(s.Insert(ctx, tx), "")
	}

	r.apply(s)
	return wrapDBError(s.Update(ctx, tx), "")
}

func DeleteTextHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	err := handleDeleteText(c.Request.Context(), getDB(c), getStorage(c), NewActivityLogger(c), id)
	if err == nil {
		publishEvent(c, consts.E_TEXT_DELETE, consts.TBL_TEXTS, id)
	}
	concludeRequest(c, MessageResponse{Message: "Text deleted successfully"}, err)
}

// handleDeleteText cascades to the text's rows. Stored audio objects are removed
// once the delete is committed.
func handleDeleteText(ctx context.Context, db *sql.DB, store storage.Storage, al ActivityLogger, id int64) *HttpError {
	var audios []*models.KagyurAudio
	herr := inTransaction(ctx, db, func(tx *sql.Tx) *HttpError {
		t, err := models.FindKagyurText(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Text not found")
		}
		audios, err = models.KagyurAudios(qm.Where("text_id = ?", id)).All(ctx, tx)
		if err != nil {
			return NewInternalError(err)
		}
		if _, err := t.Delete(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_DELETE, consts.TBL_TEXTS, id, t, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if herr != nil {
		return herr
	}

	if store != nil {
		for _, a := range audios {
			if key, ok := store.KeyFromURL(a.AudioURL); ok {
				removeStoredObject(ctx, store, key)
			}
		}
	}
	return nil
}
