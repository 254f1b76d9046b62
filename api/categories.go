package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
)

var (
	ACTIVE_MOD  = qm.Where("is_active = ?", true)
	ORDERED_MOD = qm.OrderBy("order_index, id")
)

const (
	errDupCategory    = "Category with this English name already exists"
	errDupSubCategory = "Sub-category with this English name already exists in this category"
)

// Public

func CategoriesHandler(c *gin.Context) {
	var r BaseRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleCategories(c.Request.Context(), getDB(c), r.Lang())
	concludeRequest(c, resp, err)
}

func SubCategoriesHandler(c *gin.Context) {
	var r BaseRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	resp, err := handleSubCategories(c.Request.Context(), getDB(c), id, r.Lang())
	concludeRequest(c, resp, err)
}

func handleCategories(ctx context.Context, exec boil.ContextExecutor, lang string) ([]*CategoryView, *HttpError) {
	cats, err := models.MainCategories(ACTIVE_MOD, ORDERED_MOD).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	subsByCat, err := loadSubCategories(ctx, exec, true)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := make([]*CategoryView, len(cats))
	for i, mc := range cats {
		resp[i] = NewCategoryView(lang, mc, subsByCat[mc.ID])
	}
	return resp, nil
}

func handleSubCategories(ctx context.Context, exec boil.ContextExecutor, categoryID int64, lang string) ([]*SubCategoryView, *HttpError) {
	exists, err := models.MainCategories(qm.Where("id = ?", categoryID), ACTIVE_MOD).Exists(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	if !exists {
		return nil, NewNotFoundError("Category not found")
	}

	subs, err := models.SubCategories(
		qm.Where("main_category_id = ?", categoryID),
		ACTIVE_MOD,
		ORDERED_MOD,
	).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := make([]*SubCategoryView, len(subs))
	for i, sc := range subs {
		resp[i] = NewSubCategoryView(lang, sc)
	}
	return resp, nil
}

// loadSubCategories groups sub categories by their main category
func loadSubCategories(ctx context.Context, exec boil.ContextExecutor, activeOnly bool) (map[int64][]*models.SubCategory, error) {
	mods := []qm.QueryMod{ORDERED_MOD}
	if activeOnly {
		mods = append(mods, ACTIVE_MOD)
	}
	subs, err := models.SubCategories(mods...).All(ctx, exec)
	if err != nil {
		return nil, err
	}

	byCat := make(map[int64][]*models.SubCategory)
	for _, sc := range subs {
		byCat[sc.MainCategoryID] = append(byCat[sc.MainCategoryID], sc)
	}
	return byCat, nil
}

// Admin

func AdminCategoriesHandler(c *gin.Context) {
	resp, err := handleAdminCategories(c.Request.Context(), getDB(c))
	concludeRequest(c, resp, err)
}

func AdminCategoryHandler(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		err.Abort(c)
		return
	}

	mc, e := models.FindMainCategory(c.Request.Context(), getDB(c), id)
	if e != nil {
		notFoundOr(e, "Category not found").Abort(c)
		return
	}
	subs, e := models.SubCategories(qm.Where("main_category_id = ?", id), ORDERED_MOD).All(c.Request.Context(), getDB(c))
	if e != nil {
		NewInternalError(e).Abort(c)
		return
	}
	c.JSON(http.StatusOK, &AdminCategory{MainCategory: mc, SubCategories: emptyIfNil(subs)})
}

func CreateCategoryHandler(c *gin.Context) {
	var r CategoryRequest
	if c.Bind(&r) != nil {
		return
	}

	mc := &models.MainCategory{
		NameEnglish:        r.NameEnglish,
		NameTibetan:        r.NameTibetan,
		DescriptionEnglish: r.DescriptionEnglish,
		DescriptionTibetan: r.DescriptionTibetan,
		OrderIndex:         r.OrderIndex,
		IsActive:           boolOr(r.IsActive, true),
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		if err := mc.Insert(ctx, tx); err != nil {
			return wrapDBError(err, errDupCategory)
		}
		if err := al.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_MAIN_CATEGORIES, mc.ID, nil, mc); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_CATEGORY_UPDATE, consts.TBL_MAIN_CATEGORIES, mc.ID)
	}

	concludeRequestWithStatus(c, http.StatusCreated, mc, err)
}

func UpdateCategoryHandler(c *gin.Context) {
	var r CategoryUpdateRequest
	if c.Bind(&r) != nil {
		return
	}
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	var mc *models.MainCategory
	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		var err error
		mc, err = models.FindMainCategory(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Category not found")
		}
		old := *mc

		setString(&mc.NameEnglish, r.NameEnglish)
		setNullString(&mc.NameTibetan, r.NameTibetan)
		setNullString(&mc.DescriptionEnglish, r.DescriptionEnglish)
		setNullString(&mc.DescriptionTibetan, r.DescriptionTibetan)
		setInt(&mc.OrderIndex, r.OrderIndex)
		setBool(&mc.IsActive, r.IsActive)

		if err := mc.Update(ctx, tx); err != nil {
			return wrapDBError(err, errDupCategory)
		}
		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_MAIN_CATEGORIES, mc.ID, old, mc); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_CATEGORY_UPDATE, consts.TBL_MAIN_CATEGORIES, id)
	}

	concludeRequest(c, mc, err)
}

func DeleteCategoryHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		mc, err := models.FindMainCategory(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "Category not found")
		}

		hasSubs, err := models.SubCategories(qm.Where("main_category_id = ?", id)).Exists(ctx, tx)
		if err != nil {
			return NewInternalError(err)
		}
		if hasSubs {
			return NewBadRequestError(errors.New("Cannot delete category with existing sub-categories"))
		}

		if _, err := mc.Delete(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_DELETE, consts.TBL_MAIN_CATEGORIES, id, mc, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_CATEGORY_UPDATE, consts.TBL_MAIN_CATEGORIES, id)
	}

	concludeRequest(c, MessageResponse{Message: "Category deleted successfully"}, err)
}

func handleAdminCategories(ctx context.Context, exec boil.ContextExecutor) ([]*AdminCategory, *HttpError) {
	cats, err := models.MainCategories(ORDERED_MOD).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}
	subsByCat, err := loadSubCategories(ctx, exec, false)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := make([]*AdminCategory, len(cats))
	for i, mc := range cats {
		resp[i] = &AdminCategory{MainCategory: mc, SubCategories: emptyIfNil(subsByCat[mc.ID])}
	}
	return resp, nil
}

// Admin sub categories

func AdminSubCategoriesHandler(c *gin.Context) {
	id, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	ctx := c.Request.Context()
	db := getDB(c)
	if _, err := models.FindMainCategory(ctx, db, id); err != nil {
		notFoundOr(err, "Category not found").Abort(c)
		return
	}

	subs, err := models.SubCategories(qm.Where("main_category_id = ?", id), ORDERED_MOD).All(ctx, db)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(subs))
}

func CreateSubCategoryHandler(c *gin.Context) {
	var r CategoryRequest
	if c.Bind(&r) != nil {
		return
	}
	categoryID, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}

	sc := &models.SubCategory{
		MainCategoryID:     categoryID,
		NameEnglish:        r.NameEnglish,
		NameTibetan:        r.NameTibetan,
		DescriptionEnglish: r.DescriptionEnglish,
		DescriptionTibetan: r.DescriptionTibetan,
		OrderIndex:         r.OrderIndex,
		IsActive:           boolOr(r.IsActive, true),
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		if _, err := models.FindMainCategory(ctx, tx, categoryID); err != nil {
			return notFoundOr(err, "Category not found")
		}
		if err := sc.Insert(ctx, tx); err != nil {
			return wrapDBError(err, errDupSubCategory)
		}
		if err := al.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_SUB_CATEGORIES, sc.ID, nil, sc); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_SUB_CATEGORY_UPDATE, consts.TBL_SUB_CATEGORIES, sc.ID)
	}

	concludeRequestWithStatus(c, http.StatusCreated, sc, err)
}

func UpdateSubCategoryHandler(c *gin.Context) {
	var r CategoryUpdateRequest
	if c.Bind(&r) != nil {
		return
	}
	categoryID, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}
	id, herr := paramID(c, "sid")
	if herr != nil {
		herr.Abort(c)
		return
	}

	var sc *models.SubCategory
	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		var err error
		sc, err = models.FindSubCategoryInCategory(ctx, tx, categoryID, id)
		if err != nil {
			return notFoundOr(err, "Sub-category not found in this category")
		}
		old := *sc

		setString(&sc.NameEnglish, r.NameEnglish)
		setNullString(&sc.NameTibetan, r.NameTibetan)
		setNullString(&sc.DescriptionEnglish, r.DescriptionEnglish)
		setNullString(&sc.DescriptionTibetan, r.DescriptionTibetan)
		setInt(&sc.OrderIndex, r.OrderIndex)
		setBool(&sc.IsActive, r.IsActive)

		if err := sc.Update(ctx, tx); err != nil {
			return wrapDBError(err, errDupSubCategory)
		}
		if err := al.Log(ctx, tx, consts.AUDIT_UPDATE, consts.TBL_SUB_CATEGORIES, sc.ID, old, sc); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_SUB_CATEGORY_UPDATE, consts.TBL_SUB_CATEGORIES, id)
	}

	concludeRequest(c, sc, err)
}

func DeleteSubCategoryHandler(c *gin.Context) {
	categoryID, herr := paramID(c, "id")
	if herr != nil {
		herr.Abort(c)
		return
	}
	id, herr := paramID(c, "sid")
	if herr != nil {
		herr.Abort(c)
		return
	}

	al := NewActivityLogger(c)
	ctx := c.Request.Context()
	err := inTransaction(ctx, getDB(c), func(tx *sql.Tx) *HttpError {
		sc, err := models.FindSubCategoryInCategory(ctx, tx, categoryID, id)
		if err != nil {
			return notFoundOr(err, "Sub-category not found in this category")
		}

		hasTexts, err := models.KagyurTexts(qm.Where("sub_category_id = ?", id)).Exists(ctx, tx)
		if err != nil {
			return NewInternalError(err)
		}
		if hasTexts {
			return NewBadRequestError(errors.New("Cannot delete sub-category with existing texts"))
		}

		if _, err := sc.Delete(ctx, tx); err != nil {
			return wrapDBError(err, "")
		}
		if err := al.Log(ctx, tx, consts.AUDIT_DELETE, consts.TBL_SUB_CATEGORIES, id, sc, nil); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		publishEvent(c, consts.E_SUB_CATEGORY_UPDATE, consts.TBL_SUB_CATEGORIES, id)
	}

	concludeRequest(c, MessageResponse{Message: "Sub-category deleted successfully"}, err)
}

func emptyIfNil[T any](s []*T) []*T {
	if s == nil {
		return make([]*T, 0)
	}
	return s
}
