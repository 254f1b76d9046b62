package api

import (
	"context"
	"database/sql"
	"net/http"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/cache"
	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/es"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

const (
	DEFAULT_SUGGESTIONS = 10
	MAX_SUGGESTIONS     = 20
)

func SearchHandler(c *gin.Context) {
	var r SearchRequest
	if c.Bind(&r) != nil {
		return
	}

	r.Query = utils.NormalizeQuery(r.Query)
	lang := r.Lang()
	if r.Language == "" {
		lang = utils.DetectLanguage(r.Query, c.Request.Header.Get("Accept-Language"))
	}

	resp, err := handleSearch(c.Request.Context(), getDB(c), r, lang)
	concludeRequest(c, resp, err)
}

func handleSearch(ctx context.Context, exec boil.ContextExecutor, r SearchRequest, lang string) (*SearchResponse, *HttpError) {
	mods := []qm.QueryMod{ACTIVE_MOD}

	if r.Query != "" {
		p := "%" + r.Query + "%"
		if lang == consts.LANG_TIBETAN {
			mods = append(mods, qm.Where("(tibetan_title ILIKE ? OR chinese_title ILIKE ? OR sanskrit_title ILIKE ?)", p, p, p))
		} else {
			mods = append(mods, qm.Where("english_title ILIKE ?", p))
		}
	}
	if r.SubCategoryID > 0 {
		mods = append(mods, qm.Where("sub_category_id = ?", r.SubCategoryID))
	}
	if r.CategoryID > 0 {
		mods = append(mods, qm.Where("sub_category_id IN (SELECT id FROM sub_categories WHERE main_category_id = ?)", r.CategoryID))
	}
	if r.SermonID > 0 {
		mods = append(mods, qm.Where("sermon_id = ?", r.SermonID))
	}
	if r.YanaID > 0 {
		mods = append(mods, qm.Where("yana_id = ?", r.YanaID))
	}
	if r.TranslationTypeID > 0 {
		mods = append(mods, qm.Where("translation_type_id = ?", r.TranslationTypeID))
	}

	page, limit, offset := r.paging()
	total, err := models.KagyurTexts(mods...).Count(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp := &SearchResponse{PageInfo: NewPageInfo(page, limit, total), Items: make([]*TextDetail, 0)}
	if total == 0 {
		return resp, nil
	}

	mods = append(mods, ORDERED_MOD, qm.Limit(limit), qm.Offset(offset))
	texts, err := models.KagyurTexts(mods...).All(ctx, exec)
	if err != nil {
		return nil, NewInternalError(err)
	}

	resp.Items, err = loadTextDetails(ctx, exec, texts, detailOptions{withSubCategory: true})
	if err != nil {
		return nil, NewInternalError(err)
	}
	return resp, nil
}

func FiltersHandler(c *gin.Context) {
	var r BaseRequest
	if c.Bind(&r) != nil {
		return
	}

	resp, err := handleFilters(c.Request.Context(), getDB(c), r.Lang())
	concludeRequest(c, resp, err)
}

func handleFilters(ctx context.Context, exec boil.ContextExecutor, lang string) (*FiltersResponse, *HttpError) {
	cats, herr := handleCategories(ctx, exec, lang)
	if herr != nil {
		return nil, herr
	}

	resp := &FiltersResponse{Categories: cats, Language: lang}
	lookups := []struct {
		table models.LookupTable
		dst   *[]*LookupView
	}{
		{models.SermonsTable, &resp.Sermons},
		{models.YanasTable, &resp.Yanas},
		{models.TranslationTypesTable, &resp.TranslationTypes},
	}
	for _, l := range lookups {
		views, err := activeLookups(ctx, exec, l.table, lang)
		if err != nil {
			return nil, NewInternalError(err)
		}
		*l.dst = views
	}

	return resp, nil
}

func activeLookups(ctx context.Context, exec boil.ContextExecutor, table models.LookupTable, lang string) ([]*LookupView, error) {
	items, err := table.Query(ACTIVE_MOD, ORDERED_MOD).All(ctx, exec)
	if err != nil {
		return nil, err
	}
	views := make([]*LookupView, len(items))
	for i, l := range items {
		views[i] = NewLookupView(lang, l)
	}
	return views, nil
}

func SuggestionsHandler(c *gin.Context) {
	var r SuggestionsRequest
	if c.Bind(&r) != nil {
		return
	}

	r.Query = utils.NormalizeQuery(r.Query)
	if utf8.RuneCountInString(r.Query) < 2 {
		NewBadRequestError(errors.New("Query must be at least 2 characters")).Abort(c)
		return
	}
	lang := r.Lang()
	if r.Language == "" {
		lang = utils.DetectLanguage(r.Query, c.Request.Header.Get("Accept-Language"))
	}

	resp, err := handleSuggestions(c.Request.Context(), getDB(c), r.Query, lang, r.Limit)
	concludeRequest(c, resp, err)
}

func handleSuggestions(ctx context.Context, exec boil.ContextExecutor, q, lang string, limit int) (*SuggestionsResponse, *HttpError) {
	if limit <= 0 {
		limit = DEFAULT_SUGGESTIONS
	}
	limit = utils.Min(limit, MAX_SUGGESTIONS)

	col := "english_title"
	if lang == consts.LANG_TIBETAN {
		col = "tibetan_title"
	}

	var rows []struct {
		Title string `boil:"title"`
	}
	err := queries.Raw(`SELECT DISTINCT `+col+` AS title FROM kagyur_texts
WHERE is_active = true AND `+col+` IS NOT NULL AND `+col+` ILIKE $1
ORDER BY title LIMIT $2`, "%"+q+"%", limit).Bind(ctx, exec, &rows)
	if err != nil {
		return nil, NewInternalError(errors.Wrap(err, "suggestions"))
	}

	resp := &SuggestionsResponse{Suggestions: make([]string, len(rows)), Query: q, Language: lang}
	for i := range rows {
		resp.Suggestions[i] = rows[i].Title
	}
	return resp, nil
}

func FulltextHandler(c *gin.Context) {
	var r FulltextRequest
	if c.Bind(&r) != nil {
		return
	}

	esc := getESC(c)
	if esc == nil {
		NewHttpError(http.StatusServiceUnavailable, errors.New("Full-text search is not configured"), gin.ErrorTypePublic).Abort(c)
		return
	}

	index := es.NewTextsIndex(esc, getDB(c), viper.GetString("elasticsearch.index"))
	resp, err := handleFulltext(c.Request.Context(), index, r)
	concludeRequest(c, resp, err)
}

type fulltextSearcher interface {
	Search(ctx context.Context, q string, from, size int) (*es.SearchResult, error)
}

func handleFulltext(ctx context.Context, index fulltextSearcher, r FulltextRequest) (*FulltextResponse, *HttpError) {
	q := utils.NormalizeQuery(r.Query)
	if q == "" {
		return nil, NewBadRequestError(errors.New("Query is required"))
	}

	page, limit, offset := r.paging()
	res, err := index.Search(ctx, q, offset, limit)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &FulltextResponse{PageInfo: NewPageInfo(page, limit, res.Total), Items: res.Hits}, nil
}

func StatsHandler(c *gin.Context) {
	resp, err := handleStats(c.Request.Context(), getDB(c), getCache(c))
	concludeRequest(c, resp, err)
}

// handleStats serves the cached snapshot and falls back to a live load.
func handleStats(ctx context.Context, db *sql.DB, cm cache.CacheManager) (*cache.CatalogStats, *HttpError) {
	if cm != nil {
		if stats := cm.CatalogStats().Get(); stats != nil {
			return stats, nil
		}
	}

	stats, err := cache.LoadCatalogStats(ctx, db)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return stats, nil
}
