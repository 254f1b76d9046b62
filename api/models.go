package api

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/es"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

type BaseRequest struct {
	Language string `json:"lang" form:"lang" binding:"omitempty"`
}

func (r BaseRequest) Lang() string {
	return utils.NormalizeLanguage(r.Language)
}

type ListRequest struct {
	BaseRequest
	Page  int `json:"page" form:"page" binding:"omitempty,min=1"`
	Limit int `json:"limit" form:"limit" binding:"omitempty,min=1"`
}

// paging returns the effective page, page size and offset.
// Page sizes above MAX_PAGE_SIZE and pages above MAX_PAGE are clamped.
func (r ListRequest) paging() (page, limit, offset int) {
	page = utils.Min(utils.MaxInt(r.Page, 1), consts.MAX_PAGE)
	limit = r.Limit
	if limit <= 0 {
		limit = consts.DEFAULT_PAGE_SIZE
	}
	limit = utils.Min(limit, consts.MAX_PAGE_SIZE)
	return page, limit, (page - 1) * limit
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int64 `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := totalPages(total, limit)
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      int64(page) < pages,
		HasPrev:      page > 1,
	}
}

// PageInfo is the flat paging envelope of search, media and edition lists.
type PageInfo struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

func NewPageInfo(page, limit int, total int64) PageInfo {
	return PageInfo{Total: total, Page: page, Limit: limit, Pages: totalPages(total, limit)}
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Localization

// localize picks the Tibetan value when requested and present.
func localize(lang string, english string, tibetan null.String) string {
	if lang == consts.LANG_TIBETAN && tibetan.Valid && tibetan.String != "" {
		return tibetan.String
	}
	return english
}

func localizeNull(lang string, english null.String, tibetan null.String) null.String {
	if lang == consts.LANG_TIBETAN && tibetan.Valid && tibetan.String != "" {
		return tibetan
	}
	return english
}

// Categories

type CategoryView struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Description   null.String        `json:"description"`
	OrderIndex    int                `json:"order_index"`
	IsActive      bool               `json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	SubCategories []*SubCategoryView `json:"sub_categories"`
}

type SubCategoryView struct {
	ID             int64       `json:"id"`
	MainCategoryID int64       `json:"main_category_id"`
	Name           string      `json:"name"`
	Description    null.String `json:"description"`
	OrderIndex     int         `json:"order_index"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func NewCategoryView(lang string, mc *models.MainCategory, subs []*models.SubCategory) *CategoryView {
	v := &CategoryView{
		ID:            mc.ID,
		Name:          localize(lang, mc.NameEnglish, mc.NameTibetan),
		Description:   localizeNull(lang, mc.DescriptionEnglish, mc.DescriptionTibetan),
		OrderIndex:    mc.OrderIndex,
		IsActive:      mc.IsActive,
		CreatedAt:     mc.CreatedAt,
		UpdatedAt:     mc.UpdatedAt,
		SubCategories: make([]*SubCategoryView, 0),
	}
	for _, sc := range subs {
		v.SubCategories = append(v.SubCategories, NewSubCategoryView(lang, sc))
	}
	return v
}

func NewSubCategoryView(lang string, sc *models.SubCategory) *SubCategoryView {
	return &SubCategoryView{
		ID:             sc.ID,
		MainCategoryID: sc.MainCategoryID,
		Name:           localize(lang, sc.NameEnglish, sc.NameTibetan),
		Description:    localizeNull(lang, sc.DescriptionEnglish, sc.DescriptionTibetan),
		OrderIndex:     sc.OrderIndex,
		IsActive:       sc.IsActive,
		CreatedAt:      sc.CreatedAt,
		UpdatedAt:      sc.UpdatedAt,
	}
}

// AdminCategory is the untranslated admin view
type AdminCategory struct {
	*models.MainCategory
	SubCategories []*models.SubCategory `json:"sub_categories"`
}

type CategoryRequest struct {
	NameEnglish        string      `json:"name_english" binding:"required,max=255"`
	NameTibetan        null.String `json:"name_tibetan"`
	DescriptionEnglish null.String `json:"description_english"`
	DescriptionTibetan null.String `json:"description_tibetan"`
	OrderIndex         int         `json:"order_index"`
	IsActive           *bool       `json:"is_active"`
}

type CategoryUpdateRequest struct {
	NameEnglish        *string `json:"name_english" binding:"omitempty,min=1,max=255"`
	NameTibetan        *string `json:"name_tibetan"`
	DescriptionEnglish *string `json:"description_english"`
	DescriptionTibetan *string `json:"description_tibetan"`
	OrderIndex         *int    `json:"order_index"`
	IsActive           *bool   `json:"is_active"`
}

// Lookups

type LookupView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
	IsActive   bool   `json:"is_active"`
}

func NewLookupView(lang string, l *models.Lookup) *LookupView {
	return &LookupView{
		ID:         l.ID,
		Name:       localize(lang, l.NameEnglish, l.NameTibetan),
		OrderIndex: l.OrderIndex,
		IsActive:   l.IsActive,
	}
}

type LookupRequest struct {
	NameEnglish string      `json:"name_english" binding:"required,max=255"`
	NameTibetan null.String `json:"name_tibetan"`
	OrderIndex  int         `json:"order_index"`
	IsActive    *bool       `json:"is_active"`
}

type LookupUpdateRequest struct {
	NameEnglish *string `json:"name_english" binding:"omitempty,min=1,max=255"`
	NameTibetan *string `json:"name_tibetan"`
	OrderIndex  *int    `json:"order_index"`
	IsActive    *bool   `json:"is_active"`
}

// Texts

// NamedRef is a compact bilingual reference to a related row.
type NamedRef struct {
	ID          int64       `json:"id"`
	NameEnglish string      `json:"name_english"`
	NameTibetan null.String `json:"name_tibetan"`
}

func lookupRef(l *models.Lookup) *NamedRef {
	if l == nil {
		return nil
	}
	return &NamedRef{ID: l.ID, NameEnglish: l.NameEnglish, NameTibetan: l.NameTibetan}
}

type SubCategoryRef struct {
	NamedRef
	MainCategory *NamedRef `json:"main_category"`
}

type SpanView struct {
	ID      int64            `json:"id"`
	TextID  int64            `json:"text_id"`
	Volumes []*models.Volume `json:"volumes"`
}

// TextDetail is a text with everything hanging off it.
type TextDetail struct {
	*models.KagyurText
	SubCategory     *SubCategoryRef       `json:"sub_category,omitempty"`
	Sermon          *NamedRef             `json:"sermon"`
	Yana            *NamedRef             `json:"yana"`
	TranslationType *NamedRef             `json:"translation_type"`
	TextSummary     *models.TextSummary   `json:"text_summary"`
	YesheDeSpans    []*SpanView           `json:"yeshe_de_spans"`
	AudioFiles      []*models.KagyurAudio `json:"audio_files,omitempty"`
}

type TextsResponse struct {
	Texts      []*models.KagyurText `json:"texts"`
	Pagination Pagination           `json:"pagination"`
}

type TextSummaryRequest struct {
	TranslatorHomageEnglish  null.String `json:"translator_homage_english"`
	TranslatorHomageTibetan  null.String `json:"translator_homage_tibetan"`
	PurposeEnglish           null.String `json:"purpose_english"`
	PurposeTibetan           null.String `json:"purpose_tibetan"`
	TextSummaryEnglish       null.String `json:"text_summary_english"`
	TextSummaryTibetan       null.String `json:"text_summary_tibetan"`
	KeywordAndMeaningEnglish null.String `json:"keyword_and_meaning_english"`
	KeywordAndMeaningTibetan null.String `json:"keyword_and_meaning_tibetan"`
	RelationEnglish          null.String `json:"relation_english"`
	RelationTibetan          null.String `json:"relation_tibetan"`
	QuestionAndAnswerEnglish null.String `json:"question_and_answer_english"`
	QuestionAndAnswerTibetan null.String `json:"question_and_answer_tibetan"`
	TranslatorNotesEnglish   null.String `json:"translator_notes_english"`
	TranslatorNotesTibetan   null.String `json:"translator_notes_tibetan"`
}

// apply copies all sections onto s, keeping its identity.
func (r *TextSummaryRequest) apply(s *models.TextSummary) {
	s.TranslatorHomageEnglish = r.TranslatorHomageEnglish
	s.TranslatorHomageTibetan = r.TranslatorHomageTibetan
	s.PurposeEnglish = r.PurposeEnglish
	s.PurposeTibetan = r.PurposeTibetan
	s.TextSummaryEnglish = r.TextSummaryEnglish
	s.TextSummaryTibetan = r.TextSummaryTibetan
	s.KeywordAndMeaningEnglish = r.KeywordAndMeaningEnglish
	s.KeywordAndMeaningTibetan = r.KeywordAndMeaningTibetan
	s.RelationEnglish = r.RelationEnglish
	s.RelationTibetan = r.RelationTibetan
	s.QuestionAndAnswerEnglish = r.QuestionAndAnswerEnglish
	s.QuestionAndAnswerTibetan = r.QuestionAndAnswerTibetan
	s.TranslatorNotesEnglish = r.TranslatorNotesEnglish
	s.TranslatorNotesTibetan = r.TranslatorNotesTibetan
}

type VolumeRequest struct {
	VolumeNumber null.String `json:"volume_number"`
	StartPage    null.String `json:"start_page"`
	EndPage      null.String `json:"end_page"`
	OrderIndex   int         `json:"order_index"`
}

type SpanRequest struct {
	Volumes []VolumeRequest `json:"volumes"`
}

type TextCreateRequest struct {
	DergeID           null.String         `json:"derge_id"`
	YesheDeID         null.String         `json:"yeshe_de_id"`
	TibetanTitle      null.String         `json:"tibetan_title"`
	ChineseTitle      null.String         `json:"chinese_title"`
	SanskritTitle     null.String         `json:"sanskrit_title"`
	EnglishTitle      null.String         `json:"english_title"`
	SermonID          null.Int64          `json:"sermon_id"`
	YanaID            null.Int64          `json:"yana_id"`
	TranslationTypeID null.Int64          `json:"translation_type_id"`
	OrderIndex        int                 `json:"order_index"`
	IsActive          *bool               `json:"is_active"`
	TextSummary       *TextSummaryRequest `json:"text_summary"`
	YesheDeSpans      []SpanRequest       `json:"yeshe_de_spans"`
}

// ImportItem is one element of a JSON bulk import.
type ImportItem struct {
	TextCreateRequest
	SubCategoryID int64 `json:"sub_category_id"`
}

type TextUpdateRequest struct {
	SubCategoryID     *int64              `json:"sub_category_id"`
	DergeID           *string             `json:"derge_id"`
	YesheDeID         *string             `json:"yeshe_de_id"`
	TibetanTitle      *string             `json:"tibetan_title"`
	ChineseTitle      *string             `json:"chinese_title"`
	SanskritTitle     *string             `json:"sanskrit_title"`
	EnglishTitle      *string             `json:"english_title"`
	SermonID          *int64              `json:"sermon_id"`
	YanaID            *int64              `json:"yana_id"`
	TranslationTypeID *int64              `json:"translation_type_id"`
	OrderIndex        *int                `json:"order_index"`
	IsActive          *bool               `json:"is_active"`
	TextSummary       *TextSummaryRequest `json:"text_summary"`
	YesheDeSpans      *[]SpanRequest      `json:"yeshe_de_spans"`
}

type TextCreateResponse struct {
	Message string `json:"message"`
	TextID  int64  `json:"text_id"`
	Status  string `json:"status"`
}

type AdminTextsRequest struct {
	ListRequest
	CategoryID    int64  `form:"category_id" binding:"omitempty,min=1"`
	SubCategoryID int64  `form:"sub_category_id" binding:"omitempty,min=1"`
	Search        string `form:"search"`
}

type ImportResponse struct {
	Message       string   `json:"message"`
	ImportedCount int      `json:"imported_count"`
	ErrorCount    int      `json:"error_count"`
	Errors        []string `json:"errors"`
	Status        string   `json:"status"`
}

// Search

type SearchRequest struct {
	ListRequest
	Query             string `form:"q"`
	CategoryID        int64  `form:"category_id" binding:"omitempty,min=1"`
	SubCategoryID     int64  `form:"sub_category_id" binding:"omitempty,min=1"`
	SermonID          int64  `form:"sermon_id" binding:"omitempty,min=1"`
	YanaID            int64  `form:"yana_id" binding:"omitempty,min=1"`
	TranslationTypeID int64  `form:"translation_type_id" binding:"omitempty,min=1"`
}

type SearchResponse struct {
	PageInfo
	Items []*TextDetail `json:"items"`
}

type SuggestionsRequest struct {
	BaseRequest
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,min=1"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Query       string   `json:"query"`
	Language    string   `json:"language"`
}

type FulltextRequest struct {
	ListRequest
	Query string `form:"q" binding:"required"`
}

type FulltextResponse struct {
	PageInfo
	Items []*es.TextHit `json:"items"`
}

type FiltersResponse struct {
	Categories       []*CategoryView `json:"categories"`
	Sermons          []*LookupView   `json:"sermons"`
	Yanas            []*LookupView   `json:"yanas"`
	TranslationTypes []*LookupView   `json:"translation_types"`
	Language         string          `json:"language"`
}

// Media

type AudioRequest struct {
	ListRequest
	Narrator string `form:"narrator"`
	Quality  string `form:"quality"`
	Language string `form:"language"`
	TextID   int64  `form:"text_id" binding:"omitempty,min=1"`
	// taken from the path
	SubCategoryID int64 `form:"-"`
}

type AudioListResponse struct {
	PageInfo
	AudioFiles []*models.KagyurAudio `json:"audio_files"`
}

type AudioUpdateRequest struct {
	NarratorNameEnglish *string `json:"narrator_name_english" binding:"omitempty,min=1"`
	NarratorNameTibetan *string `json:"narrator_name_tibetan"`
	AudioQuality        *string `json:"audio_quality"`
	AudioLanguage       *string `json:"audio_language"`
	Duration            *int    `json:"duration"`
	OrderIndex          *int    `json:"order_index"`
	IsActive            *bool   `json:"is_active"`
}

type PublicationListRequest struct {
	ListRequest
	Status string `form:"status"`
	Search string `form:"search"`
}

type LatestRequest struct {
	BaseRequest
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type PublishRequest struct {
	PublishedDate *time.Time `json:"published_date"`
}

type NewsRequest struct {
	TibetanTitle   string     `json:"tibetan_title" binding:"required"`
	EnglishTitle   string     `json:"english_title" binding:"required"`
	TibetanContent string     `json:"tibetan_content" binding:"required"`
	EnglishContent string     `json:"english_content" binding:"required"`
	PublishedDate  *time.Time `json:"published_date"`
	IsActive       *bool      `json:"is_active"`
}

type NewsUpdateRequest struct {
	TibetanTitle      *string    `json:"tibetan_title" binding:"omitempty,min=1"`
	EnglishTitle      *string    `json:"english_title" binding:"omitempty,min=1"`
	TibetanContent    *string    `json:"tibetan_content" binding:"omitempty,min=1"`
	EnglishContent    *string    `json:"english_content" binding:"omitempty,min=1"`
	PublicationStatus *string    `json:"publication_status"`
	PublishedDate     *time.Time `json:"published_date"`
	IsActive          *bool      `json:"is_active"`
}

type NewsListResponse struct {
	PageInfo
	News []*models.KagyurNews `json:"news"`
}

type VideoRequest struct {
	TibetanTitle       string     `json:"tibetan_title" binding:"required"`
	EnglishTitle       string     `json:"english_title" binding:"required"`
	TibetanDescription string     `json:"tibetan_description" binding:"required"`
	EnglishDescription string     `json:"english_description" binding:"required"`
	VideoURL           string     `json:"video_url" binding:"required"`
	PublishedDate      *time.Time `json:"published_date"`
	IsActive           *bool      `json:"is_active"`
}

type VideoUpdateRequest struct {
	TibetanTitle       *string    `json:"tibetan_title" binding:"omitempty,min=1"`
	EnglishTitle       *string    `json:"english_title" binding:"omitempty,min=1"`
	TibetanDescription *string    `json:"tibetan_description" binding:"omitempty,min=1"`
	EnglishDescription *string    `json:"english_description" binding:"omitempty,min=1"`
	VideoURL           *string    `json:"video_url"`
	PublicationStatus  *string    `json:"publication_status"`
	PublishedDate      *time.Time `json:"published_date"`
	IsActive           *bool      `json:"is_active"`
}

type VideoSearchRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,min=1"`
}

type VideoSearchResponse struct {
	Videos []*models.KangyurVideo `json:"videos"`
	Query  string                 `json:"query"`
}

type VideosListResponse struct {
	PageInfo
	Videos []*models.KangyurVideo `json:"videos"`
}

type PublicationStats struct {
	Total       int64 `json:"total"`
	Published   int64 `json:"published"`
	Draft       int64 `json:"draft"`
	Unpublished int64 `json:"unpublished"`
	Active      int64 `json:"active"`
}

func validVideoURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// Editions

type EditionRequest struct {
	NameEnglish        string      `json:"name_english" binding:"required,max=255"`
	NameTibetan        null.String `json:"name_tibetan"`
	DescriptionEnglish null.String `json:"description_english"`
	DescriptionTibetan null.String `json:"description_tibetan"`
	Abbreviation       null.String `json:"abbreviation"`
	Publisher          null.String `json:"publisher"`
	PublicationYear    null.Int    `json:"publication_year"`
	Location           null.String `json:"location"`
	TotalVolumes       null.Int    `json:"total_volumes"`
	OrderIndex         int         `json:"order_index"`
	IsActive           *bool       `json:"is_active"`
}

type EditionUpdateRequest struct {
	NameEnglish        *string `json:"name_english" binding:"omitempty,min=1,max=255"`
	NameTibetan        *string `json:"name_tibetan"`
	DescriptionEnglish *string `json:"description_english"`
	DescriptionTibetan *string `json:"description_tibetan"`
	Abbreviation       *string `json:"abbreviation"`
	Publisher          *string `json:"publisher"`
	PublicationYear    *int    `json:"publication_year"`
	Location           *string `json:"location"`
	TotalVolumes       *int    `json:"total_volumes"`
	OrderIndex         *int    `json:"order_index"`
	IsActive           *bool   `json:"is_active"`
}

type EditionView struct {
	*models.Edition
	Name        string      `json:"name"`
	Description null.String `json:"description"`
}

func NewEditionView(lang string, e *models.Edition) *EditionView {
	return &EditionView{
		Edition:     e,
		Name:        localize(lang, e.NameEnglish, e.NameTibetan),
		Description: localizeNull(lang, e.DescriptionEnglish, e.DescriptionTibetan),
	}
}

type EditionsResponse struct {
	PageInfo
	Editions []*EditionView `json:"editions"`
}

// Auth & users

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=50"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	FullName null.String `json:"full_name"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Tokens  interface{}  `json:"tokens"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UsersRequest struct {
	ListRequest
	Search string `form:"search"`
}

type UsersResponse struct {
	Users      []*models.User `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

type UserCreateRequest struct {
	SignupRequest
	IsActive *bool `json:"is_active"`
	IsAdmin  bool  `json:"is_admin"`
}

type UserUpdateRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

// Audit

type AuditRequest struct {
	ListRequest
	UserID    int64  `form:"user_id" binding:"omitempty,min=1"`
	Action    string `form:"action"`
	TableName string `form:"table_name"`
}

type AuditPagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type AuditResponse struct {
	AuditLogs  []*models.AuditLogWithUser `json:"audit_logs"`
	Pagination AuditPagination            `json:"pagination"`
}

type DashboardStats struct {
	TotalTexts         int64 `json:"total_texts"`
	TotalCategories    int64 `json:"total_categories"`
	TotalSubCategories int64 `json:"total_sub_categories"`
	TotalAudio         int64 `json:"total_audio"`
	TotalNews          int64 `json:"total_news"`
	TotalVideos        int64 `json:"total_videos"`
	TotalUsers         int64 `json:"total_users"`
	TotalEditions      int64 `json:"total_editions"`
	PublishedNews      int64 `json:"published_news"`
	PublishedVideos    int64 `json:"published_videos"`
}

// Optional field helpers for partial updates

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setNullString(dst *null.String, src *string) {
	if src != nil {
		*dst = null.StringFrom(*src)
	}
}

func setNullInt(dst *null.Int, src *int) {
	if src != nil {
		*dst = null.IntFrom(*src)
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// nullID treats missing and zero references alike
func nullID(id null.Int64) null.Int64 {
	if !id.Valid || id.Int64 == 0 {
		return null.Int64{}
	}
	return id
}
