package consts

const (
	// Interface languages
	LANG_ENGLISH = "en"
	LANG_TIBETAN = "tb"

	// Publication status of news and videos
	PUB_STATUS_DRAFT       = "draft"
	PUB_STATUS_PUBLISHED   = "published"
	PUB_STATUS_UNPUBLISHED = "unpublished"

	// Audit actions
	AUDIT_CREATE  = "CREATE"
	AUDIT_UPDATE  = "UPDATE"
	AUDIT_DELETE  = "DELETE"
	AUDIT_LOGIN   = "LOGIN"
	AUDIT_LOGOUT  = "LOGOUT"
	AUDIT_PUBLISH = "PUBLISH"

	// Token types
	TOKEN_ACCESS  = "access"
	TOKEN_REFRESH = "refresh"

	// Audio defaults
	AUDIO_QUALITY_STANDARD = "standard"
	AUDIO_LANGUAGE_TIBETAN = "tibetan"

	// Pagination
	DEFAULT_PAGE_SIZE = 20
	MAX_PAGE_SIZE     = 100
	MAX_PAGE          = 100000

	// Bulk import
	MAX_IMPORT_SIZE = 20 << 20

	// gin context keys
	CTX_DB         = "DB"
	CTX_ES         = "ES_CLIENT"
	CTX_PUBLISHER  = "PUBLISHER"
	CTX_STORAGE    = "STORAGE"
	CTX_CACHE      = "CACHE"
	CTX_TOKENS     = "TOKENS"
	CTX_USER       = "USER"
	CTX_REQUEST_ID = "REQUEST_ID"

	HEADER_REQUEST_ID = "X-Request-ID"
)

// Table names, used by audit records and change events
const (
	TBL_MAIN_CATEGORIES   = "main_categories"
	TBL_SUB_CATEGORIES    = "sub_categories"
	TBL_SERMONS           = "sermons"
	TBL_YANAS             = "yanas"
	TBL_TRANSLATION_TYPES = "translation_types"
	TBL_TEXTS             = "kagyur_texts"
	TBL_TEXT_SUMMARIES    = "text_summaries"
	TBL_SPANS             = "yeshe_de_spans"
	TBL_VOLUMES           = "volumes"
	TBL_AUDIO             = "kagyur_audio"
	TBL_NEWS              = "kagyur_news"
	TBL_VIDEOS            = "kangyur_videos"
	TBL_EDITIONS          = "editions"
	TBL_USERS             = "users"
	TBL_AUDIT_LOGS        = "audit_logs"
)

// Catalog change events
const (
	E_TEXT_CREATE = "text.create"
	E_TEXT_UPDATE = "text.update"
	E_TEXT_DELETE = "text.delete"

	E_CATEGORY_UPDATE     = "category.update"
	E_SUB_CATEGORY_UPDATE = "sub_category.update"
	E_LOOKUP_UPDATE       = "lookup.update"

	E_AUDIO_CHANGE   = "audio.change"
	E_NEWS_CHANGE    = "news.change"
	E_VIDEO_CHANGE   = "video.change"
	E_EDITION_CHANGE = "edition.change"
	E_USER_CHANGE    = "user.change"
)

var AUDIO_QUALITY_PATTERN = "^(standard|128kbps|320kbps)$"

var PUB_STATUSES = map[string]bool{
	PUB_STATUS_DRAFT:       true,
	PUB_STATUS_PUBLISHED:   true,
	PUB_STATUS_UNPUBLISHED: true,
}
