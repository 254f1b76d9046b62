package api

import (
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/models"
)

func SetupRoutes(router *gin.Engine) {
	router.GET("/", RootHandler)
	router.GET("/health", HealthCheckHandler)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/login", LoginHandler)
	authGroup.POST("/signup", SignupHandler)
	authGroup.POST("/refresh", RefreshHandler)
	authGroup.POST("/logout", AuthenticationMiddleware(), LogoutHandler)
	authGroup.GET("/me", AuthenticationMiddleware(), MeHandler)

	v1.GET("/categories", CategoriesHandler)
	v1.GET("/categories/:id/subcategories", SubCategoriesHandler)
	v1.GET("/categories/:id/subcategories/:sid/texts", TextsHandler)
	v1.GET("/categories/:id/subcategories/:sid/texts/:tid", TextHandler)
	v1.GET("/categories/:id/subcategories/:sid/texts/:tid/audio", TextAudioHandler)
	v1.GET("/categories/:id/subcategories/:sid/audio", SubCategoryAudioHandler)

	v1.GET("/search", SearchHandler)
	v1.GET("/search/suggestions", SuggestionsHandler)
	v1.GET("/search/fulltext", FulltextHandler)
	v1.GET("/filters", FiltersHandler)
	v1.GET("/stats", StatsHandler)

	v1.GET("/audio", AudioListHandler)
	v1.GET("/audio/:id", AudioHandler)

	v1.GET("/news", NewsListHandler)
	v1.GET("/news/:id", staticOr("latest", LatestNewsHandler, NewsItemHandler))
	v1.GET("/videos", VideosHandler)
	v1.GET("/videos/:id", staticOr("latest", LatestVideosHandler,
		staticOr("search", SearchVideosHandler, VideoHandler)))
	v1.GET("/feeds/news.rss", NewsFeedHandler)

	v1.GET("/editions", EditionsHandler)
	v1.GET("/editions/:id", EditionHandler)

	for path, t := range lookupRoutes {
		v1.GET(path, LookupsHandler(t))
		v1.GET(path+"/:id", LookupHandler(t))
	}

	admin := v1.Group("/admin", AuthenticationMiddleware(), AdminMiddleware())

	admin.GET("/categories", AdminCategoriesHandler)
	admin.POST("/categories", CreateCategoryHandler)
	admin.GET("/categories/:id", AdminCategoryHandler)
	admin.PUT("/categories/:id", UpdateCategoryHandler)
	admin.DELETE("/categories/:id", DeleteCategoryHandler)
	admin.GET("/categories/:id/subcategories", AdminSubCategoriesHandler)
	admin.POST("/categories/:id/subcategories", CreateSubCategoryHandler)
	admin.PUT("/categories/:id/subcategories/:sid", UpdateSubCategoryHandler)
	admin.DELETE("/categories/:id/subcategories/:sid", DeleteSubCategoryHandler)
	admin.POST("/categories/:id/subcategories/:sid/texts", CreateTextHandler)

	admin.GET("/texts", AdminTextsHandler)
	admin.GET("/texts/:id", AdminTextHandler)
	admin.PUT("/texts/:id", UpdateTextHandler)
	admin.DELETE("/texts/:id", DeleteTextHandler)
	admin.POST("/texts/:id", staticOr("bulk-import", BulkImportHandler, notFoundHandler))
	admin.GET("/texts/:id/audio", AdminTextAudioHandler)
	admin.POST("/texts/:id/audio", UploadAudioHandler)

	admin.GET("/audio", AdminAudioListHandler)
	admin.GET("/audio/:id", AdminAudioHandler)
	admin.PUT("/audio/:id", UpdateAudioHandler)
	admin.PUT("/audio/:id/file", ReplaceAudioFileHandler)
	admin.DELETE("/audio/:id", DeleteAudioHandler)

	admin.GET("/news", AdminNewsListHandler)
	admin.POST("/news", CreateNewsHandler)
	admin.GET("/news/:id", staticOr("stats", NewsStatsHandler, AdminNewsItemHandler))
	admin.PUT("/news/:id", UpdateNewsHandler)
	admin.DELETE("/news/:id", DeleteNewsHandler)
	admin.PATCH("/news/:id/publish", PublishNewsHandler)
	admin.PATCH("/news/:id/unpublish", UnpublishNewsHandler)

	admin.GET("/videos", AdminVideosHandler)
	admin.POST("/videos", CreateVideoHandler)
	admin.GET("/videos/:id", staticOr("stats", VideoStatsHandler, AdminVideoHandler))
	admin.PUT("/videos/:id", UpdateVideoHandler)
	admin.DELETE("/videos/:id", DeleteVideoHandler)
	admin.PATCH("/videos/:id/publish", PublishVideoHandler)
	admin.PATCH("/videos/:id/unpublish", UnpublishVideoHandler)

	admin.GET("/editions", AdminEditionsHandler)
	admin.POST("/editions", CreateEditionHandler)
	admin.GET("/editions/:id", AdminEditionHandler)
	admin.PUT("/editions/:id", UpdateEditionHandler)
	admin.DELETE("/editions/:id", DeleteEditionHandler)

	for path, t := range lookupRoutes {
		admin.GET(path, AdminLookupsHandler(t))
		admin.POST(path, CreateLookupHandler(t))
		admin.GET(path+"/:id", AdminLookupHandler(t))
		admin.PUT(path+"/:id", UpdateLookupHandler(t))
		admin.DELETE(path+"/:id", DeleteLookupHandler(t))
	}

	admin.GET("/users", UsersHandler)
	admin.POST("/users", CreateUserHandler)
	admin.GET("/users/:id", UserHandler)
	admin.PUT("/users/:id", UpdateUserHandler)
	admin.DELETE("/users/:id", DeleteUserHandler)

	admin.GET("/audit/logs", AuditLogsHandler)
	admin.GET("/dashboard/stats", DashboardStatsHandler)
	admin.GET("/dashboard/activity", DashboardActivityHandler)
}

var lookupRoutes = map[string]models.LookupTable{
	"/sermons":           models.SermonsTable,
	"/yanas":             models.YanasTable,
	"/translation-types": models.TranslationTypesTable,
}

// staticOr serves a static path segment that shares its position with the :id wildcard.
// The router can't register both side by side.
func staticOr(segment string, static gin.HandlerFunc, byID gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("id") == segment {
			static(c)
			return
		}
		byID(c)
	}
}

func notFoundHandler(c *gin.Context) {
	NewNotFoundError("Not Found").Abort(c)
}
