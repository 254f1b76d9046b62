package api

import (
	"net/http"

	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/feeds"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

const FEED_ITEMS = 20

// NewsFeedHandler renders the latest published news as RSS 2.0
func NewsFeedHandler(c *gin.Context) {
	var r BaseRequest
	if c.Bind(&r) != nil {
		return
	}

	mods := append(publicNewsMods(), RECENT_MOD, qm.Limit(FEED_ITEMS))
	news, err := models.KagyurNewsItems(mods...).All(c.Request.Context(), getDB(c))
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}

	baseURL := utils.BaseURL(c)
	feed := feeds.NewsFeed(news, baseURL, r.Lang())
	content, err := feed.RssFeed(baseURL + c.Request.URL.RequestURI()).ToXML()
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, content)
}
