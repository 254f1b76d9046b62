package api

import (
	"context"
	"net/http"

	"github.com/volatiletech/sqlboiler/v4/boil"
	"golang.org/x/sync/errgroup"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/models"
)

type ActivityRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func DashboardStatsHandler(c *gin.Context) {
	resp, err := handleDashboardStats(c.Request.Context(), getDB(c))
	concludeRequest(c, resp, err)
}

func handleDashboardStats(ctx context.Context, exec boil.ContextExecutor) (*DashboardStats, *HttpError) {
	stats := new(DashboardStats)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalTexts, err = models.KagyurTexts().Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.TotalCategories, err = models.MainCategories().Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.TotalSubCategories, err = models.SubCategories().Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.TotalAudio, err = models.KagyurAudios().Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.TotalNews, err = models.KagyurNewsItems().Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.TotalVideos, err = models.KangyurVideos().Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.TotalUsers, err = models.Users().Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.TotalEditions, err = models.Editions().Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.PublishedNews, err = models.KagyurNewsItems(PUBLISHED_MOD).Count(ctx, exec)
		return
	})
	g.Go(func() (err error) {
		stats.PublishedVideos, err = models.KangyurVideos(PUBLISHED_MOD).Count(ctx, exec)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, NewInternalError(err)
	}
	return stats, nil
}

func DashboardActivityHandler(c *gin.Context) {
	var r ActivityRequest
	if c.Bind(&r) != nil {
		return
	}

	logs, err := recentActivity(c.Request.Context(), getDB(c), r.Limit)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	c.JSON(http.StatusOK, logs)
}
