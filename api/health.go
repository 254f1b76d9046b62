package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/version"
)

func RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Buddhist Digital Library API",
		"version": version.Version,
	})
}

func HealthCheckHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	if err := getDB(c).PingContext(ctx); err != nil {
		c.JSON(http.StatusFailedDependency, gin.H{
			"status": "error",
			"error":  fmt.Sprintf("DB ping: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
