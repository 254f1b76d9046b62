package utils

import (
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/gin-gonic/gin.v1"
)

// BaseURL is the configured public URL of the API,
// or the one the request came in through.
func BaseURL(c *gin.Context) string {
	if u := viper.GetString("feeds.base-url"); u != "" {
		return strings.TrimRight(u, "/")
	}
	return ResolveScheme(c) + "://" + ResolveHost(c)
}

func ResolveScheme(c *gin.Context) string {
	r := c.Request
	switch {
	case r.Header.Get("X-Forwarded-Proto") == "https":
		return "https"
	case r.URL.Scheme == "https":
		return "https"
	case r.TLS != nil:
		return "https"
	default:
		return "http"
	}
}

func ResolveHost(c *gin.Context) string {
	r := c.Request
	switch {
	case r.Header.Get("X-Forwarded-Host") != "":
		return r.Header.Get("X-Forwarded-Host")
	case r.Host != "":
		return r.Host
	default:
		return r.URL.Host
	}
}
