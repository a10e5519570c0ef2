package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/models"
	"sitescrape-go/pkg/scraper"
	"sitescrape-go/pkg/services"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports that the server is up
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListPlugins returns the available site plugins
func ListPlugins(service *services.ScrapeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.PluginList{Names: service.Plugins()})
	}
}

// Scrape runs a plugin and returns where its CSV can be fetched
func Scrape(service *services.ScrapeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// An unreadable body is treated like an empty one
			logger.Debug("scrape: ignoring unreadable body: %v", err)
			req = models.ScrapeRequest{}
		}

		if strings.TrimSpace(req.Site) == "" || strings.TrimSpace(req.Query) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "site and query are required"})
			return
		}

		out, err := service.Scrape(c.Request.Context(), req)
		if err != nil {
			logger.LogError(err, "scrape: site=%s failed", req.Site)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": scraper.UserMessage(err)})
			return
		}

		// The name carries the raw query, so it is escaped for the URL.
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"count":    out.Count,
			"file":     "static/" + out.File,
			"file_url": absURL(c, "static/"+url.PathEscape(out.File)),
		})
	}
}

func absURL(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, c.Request.Host, strings.TrimLeft(path, "/"))
}
