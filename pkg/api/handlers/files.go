package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"sitescrape-go/pkg/services"

	"github.com/gin-gonic/gin"
)

// StaticFile serves a generated CSV
func StaticFile(service *services.ScrapeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		data, err := service.File(name)
		if err != nil {
			fileError(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	}
}

// DataFile returns a generated CSV as {headers, rows}
func DataFile(service *services.ScrapeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, err := service.Table(c.Param("name"))
		if err != nil {
			fileError(c, err)
			return
		}
		c.JSON(http.StatusOK, table)
	}
}

// DebugLogs returns and clears the buffered scrape logs, base64 encoded
func DebugLogs(service *services.ScrapeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		text := service.DrainLogs()
		if text == "" {
			c.JSON(http.StatusOK, gin.H{"logs_b64": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs_b64": base64.StdEncoding.EncodeToString([]byte(text))})
	}
}

func fileError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrFileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
