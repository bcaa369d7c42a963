// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const isoDateLayout = "2006-01-02"

// requireAPIKey extracts the mandatory apikey query parameter, answering a
// 400 with an explanatory body when it is missing.
func requireAPIKey(c *gin.Context) (string, bool) {
	apiKey := c.Query("apikey")
	if apiKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apikey parameter is required"})
		return "", false
	}
	return apiKey, true
}

// requireDateRange extracts the mandatory from/to ISO date parameters for
// time-scoped reports.
func requireDateRange(c *gin.Context) (string, string, bool) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to parameters are required"})
		return "", "", false
	}
	if _, err := time.Parse(isoDateLayout, from); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an ISO date (YYYY-MM-DD)"})
		return "", "", false
	}
	if _, err := time.Parse(isoDateLayout, to); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be an ISO date (YYYY-MM-DD)"})
		return "", "", false
	}
	return from, to, true
}

func parseISODate(s string) (time.Time, error) {
	return time.Parse(isoDateLayout, s)
}

// optionalSiteID extracts siteid when present. Zero means unscoped: the
// upstream call covers all sites the credential can see.
func optionalSiteID(c *gin.Context) (int, bool) {
	raw := c.Query("siteid")
	if raw == "" {
		return 0, true
	}
	siteID, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "siteid must be an integer"})
		return 0, false
	}
	return siteID, true
}

// optionalInt extracts a non-negative integer query parameter, or 0.
func optionalInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative integer"})
		return 0, false
	}
	return value, true
}
