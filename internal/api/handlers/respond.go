package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps service errors onto HTTP statuses. Unrecognised errors
// become a 500 with a generic message so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": "name already in use"})
	case errors.Is(err, domain.ErrOrderFinal):
		c.JSON(http.StatusConflict, gin.H{"error": "order is already delivered or cancelled"})
	case errors.Is(err, service.ErrSyncDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pos integration is not configured"})
	case errors.Is(err, service.ErrReportsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report rendering is not configured"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}

// queryWindowDays reads the days query param; zero lets the service apply
// its own default window.
func queryWindowDays(c *gin.Context) int {
	return parsePositiveIntWithDefault(c.Query("days"), 0)
}
