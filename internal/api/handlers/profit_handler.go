package handlers

import (
	"net/http"
	"time"

	"github.com/crumbworks/bakeops/internal/service"
	"github.com/gin-gonic/gin"
)

type ProfitHandler struct {
	profit *service.ProfitService
}

func NewProfitHandler(profit *service.ProfitService) *ProfitHandler {
	return &ProfitHandler{profit: profit}
}

// GetProfitability returns per-recipe cost, margin and sales volume
func (h *ProfitHandler) GetProfitability(c *gin.Context) {
	window := queryWindowDays(c)

	rows, err := h.profit.Profitability(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetHistory returns the stored profit ledger for a date range
func (h *ProfitHandler) GetHistory(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	rows, err := h.profit.History(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Backfill rebuilds the profit ledger from the full sales history
func (h *ProfitHandler) Backfill(c *gin.Context) {
	rows, err := h.profit.Backfill(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *ProfitHandler) GetSalesSummary(c *gin.Context) {
	window := queryWindowDays(c)

	summary, err := h.profit.SalesSummary(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ProfitHandler) GetDailyTrend(c *gin.Context) {
	window := queryWindowDays(c)

	trend, err := h.profit.DailyTrend(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (h *ProfitHandler) GetTopSellers(c *gin.Context) {
	window := queryWindowDays(c)
	limit := parsePositiveIntWithDefault(c.Query("limit"), 5)

	sellers, err := h.profit.TopSellers(c.Request.Context(), window, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sellers)
}

// parseDateRange reads from/to query params, defaulting to the last 30 days.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		to = parsed.AddDate(0, 0, 1)
	}

	return from, to, true
}
