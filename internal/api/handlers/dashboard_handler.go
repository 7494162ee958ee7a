package handlers

import (
	"net/http"

	"github.com/crumbworks/bakeops/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetDashboard returns the combined home-screen payload
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	window := queryWindowDays(c)

	dashboard, err := h.dashboard.Build(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
