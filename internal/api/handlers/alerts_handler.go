package handlers

import (
	"net/http"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/service"
	"github.com/gin-gonic/gin"
)

type AlertsHandler struct {
	alerts *service.AlertsService
}

func NewAlertsHandler(alerts *service.AlertsService) *AlertsHandler {
	return &AlertsHandler{alerts: alerts}
}

// GetLowStock returns ingredients at or below their reorder point
func (h *AlertsHandler) GetLowStock(c *gin.Context) {
	items, err := h.alerts.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetOverview returns the stock position for every ingredient
func (h *AlertsHandler) GetOverview(c *gin.Context) {
	rows, err := h.alerts.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetOrderPlan previews the orders that would be placed, without placing them
func (h *AlertsHandler) GetOrderPlan(c *gin.Context) {
	plan, err := h.alerts.PlanOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreateOrders places pending supplier orders from the current plan
func (h *AlertsHandler) CreateOrders(c *gin.Context) {
	orders, plan, err := h.alerts.CreateOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orders": orders, "plan": plan})
}

func (h *AlertsHandler) ListOrders(c *gin.Context) {
	var status *domain.OrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := domain.ParseOrderStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
			return
		}
		status = &parsed
	}

	orders, err := h.alerts.ListOrders(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *AlertsHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.alerts.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ConfirmDelivery marks a pending order delivered and credits stock
func (h *AlertsHandler) ConfirmDelivery(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.alerts.ConfirmDelivery(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *AlertsHandler) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.alerts.CancelOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
