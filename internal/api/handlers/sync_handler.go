package handlers

import (
	"net/http"

	"github.com/crumbworks/bakeops/internal/service"
	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	sync *service.SyncService
}

func NewSyncHandler(sync *service.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// SyncSales pulls new POS transactions. Manual triggers bypass the rate gate.
func (h *SyncHandler) SyncSales(c *gin.Context) {
	result, err := h.sync.SyncSales(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SyncCatalog imports sellable items from the POS catalog as recipes
func (h *SyncHandler) SyncCatalog(c *gin.Context) {
	upserted, err := h.sync.SyncCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upserted": upserted})
}
