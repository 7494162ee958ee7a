package handlers

import (
	"net/http"

	"github.com/crumbworks/bakeops/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) InventoryPDF(c *gin.Context) {
	pdf, err := h.reports.InventoryPDF(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	servePDF(c, "inventory.pdf", pdf)
}

func (h *ReportHandler) ProfitPDF(c *gin.Context) {
	window := queryWindowDays(c)

	pdf, err := h.reports.ProfitPDF(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	servePDF(c, "profitability.pdf", pdf)
}

func (h *ReportHandler) SalesPDF(c *gin.Context) {
	window := queryWindowDays(c)

	pdf, err := h.reports.SalesPDF(c.Request.Context(), window)
	if err != nil {
		respondError(c, err)
		return
	}
	servePDF(c, "sales.pdf", pdf)
}

func servePDF(c *gin.Context, filename string, pdf []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
