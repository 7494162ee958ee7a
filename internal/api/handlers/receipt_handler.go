package handlers

import (
	"io"
	"net/http"

	"github.com/crumbworks/bakeops/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxReceiptBytes = 10 << 20

type ReceiptHandler struct {
	receipts *service.ReceiptService
}

func NewReceiptHandler(receipts *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Parse extracts structured purchase data from uploaded receipts. Accepts
// either a multipart upload under "files" or a JSON body with raw text.
func (h *ReceiptHandler) Parse(c *gin.Context) {
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
			return
		}

		docs := make([]service.Document, 0, len(files))
		for _, file := range files {
			if file.Size > maxReceiptBytes {
				c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
				return
			}

			src, err := file.Open()
			if err != nil {
				log.Error().Err(err).Str("filename", file.Filename).Msg("failed to open uploaded file")
				continue
			}
			data, err := io.ReadAll(io.LimitReader(src, maxReceiptBytes))
			src.Close()
			if err != nil {
				log.Error().Err(err).Str("filename", file.Filename).Msg("failed to read uploaded file")
				continue
			}

			docs = append(docs, service.Document{
				Name:        file.Filename,
				ContentType: file.Header.Get("Content-Type"),
				Data:        data,
			})
		}

		parsed, err := h.receipts.ParseDocuments(c.Request.Context(), docs)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, parsed)
		return
	}

	var body struct {
		Texts []string `json:"texts"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Texts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide files or texts"})
		return
	}

	c.JSON(http.StatusOK, h.receipts.ParseText(body.Texts))
}

// Confirm books a reviewed receipt as a delivered supplier order
func (h *ReceiptHandler) Confirm(c *gin.Context) {
	var req service.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.receipts.Confirm(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
