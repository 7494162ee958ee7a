package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crumbworks/bakeops/internal/docai"
	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/receipt"
	"github.com/crumbworks/bakeops/internal/repository"
	"github.com/crumbworks/bakeops/internal/storage"
	"github.com/crumbworks/bakeops/internal/vision"
	"github.com/rs/zerolog/log"
)

// Document is one uploaded receipt file.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReceiptService extracts structured purchase data from uploaded receipt
// documents and confirms operator-reviewed results into stock. Extraction
// is advisory: nothing changes in the database until confirmation.
//
// Extraction is a chain of fallbacks per document: the structured document
// service when configured, then OCR plus the heuristic text parser, then
// the heuristic parser on raw text.
type ReceiptService struct {
	parser      *receipt.Parser
	docAI       *docai.Client
	ocr         *vision.Service
	archive     storage.ObjectStorage
	ingredients repository.IngredientRepository
	orders      repository.OrderRepository
	suppliers   repository.SupplierRepository
}

func NewReceiptService(
	docAI *docai.Client,
	ocr *vision.Service,
	archive storage.ObjectStorage,
	ingredients repository.IngredientRepository,
	orders repository.OrderRepository,
	suppliers repository.SupplierRepository,
) *ReceiptService {
	return &ReceiptService{
		parser:      receipt.NewParser(),
		docAI:       docAI,
		ocr:         ocr,
		archive:     archive,
		ingredients: ingredients,
		orders:      orders,
		suppliers:   suppliers,
	}
}

// ParseDocuments extracts one logical receipt from a set of uploaded files.
// Files are archived first so extraction can always be re-run against the
// originals; archive failures are logged, not fatal.
func (s *ReceiptService) ParseDocuments(ctx context.Context, docs []Document) (*domain.ParsedReceipt, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents provided", domain.ErrInvalid)
	}

	s.archiveDocuments(ctx, docs)

	merged := &domain.ParsedReceipt{}
	for _, doc := range docs {
		merged.Merge(s.parseOne(ctx, doc))
	}

	return merged, nil
}

// ParseText runs only the heuristic parser over already-extracted text.
func (s *ReceiptService) ParseText(texts []string) *domain.ParsedReceipt {
	return s.parser.ParseAll(texts)
}

func (s *ReceiptService) parseOne(ctx context.Context, doc Document) *domain.ParsedReceipt {
	if s.docAI != nil && s.docAI.Enabled() {
		parsed, err := s.docAI.ParseDocument(ctx, doc.Data, doc.ContentType)
		if err == nil {
			return parsed
		}
		log.Warn().Err(err).Str("file", doc.Name).Msg("document service failed, falling back to ocr")
	}

	if s.ocr != nil && isImage(doc.ContentType) {
		text, err := s.ocr.ExtractText(ctx, doc.Data)
		if err != nil {
			log.Warn().Err(err).Str("file", doc.Name).Msg("ocr failed, falling back to raw text")
		} else if text != "" {
			return s.parser.Parse(text)
		}
	}

	return s.parser.Parse(string(doc.Data))
}

func (s *ReceiptService) archiveDocuments(ctx context.Context, docs []Document) {
	if s.archive == nil {
		return
	}

	stamp := time.Now().UTC().Format("2006/01/02/150405")
	for _, doc := range docs {
		key := fmt.Sprintf("receipts/%s/%s", stamp, doc.Name)
		if err := s.archive.UploadObject(ctx, key, doc.Data, doc.ContentType); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("receipt archive failed")
		}
	}
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// ConfirmLine is one reviewed receipt line mapped onto an ingredient.
type ConfirmLine struct {
	IngredientID int64   `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	UnitCost     float64 `json:"unit_cost"`
	UpdateCost   bool    `json:"update_cost"`
}

// ConfirmRequest turns a reviewed receipt into a delivered supplier order.
type ConfirmRequest struct {
	SupplierID int64         `json:"supplier_id"`
	OrderDate  *time.Time    `json:"order_date"`
	Notes      *string       `json:"notes"`
	Lines      []ConfirmLine `json:"lines"`
}

// Confirm books a reviewed receipt: a supplier order is created and
// immediately delivered, crediting stock through the single-increment
// delivery path, and unit costs are updated where requested.
func (s *ReceiptService) Confirm(ctx context.Context, req ConfirmRequest) (*domain.SupplierOrder, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line is required", domain.ErrInvalid)
	}

	supplier, err := s.suppliers.Get(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: supplier %d does not exist", domain.ErrInvalid, req.SupplierID)
		}
		return nil, err
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order := &domain.SupplierOrder{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		OrderDate:    orderDate,
		Status:       domain.OrderPending,
		Notes:        req.Notes,
	}

	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive", domain.ErrInvalid)
		}

		ing, err := s.ingredients.Get(ctx, line.IngredientID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: ingredient %d does not exist", domain.ErrInvalid, line.IngredientID)
			}
			return nil, err
		}

		order.Items = append(order.Items, domain.SupplierOrderItem{
			IngredientID:   ing.ID,
			IngredientName: ing.Name,
			Quantity:       line.Quantity,
			UnitCost:       line.UnitCost,
			TotalCost:      line.Quantity * line.UnitCost,
		})
		order.TotalCost += line.Quantity * line.UnitCost

		if line.UpdateCost && line.UnitCost > 0 {
			ing.CostPerUnit = line.UnitCost
			if err := s.ingredients.Update(ctx, ing); err != nil {
				return nil, err
			}
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	delivered, err := s.orders.MarkDelivered(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("order_id", delivered.ID).
		Int("lines", len(delivered.Items)).
		Msg("receipt confirmed into stock")

	return delivered, nil
}
