package service

import (
	"context"
	"errors"

	"github.com/crumbworks/bakeops/internal/report"
)

// ErrReportsDisabled is returned when no PDF conversion service is
// configured.
var ErrReportsDisabled = errors.New("pdf reports are not configured")

// ReportService renders the three operational reports as PDF through the
// HTML conversion service.
type ReportService struct {
	converter *report.Client
	alerts    *AlertsService
	profit    *ProfitService
}

func NewReportService(converter *report.Client, alerts *AlertsService, profit *ProfitService) *ReportService {
	return &ReportService{converter: converter, alerts: alerts, profit: profit}
}

func (s *ReportService) enabled() bool {
	return s.converter != nil && s.converter.Enabled()
}

func (s *ReportService) InventoryPDF(ctx context.Context) ([]byte, error) {
	if !s.enabled() {
		return nil, ErrReportsDisabled
	}

	rows, err := s.alerts.Overview(ctx)
	if err != nil {
		return nil, err
	}

	html, err := report.InventoryHTML(rows)
	if err != nil {
		return nil, err
	}

	return s.converter.RenderHTML(ctx, html)
}

func (s *ReportService) ProfitPDF(ctx context.Context, windowDays int) ([]byte, error) {
	if !s.enabled() {
		return nil, ErrReportsDisabled
	}

	profits, err := s.profit.Profitability(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	html, err := report.ProfitHTML(profits)
	if err != nil {
		return nil, err
	}

	return s.converter.RenderHTML(ctx, html)
}

func (s *ReportService) SalesPDF(ctx context.Context, windowDays int) ([]byte, error) {
	if !s.enabled() {
		return nil, ErrReportsDisabled
	}

	summary, err := s.profit.SalesSummary(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	topSellers, err := s.profit.TopSellers(ctx, windowDays, 10)
	if err != nil {
		return nil, err
	}

	html, err := report.SalesHTML(report.SalesReportData{
		Summary:    *summary,
		TopSellers: topSellers,
	})
	if err != nil {
		return nil, err
	}

	return s.converter.RenderHTML(ctx, html)
}
