package service

import (
	"context"

	"github.com/crumbworks/bakeops/internal/domain"
)

// DashboardService assembles the landing view. Loading it also triggers the
// rate-limited automatic sales sync, so the numbers stay fresh without a
// scheduler.
type DashboardService struct {
	sync   *SyncService
	profit *ProfitService
	recs   *RecommendationService
	alerts *AlertsService
}

func NewDashboardService(sync *SyncService, profit *ProfitService, recs *RecommendationService, alerts *AlertsService) *DashboardService {
	return &DashboardService{sync: sync, profit: profit, recs: recs, alerts: alerts}
}

func (s *DashboardService) Build(ctx context.Context, windowDays int) (*domain.Dashboard, error) {
	if s.sync != nil {
		s.sync.AutoSync(ctx)
	}

	summary, err := s.profit.SalesSummary(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	trend, err := s.profit.DailyTrend(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	if trend == nil {
		trend = make([]*domain.DailySalesPoint, 0)
	}

	topSellers, err := s.profit.TopSellers(ctx, windowDays, 5)
	if err != nil {
		return nil, err
	}
	if topSellers == nil {
		topSellers = make([]*domain.TopSeller, 0)
	}

	recommendations, err := s.recs.Generate(ctx)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.alerts.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		Summary:         summary,
		Recommendations: recommendations,
		Trend:           trend,
		TopSellers:      topSellers,
		LowStock:        lowStock,
	}, nil
}
