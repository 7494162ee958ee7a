package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/crumbworks/bakeops/internal/domain"
)

const (
	promoteMarginThreshold  = 60.0
	optimizeMarginThreshold = 20.0
	urgentIngredientLimit   = 3
)

// RecommendationService turns current profitability and stock data into
// plain-language advisories. Nothing is persisted; every request recomputes
// the full set and all applicable rules fire.
type RecommendationService struct {
	profit *ProfitService
	alerts *AlertsService
}

func NewRecommendationService(profit *ProfitService, alerts *AlertsService) *RecommendationService {
	return &RecommendationService{profit: profit, alerts: alerts}
}

func (s *RecommendationService) Generate(ctx context.Context) ([]domain.Recommendation, error) {
	profits, err := s.profit.Profitability(ctx, 30)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.alerts.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	return BuildRecommendations(profits, lowStock), nil
}

// BuildRecommendations applies the four advisory rules. The rules are
// independent: any subset can fire on a given dataset.
func BuildRecommendations(profits []domain.RecipeProfit, lowStock []domain.LowStockItem) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, 4)

	if rec := promoteRule(profits); rec != nil {
		recs = append(recs, *rec)
	}
	if rec := optimizeRule(profits); rec != nil {
		recs = append(recs, *rec)
	}
	if rec := insightRule(profits); rec != nil {
		recs = append(recs, *rec)
	}
	if rec := urgentRule(lowStock); rec != nil {
		recs = append(recs, *rec)
	}

	return recs
}

// promoteRule surfaces the highest-margin recipe above the promote
// threshold.
func promoteRule(profits []domain.RecipeProfit) *domain.Recommendation {
	var best *domain.RecipeProfit
	for i := range profits {
		p := &profits[i]
		if p.Margin <= promoteMarginThreshold {
			continue
		}
		if best == nil || p.Margin > best.Margin {
			best = p
		}
	}
	if best == nil {
		return nil
	}

	return &domain.Recommendation{
		Type:     "promote",
		Priority: "high",
		Message:  fmt.Sprintf("%s has a %.1f%% margin. Consider promoting it to drive more sales.", best.Name, best.Margin),
	}
}

// optimizeRule flags the highest-volume recipe whose margin is below the
// optimize threshold: a popular item that barely earns.
func optimizeRule(profits []domain.RecipeProfit) *domain.Recommendation {
	var worst *domain.RecipeProfit
	for i := range profits {
		p := &profits[i]
		if p.Margin >= optimizeMarginThreshold {
			continue
		}
		if worst == nil || p.UnitsSold > worst.UnitsSold {
			worst = p
		}
	}
	if worst == nil {
		return nil
	}

	return &domain.Recommendation{
		Type:     "optimize",
		Priority: "medium",
		Message:  fmt.Sprintf("%s sells well but only earns a %.1f%% margin. Review its recipe cost or price.", worst.Name, worst.Margin),
	}
}

// insightRule fires when the most profitable recipe overall is not the best
// seller.
func insightRule(profits []domain.RecipeProfit) *domain.Recommendation {
	if len(profits) < 2 {
		return nil
	}

	var bestProfit, bestSeller *domain.RecipeProfit
	for i := range profits {
		p := &profits[i]
		if bestProfit == nil || p.TotalProfit > bestProfit.TotalProfit {
			bestProfit = p
		}
		if bestSeller == nil || p.UnitsSold > bestSeller.UnitsSold {
			bestSeller = p
		}
	}
	if bestProfit.RecipeID == bestSeller.RecipeID || bestProfit.TotalProfit <= 0 {
		return nil
	}

	return &domain.Recommendation{
		Type:     "insight",
		Priority: "medium",
		Message:  fmt.Sprintf("%s earns the most total profit, but %s sells the most units. More visibility for %s could lift earnings.", bestProfit.Name, bestSeller.Name, bestProfit.Name),
	}
}

// urgentRule names the most critical ingredients, capped so the message
// stays readable.
func urgentRule(lowStock []domain.LowStockItem) *domain.Recommendation {
	var names []string
	for _, item := range lowStock {
		if item.Urgency != domain.UrgencyCritical {
			continue
		}
		names = append(names, item.Ingredient.Name)
		if len(names) == urgentIngredientLimit {
			break
		}
	}
	if len(names) == 0 {
		return nil
	}

	return &domain.Recommendation{
		Type:     "urgent",
		Priority: "critical",
		Message:  fmt.Sprintf("Order now: %s will run out within 2 days.", strings.Join(names, ", ")),
	}
}
