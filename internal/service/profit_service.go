package service

import (
	"context"
	"sort"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/repository"
	"github.com/rs/zerolog/log"
)

// ProfitService derives recipe cost, margin and sales profitability. Cost
// and margin are always computed at current ingredient prices, never read
// from storage; profit_history exists only as point-in-time snapshots.
type ProfitService struct {
	recipes repository.RecipeRepository
	sales   repository.SalesRepository
	history repository.ProfitHistoryRepository
}

func NewProfitService(recipes repository.RecipeRepository, sales repository.SalesRepository, history repository.ProfitHistoryRepository) *ProfitService {
	return &ProfitService{recipes: recipes, sales: sales, history: history}
}

// RecipeCost sums the recipe's bill of materials at current ingredient
// prices.
func RecipeCost(recipe *domain.Recipe) float64 {
	var cost float64
	for _, item := range recipe.Items {
		cost += item.CostPerUnit * item.Quantity
	}
	return cost
}

// Margin is profit as a percentage of sale price, zero for a zero price.
func Margin(salePrice, cost float64) float64 {
	if salePrice == 0 {
		return 0
	}
	return (salePrice - cost) / salePrice * 100
}

// Profitability values every recipe at current prices and joins in sales
// volume over the window, best margin first.
func (s *ProfitService) Profitability(ctx context.Context, windowDays int) ([]domain.RecipeProfit, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -windowDays)
	units, err := s.sales.UnitsSoldByItem(ctx, from, to)
	if err != nil {
		return nil, err
	}

	profits := make([]domain.RecipeProfit, 0, len(recipes))
	for _, recipe := range recipes {
		cost := RecipeCost(recipe)
		profit := recipe.SalePrice - cost
		sold := units[recipe.Name]

		profits = append(profits, domain.RecipeProfit{
			RecipeID:     recipe.ID,
			Name:         recipe.Name,
			SalePrice:    recipe.SalePrice,
			Cost:         cost,
			Profit:       profit,
			Margin:       Margin(recipe.SalePrice, cost),
			UnitsSold:    sold,
			TotalRevenue: recipe.SalePrice * float64(sold),
			TotalProfit:  profit * float64(sold),
		})
	}

	sort.Slice(profits, func(i, j int) bool {
		return profits[i].Margin > profits[j].Margin
	})

	return profits, nil
}

// SalesSummary aggregates the ledger over the window. Cost is valued at
// current recipe cost, so the margin answers "what would this period earn
// at today's prices". An empty window yields the zero summary.
func (s *ProfitService) SalesSummary(ctx context.Context, windowDays int) (*domain.SalesSummary, error) {
	if windowDays <= 0 {
		windowDays = 7
	}

	to := time.Now()
	from := to.AddDate(0, 0, -windowDays)
	sales, err := s.sales.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &domain.SalesSummary{}
	if len(sales) == 0 {
		return summary, nil
	}

	costs, err := s.costIndex(ctx)
	if err != nil {
		return nil, err
	}

	for _, sale := range sales {
		summary.TotalRevenue += sale.TotalAmount
		summary.TotalItemsSold += sale.Quantity
		summary.NumTransactions++
		if cost, ok := costs[sale.ItemName]; ok {
			summary.TotalCost += cost * float64(sale.Quantity)
		}
	}

	summary.TotalProfit = summary.TotalRevenue - summary.TotalCost
	if summary.TotalRevenue > 0 {
		summary.AvgProfitMargin = summary.TotalProfit / summary.TotalRevenue * 100
	}

	return summary, nil
}

// DailyTrend returns the revenue series for the window.
func (s *ProfitService) DailyTrend(ctx context.Context, windowDays int) ([]*domain.DailySalesPoint, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	to := time.Now()
	return s.sales.DailyRevenue(ctx, to.AddDate(0, 0, -windowDays), to)
}

// TopSellers ranks items by units sold over the window.
func (s *ProfitService) TopSellers(ctx context.Context, windowDays, limit int) ([]*domain.TopSeller, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	to := time.Now()
	return s.sales.TopSellers(ctx, to.AddDate(0, 0, -windowDays), to, limit)
}

// RecordSnapshot appends one profit-history entry for an imported sale,
// valued at the prices in effect right now.
func (s *ProfitService) RecordSnapshot(ctx context.Context, recipe *domain.Recipe, day time.Time, quantity int) error {
	cost := RecipeCost(recipe)
	return s.history.Upsert(ctx, &domain.ProfitHistory{
		RecipeID:       recipe.ID,
		Date:           day,
		SalePrice:      recipe.SalePrice,
		IngredientCost: cost,
		Profit:         recipe.SalePrice - cost,
		ProfitMargin:   Margin(recipe.SalePrice, cost),
		QuantitySold:   quantity,
	})
}

func (s *ProfitService) History(ctx context.Context, from, to time.Time) ([]*domain.ProfitHistory, error) {
	return s.history.ListBetween(ctx, from, to)
}

// Backfill rebuilds profit history from the entire sales ledger, one row per
// recipe per day. Running it twice converges on the same rows.
func (s *ProfitService) Backfill(ctx context.Context) (int, error) {
	sales, err := s.sales.ListBetween(ctx, time.Time{}, time.Now().AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return 0, err
	}
	byName := make(map[string]*domain.Recipe, len(recipes))
	for _, recipe := range recipes {
		byName[recipe.Name] = recipe
	}

	type bucket struct {
		recipe *domain.Recipe
		day    time.Time
		qty    int
	}
	buckets := make(map[string]*bucket)

	for _, sale := range sales {
		recipe, ok := byName[sale.ItemName]
		if !ok {
			continue
		}
		day := sale.Timestamp.UTC().Truncate(24 * time.Hour)
		key := recipe.Name + day.Format("2006-01-02")
		if b, ok := buckets[key]; ok {
			b.qty += sale.Quantity
		} else {
			buckets[key] = &bucket{recipe: recipe, day: day, qty: sale.Quantity}
		}
	}

	written := 0
	for _, b := range buckets {
		cost := RecipeCost(b.recipe)
		entry := &domain.ProfitHistory{
			RecipeID:       b.recipe.ID,
			Date:           b.day,
			SalePrice:      b.recipe.SalePrice,
			IngredientCost: cost,
			Profit:         b.recipe.SalePrice - cost,
			ProfitMargin:   Margin(b.recipe.SalePrice, cost),
			QuantitySold:   b.qty,
		}
		if err := s.history.Replace(ctx, entry); err != nil {
			return written, err
		}
		written++
	}

	log.Info().Int("rows", written).Msg("profit history backfilled")
	return written, nil
}

// costIndex maps recipe name to current ingredient cost.
func (s *ProfitService) costIndex(ctx context.Context) (map[string]float64, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}

	costs := make(map[string]float64, len(recipes))
	for _, recipe := range recipes {
		costs[recipe.Name] = RecipeCost(recipe)
	}
	return costs, nil
}
