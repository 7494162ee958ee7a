package service

import (
	"context"
	"testing"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profitFixture struct {
	svc     *ProfitService
	recipes *memRecipes
	sales   *memSales
	history *memHistory
}

func newProfitFixture() *profitFixture {
	recipes := newMemRecipes()
	sales := newMemSales(newMemIngredients())
	history := newMemHistory()
	return &profitFixture{
		svc:     NewProfitService(recipes, sales, history),
		recipes: recipes,
		sales:   sales,
		history: history,
	}
}

func TestRecipeCostAndMargin(t *testing.T) {
	recipe := &domain.Recipe{
		SalePrice: 4.00,
		Items: []domain.RecipeItem{
			{Quantity: 0.2, CostPerUnit: 1.50},
			{Quantity: 0.1, CostPerUnit: 7.00},
		},
	}

	cost := RecipeCost(recipe)
	assert.InDelta(t, 1.00, cost, 0.0001)
	assert.InDelta(t, 75.0, Margin(recipe.SalePrice, cost), 0.0001)

	// A free item never divides by zero.
	assert.Equal(t, 0.0, Margin(0, cost))
}

func TestProfitabilityJoinsVolumeAndSortsByMargin(t *testing.T) {
	f := newProfitFixture()
	f.recipes.add(domain.Recipe{
		Name: "Croissant", SalePrice: 3.00,
		Items: []domain.RecipeItem{{Quantity: 1, CostPerUnit: 0.60}},
	})
	f.recipes.add(domain.Recipe{
		Name: "Sourdough", SalePrice: 5.00,
		Items: []domain.RecipeItem{{Quantity: 1, CostPerUnit: 3.50}},
	})

	now := time.Now()
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t1", ItemName: "Croissant", Quantity: 10, TotalAmount: 30, Timestamp: now.Add(-time.Hour),
	})
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t2", ItemName: "Sourdough", Quantity: 4, TotalAmount: 20, Timestamp: now.Add(-time.Hour),
	})

	profits, err := f.svc.Profitability(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, profits, 2)

	assert.Equal(t, "Croissant", profits[0].Name)
	assert.InDelta(t, 80.0, profits[0].Margin, 0.0001)
	assert.Equal(t, 10, profits[0].UnitsSold)
	assert.InDelta(t, 24.0, profits[0].TotalProfit, 0.0001)

	assert.Equal(t, "Sourdough", profits[1].Name)
	assert.InDelta(t, 30.0, profits[1].Margin, 0.0001)
}

func TestSalesSummaryEmptyWindow(t *testing.T) {
	f := newProfitFixture()

	summary, err := f.svc.SalesSummary(context.Background(), 7)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.TotalCost)
	assert.Zero(t, summary.TotalProfit)
	assert.Zero(t, summary.AvgProfitMargin)
	assert.Zero(t, summary.TotalItemsSold)
	assert.Zero(t, summary.NumTransactions)
}

func TestSalesSummaryValuesCostAtCurrentPrices(t *testing.T) {
	f := newProfitFixture()
	f.recipes.add(domain.Recipe{
		Name: "Croissant", SalePrice: 4.00,
		Items: []domain.RecipeItem{{Quantity: 1, CostPerUnit: 1.00}},
	})

	now := time.Now()
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t1", ItemName: "Croissant", Quantity: 2, TotalAmount: 8, Timestamp: now.Add(-time.Hour),
	})
	// Unknown item contributes revenue but no cost.
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t2", ItemName: "Gift Card", Quantity: 1, TotalAmount: 10, Timestamp: now.Add(-time.Hour),
	})

	summary, err := f.svc.SalesSummary(context.Background(), 7)
	require.NoError(t, err)

	assert.InDelta(t, 18.0, summary.TotalRevenue, 0.0001)
	assert.InDelta(t, 2.0, summary.TotalCost, 0.0001)
	assert.InDelta(t, 16.0, summary.TotalProfit, 0.0001)
	assert.Equal(t, 3, summary.TotalItemsSold)
	assert.Equal(t, 2, summary.NumTransactions)
}

func TestBackfillIsIdempotent(t *testing.T) {
	f := newProfitFixture()
	f.recipes.add(domain.Recipe{
		Name: "Croissant", SalePrice: 3.00,
		Items: []domain.RecipeItem{{Quantity: 1, CostPerUnit: 0.60}},
	})

	day := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t1", ItemName: "Croissant", Quantity: 3, TotalAmount: 9, Timestamp: day,
	})
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t2", ItemName: "Croissant", Quantity: 2, TotalAmount: 6, Timestamp: day.Add(2 * time.Hour),
	})

	written, err := f.svc.Backfill(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	_, err = f.svc.Backfill(context.Background())
	require.NoError(t, err)

	entries, err := f.svc.History(context.Background(), day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].QuantitySold)
	assert.InDelta(t, 2.40, entries[0].Profit, 0.0001)
}
