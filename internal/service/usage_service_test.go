package service

import (
	"context"
	"testing"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usageFixture struct {
	svc         *UsageService
	ingredients *memIngredients
	recipes     *memRecipes
	sales       *memSales
}

func newUsageFixture() *usageFixture {
	ingredients := newMemIngredients()
	recipes := newMemRecipes()
	sales := newMemSales(ingredients)
	return &usageFixture{
		svc:         NewUsageService(sales, recipes, &memUsage{sales: sales}),
		ingredients: ingredients,
		recipes:     recipes,
		sales:       sales,
	}
}

func TestApplyPendingSalesAccumulatesPerDay(t *testing.T) {
	f := newUsageFixture()
	flour := f.ingredients.add(domain.Ingredient{Name: "Flour", Unit: "kg", CurrentStock: 10})
	f.recipes.add(domain.Recipe{
		Name: "Croissant", SalePrice: 3,
		Items: []domain.RecipeItem{{IngredientID: flour.ID, Quantity: 0.2}},
	})

	day := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t1", ItemName: "Croissant", Quantity: 2, Timestamp: day,
	})
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t2", ItemName: "Croissant", Quantity: 3, Timestamp: day.Add(6 * time.Hour),
	})

	applied, err := f.svc.ApplyPendingSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	// Both sales land on the same calendar day: 0.2 * (2+3) = 1.0.
	usage, err := f.svc.History(context.Background(), flour.ID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.InDelta(t, 1.0, usage[0].QuantityUsed, 0.0001)

	got, err := f.ingredients.Get(context.Background(), flour.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, got.CurrentStock, 0.0001)
}

func TestApplyPendingSalesIsIdempotent(t *testing.T) {
	f := newUsageFixture()
	flour := f.ingredients.add(domain.Ingredient{Name: "Flour", Unit: "kg", CurrentStock: 10})
	f.recipes.add(domain.Recipe{
		Name: "Croissant", SalePrice: 3,
		Items: []domain.RecipeItem{{IngredientID: flour.ID, Quantity: 0.5}},
	})

	day := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t1", ItemName: "Croissant", Quantity: 2, Timestamp: day,
	})

	_, err := f.svc.ApplyPendingSales(context.Background())
	require.NoError(t, err)

	applied, err := f.svc.ApplyPendingSales(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)

	usage, err := f.svc.History(context.Background(), flour.ID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.InDelta(t, 1.0, usage[0].QuantityUsed, 0.0001)
}

func TestAverageDailyUsageDividesByWindowLength(t *testing.T) {
	f := newUsageFixture()
	flour := f.ingredients.add(domain.Ingredient{Name: "Flour", Unit: "kg", CurrentStock: 10})

	// One sale day inside the window: 7 units over 14 days, not 7 per day.
	f.sales.setUsage(flour.ID, time.Now(), 7)

	avg, err := f.svc.AverageDailyUsage(context.Background(), flour.ID, 14)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, avg, 0.0001)
}

func TestSalesWithoutRecipeAreSkipped(t *testing.T) {
	f := newUsageFixture()

	_ = f.sales.Create(context.Background(), &domain.Sale{
		POSTransactionID: "t1", ItemName: "Gift Card", Quantity: 1, Timestamp: time.Now(),
	})

	applied, err := f.svc.ApplyPendingSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	// The sale is consumed without producing usage, and never reappears.
	pending, err := f.sales.ListUnapplied(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Empty(t, f.sales.usage)
}
