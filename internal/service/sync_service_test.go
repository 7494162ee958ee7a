package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crumbworks/bakeops/internal/cache"
	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/pos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePOS serves canned Square-shaped responses.
type fakePOS struct {
	orders  []map[string]interface{}
	catalog []map[string]interface{}
}

func (f *fakePOS) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/orders/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"orders": f.orders})
	})
	mux.HandleFunc("/v2/catalog/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"objects": f.catalog})
	})
	return mux
}

type syncFixture struct {
	svc         *SyncService
	ingredients *memIngredients
	recipes     *memRecipes
	sales       *memSales
	settings    *memSettings
	history     *memHistory
}

func newSyncFixture(t *testing.T, fake *fakePOS) *syncFixture {
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	ingredients := newMemIngredients()
	recipes := newMemRecipes()
	sales := newMemSales(ingredients)
	settings := newMemSettings()
	history := newMemHistory()

	usage := NewUsageService(sales, recipes, &memUsage{sales: sales})
	profit := NewProfitService(recipes, sales, history)
	client := pos.NewClient(srv.URL, "test-token", "loc-1")

	return &syncFixture{
		svc:         NewSyncService(client, sales, recipes, settings, usage, profit, cache.NewNoopSyncLimiter()),
		ingredients: ingredients,
		recipes:     recipes,
		sales:       sales,
		settings:    settings,
		history:     history,
	}
}

func orderWithLine(orderID, uid, name, qty string, cents int64, createdAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":         orderID,
		"created_at": createdAt.UTC().Format(time.RFC3339),
		"line_items": []map[string]interface{}{
			{
				"uid":         uid,
				"name":        name,
				"quantity":    qty,
				"total_money": map[string]interface{}{"amount": cents, "currency": "GBP"},
			},
		},
	}
}

func TestSyncSalesImportsAndDerivesUsage(t *testing.T) {
	sold := time.Now().UTC().Add(-2 * time.Hour)
	fake := &fakePOS{orders: []map[string]interface{}{
		orderWithLine("ord-1", "li-1", "Croissant", "2", 640, sold),
	}}
	f := newSyncFixture(t, fake)

	flour := f.ingredients.add(domain.Ingredient{Name: "Flour", Unit: "kg", CurrentStock: 10})
	f.recipes.add(domain.Recipe{
		Name: "Croissant", SalePrice: 3.2,
		Items: []domain.RecipeItem{{IngredientID: flour.ID, Quantity: 0.2}},
	})

	result, err := f.svc.SyncSales(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, result.Ran)
	assert.Equal(t, 1, result.Imported)
	assert.Zero(t, result.Duplicates)
	assert.Equal(t, 1, result.Applied)

	got, err := f.ingredients.Get(context.Background(), flour.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9.6, got.CurrentStock, 0.0001)

	// The sale also lands in the profit ledger.
	day := sold.Truncate(24 * time.Hour)
	rows, err := f.history.ListBetween(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].QuantitySold)
}

func TestSyncSalesDeduplicatesOnReplay(t *testing.T) {
	sold := time.Now().UTC().Add(-2 * time.Hour)
	fake := &fakePOS{orders: []map[string]interface{}{
		orderWithLine("ord-1", "li-1", "Croissant", "1", 320, sold),
	}}
	f := newSyncFixture(t, fake)

	_, err := f.svc.SyncSales(context.Background(), true)
	require.NoError(t, err)

	result, err := f.svc.SyncSales(context.Background(), true)
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Len(t, f.sales.rows, 1)
}

func TestSyncSalesGatedByCheckpoint(t *testing.T) {
	fake := &fakePOS{}
	f := newSyncFixture(t, fake)

	_, err := f.svc.SyncSales(context.Background(), true)
	require.NoError(t, err)

	// A fresh checkpoint blocks the next automatic run; force bypasses it.
	result, err := f.svc.SyncSales(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, result.Ran)

	result, err = f.svc.SyncSales(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, result.Ran)
}

func TestSyncSalesDisabledWithoutToken(t *testing.T) {
	f := newSyncFixture(t, &fakePOS{})
	f.svc.pos = pos.NewClient("http://localhost:1", "", "")

	_, err := f.svc.SyncSales(context.Background(), true)
	assert.ErrorIs(t, err, ErrSyncDisabled)
}

func catalogItem(id, name string, cents int64) map[string]interface{} {
	return map[string]interface{}{
		"id":   id,
		"type": "ITEM",
		"item_data": map[string]interface{}{
			"name": name,
			"variations": []map[string]interface{}{
				{"item_variation_data": map[string]interface{}{
					"price_money": map[string]interface{}{"amount": cents, "currency": "GBP"},
				}},
			},
		},
	}
}

func TestSyncCatalogUpsertsByPOSItemID(t *testing.T) {
	fake := &fakePOS{catalog: []map[string]interface{}{
		catalogItem("sq-1", "Croissant", 320),
		catalogItem("sq-2", "Sourdough Loaf", 450),
	}}
	f := newSyncFixture(t, fake)

	posID := "sq-1"
	f.recipes.add(domain.Recipe{Name: "Croissant (old)", POSItemID: &posID, SalePrice: 2.8})

	upserted, err := f.svc.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, upserted)

	recipes, err := f.recipes.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	byPOS := make(map[string]*domain.Recipe)
	for _, r := range recipes {
		require.NotNil(t, r.POSItemID)
		byPOS[*r.POSItemID] = r
	}

	// The linked recipe is renamed and repriced, the new one created.
	assert.Equal(t, "Croissant", byPOS["sq-1"].Name)
	assert.InDelta(t, 3.2, byPOS["sq-1"].SalePrice, 0.0001)
	assert.Equal(t, "Sourdough Loaf", byPOS["sq-2"].Name)
	assert.InDelta(t, 4.5, byPOS["sq-2"].SalePrice, 0.0001)
}
