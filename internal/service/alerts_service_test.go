package service

import (
	"context"
	"testing"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alertsFixture struct {
	svc         *AlertsService
	ingredients *memIngredients
	suppliers   *memSuppliers
	sales       *memSales
	orders      *memOrders
}

func newAlertsFixture() *alertsFixture {
	ingredients := newMemIngredients()
	sales := newMemSales(ingredients)
	orders := newMemOrders(ingredients)
	suppliers := newMemSuppliers(ingredients, orders)

	return &alertsFixture{
		svc:         NewAlertsService(ingredients, suppliers, &memUsage{sales: sales}, orders),
		ingredients: ingredients,
		suppliers:   suppliers,
		sales:       sales,
		orders:      orders,
	}
}

func (f *alertsFixture) seed() (flour, butter, yeast *domain.Ingredient) {
	supplier := f.suppliers.add(domain.Supplier{Name: "Harvest Grain", LeadTimeDays: 2})
	supplierID := supplier.ID
	lead := supplier.LeadTimeDays

	flour = f.ingredients.add(domain.Ingredient{
		Name: "Flour", Unit: "kg", CostPerUnit: 0.5, CurrentStock: 4,
		SupplierID: &supplierID, SupplierLeadTimeDays: &lead,
	})
	butter = f.ingredients.add(domain.Ingredient{
		Name: "Butter", Unit: "kg", CostPerUnit: 4, CurrentStock: 1,
		SupplierID: &supplierID, SupplierLeadTimeDays: &lead,
	})
	yeast = f.ingredients.add(domain.Ingredient{
		Name: "Yeast", Unit: "g", CostPerUnit: 0.1, CurrentStock: 0.5,
		OwnLeadTimeDays: 1,
	})
	// Well stocked, should never alert.
	f.ingredients.add(domain.Ingredient{
		Name: "Sugar", Unit: "kg", CostPerUnit: 0.8, CurrentStock: 100,
		OwnLeadTimeDays: 1,
	})

	f.sales.setSteadyUsage(flour.ID, 2)
	f.sales.setSteadyUsage(butter.ID, 2)
	f.sales.setSteadyUsage(yeast.ID, 1)
	f.sales.setSteadyUsage(4, 1)
	return flour, butter, yeast
}

func TestLowStockSortedMostUrgentFirst(t *testing.T) {
	f := newAlertsFixture()
	f.seed()

	items, err := f.svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Butter and Yeast both have half a day left, Flour two days.
	assert.Equal(t, domain.UrgencyCritical, items[0].Urgency)
	assert.Equal(t, domain.UrgencyCritical, items[1].Urgency)
	assert.Equal(t, "Flour", items[2].Ingredient.Name)
	assert.Equal(t, domain.UrgencyWarning, items[2].Urgency)

	for _, item := range items {
		assert.NotEqual(t, "Sugar", item.Ingredient.Name)
	}
}

func TestPlanOrdersGroupsBySupplier(t *testing.T) {
	f := newAlertsFixture()
	f.seed()

	plan, err := f.svc.PlanOrders(context.Background())
	require.NoError(t, err)

	require.Len(t, plan.Batches, 1)
	batch := plan.Batches[0]
	assert.Equal(t, "Harvest Grain", batch.Supplier.Name)
	assert.Len(t, batch.Items, 2)

	// Suggested qty covers lead time plus a week: 2 * (2+7) = 18 each.
	assert.InDelta(t, 18*0.5+18*4, batch.TotalCost, 0.001)

	require.Len(t, plan.Unassigned, 1)
	assert.Equal(t, "Yeast", plan.Unassigned[0].Ingredient.Name)
}

func TestCreateOrdersLeavesStockUntouched(t *testing.T) {
	f := newAlertsFixture()
	flour, _, _ := f.seed()

	orders, plan, err := f.svc.CreateOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, plan.Unassigned, 1)

	assert.Equal(t, domain.OrderPending, orders[0].Status)
	assert.Len(t, orders[0].Items, 2)

	got, err := f.ingredients.Get(context.Background(), flour.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.CurrentStock)
}

func TestConfirmDeliveryCreditsStockExactlyOnce(t *testing.T) {
	f := newAlertsFixture()
	flour, _, _ := f.seed()

	orders, _, err := f.svc.CreateOrders(context.Background())
	require.NoError(t, err)
	orderID := orders[0].ID

	delivered, err := f.svc.ConfirmDelivery(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDelivered, delivered.Status)
	require.NotNil(t, delivered.ActualDeliveryDate)

	got, err := f.ingredients.Get(context.Background(), flour.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0+18.0, got.CurrentStock, 0.001)

	_, err = f.svc.ConfirmDelivery(context.Background(), orderID)
	assert.ErrorIs(t, err, domain.ErrOrderFinal)

	got, err = f.ingredients.Get(context.Background(), flour.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0+18.0, got.CurrentStock, 0.001)
}

func TestCancelledOrderCannotBeDelivered(t *testing.T) {
	f := newAlertsFixture()
	f.seed()

	orders, _, err := f.svc.CreateOrders(context.Background())
	require.NoError(t, err)
	orderID := orders[0].ID

	require.NoError(t, f.svc.CancelOrder(context.Background(), orderID))

	_, err = f.svc.ConfirmDelivery(context.Background(), orderID)
	assert.ErrorIs(t, err, domain.ErrOrderFinal)

	err = f.svc.CancelOrder(context.Background(), orderID)
	assert.ErrorIs(t, err, domain.ErrOrderFinal)
}

func TestOverviewBandsEveryIngredient(t *testing.T) {
	f := newAlertsFixture()
	f.seed()

	rows, err := f.svc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byName := make(map[string]domain.StockOverviewRow)
	for _, row := range rows {
		byName[row.IngredientName] = row
	}

	assert.Equal(t, domain.StockCritical, byName["Butter"].Status)
	assert.Equal(t, domain.StockLow, byName["Flour"].Status)
	assert.Equal(t, domain.StockGood, byName["Sugar"].Status)

	// Display runway is capped even when the real figure is far larger.
	assert.Equal(t, float64(overviewDaysCap), byName["Sugar"].DaysRemaining)
}
