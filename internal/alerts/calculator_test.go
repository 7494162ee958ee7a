package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbworks/bakeops/internal/domain"
)

func TestReorderPoint(t *testing.T) {
	var c Calculator

	assert.InDelta(t, 20.0, c.ReorderPoint(2.0, 7), 1e-9)
	assert.Zero(t, c.ReorderPoint(0, 7))
}

func TestReorderPointMonotonic(t *testing.T) {
	var c Calculator

	usages := []float64{0, 0.5, 1, 2.5, 10}
	for i := 1; i < len(usages); i++ {
		assert.GreaterOrEqual(t,
			c.ReorderPoint(usages[i], 5),
			c.ReorderPoint(usages[i-1], 5),
			"reorder point must not decrease as usage grows")
	}

	leads := []int{1, 2, 7, 14, 30}
	for i := 1; i < len(leads); i++ {
		assert.GreaterOrEqual(t,
			c.ReorderPoint(1.5, leads[i]),
			c.ReorderPoint(1.5, leads[i-1]),
			"reorder point must not decrease as lead time grows")
	}
}

func TestDaysRemainingZeroUsage(t *testing.T) {
	var c Calculator

	assert.Equal(t, float64(NoUrgencyDays), c.DaysRemaining(12.0, 0))
	assert.Equal(t, domain.UrgencyNotice, c.Classify(c.DaysRemaining(12.0, 0)))
}

func TestClassifyBoundaries(t *testing.T) {
	var c Calculator

	cases := []struct {
		days float64
		want domain.Urgency
	}{
		{1.9, domain.UrgencyCritical},
		{2.0, domain.UrgencyWarning},
		{4.9, domain.UrgencyWarning},
		{5.0, domain.UrgencyNotice},
		{0, domain.UrgencyCritical},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, c.Classify(tc.days), "days=%v", tc.days)
	}
}

func TestSuggestedOrderQtyCoversMoreThanTrigger(t *testing.T) {
	var c Calculator

	assert.Greater(t, c.SuggestedOrderQty(2.0, 7), c.ReorderPoint(2.0, 7))
}

func TestEvaluate(t *testing.T) {
	var c Calculator

	lead := 4
	ing := domain.Ingredient{
		Name:            "Plain Flour",
		Unit:            "kg",
		CostPerUnit:     0.8,
		CurrentStock:    6,
		OwnLeadTimeDays: lead,
	}

	item := c.Evaluate(ing, 2.0)
	require.NotNil(t, item)
	assert.InDelta(t, 14.0, item.ReorderPoint, 1e-9)
	assert.InDelta(t, 3.0, item.DaysRemaining, 1e-9)
	assert.InDelta(t, 22.0, item.SuggestedQty, 1e-9)
	assert.Equal(t, domain.UrgencyWarning, item.Urgency)

	ing.CurrentStock = 100
	assert.Nil(t, c.Evaluate(ing, 2.0), "well-stocked ingredient must not alert")
}

func TestEvaluateUsesSupplierLeadTime(t *testing.T) {
	var c Calculator

	supplierID := int64(3)
	supplierLead := 10
	ing := domain.Ingredient{
		Name:                 "Butter",
		CurrentStock:         5,
		OwnLeadTimeDays:      2,
		SupplierID:           &supplierID,
		SupplierLeadTimeDays: &supplierLead,
	}

	item := c.Evaluate(ing, 1.0)
	require.NotNil(t, item)
	assert.InDelta(t, 13.0, item.ReorderPoint, 1e-9)
}

func TestOverviewStatusBands(t *testing.T) {
	var c Calculator

	assert.Equal(t, domain.StockCritical, c.OverviewStatus(1.5))
	assert.Equal(t, domain.StockLow, c.OverviewStatus(2.0))
	assert.Equal(t, domain.StockWarning, c.OverviewStatus(5.0))
	assert.Equal(t, domain.StockGood, c.OverviewStatus(10.0))
	assert.Equal(t, domain.StockGood, c.OverviewStatus(NoUrgencyDays))
}
