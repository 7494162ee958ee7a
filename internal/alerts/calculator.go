// internal/alerts/calculator.go
package alerts

import "github.com/crumbworks/bakeops/internal/domain"

const (
	// SafetyStockDays is the fixed cushion added to supplier lead time when
	// computing the reorder point.
	SafetyStockDays = 3

	// ReorderCoverDays is the larger cushion used when sizing a suggested
	// order, so that one order covers comfortably past the next trigger.
	ReorderCoverDays = 7

	// NoUrgencyDays is the days-remaining sentinel for ingredients with no
	// measured usage.
	NoUrgencyDays = 999
)

// Calculator derives reorder metrics from usage rate, stock level and lead
// time. All methods are pure.
type Calculator struct{}

// ReorderPoint is the stock level at or below which reordering should be
// triggered: enough stock to cover delivery lead time plus the safety buffer.
func (Calculator) ReorderPoint(dailyUsage float64, leadTimeDays int) float64 {
	return dailyUsage * float64(leadTimeDays+SafetyStockDays)
}

// DaysRemaining estimates runway at the current consumption rate. Zero usage
// yields the no-urgency sentinel rather than a division error.
func (Calculator) DaysRemaining(currentStock, dailyUsage float64) float64 {
	if dailyUsage <= 0 {
		return NoUrgencyDays
	}
	return currentStock / dailyUsage
}

// SuggestedOrderQty sizes an automated order: lead time plus a week of
// cover, intentionally more than the reorder trigger itself.
func (Calculator) SuggestedOrderQty(dailyUsage float64, leadTimeDays int) float64 {
	return dailyUsage * float64(leadTimeDays+ReorderCoverDays)
}

// Classify bands days-remaining into an urgency tier. Boundaries are
// inclusive on the upper side: exactly 2 days is a warning, exactly 5 a
// notice.
func (Calculator) Classify(daysRemaining float64) domain.Urgency {
	switch {
	case daysRemaining < 2:
		return domain.UrgencyCritical
	case daysRemaining < 5:
		return domain.UrgencyWarning
	default:
		return domain.UrgencyNotice
	}
}

// IsLowStock reports whether the stock level has reached the reorder point.
func (Calculator) IsLowStock(currentStock, reorderPoint float64) bool {
	return currentStock <= reorderPoint
}

// OverviewStatus bands days-remaining for the dashboard overview, a coarser
// scale than the alert urgency tiers.
func (Calculator) OverviewStatus(daysRemaining float64) domain.StockStatus {
	switch {
	case daysRemaining < 2:
		return domain.StockCritical
	case daysRemaining < 5:
		return domain.StockLow
	case daysRemaining < 10:
		return domain.StockWarning
	default:
		return domain.StockGood
	}
}

// Evaluate computes the full low-stock record for one ingredient, or nil
// when the ingredient is above its reorder point.
func (c Calculator) Evaluate(ing domain.Ingredient, dailyUsage float64) *domain.LowStockItem {
	leadTime := ing.LeadTimeDays()
	reorderPoint := c.ReorderPoint(dailyUsage, leadTime)
	if !c.IsLowStock(ing.CurrentStock, reorderPoint) {
		return nil
	}

	days := c.DaysRemaining(ing.CurrentStock, dailyUsage)
	return &domain.LowStockItem{
		Ingredient:    ing,
		CurrentStock:  ing.CurrentStock,
		DailyUsage:    dailyUsage,
		ReorderPoint:  reorderPoint,
		DaysRemaining: days,
		SuggestedQty:  c.SuggestedOrderQty(dailyUsage, leadTime),
		Urgency:       c.Classify(days),
	}
}
