package domain

import "time"

// Urgency classifies how soon an ingredient will run out.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyNotice   Urgency = "notice"
)

// LowStockItem is one entry of the reorder alert list.
type LowStockItem struct {
	Ingredient    Ingredient `json:"ingredient"`
	CurrentStock  float64    `json:"current_stock"`
	DailyUsage    float64    `json:"daily_usage"`
	ReorderPoint  float64    `json:"reorder_point"`
	DaysRemaining float64    `json:"days_remaining"`
	SuggestedQty  float64    `json:"suggested_qty"`
	Urgency       Urgency    `json:"urgency"`
}

// OrderPlan groups low-stock items by linked supplier for automated order
// creation. Items without a supplier land in Unassigned.
type OrderPlan struct {
	Batches    []OrderBatch   `json:"batches"`
	Unassigned []LowStockItem `json:"unassigned"`
}

// OrderBatch is the per-supplier slice of an order plan.
type OrderBatch struct {
	Supplier         Supplier       `json:"supplier"`
	Items            []LowStockItem `json:"items"`
	TotalCost        float64        `json:"total_cost"`
	ExpectedDelivery time.Time      `json:"expected_delivery"`
}

// StockStatus is the coarse dashboard banding of an ingredient's runway.
type StockStatus string

const (
	StockCritical StockStatus = "Critical"
	StockLow      StockStatus = "Low"
	StockWarning  StockStatus = "Warning"
	StockGood     StockStatus = "Good"
)

// StockOverviewRow is one row of the inventory status overview.
type StockOverviewRow struct {
	IngredientName string      `json:"ingredient_name"`
	Unit           string      `json:"unit"`
	CurrentStock   float64     `json:"current_stock"`
	DailyUsage     float64     `json:"daily_usage"`
	DaysRemaining  float64     `json:"days_remaining"`
	ReorderPoint   float64     `json:"reorder_point"`
	Status         StockStatus `json:"status"`
}

// RecipeProfit is the on-demand profitability of one recipe, combined with
// historical sales volume.
type RecipeProfit struct {
	RecipeID     int64   `json:"recipe_id"`
	Name         string  `json:"name"`
	SalePrice    float64 `json:"sale_price"`
	Cost         float64 `json:"cost"`
	Profit       float64 `json:"profit"`
	Margin       float64 `json:"margin"`
	UnitsSold    int     `json:"units_sold"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalProfit  float64 `json:"total_profit"`
}

// Recommendation is one advisory emitted by the rule engine. Nothing about
// it is persisted; the list is recomputed on every request.
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// SalesSummary aggregates the sales ledger over a time window. Cost and
// margin are valued at current ingredient prices.
type SalesSummary struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCost       float64 `json:"total_cost"`
	TotalProfit     float64 `json:"total_profit"`
	AvgProfitMargin float64 `json:"avg_profit_margin"`
	TotalItemsSold  int     `json:"total_items_sold"`
	NumTransactions int     `json:"num_transactions"`
}

// DailySalesPoint is one point of the revenue trend series.
type DailySalesPoint struct {
	Day      time.Time `json:"day" db:"day"`
	Revenue  float64   `json:"revenue" db:"revenue"`
	Quantity int       `json:"quantity" db:"quantity"`
}

// Dashboard bundles everything the landing view needs in one response.
type Dashboard struct {
	Summary         *SalesSummary      `json:"summary"`
	Recommendations []Recommendation   `json:"recommendations"`
	Trend           []*DailySalesPoint `json:"trend"`
	TopSellers      []*TopSeller       `json:"top_sellers"`
	LowStock        []LowStockItem     `json:"low_stock"`
}

// TopSeller is one row of the best-sellers ranking.
type TopSeller struct {
	ItemName string  `json:"item_name" db:"item_name"`
	Quantity int     `json:"quantity" db:"quantity"`
	Revenue  float64 `json:"revenue" db:"revenue"`
}
