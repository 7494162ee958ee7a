// internal/domain/models.go
package domain

import "time"

// Supplier is a vendor that ingredients can be sourced from.
type Supplier struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ContactName  *string   `json:"contact_name" db:"contact_name"`
	Email        *string   `json:"email" db:"email"`
	Phone        *string   `json:"phone" db:"phone"`
	Address      *string   `json:"address" db:"address"`
	Notes        *string   `json:"notes" db:"notes"`
	LeadTimeDays int       `json:"lead_time_days" db:"lead_time_days"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Ingredient is a stocked raw material. The supplier link is the single
// source of truth for vendor identity; SupplierName is filled in by joins
// for display only. OwnLeadTimeDays applies when no supplier is linked.
type Ingredient struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Unit            string    `json:"unit" db:"unit"`
	CostPerUnit     float64   `json:"cost_per_unit" db:"cost_per_unit"`
	CurrentStock    float64   `json:"current_stock" db:"current_stock"`
	SupplierID      *int64    `json:"supplier_id" db:"supplier_id"`
	SupplierName    *string   `json:"supplier_name" db:"supplier_name"`
	OwnLeadTimeDays int       `json:"own_lead_time_days" db:"own_lead_time_days"`
	LastUpdated     time.Time `json:"last_updated" db:"last_updated"`

	// Populated by joins when the ingredient has a linked supplier.
	SupplierLeadTimeDays *int `json:"supplier_lead_time_days,omitempty" db:"supplier_lead_time_days"`
}

// LeadTimeDays resolves the effective lead time: the linked supplier's when
// one exists, otherwise the ingredient's own estimate.
func (i Ingredient) LeadTimeDays() int {
	if i.SupplierID != nil && i.SupplierLeadTimeDays != nil {
		return *i.SupplierLeadTimeDays
	}
	return i.OwnLeadTimeDays
}

// Recipe is a sellable product with a derived ingredient cost.
type Recipe struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	POSItemID   *string   `json:"pos_item_id" db:"pos_item_id"`
	SalePrice   float64   `json:"sale_price" db:"sale_price"`
	Category    *string   `json:"category" db:"category"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Items []RecipeItem `json:"items,omitempty" db:"-"`
}

// RecipeItem is one bill-of-materials line: the quantity of an ingredient
// consumed per unit sold.
type RecipeItem struct {
	ID             int64   `json:"id" db:"id"`
	RecipeID       int64   `json:"recipe_id" db:"recipe_id"`
	IngredientID   int64   `json:"ingredient_id" db:"ingredient_id"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	IngredientName string  `json:"ingredient_name" db:"ingredient_name"`
	Unit           string  `json:"unit" db:"unit"`
	CostPerUnit    float64 `json:"cost_per_unit" db:"cost_per_unit"`
}

// Sale is one imported ledger row. POSTransactionID deduplicates imports;
// UsageApplied marks rows already replayed into daily usage.
type Sale struct {
	ID               int64     `json:"id" db:"id"`
	POSTransactionID string    `json:"pos_transaction_id" db:"pos_transaction_id"`
	ItemName         string    `json:"item_name" db:"item_name"`
	Quantity         int       `json:"quantity" db:"quantity"`
	TotalAmount      float64   `json:"total_amount" db:"total_amount"`
	Timestamp        time.Time `json:"timestamp" db:"timestamp"`
	UsageApplied     bool      `json:"usage_applied" db:"usage_applied"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// DailyUsage records derived ingredient consumption for one day. Rows are
// accumulated, never user-edited.
type DailyUsage struct {
	ID           int64     `json:"id" db:"id"`
	IngredientID int64     `json:"ingredient_id" db:"ingredient_id"`
	Day          time.Time `json:"day" db:"day"`
	QuantityUsed float64   `json:"quantity_used" db:"quantity_used"`
}

// SupplierOrder is a placed purchase order.
type SupplierOrder struct {
	ID                   int64       `json:"id" db:"id"`
	SupplierID           int64       `json:"supplier_id" db:"supplier_id"`
	SupplierName         string      `json:"supplier_name" db:"supplier_name"`
	OrderDate            time.Time   `json:"order_date" db:"order_date"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date" db:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time  `json:"actual_delivery_date" db:"actual_delivery_date"`
	Status               OrderStatus `json:"status" db:"status"`
	TotalCost            float64     `json:"total_cost" db:"total_cost"`
	Notes                *string     `json:"notes" db:"notes"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`

	Items []SupplierOrderItem `json:"items,omitempty" db:"-"`
}

// SupplierOrderItem is one line of a supplier order.
type SupplierOrderItem struct {
	ID             int64   `json:"id" db:"id"`
	OrderID        int64   `json:"order_id" db:"order_id"`
	IngredientID   int64   `json:"ingredient_id" db:"ingredient_id"`
	IngredientName string  `json:"ingredient_name" db:"ingredient_name"`
	Quantity       float64 `json:"quantity" db:"quantity"`
	UnitCost       float64 `json:"unit_cost" db:"unit_cost"`
	TotalCost      float64 `json:"total_cost" db:"total_cost"`
}

// ProfitHistory is an append-only point-in-time profitability snapshot,
// written as sales are imported.
type ProfitHistory struct {
	ID             int64     `json:"id" db:"id"`
	RecipeID       int64     `json:"recipe_id" db:"recipe_id"`
	Date           time.Time `json:"date" db:"date"`
	SalePrice      float64   `json:"sale_price" db:"sale_price"`
	IngredientCost float64   `json:"ingredient_cost" db:"ingredient_cost"`
	Profit         float64   `json:"profit" db:"profit"`
	ProfitMargin   float64   `json:"profit_margin" db:"profit_margin"`
	QuantitySold   int       `json:"quantity_sold" db:"quantity_sold"`
}
