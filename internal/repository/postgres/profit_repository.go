// internal/repository/postgres/profit_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/jmoiron/sqlx"
)

type profitHistoryRepository struct {
	db *DB
}

func NewProfitHistoryRepository(db *DB) *profitHistoryRepository {
	return &profitHistoryRepository{db: db}
}

// Upsert accumulates the day's quantity while refreshing the snapshot of
// prices and margin, so re-imports and backfills converge on one row per
// recipe per day.
func (r *profitHistoryRepository) Upsert(ctx context.Context, entry *domain.ProfitHistory) error {
	query := `
		INSERT INTO profit_history (recipe_id, date, sale_price, ingredient_cost, profit, profit_margin, quantity_sold)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (recipe_id, date)
		DO UPDATE SET
			sale_price = EXCLUDED.sale_price,
			ingredient_cost = EXCLUDED.ingredient_cost,
			profit = EXCLUDED.profit,
			profit_margin = EXCLUDED.profit_margin,
			quantity_sold = profit_history.quantity_sold + EXCLUDED.quantity_sold
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		entry.RecipeID, entry.Date, entry.SalePrice, entry.IngredientCost,
		entry.Profit, entry.ProfitMargin, entry.QuantitySold,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert profit history: %w", err)
	}

	return nil
}

// Replace overwrites the day's row entirely. Backfills use this so a
// recompute does not stack quantities on top of earlier imports.
func (r *profitHistoryRepository) Replace(ctx context.Context, entry *domain.ProfitHistory) error {
	query := `
		INSERT INTO profit_history (recipe_id, date, sale_price, ingredient_cost, profit, profit_margin, quantity_sold)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (recipe_id, date)
		DO UPDATE SET
			sale_price = EXCLUDED.sale_price,
			ingredient_cost = EXCLUDED.ingredient_cost,
			profit = EXCLUDED.profit,
			profit_margin = EXCLUDED.profit_margin,
			quantity_sold = EXCLUDED.quantity_sold
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		entry.RecipeID, entry.Date, entry.SalePrice, entry.IngredientCost,
		entry.Profit, entry.ProfitMargin, entry.QuantitySold,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to replace profit history: %w", err)
	}

	return nil
}

func (r *profitHistoryRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.ProfitHistory, error) {
	query := `
		SELECT id, recipe_id, date, sale_price, ingredient_cost, profit, profit_margin, quantity_sold
		FROM profit_history
		WHERE date >= $1 AND date < $2
		ORDER BY date, recipe_id
	`

	var entries []*domain.ProfitHistory
	if err := sqlx.SelectContext(ctx, r.db, &entries, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list profit history: %w", err)
	}

	return entries, nil
}
