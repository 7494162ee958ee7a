// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/jmoiron/sqlx"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (pos_transaction_id, item_name, quantity, total_amount, timestamp, usage_applied, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		sale.POSTransactionID, sale.ItemName, sale.Quantity, sale.TotalAmount, sale.Timestamp,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return translateError(err, "failed to create sale")
	}

	return nil
}

func (r *salesRepository) CreateIfNew(ctx context.Context, sale *domain.Sale) (bool, error) {
	query := `
		INSERT INTO sales (pos_transaction_id, item_name, quantity, total_amount, timestamp, usage_applied, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
		ON CONFLICT (pos_transaction_id) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		sale.POSTransactionID, sale.ItemName, sale.Quantity, sale.TotalAmount, sale.Timestamp,
	).Scan(&sale.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert sale: %w", err)
	}

	return true, nil
}

func (r *salesRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Sale, error) {
	query := `
		SELECT id, pos_transaction_id, item_name, quantity, total_amount, timestamp, usage_applied, created_at
		FROM sales
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp
	`

	var sales []*domain.Sale
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	return sales, nil
}

func (r *salesRepository) ListUnapplied(ctx context.Context) ([]*domain.Sale, error) {
	query := `
		SELECT id, pos_transaction_id, item_name, quantity, total_amount, timestamp, usage_applied, created_at
		FROM sales
		WHERE usage_applied = FALSE
		ORDER BY timestamp
	`

	var sales []*domain.Sale
	if err := sqlx.SelectContext(ctx, r.db, &sales, query); err != nil {
		return nil, fmt.Errorf("failed to list unapplied sales: %w", err)
	}

	return sales, nil
}

func (r *salesRepository) DailyRevenue(ctx context.Context, from, to time.Time) ([]*domain.DailySalesPoint, error) {
	query := `
		SELECT DATE_TRUNC('day', timestamp) AS day,
			SUM(total_amount) AS revenue,
			SUM(quantity) AS quantity
		FROM sales
		WHERE timestamp >= $1 AND timestamp < $2
		GROUP BY 1
		ORDER BY 1
	`

	var points []*domain.DailySalesPoint
	if err := sqlx.SelectContext(ctx, r.db, &points, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to aggregate daily revenue: %w", err)
	}

	return points, nil
}

func (r *salesRepository) TopSellers(ctx context.Context, from, to time.Time, limit int) ([]*domain.TopSeller, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT item_name, SUM(quantity) AS quantity, SUM(total_amount) AS revenue
		FROM sales
		WHERE timestamp >= $1 AND timestamp < $2
		GROUP BY item_name
		ORDER BY quantity DESC
		LIMIT $3
	`

	var sellers []*domain.TopSeller
	if err := sqlx.SelectContext(ctx, r.db, &sellers, query, from, to, limit); err != nil {
		return nil, fmt.Errorf("failed to rank top sellers: %w", err)
	}

	return sellers, nil
}

func (r *salesRepository) UnitsSoldByItem(ctx context.Context, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT item_name, SUM(quantity) AS quantity
		FROM sales
		WHERE timestamp >= $1 AND timestamp < $2
		GROUP BY item_name
	`

	rows := []struct {
		ItemName string `db:"item_name"`
		Quantity int    `db:"quantity"`
	}{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to sum units sold: %w", err)
	}

	units := make(map[string]int, len(rows))
	for _, row := range rows {
		units[row.ItemName] = row.Quantity
	}

	return units, nil
}

// ApplyUsage replays one sale into the consumption ledger. Flipping the
// usage_applied flag in the same transaction makes replays idempotent: a
// sale already applied is a no-op.
func (r *salesRepository) ApplyUsage(ctx context.Context, saleID int64, day time.Time, perIngredient map[int64]float64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE sales SET usage_applied = TRUE WHERE id = $1 AND usage_applied = FALSE`, saleID)
		if err != nil {
			return fmt.Errorf("failed to mark sale applied: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return nil
		}

		usageStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO daily_usage (ingredient_id, day, quantity_used)
			VALUES ($1, $2, $3)
			ON CONFLICT (ingredient_id, day)
			DO UPDATE SET quantity_used = daily_usage.quantity_used + EXCLUDED.quantity_used
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare usage upsert: %w", err)
		}
		defer usageStmt.Close()

		stockStmt, err := tx.PrepareContext(ctx, `
			UPDATE ingredients
			SET current_stock = GREATEST(current_stock - $1, 0), last_updated = NOW()
			WHERE id = $2
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare stock update: %w", err)
		}
		defer stockStmt.Close()

		for ingredientID, qty := range perIngredient {
			if _, err := usageStmt.ExecContext(ctx, ingredientID, day, qty); err != nil {
				return fmt.Errorf("failed to accumulate usage: %w", err)
			}
			if _, err := stockStmt.ExecContext(ctx, qty, ingredientID); err != nil {
				return fmt.Errorf("failed to draw down stock: %w", err)
			}
		}

		return nil
	})
}
