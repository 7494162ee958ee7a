// internal/repository/postgres/usage_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/jmoiron/sqlx"
)

type usageRepository struct {
	db *DB
}

func NewUsageRepository(db *DB) *usageRepository {
	return &usageRepository{db: db}
}

// AverageDailyUsage sums each ingredient's recorded consumption since the
// cutoff and divides by the full window length. Days without sales of an
// ingredient count as zero-usage days.
func (r *usageRepository) AverageDailyUsage(ctx context.Context, since time.Time, windowDays int) (map[int64]float64, error) {
	if windowDays < 1 {
		windowDays = 1
	}

	query := `
		SELECT ingredient_id, SUM(quantity_used) AS total_used
		FROM daily_usage
		WHERE day >= $1
		GROUP BY ingredient_id
	`

	rows := []struct {
		IngredientID int64   `db:"ingredient_id"`
		TotalUsed    float64 `db:"total_used"`
	}{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, since); err != nil {
		return nil, fmt.Errorf("failed to average daily usage: %w", err)
	}

	usage := make(map[int64]float64, len(rows))
	for _, row := range rows {
		usage[row.IngredientID] = row.TotalUsed / float64(windowDays)
	}

	return usage, nil
}

func (r *usageRepository) ListForIngredient(ctx context.Context, ingredientID int64, from, to time.Time) ([]*domain.DailyUsage, error) {
	query := `
		SELECT id, ingredient_id, day, quantity_used
		FROM daily_usage
		WHERE ingredient_id = $1 AND day >= $2 AND day < $3
		ORDER BY day
	`

	var usage []*domain.DailyUsage
	if err := sqlx.SelectContext(ctx, r.db, &usage, query, ingredientID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list daily usage: %w", err)
	}

	return usage, nil
}
