// internal/repository/sales_repo.go
package repository

import (
	"context"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
)

type SalesRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	// CreateIfNew inserts a sale unless its POS transaction id is already
	// recorded. Returns false when the row was skipped as a duplicate.
	CreateIfNew(ctx context.Context, sale *domain.Sale) (bool, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Sale, error)
	ListUnapplied(ctx context.Context) ([]*domain.Sale, error)
	DailyRevenue(ctx context.Context, from, to time.Time) ([]*domain.DailySalesPoint, error)
	TopSellers(ctx context.Context, from, to time.Time, limit int) ([]*domain.TopSeller, error)
	UnitsSoldByItem(ctx context.Context, from, to time.Time) (map[string]int, error)
	// ApplyUsage decrements ingredient stock, accumulates per-day usage and
	// marks the sale applied, all in one transaction.
	ApplyUsage(ctx context.Context, saleID int64, day time.Time, perIngredient map[int64]float64) error
}

type UsageRepository interface {
	// AverageDailyUsage sums each ingredient's recorded consumption since
	// the cutoff and divides by the window length, so days without sales
	// count as zero-usage days.
	AverageDailyUsage(ctx context.Context, since time.Time, windowDays int) (map[int64]float64, error)
	ListForIngredient(ctx context.Context, ingredientID int64, from, to time.Time) ([]*domain.DailyUsage, error)
}

type ProfitHistoryRepository interface {
	Upsert(ctx context.Context, entry *domain.ProfitHistory) error
	Replace(ctx context.Context, entry *domain.ProfitHistory) error
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.ProfitHistory, error)
}
