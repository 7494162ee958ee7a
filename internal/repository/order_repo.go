// internal/repository/order_repo.go
package repository

import (
	"context"

	"github.com/crumbworks/bakeops/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.SupplierOrder) error
	List(ctx context.Context, status *domain.OrderStatus) ([]*domain.SupplierOrder, error)
	Get(ctx context.Context, id int64) (*domain.SupplierOrder, error)
	// MarkDelivered moves a pending order to delivered and books its item
	// quantities into ingredient stock, in one transaction. Orders already
	// in a terminal state return domain.ErrOrderFinal.
	MarkDelivered(ctx context.Context, id int64) (*domain.SupplierOrder, error)
	Cancel(ctx context.Context, id int64) error
}
