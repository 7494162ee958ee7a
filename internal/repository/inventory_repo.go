// internal/repository/inventory_repo.go
package repository

import (
	"context"

	"github.com/crumbworks/bakeops/internal/domain"
)

type IngredientRepository interface {
	List(ctx context.Context) ([]*domain.Ingredient, error)
	Get(ctx context.Context, id int64) (*domain.Ingredient, error)
	GetByName(ctx context.Context, name string) (*domain.Ingredient, error)
	Create(ctx context.Context, ing *domain.Ingredient) error
	Update(ctx context.Context, ing *domain.Ingredient) error
	Delete(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta float64) error
}

type SupplierRepository interface {
	List(ctx context.Context) ([]*domain.Supplier, error)
	Get(ctx context.Context, id int64) (*domain.Supplier, error)
	GetByName(ctx context.Context, name string) (*domain.Supplier, error)
	Create(ctx context.Context, sup *domain.Supplier) error
	Update(ctx context.Context, sup *domain.Supplier) error
	Delete(ctx context.Context, id int64) error
}
