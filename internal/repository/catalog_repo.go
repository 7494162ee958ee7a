// internal/repository/catalog_repo.go
package repository

import (
	"context"

	"github.com/crumbworks/bakeops/internal/domain"
)

type RecipeRepository interface {
	List(ctx context.Context) ([]*domain.Recipe, error)
	Get(ctx context.Context, id int64) (*domain.Recipe, error)
	GetByName(ctx context.Context, name string) (*domain.Recipe, error)
	GetByPOSItemID(ctx context.Context, posItemID string) (*domain.Recipe, error)
	Create(ctx context.Context, recipe *domain.Recipe) error
	Update(ctx context.Context, recipe *domain.Recipe) error
	Delete(ctx context.Context, id int64) error
}
