package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/repository"
)

// CatalogService owns recipes and their bills of materials.
type CatalogService struct {
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
}

func NewCatalogService(recipes repository.RecipeRepository, ingredients repository.IngredientRepository) *CatalogService {
	return &CatalogService{recipes: recipes, ingredients: ingredients}
}

func (s *CatalogService) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	return s.recipes.List(ctx)
}

func (s *CatalogService) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	return s.recipes.Get(ctx, id)
}

func (s *CatalogService) CreateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if err := s.validateRecipe(ctx, recipe, 0); err != nil {
		return err
	}
	return s.recipes.Create(ctx, recipe)
}

func (s *CatalogService) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if err := s.validateRecipe(ctx, recipe, recipe.ID); err != nil {
		return err
	}
	return s.recipes.Update(ctx, recipe)
}

func (s *CatalogService) DeleteRecipe(ctx context.Context, id int64) error {
	return s.recipes.Delete(ctx, id)
}

func (s *CatalogService) validateRecipe(ctx context.Context, recipe *domain.Recipe, selfID int64) error {
	if recipe.Name == "" {
		return fmt.Errorf("%w: recipe name is required", domain.ErrInvalid)
	}
	if recipe.SalePrice < 0 {
		return fmt.Errorf("%w: sale price cannot be negative", domain.ErrInvalid)
	}

	existing, err := s.recipes.GetByName(ctx, recipe.Name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err == nil && existing.ID != selfID {
		return domain.ErrDuplicateName
	}

	for _, item := range recipe.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: recipe item quantity must be positive", domain.ErrInvalid)
		}
		if _, err := s.ingredients.Get(ctx, item.IngredientID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: ingredient %d does not exist", domain.ErrInvalid, item.IngredientID)
			}
			return err
		}
	}

	return nil
}
