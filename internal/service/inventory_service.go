package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/repository"
)

// InventoryService owns ingredient and supplier bookkeeping. Name
// uniqueness is checked before inserts so callers get a clean conflict
// instead of a driver error.
type InventoryService struct {
	ingredients repository.IngredientRepository
	suppliers   repository.SupplierRepository
}

func NewInventoryService(ingredients repository.IngredientRepository, suppliers repository.SupplierRepository) *InventoryService {
	return &InventoryService{ingredients: ingredients, suppliers: suppliers}
}

func (s *InventoryService) ListIngredients(ctx context.Context) ([]*domain.Ingredient, error) {
	return s.ingredients.List(ctx)
}

func (s *InventoryService) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return s.ingredients.Get(ctx, id)
}

func (s *InventoryService) CreateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	if err := validateIngredient(ing); err != nil {
		return err
	}
	if err := s.checkIngredientName(ctx, ing.Name, 0); err != nil {
		return err
	}
	if err := s.checkSupplierLink(ctx, ing.SupplierID); err != nil {
		return err
	}

	return s.ingredients.Create(ctx, ing)
}

func (s *InventoryService) UpdateIngredient(ctx context.Context, ing *domain.Ingredient) error {
	if err := validateIngredient(ing); err != nil {
		return err
	}
	if err := s.checkIngredientName(ctx, ing.Name, ing.ID); err != nil {
		return err
	}
	if err := s.checkSupplierLink(ctx, ing.SupplierID); err != nil {
		return err
	}

	return s.ingredients.Update(ctx, ing)
}

func (s *InventoryService) DeleteIngredient(ctx context.Context, id int64) error {
	return s.ingredients.Delete(ctx, id)
}

// SetStock replaces an ingredient's stock level after a manual count.
func (s *InventoryService) SetStock(ctx context.Context, id int64, quantity float64) (*domain.Ingredient, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalid)
	}

	ing, err := s.ingredients.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ing.CurrentStock = quantity
	if err := s.ingredients.Update(ctx, ing); err != nil {
		return nil, err
	}

	return ing, nil
}

func (s *InventoryService) ListSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *InventoryService) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	return s.suppliers.Get(ctx, id)
}

func (s *InventoryService) CreateSupplier(ctx context.Context, sup *domain.Supplier) error {
	if err := validateSupplier(sup); err != nil {
		return err
	}
	if err := s.checkSupplierName(ctx, sup.Name, 0); err != nil {
		return err
	}

	return s.suppliers.Create(ctx, sup)
}

func (s *InventoryService) UpdateSupplier(ctx context.Context, sup *domain.Supplier) error {
	if err := validateSupplier(sup); err != nil {
		return err
	}
	if err := s.checkSupplierName(ctx, sup.Name, sup.ID); err != nil {
		return err
	}

	return s.suppliers.Update(ctx, sup)
}

// DeleteSupplier removes the supplier; linked ingredients are detached by
// the repository and fall back to their own lead-time estimates.
func (s *InventoryService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.suppliers.Delete(ctx, id)
}

func validateIngredient(ing *domain.Ingredient) error {
	if ing.Name == "" {
		return fmt.Errorf("%w: ingredient name is required", domain.ErrInvalid)
	}
	if ing.Unit == "" {
		return fmt.Errorf("%w: ingredient unit is required", domain.ErrInvalid)
	}
	if ing.CostPerUnit < 0 {
		return fmt.Errorf("%w: cost per unit cannot be negative", domain.ErrInvalid)
	}
	if ing.CurrentStock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalid)
	}
	if ing.OwnLeadTimeDays < 1 {
		ing.OwnLeadTimeDays = 1
	}
	return nil
}

func validateSupplier(sup *domain.Supplier) error {
	if sup.Name == "" {
		return fmt.Errorf("%w: supplier name is required", domain.ErrInvalid)
	}
	if sup.LeadTimeDays < 1 {
		sup.LeadTimeDays = 1
	}
	return nil
}

func (s *InventoryService) checkIngredientName(ctx context.Context, name string, selfID int64) error {
	existing, err := s.ingredients.GetByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return domain.ErrDuplicateName
	}
	return nil
}

func (s *InventoryService) checkSupplierName(ctx context.Context, name string, selfID int64) error {
	existing, err := s.suppliers.GetByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return domain.ErrDuplicateName
	}
	return nil
}

func (s *InventoryService) checkSupplierLink(ctx context.Context, supplierID *int64) error {
	if supplierID == nil {
		return nil
	}
	if _, err := s.suppliers.Get(ctx, *supplierID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: supplier %d does not exist", domain.ErrInvalid, *supplierID)
		}
		return err
	}
	return nil
}
