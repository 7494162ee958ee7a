package service

import (
	"context"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/repository"
	"github.com/rs/zerolog/log"
)

// UsageService derives ingredient consumption from the sales ledger by
// replaying each sale against its recipe's bill of materials.
type UsageService struct {
	sales   repository.SalesRepository
	recipes repository.RecipeRepository
	usage   repository.UsageRepository
}

func NewUsageService(sales repository.SalesRepository, recipes repository.RecipeRepository, usage repository.UsageRepository) *UsageService {
	return &UsageService{sales: sales, recipes: recipes, usage: usage}
}

// ApplyPendingSales replays every sale not yet booked into daily usage.
// Sales whose item name matches no recipe are marked applied and skipped;
// they contribute to revenue but not to consumption. Returns the number of
// sales processed.
func (s *UsageService) ApplyPendingSales(ctx context.Context) (int, error) {
	pending, err := s.sales.ListUnapplied(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return 0, err
	}
	byName := make(map[string]*domain.Recipe, len(recipes))
	for _, recipe := range recipes {
		byName[recipe.Name] = recipe
	}

	applied := 0
	for _, sale := range pending {
		perIngredient := make(map[int64]float64)
		if recipe, ok := byName[sale.ItemName]; ok {
			for _, item := range recipe.Items {
				perIngredient[item.IngredientID] += item.Quantity * float64(sale.Quantity)
			}
		} else {
			log.Debug().Str("item", sale.ItemName).Msg("sale has no matching recipe, usage skipped")
		}

		day := sale.Timestamp.UTC().Truncate(24 * time.Hour)
		if err := s.sales.ApplyUsage(ctx, sale.ID, day, perIngredient); err != nil {
			return applied, err
		}
		applied++
	}

	log.Info().Int("sales", applied).Msg("daily usage derived from sales")
	return applied, nil
}

// AverageDailyUsage exposes the estimator for a single ingredient.
func (s *UsageService) AverageDailyUsage(ctx context.Context, ingredientID int64, windowDays int) (float64, error) {
	if windowDays <= 0 {
		windowDays = usageWindowDays
	}

	usage, err := s.usage.AverageDailyUsage(ctx, time.Now().AddDate(0, 0, -windowDays), windowDays)
	if err != nil {
		return 0, err
	}

	return usage[ingredientID], nil
}

// History returns the recorded usage rows for one ingredient.
func (s *UsageService) History(ctx context.Context, ingredientID int64, from, to time.Time) ([]*domain.DailyUsage, error) {
	return s.usage.ListForIngredient(ctx, ingredientID, from, to)
}
