// internal/repository/postgres/ingredient_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const ingredientColumns = `
	i.id, i.name, i.unit, i.cost_per_unit, i.current_stock,
	i.supplier_id, i.own_lead_time_days, i.last_updated,
	s.name AS supplier_name,
	s.lead_time_days AS supplier_lead_time_days
`

type ingredientRepository struct {
	db *DB
}

func NewIngredientRepository(db *DB) *ingredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) List(ctx context.Context) ([]*domain.Ingredient, error) {
	query := `
		SELECT ` + ingredientColumns + `
		FROM ingredients i
		LEFT JOIN suppliers s ON i.supplier_id = s.id
		ORDER BY i.name
	`

	var ingredients []*domain.Ingredient
	if err := sqlx.SelectContext(ctx, r.db, &ingredients, query); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *ingredientRepository) Get(ctx context.Context, id int64) (*domain.Ingredient, error) {
	query := `
		SELECT ` + ingredientColumns + `
		FROM ingredients i
		LEFT JOIN suppliers s ON i.supplier_id = s.id
		WHERE i.id = $1
	`

	var ing domain.Ingredient
	if err := sqlx.GetContext(ctx, r.db, &ing, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}

	return &ing, nil
}

func (r *ingredientRepository) GetByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	query := `
		SELECT ` + ingredientColumns + `
		FROM ingredients i
		LEFT JOIN suppliers s ON i.supplier_id = s.id
		WHERE LOWER(i.name) = LOWER($1)
	`

	var ing domain.Ingredient
	if err := sqlx.GetContext(ctx, r.db, &ing, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient by name: %w", err)
	}

	return &ing, nil
}

func (r *ingredientRepository) Create(ctx context.Context, ing *domain.Ingredient) error {
	query := `
		INSERT INTO ingredients (
			name, unit, cost_per_unit, current_stock,
			supplier_id, own_lead_time_days, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, last_updated
	`

	err := r.db.QueryRowxContext(ctx, query,
		ing.Name, ing.Unit, ing.CostPerUnit, ing.CurrentStock,
		ing.SupplierID, ing.OwnLeadTimeDays,
	).Scan(&ing.ID, &ing.LastUpdated)
	if err != nil {
		return translateError(err, "failed to create ingredient")
	}

	return nil
}

func (r *ingredientRepository) Update(ctx context.Context, ing *domain.Ingredient) error {
	query := `
		UPDATE ingredients
		SET name = $1, unit = $2, cost_per_unit = $3, current_stock = $4,
			supplier_id = $5, own_lead_time_days = $6, last_updated = NOW()
		WHERE id = $7
	`

	res, err := r.db.ExecContext(ctx, query,
		ing.Name, ing.Unit, ing.CostPerUnit, ing.CurrentStock,
		ing.SupplierID, ing.OwnLeadTimeDays, ing.ID,
	)
	if err != nil {
		return translateError(err, "failed to update ingredient")
	}

	return requireRow(res)
}

func (r *ingredientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	return requireRow(res)
}

func (r *ingredientRepository) AdjustStock(ctx context.Context, id int64, delta float64) error {
	query := `
		UPDATE ingredients
		SET current_stock = GREATEST(current_stock + $1, 0), last_updated = $2
		WHERE id = $3
	`

	res, err := r.db.ExecContext(ctx, query, delta, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	return requireRow(res)
}

// translateError maps unique violations to the domain sentinel so services
// can answer conflicts without inspecting driver errors.
func translateError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrDuplicateName
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
