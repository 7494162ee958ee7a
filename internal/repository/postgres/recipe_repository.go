// internal/repository/postgres/recipe_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/jmoiron/sqlx"
)

type recipeRepository struct {
	db *DB
}

func NewRecipeRepository(db *DB) *recipeRepository {
	return &recipeRepository{db: db}
}

const recipeSelect = `
	SELECT id, name, pos_item_id, sale_price, category, description,
		created_at, updated_at
	FROM recipes
`

func (r *recipeRepository) List(ctx context.Context) ([]*domain.Recipe, error) {
	var recipes []*domain.Recipe
	if err := sqlx.SelectContext(ctx, r.db, &recipes, recipeSelect+` ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	if err := r.attachItems(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

func (r *recipeRepository) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	return r.getOne(ctx, recipeSelect+` WHERE id = $1`, id)
}

func (r *recipeRepository) GetByName(ctx context.Context, name string) (*domain.Recipe, error) {
	return r.getOne(ctx, recipeSelect+` WHERE LOWER(name) = LOWER($1)`, name)
}

func (r *recipeRepository) GetByPOSItemID(ctx context.Context, posItemID string) (*domain.Recipe, error) {
	return r.getOne(ctx, recipeSelect+` WHERE pos_item_id = $1`, posItemID)
}

func (r *recipeRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := sqlx.GetContext(ctx, r.db, &recipe, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.Recipe{&recipe}); err != nil {
		return nil, err
	}

	return &recipe, nil
}

func (r *recipeRepository) attachItems(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	byID := make(map[int64]*domain.Recipe, len(recipes))
	for i, recipe := range recipes {
		ids[i] = recipe.ID
		byID[recipe.ID] = recipe
	}

	query, args, err := sqlx.In(`
		SELECT ri.id, ri.recipe_id, ri.ingredient_id, ri.quantity,
			i.name AS ingredient_name, i.unit, i.cost_per_unit
		FROM recipe_items ri
		JOIN ingredients i ON ri.ingredient_id = i.id
		WHERE ri.recipe_id IN (?)
		ORDER BY i.name
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build recipe items query: %w", err)
	}

	var items []domain.RecipeItem
	if err := sqlx.SelectContext(ctx, r.db, &items, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to list recipe items: %w", err)
	}

	for _, item := range items {
		recipe := byID[item.RecipeID]
		recipe.Items = append(recipe.Items, item)
	}

	return nil
}

func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO recipes (name, pos_item_id, sale_price, category, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRowContext(ctx, query,
			recipe.Name, recipe.POSItemID, recipe.SalePrice, recipe.Category, recipe.Description,
		).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
		if err != nil {
			return translateError(err, "failed to create recipe")
		}

		return r.insertItems(ctx, tx, recipe)
	})
}

func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE recipes
			SET name = $1, pos_item_id = $2, sale_price = $3, category = $4,
				description = $5, updated_at = NOW()
			WHERE id = $6
		`

		res, err := tx.ExecContext(ctx, query,
			recipe.Name, recipe.POSItemID, recipe.SalePrice, recipe.Category,
			recipe.Description, recipe.ID,
		)
		if err != nil {
			return translateError(err, "failed to update recipe")
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}

		// The bill of materials is replaced wholesale on every update.
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_items WHERE recipe_id = $1`, recipe.ID); err != nil {
			return fmt.Errorf("failed to clear recipe items: %w", err)
		}

		return r.insertItems(ctx, tx, recipe)
	})
}

func (r *recipeRepository) insertItems(ctx context.Context, tx *sql.Tx, recipe *domain.Recipe) error {
	if len(recipe.Items) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipe_items (recipe_id, ingredient_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare recipe item insert: %w", err)
	}
	defer stmt.Close()

	for i := range recipe.Items {
		item := &recipe.Items[i]
		item.RecipeID = recipe.ID
		if err := stmt.QueryRowContext(ctx, recipe.ID, item.IngredientID, item.Quantity).Scan(&item.ID); err != nil {
			return fmt.Errorf("failed to insert recipe item: %w", err)
		}
	}

	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_items WHERE recipe_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete recipe items: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}

		return nil
	})
}
