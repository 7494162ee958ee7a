// internal/repository/postgres/supplier_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/jmoiron/sqlx"
)

type supplierRepository struct {
	db *DB
}

func NewSupplierRepository(db *DB) *supplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `
		SELECT id, name, contact_name, email, phone, address, notes,
			lead_time_days, created_at, updated_at
		FROM suppliers
		ORDER BY name
	`

	var suppliers []*domain.Supplier
	if err := sqlx.SelectContext(ctx, r.db, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *supplierRepository) Get(ctx context.Context, id int64) (*domain.Supplier, error) {
	query := `
		SELECT id, name, contact_name, email, phone, address, notes,
			lead_time_days, created_at, updated_at
		FROM suppliers
		WHERE id = $1
	`

	var sup domain.Supplier
	if err := sqlx.GetContext(ctx, r.db, &sup, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return &sup, nil
}

func (r *supplierRepository) GetByName(ctx context.Context, name string) (*domain.Supplier, error) {
	query := `
		SELECT id, name, contact_name, email, phone, address, notes,
			lead_time_days, created_at, updated_at
		FROM suppliers
		WHERE LOWER(name) = LOWER($1)
	`

	var sup domain.Supplier
	if err := sqlx.GetContext(ctx, r.db, &sup, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get supplier by name: %w", err)
	}

	return &sup, nil
}

func (r *supplierRepository) Create(ctx context.Context, sup *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (
			name, contact_name, email, phone, address, notes,
			lead_time_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		sup.Name, sup.ContactName, sup.Email, sup.Phone, sup.Address,
		sup.Notes, sup.LeadTimeDays,
	).Scan(&sup.ID, &sup.CreatedAt, &sup.UpdatedAt)
	if err != nil {
		return translateError(err, "failed to create supplier")
	}

	return nil
}

func (r *supplierRepository) Update(ctx context.Context, sup *domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, contact_name = $2, email = $3, phone = $4,
			address = $5, notes = $6, lead_time_days = $7, updated_at = NOW()
		WHERE id = $8
	`

	res, err := r.db.ExecContext(ctx, query,
		sup.Name, sup.ContactName, sup.Email, sup.Phone, sup.Address,
		sup.Notes, sup.LeadTimeDays, sup.ID,
	)
	if err != nil {
		return translateError(err, "failed to update supplier")
	}

	return requireRow(res)
}

// Delete detaches the supplier's ingredients, so they fall back to their own
// lead-time estimates, and removes the supplier's order history with it.
func (r *supplierRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE ingredients SET supplier_id = NULL WHERE supplier_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to detach ingredients: %w", err)
		}

		// Order items cascade from the orders.
		_, err = tx.ExecContext(ctx,
			`DELETE FROM supplier_orders WHERE supplier_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete supplier orders: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete supplier: %w", err)
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
