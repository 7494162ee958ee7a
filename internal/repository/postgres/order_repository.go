// internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/jmoiron/sqlx"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.supplier_id, s.name AS supplier_name, o.order_date,
		o.expected_delivery_date, o.actual_delivery_date, o.status,
		o.total_cost, o.notes, o.created_at
	FROM supplier_orders o
	JOIN suppliers s ON o.supplier_id = s.id
`

func (r *orderRepository) Create(ctx context.Context, order *domain.SupplierOrder) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO supplier_orders (
				supplier_id, order_date, expected_delivery_date, status,
				total_cost, notes, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id, created_at
		`

		err := tx.QueryRowContext(ctx, query,
			order.SupplierID, order.OrderDate, order.ExpectedDeliveryDate,
			order.Status, order.TotalCost, order.Notes,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create supplier order: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO supplier_order_items (order_id, ingredient_id, quantity, unit_cost, total_cost)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare order item insert: %w", err)
		}
		defer stmt.Close()

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			err := stmt.QueryRowContext(ctx,
				order.ID, item.IngredientID, item.Quantity, item.UnitCost, item.TotalCost,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
		}

		return nil
	})
}

func (r *orderRepository) List(ctx context.Context, status *domain.OrderStatus) ([]*domain.SupplierOrder, error) {
	query := orderSelect + `
		WHERE ($1::text IS NULL OR o.status = $1)
		ORDER BY o.order_date DESC, o.id DESC
	`

	var orders []*domain.SupplierOrder
	if err := sqlx.SelectContext(ctx, r.db, &orders, query, status); err != nil {
		return nil, fmt.Errorf("failed to list supplier orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (*domain.SupplierOrder, error) {
	var order domain.SupplierOrder
	if err := sqlx.GetContext(ctx, r.db, &order, orderSelect+` WHERE o.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get supplier order: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.SupplierOrder{&order}); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) attachItems(ctx context.Context, orders []*domain.SupplierOrder) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*domain.SupplierOrder, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		byID[order.ID] = order
	}

	query, args, err := sqlx.In(`
		SELECT oi.id, oi.order_id, oi.ingredient_id, oi.quantity, oi.unit_cost, oi.total_cost,
			i.name AS ingredient_name
		FROM supplier_order_items oi
		JOIN ingredients i ON oi.ingredient_id = i.id
		WHERE oi.order_id IN (?)
		ORDER BY i.name
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build order items query: %w", err)
	}

	var items []domain.SupplierOrderItem
	if err := sqlx.SelectContext(ctx, r.db, &items, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to list order items: %w", err)
	}

	for _, item := range items {
		order := byID[item.OrderID]
		order.Items = append(order.Items, item)
	}

	return nil
}

// MarkDelivered books the order's quantities into stock exactly once. The
// status guard in the UPDATE makes a second confirmation a domain.ErrOrderFinal
// instead of a double credit.
func (r *orderRepository) MarkDelivered(ctx context.Context, id int64) (*domain.SupplierOrder, error) {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE supplier_orders
			SET status = $1, actual_delivery_date = NOW()
			WHERE id = $2 AND status = $3
		`, domain.OrderDelivered, id, domain.OrderPending)
		if err != nil {
			return fmt.Errorf("failed to mark order delivered: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM supplier_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check order: %w", err)
			}
			if !exists {
				return domain.ErrNotFound
			}
			return domain.ErrOrderFinal
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE ingredients i
			SET current_stock = i.current_stock + oi.quantity, last_updated = NOW()
			FROM supplier_order_items oi
			WHERE oi.order_id = $1 AND oi.ingredient_id = i.id
		`, id)
		if err != nil {
			return fmt.Errorf("failed to credit delivered stock: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, id)
}

func (r *orderRepository) Cancel(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE supplier_orders
		SET status = $1
		WHERE id = $2 AND status = $3
	`, domain.OrderCancelled, id, domain.OrderPending)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowxContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM supplier_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrOrderFinal
	}

	return nil
}
