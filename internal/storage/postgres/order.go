package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

const orderColumns = `id, user_id, status, total_amount, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (id, user_id, status, total_amount) VALUES ($1, $2, $3, $4)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query, order.ID, order.UserID, order.Status, order.TotalAmount).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, mapError(err)
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var o model.Order
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, mapError(err)
	}

	items, err := listItems(ctx, r.storage.pool, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]

	o.History, err = listHistory(ctx, r.storage.pool, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) List(ctx context.Context, userID *uuid.UUID) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	var args []any
	if userID != nil {
		query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
		args = append(args, *userID)
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var (
		result []model.Order
		ids    []uuid.UUID
	)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		result = append(result, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	if len(ids) == 0 {
		return result, nil
	}

	items, err := listItems(ctx, r.storage.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *orderRepository) AddItem(ctx context.Context, item model.Item) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, lockTimeoutSetting(r.storage.lockTimeout)); err != nil {
			return err
		}
		var status model.OrderStatus
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, item.OrderID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrOrderNotFound
			}
			return err
		}
		if status != model.OrderStatusCreated {
			return domainErrors.ErrOrderNotPayable
		}

		const insertItem = `INSERT INTO order_items (id, order_id, product_name, price, quantity)
                            VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, insertItem, item.ID, item.OrderID, item.ProductName, item.Price, item.Quantity); err != nil {
			return err
		}

		const updateTotal = `UPDATE orders
                             SET total_amount = (SELECT COALESCE(SUM(price * quantity), 0) FROM order_items WHERE order_id=$1),
                                 updated_at = NOW()
                             WHERE id=$1`
		_, err = tx.Exec(ctx, updateTotal, item.OrderID)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return r.GetByID(ctx, item.OrderID)
}

func listItems(ctx context.Context, q querier, orderIDs []uuid.UUID) (map[uuid.UUID][]model.Item, error) {
	const query = `SELECT id, order_id, product_name, price, quantity, created_at
                   FROM order_items WHERE order_id = ANY($1) ORDER BY created_at, id`
	rows, err := q.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]model.Item, len(orderIDs))
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.Price, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		result[it.OrderID] = append(result[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}
