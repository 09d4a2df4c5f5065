package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

type statusTx struct {
	tx pgx.Tx
}

// Within opens a READ COMMITTED transaction. The safe strategy additionally bounds
// lock waits so that a blocked FOR UPDATE fails with ErrLockTimeout.
func (r *statusRepository) Within(ctx context.Context, strategy model.PaymentStrategy, fn func(context.Context, repository.StatusTx) error) error {
	if strategy != model.StrategySafe && strategy != model.StrategyUnsafe {
		return domainErrors.ErrInvalidInput
	}

	err := r.storage.WithinTransaction(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if strategy == model.StrategySafe {
			if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, lockTimeoutSetting(r.storage.lockTimeout)); err != nil {
				return err
			}
		}
		return fn(ctx, &statusTx{tx: tx})
	})
	if err != nil {
		r.storage.logger.DebugContext(ctx, "status transaction rolled back", "strategy", strategy, "error", err)
		return mapError(err)
	}
	return nil
}

func (r *statusRepository) History(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	return listHistory(ctx, r.storage.pool, orderID)
}

func (t *statusTx) ReadStatus(ctx context.Context, orderID uuid.UUID) (model.OrderStatus, error) {
	return t.scanStatus(ctx, `SELECT status FROM orders WHERE id=$1`, orderID)
}

func (t *statusTx) LockStatus(ctx context.Context, orderID uuid.UUID) (model.OrderStatus, error) {
	return t.scanStatus(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID)
}

func (t *statusTx) scanStatus(ctx context.Context, query string, orderID uuid.UUID) (model.OrderStatus, error) {
	var status model.OrderStatus
	if err := t.tx.QueryRow(ctx, query, orderID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domainErrors.ErrOrderNotFound
		}
		return "", mapError(err)
	}
	return status, nil
}

// SetStatus writes status unconditionally. The precondition check belongs to the caller.
func (t *statusTx) SetStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, status, orderID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func (t *statusTx) AppendHistory(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (model.StatusChange, error) {
	const query = `INSERT INTO order_status_history (id, order_id, status) VALUES ($1, $2, $3) RETURNING changed_at`
	change := model.StatusChange{ID: uuid.New(), OrderID: orderID, Status: status}
	if err := t.tx.QueryRow(ctx, query, change.ID, orderID, status).Scan(&change.ChangedAt); err != nil {
		return model.StatusChange{}, mapError(err)
	}
	return change, nil
}

func listHistory(ctx context.Context, q querier, orderID uuid.UUID) ([]model.StatusChange, error) {
	const query = `SELECT id, order_id, status, changed_at
                   FROM order_status_history WHERE order_id=$1 ORDER BY changed_at, id`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.StatusChange
	for rows.Next() {
		var c model.StatusChange
		if err := rows.Scan(&c.ID, &c.OrderID, &c.Status, &c.ChangedAt); err != nil {
			return nil, mapError(err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func lockTimeoutSetting(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	ms := d.Milliseconds()
	if ms == 0 {
		ms = 1
	}
	return fmt.Sprintf("%dms", ms)
}
