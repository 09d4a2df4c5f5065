package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// StatusTx exposes order status operations bound to a single transaction.
type StatusTx interface {
	// ReadStatus returns the committed status without holding the order.
	ReadStatus(ctx context.Context, orderID uuid.UUID) (model.OrderStatus, error)
	// LockStatus takes the exclusive hold on the order and returns its status.
	// The hold lasts until the transaction ends.
	LockStatus(ctx context.Context, orderID uuid.UUID) (model.OrderStatus, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error
	AppendHistory(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (model.StatusChange, error)
}

// StatusRepository runs status transitions and reads the status history log.
type StatusRepository interface {
	// Within runs fn in a transaction configured for strategy. Writes become visible
	// only when fn returns nil.
	Within(ctx context.Context, strategy model.PaymentStrategy, fn func(ctx context.Context, tx StatusTx) error) error
	// History returns every status change of the order in append order.
	History(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error)
}
