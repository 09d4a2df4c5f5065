package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (*model.Order, error)
	// GetByID returns the order together with its items and status history.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// List returns orders newest first, restricted to one user when userID is not nil.
	List(ctx context.Context, userID *uuid.UUID) ([]model.Order, error)
	// AddItem appends item while the order is created and recomputes its total.
	AddItem(ctx context.Context, item model.Item) (*model.Order, error)
}
