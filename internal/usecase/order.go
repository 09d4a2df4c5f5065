package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	users    repository.UserRepository
	orders   repository.OrderRepository
	statuses repository.StatusRepository
	payments *PaymentUseCase
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	users repository.UserRepository,
	orders repository.OrderRepository,
	statuses repository.StatusRepository,
	payments *PaymentUseCase,
) *OrderUseCase {
	return &OrderUseCase{users: users, orders: orders, statuses: statuses, payments: payments}
}

// Create places an empty order for an existing user.
func (u *OrderUseCase) Create(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return u.orders.Create(ctx, model.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      model.OrderStatusCreated,
		TotalAmount: decimal.Zero,
	})
}

// Get returns order with items and status history.
func (u *OrderUseCase) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// List returns orders newest first, optionally restricted to one user.
func (u *OrderUseCase) List(ctx context.Context, userID *uuid.UUID) ([]model.Order, error) {
	return u.orders.List(ctx, userID)
}

// AddItem validates and appends an item to a created order.
func (u *OrderUseCase) AddItem(ctx context.Context, orderID uuid.UUID, productName string, price decimal.Decimal, quantity int) (*model.Order, error) {
	item, err := model.NewItem(orderID, productName, price, quantity)
	if err != nil {
		return nil, err
	}
	return u.orders.AddItem(ctx, item)
}

// Pay pays the order under the safe strategy.
func (u *OrderUseCase) Pay(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if _, err := u.payments.Pay(ctx, id, model.StrategySafe); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, id)
}

// Cancel moves a created order to cancelled while holding it exclusively.
func (u *OrderUseCase) Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if _, err := transition(ctx, u.statuses, model.StrategySafe, id, model.OrderStatusCancelled, nil); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, id)
}

// History returns every status change of an existing order.
func (u *OrderUseCase) History(ctx context.Context, id uuid.UUID) ([]model.StatusChange, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return order.History, nil
}
