package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// UserFacade describes user operations exposed via HTTP.
type UserFacade interface {
	RegisterUser(ctx context.Context, email, name string) (*model.User, error)
	User(ctx context.Context, id uuid.UUID) (*model.User, error)
	Users(ctx context.Context) ([]model.User, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error)
	Order(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Orders(ctx context.Context, userID *uuid.UUID) ([]model.Order, error)
	AddItem(ctx context.Context, orderID uuid.UUID, productName string, price decimal.Decimal, quantity int) (*model.Order, error)
	PayOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	OrderHistory(ctx context.Context, id uuid.UUID) ([]model.StatusChange, error)
}

// PaymentFacade provides payment attempts and the concurrent harness.
type PaymentFacade interface {
	AttemptPayment(ctx context.Context, orderID uuid.UUID, strategy model.PaymentStrategy) (model.StatusChange, error)
	PaymentHistory(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error)
	RunConcurrentTest(ctx context.Context, orderID uuid.UUID, strategy model.PaymentStrategy, attempts int) (*model.ConcurrencyReport, error)
}

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MarketplaceFacade aggregates the full set of operations used across handlers.
type MarketplaceFacade interface {
	UserFacade
	OrderFacade
	PaymentFacade
	HealthChecker
}
