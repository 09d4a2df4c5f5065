package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MarketplaceFacade adapts use cases to the operations exposed over HTTP.
type MarketplaceFacade struct {
	users    *usecase.UserUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
	tester   *usecase.ConcurrencyTester
	health   HealthChecker
}

func NewMarketplaceFacade(
	users *usecase.UserUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
	tester *usecase.ConcurrencyTester,
	health HealthChecker,
) *MarketplaceFacade {
	return &MarketplaceFacade{users: users, orders: orders, payments: payments, tester: tester, health: health}
}

func (f *MarketplaceFacade) RegisterUser(ctx context.Context, email, name string) (*model.User, error) {
	return f.users.Register(ctx, email, name)
}

func (f *MarketplaceFacade) User(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.users.Get(ctx, id)
}

func (f *MarketplaceFacade) Users(ctx context.Context) ([]model.User, error) {
	return f.users.List(ctx)
}

func (f *MarketplaceFacade) CreateOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	return f.orders.Create(ctx, userID)
}

func (f *MarketplaceFacade) Order(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *MarketplaceFacade) Orders(ctx context.Context, userID *uuid.UUID) ([]model.Order, error) {
	return f.orders.List(ctx, userID)
}

func (f *MarketplaceFacade) AddItem(ctx context.Context, orderID uuid.UUID, productName string, price decimal.Decimal, quantity int) (*model.Order, error) {
	return f.orders.AddItem(ctx, orderID, productName, price, quantity)
}

func (f *MarketplaceFacade) PayOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return f.orders.Pay(ctx, id)
}

func (f *MarketplaceFacade) CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return f.orders.Cancel(ctx, id)
}

func (f *MarketplaceFacade) OrderHistory(ctx context.Context, id uuid.UUID) ([]model.StatusChange, error) {
	return f.orders.History(ctx, id)
}

func (f *MarketplaceFacade) AttemptPayment(ctx context.Context, orderID uuid.UUID, strategy model.PaymentStrategy) (model.StatusChange, error) {
	return f.payments.Pay(ctx, orderID, strategy)
}

func (f *MarketplaceFacade) PaymentHistory(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	return f.payments.PaymentHistory(ctx, orderID)
}

func (f *MarketplaceFacade) RunConcurrentTest(ctx context.Context, orderID uuid.UUID, strategy model.PaymentStrategy, attempts int) (*model.ConcurrencyReport, error) {
	return f.tester.Run(ctx, orderID, strategy, attempts)
}

// HealthCheck pings storage. A facade without a checker is always healthy.
func (f *MarketplaceFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
