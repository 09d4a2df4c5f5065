package test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// UserFacadeStub provides controllable behaviour for user endpoints.
type UserFacadeStub struct {
	RegisterFn func(context.Context, string, string) (*model.User, error)
	UserFn     func(context.Context, uuid.UUID) (*model.User, error)
	UsersFn    func(context.Context) ([]model.User, error)
}

// RegisterUser delegates to provided function or returns a fresh user.
func (s UserFacadeStub) RegisterUser(ctx context.Context, email, name string) (*model.User, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, name)
	}
	return &model.User{ID: uuid.New(), Email: email, Name: name, CreatedAt: time.Unix(0, 0).UTC()}, nil
}

func (s UserFacadeStub) User(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, id)
	}
	return &model.User{ID: id, Email: "user@example.com"}, nil
}

func (s UserFacadeStub) Users(ctx context.Context) ([]model.User, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx)
	}
	return []model.User{{ID: uuid.New(), Email: "user@example.com"}}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn  func(context.Context, uuid.UUID) (*model.Order, error)
	OrderFn   func(context.Context, uuid.UUID) (*model.Order, error)
	OrdersFn  func(context.Context, *uuid.UUID) ([]model.Order, error)
	AddItemFn func(context.Context, uuid.UUID, string, decimal.Decimal, int) (*model.Order, error)
	PayFn     func(context.Context, uuid.UUID) (*model.Order, error)
	CancelFn  func(context.Context, uuid.UUID) (*model.Order, error)
	HistoryFn func(context.Context, uuid.UUID) ([]model.StatusChange, error)
}

// CreateOrder delegates to provided function or returns an empty created order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID)
	}
	return &model.Order{ID: uuid.New(), UserID: userID, Status: model.OrderStatusCreated}, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusCreated}, nil
}

// Orders returns predefined orders for the optional user filter.
func (s OrderFacadeStub) Orders(ctx context.Context, userID *uuid.UUID) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: uuid.New(), Status: model.OrderStatusCreated}}, nil
}

func (s OrderFacadeStub) AddItem(ctx context.Context, orderID uuid.UUID, productName string, price decimal.Decimal, quantity int) (*model.Order, error) {
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, orderID, productName, price, quantity)
	}
	items := []model.Item{{ID: uuid.New(), OrderID: orderID, ProductName: productName, Price: price, Quantity: quantity}}
	return &model.Order{ID: orderID, Status: model.OrderStatusCreated, Items: items, TotalAmount: model.Total(items)}, nil
}

func (s OrderFacadeStub) PayOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.PayFn != nil {
		return s.PayFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPaid}, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusCancelled}, nil
}

func (s OrderFacadeStub) OrderHistory(ctx context.Context, id uuid.UUID) ([]model.StatusChange, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, id)
	}
	return nil, nil
}

// PaymentFacadeStub simulates payment operations.
type PaymentFacadeStub struct {
	AttemptFn func(context.Context, uuid.UUID, model.PaymentStrategy) (model.StatusChange, error)
	HistoryFn func(context.Context, uuid.UUID) ([]model.StatusChange, error)
	RunFn     func(context.Context, uuid.UUID, model.PaymentStrategy, int) (*model.ConcurrencyReport, error)
}

// AttemptPayment executes configured handler or reports a paid record.
func (s PaymentFacadeStub) AttemptPayment(ctx context.Context, orderID uuid.UUID, strategy model.PaymentStrategy) (model.StatusChange, error) {
	if s.AttemptFn != nil {
		return s.AttemptFn(ctx, orderID, strategy)
	}
	return model.StatusChange{ID: uuid.New(), OrderID: orderID, Status: model.OrderStatusPaid}, nil
}

func (s PaymentFacadeStub) PaymentHistory(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, orderID)
	}
	return nil, nil
}

// RunConcurrentTest executes configured handler or reports a clean single payment.
func (s PaymentFacadeStub) RunConcurrentTest(ctx context.Context, orderID uuid.UUID, strategy model.PaymentStrategy, attempts int) (*model.ConcurrencyReport, error) {
	if s.RunFn != nil {
		return s.RunFn(ctx, orderID, strategy, attempts)
	}
	return &model.ConcurrencyReport{
		OrderID:     orderID,
		Strategy:    strategy,
		Attempts:    []model.PaymentAttempt{{Number: 1, Success: true}},
		Summary:     model.ConcurrencySummary{TotalAttempts: 1, Successful: 1, PaymentCountInHistory: 1},
		FinalStatus: model.OrderStatusPaid,
		Explanation: "No race condition. Order was paid 1 time(s).",
	}, nil
}

// MarketplaceFacadeStub combines stubs for router tests.
type MarketplaceFacadeStub struct {
	UserFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
	HealthErr error
}

func (s MarketplaceFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}
