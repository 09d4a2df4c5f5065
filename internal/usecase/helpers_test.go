package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/storage/memory"
	"github.com/polkiloo/marketplace/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recorderStub struct {
	mu       sync.Mutex
	payments map[model.PaymentStrategy][]error
	races    map[model.PaymentStrategy]int
}

func newRecorderStub() *recorderStub {
	return &recorderStub{
		payments: make(map[model.PaymentStrategy][]error),
		races:    make(map[model.PaymentStrategy]int),
	}
}

func (r *recorderStub) ObservePayment(strategy model.PaymentStrategy, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[strategy] = append(r.payments[strategy], err)
}

func (r *recorderStub) ObserveRace(strategy model.PaymentStrategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.races[strategy]++
}

type fixture struct {
	storage  *memory.Storage
	recorder *recorderStub
	users    *UserUseCase
	orders   *OrderUseCase
	payments *PaymentUseCase
	tester   *ConcurrencyTester
}

func newFixture(t *testing.T, delay time.Duration) *fixture {
	t.Helper()

	logger := discardLogger()
	storage := memory.New(2*time.Second, logger)
	recorder := newRecorderStub()
	payments := NewPaymentUseCase(storage.Orders(), storage.Statuses(), delay, recorder, logger)

	return &fixture{
		storage:  storage,
		recorder: recorder,
		users:    NewUserUseCase(storage.Users()),
		orders:   NewOrderUseCase(storage.Users(), storage.Orders(), storage.Statuses(), payments),
		payments: payments,
		tester:   NewConcurrencyTester(payments, storage.Orders(), 2, 10, recorder, logger),
	}
}

// createdOrder registers a fresh user and places an order for them.
func (f *fixture) createdOrder(t *testing.T) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	user, err := f.users.Register(ctx, test.RandomEmail(), "buyer")
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	order, err := f.orders.Create(ctx, user.ID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order.ID
}
