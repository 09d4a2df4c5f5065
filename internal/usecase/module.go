package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewUserUseCase,
	NewOrderUseCase,
	newPaymentUseCase,
	newConcurrencyTester,
)

type paymentParams struct {
	fx.In

	Orders   repository.OrderRepository
	Statuses repository.StatusRepository
	Config   *config.Config
	Logger   *slog.Logger
	Recorder PaymentRecorder `optional:"true"`
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Orders, p.Statuses, p.Config.ProcessingDelay, p.Recorder, p.Logger)
}

type testerParams struct {
	fx.In

	Payments *PaymentUseCase
	Orders   repository.OrderRepository
	Config   *config.Config
	Logger   *slog.Logger
	Recorder PaymentRecorder `optional:"true"`
}

func newConcurrencyTester(p testerParams) *ConcurrencyTester {
	return NewConcurrencyTester(p.Payments, p.Orders, p.Config.ConcurrentAttempts, p.Config.MaxConcurrentAttempts, p.Recorder, p.Logger)
}
