package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// PaymentRecorder observes payment outcomes. Implementations must be safe for concurrent use.
type PaymentRecorder interface {
	ObservePayment(strategy model.PaymentStrategy, err error)
	ObserveRace(strategy model.PaymentStrategy)
}

type nopRecorder struct{}

func (nopRecorder) ObservePayment(model.PaymentStrategy, error) {}
func (nopRecorder) ObserveRace(model.PaymentStrategy)           {}

// PaymentUseCase executes single payment attempts.
type PaymentUseCase struct {
	orders   repository.OrderRepository
	statuses repository.StatusRepository
	delay    time.Duration
	recorder PaymentRecorder
	logger   *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase. delay simulates work between the
// status check and the write. A nil recorder disables observation.
func NewPaymentUseCase(
	orders repository.OrderRepository,
	statuses repository.StatusRepository,
	delay time.Duration,
	recorder PaymentRecorder,
	logger *slog.Logger,
) *PaymentUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &PaymentUseCase{orders: orders, statuses: statuses, delay: delay, recorder: recorder, logger: logger}
}

// Pay moves a created order to paid under strategy and appends a history record.
// A failed attempt leaves no mutation and is never retried.
func (u *PaymentUseCase) Pay(ctx context.Context, orderID uuid.UUID, strategy model.PaymentStrategy) (model.StatusChange, error) {
	change, err := transition(ctx, u.statuses, strategy, orderID, model.OrderStatusPaid, u.process)
	u.recorder.ObservePayment(strategy, err)

	if err != nil {
		u.logger.DebugContext(ctx, "payment attempt failed",
			slog.String("order_id", orderID.String()),
			slog.String("strategy", string(strategy)),
			slog.String("error", err.Error()),
		)
		return model.StatusChange{}, err
	}

	u.logger.DebugContext(ctx, "payment attempt succeeded",
		slog.String("order_id", orderID.String()),
		slog.String("strategy", string(strategy)),
		slog.String("history_id", change.ID.String()),
	)
	return change, nil
}

// PaymentHistory returns the paid records of an existing order.
func (u *PaymentUseCase) PaymentHistory(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	if _, err := u.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	history, err := u.statuses.History(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payments := make([]model.StatusChange, 0, len(history))
	for _, change := range history {
		if change.Status == model.OrderStatusPaid {
			payments = append(payments, change)
		}
	}
	return payments, nil
}

func (u *PaymentUseCase) process(ctx context.Context) error {
	if u.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(u.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
