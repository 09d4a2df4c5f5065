package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// ConcurrencyTester launches overlapping payment attempts against one order and
// reports whether the order ended up paid more than once.
type ConcurrencyTester struct {
	payments        *PaymentUseCase
	orders          repository.OrderRepository
	defaultAttempts int
	maxAttempts     int
	recorder        PaymentRecorder
	logger          *slog.Logger
}

// NewConcurrencyTester constructs ConcurrencyTester. Requests for zero attempts use
// defaultAttempts; requests above maxAttempts are capped.
func NewConcurrencyTester(
	payments *PaymentUseCase,
	orders repository.OrderRepository,
	defaultAttempts, maxAttempts int,
	recorder PaymentRecorder,
	logger *slog.Logger,
) *ConcurrencyTester {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ConcurrencyTester{
		payments:        payments,
		orders:          orders,
		defaultAttempts: defaultAttempts,
		maxAttempts:     maxAttempts,
		recorder:        recorder,
		logger:          logger,
	}
}

// Run fans out attempts payment attempts released by a shared start barrier, waits
// for all of them and then reads the final order state and history. Attempt
// failures are reported in the result, never as an error.
func (t *ConcurrencyTester) Run(ctx context.Context, orderID uuid.UUID, strategy model.PaymentStrategy, attempts int) (*model.ConcurrencyReport, error) {
	if strategy != model.StrategySafe && strategy != model.StrategyUnsafe {
		return nil, domainErrors.ErrInvalidInput
	}
	n, err := t.attemptCount(attempts)
	if err != nil {
		return nil, err
	}
	if _, err := t.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	results := make([]model.PaymentAttempt, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			attempt := model.PaymentAttempt{Number: i + 1, Success: true}
			if _, err := t.payments.Pay(ctx, orderID, strategy); err != nil {
				attempt.Success = false
				attempt.Error = err.Error()
			}
			results[i] = attempt
		}(i)
	}
	close(start)
	wg.Wait()

	order, err := t.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	report := &model.ConcurrencyReport{
		OrderID:     orderID,
		Strategy:    strategy,
		Attempts:    results,
		Summary:     summarize(results, order.History),
		FinalStatus: order.Status,
		History:     order.History,
	}
	report.Explanation = explain(report.Summary)

	if report.Summary.RaceConditionDetected {
		t.recorder.ObserveRace(strategy)
		t.logger.WarnContext(ctx, "race condition detected",
			slog.String("order_id", orderID.String()),
			slog.String("strategy", string(strategy)),
			slog.Int("successful", report.Summary.Successful),
			slog.Int("payment_count_in_history", report.Summary.PaymentCountInHistory),
		)
	}
	return report, nil
}

func (t *ConcurrencyTester) attemptCount(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, domainErrors.ErrInvalidInput
	case requested == 0:
		requested = t.defaultAttempts
	}
	if t.maxAttempts > 0 && requested > t.maxAttempts {
		requested = t.maxAttempts
	}
	if requested < 1 {
		return 0, domainErrors.ErrInvalidInput
	}
	return requested, nil
}

func summarize(results []model.PaymentAttempt, history []model.StatusChange) model.ConcurrencySummary {
	summary := model.ConcurrencySummary{TotalAttempts: len(results)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	summary.PaymentCountInHistory = model.CountStatus(history, model.OrderStatusPaid)
	summary.RaceConditionDetected = summary.Successful > 1 || summary.PaymentCountInHistory > 1
	return summary
}

func explain(summary model.ConcurrencySummary) string {
	if summary.RaceConditionDetected {
		return fmt.Sprintf("RACE CONDITION! Order was paid %d times!", summary.PaymentCountInHistory)
	}
	return fmt.Sprintf("No race condition. Order was paid %d time(s).", summary.PaymentCountInHistory)
}
