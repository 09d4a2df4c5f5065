package model

import (
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
)

// StatusChange is an append-only record of an order status transition.
type StatusChange struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Status    OrderStatus
	ChangedAt time.Time
}

// PaymentStrategy selects the concurrency control used by a payment attempt.
type PaymentStrategy string

const (
	// StrategyUnsafe reads and writes in independent steps without holding the order row.
	StrategyUnsafe PaymentStrategy = "unsafe"
	// StrategySafe holds the order row exclusively for the whole read-check-write.
	StrategySafe PaymentStrategy = "safe"
)

// ParseStrategy converts textual mode into a PaymentStrategy.
func ParseStrategy(mode string) (PaymentStrategy, error) {
	switch PaymentStrategy(mode) {
	case StrategyUnsafe:
		return StrategyUnsafe, nil
	case StrategySafe:
		return StrategySafe, nil
	}
	return "", domainErrors.ErrInvalidInput
}

// PaymentAttempt is the outcome of one harness launched attempt.
type PaymentAttempt struct {
	Number  int
	Success bool
	Error   string
}

// ConcurrencySummary aggregates attempts and history after a concurrent run.
type ConcurrencySummary struct {
	TotalAttempts         int
	Successful            int
	Failed                int
	PaymentCountInHistory int
	RaceConditionDetected bool
}

// ConcurrencyReport is the verdict of a concurrent payment run.
type ConcurrencyReport struct {
	OrderID     uuid.UUID
	Strategy    PaymentStrategy
	Attempts    []PaymentAttempt
	Summary     ConcurrencySummary
	FinalStatus OrderStatus
	History     []StatusChange
	Explanation string
}

// CountStatus returns number of history records with the given status.
func CountStatus(history []StatusChange, status OrderStatus) int {
	var n int
	for _, change := range history {
		if change.Status == status {
			n++
		}
	}
	return n
}
