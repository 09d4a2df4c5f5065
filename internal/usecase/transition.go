package usecase

import (
	"context"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// transition runs the read-check-write sequence moving an order to target.
// The safe strategy holds the order before reading; the unsafe strategy reads a
// plain snapshot. work, when set, runs between the check and the write.
func transition(
	ctx context.Context,
	statuses repository.StatusRepository,
	strategy model.PaymentStrategy,
	orderID uuid.UUID,
	target model.OrderStatus,
	work func(context.Context) error,
) (model.StatusChange, error) {
	var change model.StatusChange
	err := statuses.Within(ctx, strategy, func(ctx context.Context, tx repository.StatusTx) error {
		read := tx.ReadStatus
		if strategy == model.StrategySafe {
			read = tx.LockStatus
		}

		current, err := read(ctx, orderID)
		if err != nil {
			return err
		}
		if err := current.Transition(target); err != nil {
			return err
		}

		if work != nil {
			if err := work(ctx); err != nil {
				return err
			}
		}

		if err := tx.SetStatus(ctx, orderID, target); err != nil {
			return err
		}
		change, err = tx.AppendHistory(ctx, orderID, target)
		return err
	})
	if err != nil {
		return model.StatusChange{}, domainErrors.Storage(err)
	}
	return change, nil
}
