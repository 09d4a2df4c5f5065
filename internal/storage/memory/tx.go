package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

// statusTx buffers writes and applies them to storage on commit. Reads observe
// committed state only.
type statusTx struct {
	storage *Storage

	mu       sync.Mutex
	releases []func()
	statuses map[uuid.UUID]model.OrderStatus
	appended []model.StatusChange
}

func (t *statusTx) ReadStatus(_ context.Context, orderID uuid.UUID) (model.OrderStatus, error) {
	s := t.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return "", domainErrors.ErrOrderNotFound
	}
	return order.Status, nil
}

func (t *statusTx) LockStatus(ctx context.Context, orderID uuid.UUID) (model.OrderStatus, error) {
	release, err := t.storage.hold(ctx, orderID)
	if err != nil {
		return "", err
	}
	t.mu.Lock()
	t.releases = append(t.releases, release)
	t.mu.Unlock()

	return t.ReadStatus(ctx, orderID)
}

func (t *statusTx) SetStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	if _, err := t.ReadStatus(ctx, orderID); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.statuses == nil {
		t.statuses = make(map[uuid.UUID]model.OrderStatus)
	}
	t.statuses[orderID] = status
	return nil
}

func (t *statusTx) AppendHistory(_ context.Context, orderID uuid.UUID, status model.OrderStatus) (model.StatusChange, error) {
	change := model.StatusChange{
		ID:        uuid.New(),
		OrderID:   orderID,
		Status:    status,
		ChangedAt: t.storage.now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.appended = append(t.appended, change)
	return change, nil
}

func (t *statusTx) commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.statuses {
		if _, ok := s.orders[id]; !ok {
			return domainErrors.ErrOrderNotFound
		}
	}
	for _, change := range t.appended {
		if _, ok := s.orders[change.OrderID]; !ok {
			return domainErrors.ErrOrderNotFound
		}
	}

	now := s.now()
	for id, status := range t.statuses {
		order := s.orders[id]
		order.Status = status
		order.UpdatedAt = now
	}
	for _, change := range t.appended {
		s.history[change.OrderID] = append(s.history[change.OrderID], change)
	}
	return nil
}

func (t *statusTx) release() {
	t.mu.Lock()
	releases := t.releases
	t.releases = nil
	t.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}
