// Package memory implements the domain repositories on process memory.
package memory

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	"github.com/polkiloo/marketplace/internal/pkg/keylock"
)

// Storage keeps users, orders and status history in maps guarded by one mutex.
// Order holds are taken from a keylock table so that they can outlive a single
// critical section of the mutex.
type Storage struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]model.User
	emails  map[string]uuid.UUID
	orders  map[uuid.UUID]*model.Order
	history map[uuid.UUID][]model.StatusChange

	locks       *keylock.Table
	lockTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

var _ repository.Factory = (*Storage)(nil)

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type statusRepository struct {
	storage *Storage
}

// New creates empty storage. lockTimeout bounds the wait for an order hold.
func New(lockTimeout time.Duration, logger *slog.Logger) *Storage {
	return &Storage{
		users:       make(map[uuid.UUID]model.User),
		emails:      make(map[string]uuid.UUID),
		orders:      make(map[uuid.UUID]*model.Order),
		history:     make(map[uuid.UUID][]model.StatusChange),
		locks:       keylock.New(),
		lockTimeout: lockTimeout,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Statuses() repository.StatusRepository {
	return &statusRepository{storage: s}
}

// HealthCheck always succeeds while ctx is alive.
func (s *Storage) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Storage) Close() {}

// hold takes the exclusive hold on an order.
func (s *Storage) hold(ctx context.Context, orderID uuid.UUID) (func(), error) {
	release, err := s.locks.Acquire(ctx, orderID.String(), s.lockTimeout)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			return nil, domainErrors.ErrLockTimeout
		}
		return nil, domainErrors.Storage(err)
	}
	return release, nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(_ context.Context, user model.User) (*model.User, error) {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[user.Email]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	if _, ok := s.users[user.ID]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	user.CreatedAt = s.now()
	s.users[user.ID] = user
	s.emails[user.Email] = user.ID
	return &user, nil
}

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	return &user, nil
}

func (r *userRepository) List(_ context.Context) ([]model.User, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(_ context.Context, order model.Order) (*model.Order, error) {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[order.UserID]; !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	if _, ok := s.orders[order.ID]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	now := s.now()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Items = nil
	order.History = nil
	stored := order
	s.orders[order.ID] = &stored
	return cloneOrder(&stored, nil), nil
}

func (r *orderRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	return cloneOrder(order, s.history[id]), nil
}

func (r *orderRepository) List(_ context.Context, userID *uuid.UUID) ([]model.Order, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if userID != nil && o.UserID != *userID {
			continue
		}
		result = append(result, *cloneOrder(o, nil))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// AddItem takes the order hold so that it serializes with safe status transitions.
func (r *orderRepository) AddItem(ctx context.Context, item model.Item) (*model.Order, error) {
	s := r.storage
	release, err := s.hold(ctx, item.OrderID)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[item.OrderID]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	if order.Status != model.OrderStatusCreated {
		return nil, domainErrors.ErrOrderNotPayable
	}

	now := s.now()
	item.CreatedAt = now
	order.Items = append(order.Items, item)
	order.TotalAmount = model.Total(order.Items)
	order.UpdatedAt = now
	return cloneOrder(order, s.history[order.ID]), nil
}

// --- StatusRepository implementation ---

func (r *statusRepository) Within(ctx context.Context, strategy model.PaymentStrategy, fn func(context.Context, repository.StatusTx) error) error {
	if strategy != model.StrategySafe && strategy != model.StrategyUnsafe {
		return domainErrors.ErrInvalidInput
	}

	tx := &statusTx{storage: r.storage}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		r.storage.logger.DebugContext(ctx, "status transaction rolled back", "strategy", strategy, "error", err)
		return err
	}
	return tx.commit()
}

func (r *statusRepository) History(_ context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneHistory(s.history[orderID]), nil
}

func cloneOrder(o *model.Order, history []model.StatusChange) *model.Order {
	c := *o
	if o.Items != nil {
		c.Items = append([]model.Item(nil), o.Items...)
	}
	c.History = cloneHistory(history)
	return &c
}

func cloneHistory(history []model.StatusChange) []model.StatusChange {
	if len(history) == 0 {
		return nil
	}
	return append([]model.StatusChange(nil), history...)
}
