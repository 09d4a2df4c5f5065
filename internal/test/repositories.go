package test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu    sync.Mutex
	Users map[uuid.UUID]*model.User
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub(users ...model.User) *UserRepositoryStub {
	s := &UserRepositoryStub{Users: make(map[uuid.UUID]*model.User)}
	for i := range users {
		s.Users[users[i].ID] = &users[i]
	}
	return s
}

// Create registers user unless email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[uuid.UUID]*model.User)
	}
	for _, existing := range s.Users {
		if existing.Email == user.Email {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	s.Users[user.ID] = &user
	return &user, nil
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrUserNotFound
}

// List returns stored users in unspecified order.
func (s *UserRepositoryStub) List(context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.User, 0, len(s.Users))
	for _, u := range s.Users {
		result = append(result, *u)
	}
	return result, nil
}

// OrderRepositoryStub delegates to configured functions.
type OrderRepositoryStub struct {
	CreateFn  func(context.Context, model.Order) (*model.Order, error)
	GetByIDFn func(context.Context, uuid.UUID) (*model.Order, error)
	ListFn    func(context.Context, *uuid.UUID) ([]model.Order, error)
	AddItemFn func(context.Context, model.Item) (*model.Order, error)
}

// Create echoes the order unless CreateFn is set.
func (s *OrderRepositoryStub) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	return &order, nil
}

// GetByID returns a created order with requested id unless GetByIDFn is set.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusCreated}, nil
}

// List returns no orders unless ListFn is set.
func (s *OrderRepositoryStub) List(ctx context.Context, userID *uuid.UUID) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	return nil, nil
}

// AddItem returns an order containing the item unless AddItemFn is set.
func (s *OrderRepositoryStub) AddItem(ctx context.Context, item model.Item) (*model.Order, error) {
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, item)
	}
	items := []model.Item{item}
	return &model.Order{ID: item.OrderID, Status: model.OrderStatusCreated, Items: items, TotalAmount: model.Total(items)}, nil
}

// StatusTxStub records calls made inside a status transaction.
type StatusTxStub struct {
	mu        sync.Mutex
	Status    model.OrderStatus
	ReadErr   error
	SetErr    error
	AppendErr error

	Reads    int
	Locks    int
	Written  []model.OrderStatus
	Appended []model.StatusChange
}

func (t *StatusTxStub) ReadStatus(context.Context, uuid.UUID) (model.OrderStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Reads++
	return t.Status, t.ReadErr
}

func (t *StatusTxStub) LockStatus(context.Context, uuid.UUID) (model.OrderStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Locks++
	return t.Status, t.ReadErr
}

func (t *StatusTxStub) SetStatus(_ context.Context, _ uuid.UUID, status model.OrderStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SetErr != nil {
		return t.SetErr
	}
	t.Written = append(t.Written, status)
	return nil
}

func (t *StatusTxStub) AppendHistory(_ context.Context, orderID uuid.UUID, status model.OrderStatus) (model.StatusChange, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.AppendErr != nil {
		return model.StatusChange{}, t.AppendErr
	}
	change := model.StatusChange{ID: uuid.New(), OrderID: orderID, Status: status}
	t.Appended = append(t.Appended, change)
	return change, nil
}

// StatusRepositoryStub runs callbacks against Tx and returns CommitErr afterwards.
type StatusRepositoryStub struct {
	Tx         *StatusTxStub
	CommitErr  error
	Strategies []model.PaymentStrategy
	HistoryFn  func(context.Context, uuid.UUID) ([]model.StatusChange, error)
}

func (s *StatusRepositoryStub) Within(ctx context.Context, strategy model.PaymentStrategy, fn func(context.Context, repository.StatusTx) error) error {
	s.Strategies = append(s.Strategies, strategy)
	if s.Tx == nil {
		s.Tx = &StatusTxStub{Status: model.OrderStatusCreated}
	}
	if err := fn(ctx, s.Tx); err != nil {
		return err
	}
	return s.CommitErr
}

func (s *StatusRepositoryStub) History(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, orderID)
	}
	if s.Tx == nil {
		return nil, nil
	}
	return s.Tx.Appended, nil
}

var (
	_ repository.UserRepository   = (*UserRepositoryStub)(nil)
	_ repository.OrderRepository  = (*OrderRepositoryStub)(nil)
	_ repository.StatusRepository = (*StatusRepositoryStub)(nil)
)
