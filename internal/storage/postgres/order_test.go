package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

var (
	orderRowColumns   = []string{"id", "user_id", "status", "total_amount", "created_at", "updated_at"}
	itemRowColumns    = []string{"id", "order_id", "product_name", "price", "quantity", "created_at"}
	historyRowColumns = []string{"id", "order_id", "status", "changed_at"}
)

func TestOrderRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	order := model.Order{ID: uuid.New(), UserID: uuid.New(), Status: model.OrderStatusCreated, TotalAmount: decimal.Zero}
	now := time.Now()

	mock.ExpectQuery("INSERT INTO orders").WithArgs(order.ID, order.UserID, model.OrderStatusCreated, decimal.Zero).WillReturnRows(
		pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	created, err := repo.Create(context.Background(), order)
	if err != nil || created.ID != order.ID || !created.CreatedAt.Equal(now) {
		t.Fatalf("unexpected result: %+v err=%v", created, err)
	}

	mock.ExpectQuery("INSERT INTO orders").WithArgs(order.ID, order.UserID, model.OrderStatusCreated, decimal.Zero).WillReturnError(&pgconn.PgError{Code: "23503"})
	if _, err := repo.Create(context.Background(), order); !errors.Is(err, domainErrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO orders").WithArgs(order.ID, order.UserID, model.OrderStatusCreated, decimal.Zero).WillReturnError(errors.New("insert"))
	if _, err := repo.Create(context.Background(), order); !errors.Is(err, domainErrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGetByID(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	id, userID := uuid.New(), uuid.New()
	now := time.Now()
	price := decimal.RequireFromString("10.50")
	total := decimal.RequireFromString("21.00")

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders WHERE id=").WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow(id, userID, model.OrderStatusPaid, total, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]uuid.UUID{id}).WillReturnRows(
		pgxmockv3.NewRows(itemRowColumns).AddRow(uuid.New(), id, "book", price, 2, now))
	mock.ExpectQuery("FROM order_status_history WHERE order_id=").WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows(historyRowColumns).AddRow(uuid.New(), id, model.OrderStatusPaid, now))

	order, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPaid || !order.TotalAmount.Equal(total) {
		t.Fatalf("unexpected order: %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 || !order.Items[0].Price.Equal(price) {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if len(order.History) != 1 || order.History[0].Status != model.OrderStatusPaid {
		t.Fatalf("unexpected history: %+v", order.History)
	}

	missing := uuid.New()
	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders WHERE id=").WithArgs(missing).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), missing); !errors.Is(err, domainErrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders WHERE id=").WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow(id, userID, model.OrderStatusCreated, decimal.Zero, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]uuid.UUID{id}).WillReturnError(errors.New("items"))
	if _, err := repo.GetByID(context.Background(), id); !errors.Is(err, domainErrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders WHERE id=").WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow(id, userID, model.OrderStatusCreated, decimal.Zero, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]uuid.UUID{id}).WillReturnRows(pgxmockv3.NewRows(itemRowColumns))
	mock.ExpectQuery("FROM order_status_history WHERE order_id=").WithArgs(id).WillReturnError(errors.New("history"))
	if _, err := repo.GetByID(context.Background(), id); !errors.Is(err, domainErrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	userID := uuid.New()
	first, second := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders WHERE user_id=").WithArgs(userID).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).
			AddRow(first, userID, model.OrderStatusCreated, decimal.NewFromInt(5), now, now).
			AddRow(second, userID, model.OrderStatusPaid, decimal.Zero, now, now),
	)
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]uuid.UUID{first, second}).WillReturnRows(
		pgxmockv3.NewRows(itemRowColumns).AddRow(uuid.New(), first, "pen", decimal.NewFromInt(5), 1, now))

	orders, err := repo.List(context.Background(), &userID)
	if err != nil || len(orders) != 2 {
		t.Fatalf("unexpected result: %v err=%v", orders, err)
	}
	if len(orders[0].Items) != 1 || len(orders[1].Items) != 0 {
		t.Fatalf("items not grouped by order: %+v", orders)
	}

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders ORDER BY created_at DESC").WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns))
	orders, err = repo.List(context.Background(), nil)
	if err != nil || len(orders) != 0 {
		t.Fatalf("expected empty result, got %v err=%v", orders, err)
	}

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders ORDER BY created_at DESC").WillReturnError(errors.New("query"))
	if _, err := repo.List(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders ORDER BY created_at DESC").WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow("bad", userID, model.OrderStatusCreated, decimal.Zero, now, now))
	if _, err := repo.List(context.Background(), nil); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders ORDER BY created_at DESC").WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).
			AddRow(first, userID, model.OrderStatusCreated, decimal.Zero, now, now).
			AddRow(second, userID, model.OrderStatusCreated, decimal.Zero, now, now).
			RowError(1, errors.New("row err")),
	)
	if _, err := repo.List(context.Background(), nil); err == nil {
		t.Fatal("expected row error")
	}

	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders ORDER BY created_at DESC").WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow(first, userID, model.OrderStatusCreated, decimal.Zero, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]uuid.UUID{first}).WillReturnError(errors.New("items"))
	if _, err := repo.List(context.Background(), nil); err == nil {
		t.Fatal("expected items error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryListRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &orderRepository{storage: storage}

	if _, err := repo.List(context.Background(), nil); !errors.Is(err, domainErrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestOrderRepositoryAddItem(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	orderID, userID := uuid.New(), uuid.New()
	item, err := model.NewItem(orderID, "book", decimal.RequireFromString("10.50"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Now()

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT set_config").WithArgs("5000ms").WillReturnResult(pgxmockv3.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT status FROM orders WHERE id=.+ FOR UPDATE").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows([]string{"status"}).AddRow(model.OrderStatusCreated))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(item.ID, orderID, "book", item.Price, 2).WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE orders").WithArgs(orderID).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT id, user_id, status, total_amount, created_at, updated_at FROM orders WHERE id=").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow(orderID, userID, model.OrderStatusCreated, decimal.RequireFromString("21"), now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]uuid.UUID{orderID}).WillReturnRows(
		pgxmockv3.NewRows(itemRowColumns).AddRow(item.ID, orderID, "book", item.Price, 2, now))
	mock.ExpectQuery("FROM order_status_history WHERE order_id=").WithArgs(orderID).WillReturnRows(pgxmockv3.NewRows(historyRowColumns))

	order, err := repo.AddItem(context.Background(), item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("21")) || len(order.Items) != 1 {
		t.Fatalf("unexpected order: %+v", order)
	}

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT set_config").WithArgs("5000ms").WillReturnResult(pgxmockv3.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT status FROM orders WHERE id=.+ FOR UPDATE").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows([]string{"status"}).AddRow(model.OrderStatusPaid))
	mock.ExpectRollback()
	if _, err := repo.AddItem(context.Background(), item); !errors.Is(err, domainErrors.ErrOrderNotPayable) {
		t.Fatalf("expected not payable, got %v", err)
	}

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT set_config").WithArgs("5000ms").WillReturnResult(pgxmockv3.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT status FROM orders WHERE id=.+ FOR UPDATE").WithArgs(orderID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()
	if _, err := repo.AddItem(context.Background(), item); !errors.Is(err, domainErrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT set_config").WithArgs("5000ms").WillReturnResult(pgxmockv3.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT status FROM orders WHERE id=.+ FOR UPDATE").WithArgs(orderID).WillReturnError(errors.New("select"))
	mock.ExpectRollback()
	if _, err := repo.AddItem(context.Background(), item); !errors.Is(err, domainErrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT set_config").WithArgs("5000ms").WillReturnResult(pgxmockv3.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT status FROM orders WHERE id=.+ FOR UPDATE").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows([]string{"status"}).AddRow(model.OrderStatusCreated))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(item.ID, orderID, "book", item.Price, 2).WillReturnError(errors.New("insert"))
	mock.ExpectRollback()
	if _, err := repo.AddItem(context.Background(), item); !errors.Is(err, domainErrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT set_config").WithArgs("5000ms").WillReturnResult(pgxmockv3.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT status FROM orders WHERE id=.+ FOR UPDATE").WithArgs(orderID).WillReturnRows(
		pgxmockv3.NewRows([]string{"status"}).AddRow(model.OrderStatusCreated))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(item.ID, orderID, "book", item.Price, 2).WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE orders").WithArgs(orderID).WillReturnError(errors.New("update"))
	mock.ExpectRollback()
	if _, err := repo.AddItem(context.Background(), item); !errors.Is(err, domainErrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryAddItemLockTimeout(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	storage.lockTimeout = 250 * time.Millisecond
	repo := &orderRepository{storage: storage}

	orderID := uuid.New()
	item, err := model.NewItem(orderID, "book", decimal.RequireFromString("1"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT set_config").WithArgs("250ms").WillReturnResult(pgxmockv3.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT status FROM orders WHERE id=.+ FOR UPDATE").WithArgs(orderID).WillReturnError(&pgconn.PgError{Code: "55P03"})
	mock.ExpectRollback()
	if _, err := repo.AddItem(context.Background(), item); !errors.Is(err, domainErrors.ErrLockTimeout) {
		t.Fatalf("expected lock timeout, got %v", err)
	}

	mock.ExpectBeginTx(readCommitted)
	mock.ExpectExec("SELECT set_config").WithArgs("250ms").WillReturnError(errors.New("config"))
	mock.ExpectRollback()
	if _, err := repo.AddItem(context.Background(), item); !errors.Is(err, domainErrors.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
