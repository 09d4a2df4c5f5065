package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
)

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// Valid reports whether the status is one of the known lifecycle values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

// Transition validates moving from s to target. Only created orders may be paid or cancelled.
func (s OrderStatus) Transition(target OrderStatus) error {
	if s != OrderStatusCreated {
		return domainErrors.ErrOrderNotPayable
	}
	if target != OrderStatusPaid && target != OrderStatusCancelled {
		return domainErrors.ErrInvalidStateTransition
	}
	return nil
}

// Order describes purchase order placed by user.
type Order struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Items       []Item
	History     []StatusChange
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Item is a line of an order. Immutable once added.
type Item struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
}

// NewItem validates item attributes and assigns a fresh identifier.
func NewItem(orderID uuid.UUID, productName string, price decimal.Decimal, quantity int) (Item, error) {
	if productName == "" {
		return Item{}, domainErrors.ErrInvalidInput
	}
	if price.IsNegative() {
		return Item{}, domainErrors.ErrInvalidPrice
	}
	if quantity <= 0 {
		return Item{}, domainErrors.ErrInvalidQuantity
	}
	return Item{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductName: productName,
		Price:       price,
		Quantity:    quantity,
	}, nil
}

// Subtotal returns price multiplied by quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums item subtotals.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
