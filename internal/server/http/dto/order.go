package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest describes order placement payload.
type CreateOrderRequest struct {
	UserID string `json:"user_id"`
}

// AddItemRequest describes a new order line.
type AddItemRequest struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// ItemResponse represents an order line.
type ItemResponse struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// StatusChangeResponse represents a history record.
type StatusChangeResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

// OrderResponse represents an order. History is present on single order reads only.
type OrderResponse struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"user_id"`
	Status      string                 `json:"status"`
	TotalAmount decimal.Decimal        `json:"total_amount"`
	Items       []ItemResponse         `json:"items"`
	History     []StatusChangeResponse `json:"history,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}
