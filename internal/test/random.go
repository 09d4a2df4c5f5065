package test

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

const (
	lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
	maxCents   = 100000
)

var products = []string{"book", "lamp", "mug", "pen", "chair", "cable", "kettle"}

// RandomToken returns a lowercase alphanumeric string of length n, at least one.
func RandomToken(n int) string {
	var b strings.Builder
	b.Grow(max(n, 1))
	for range max(n, 1) {
		b.WriteByte(lowerAlnum[rand.IntN(len(lowerAlnum))])
	}
	return b.String()
}

// RandomEmail returns a unique-looking address accepted by email validation.
func RandomEmail() string {
	return RandomToken(5+rand.IntN(8)) + "@" + RandomToken(4+rand.IntN(5)) + ".test"
}

// RandomProductName picks a catalogue word and suffixes it to keep names distinct.
func RandomProductName() string {
	return products[rand.IntN(len(products))] + "-" + RandomToken(4)
}

// RandomPrice returns a positive amount with two decimal places.
func RandomPrice() decimal.Decimal {
	return decimal.New(int64(1+rand.IntN(maxCents)), -2)
}

// RandomQuantity returns a quantity between 1 and 9.
func RandomQuantity() int {
	return 1 + rand.IntN(9)
}

// RandomItem builds a valid line item for the order.
func RandomItem(orderID uuid.UUID) model.Item {
	item, err := model.NewItem(orderID, RandomProductName(), RandomPrice(), RandomQuantity())
	if err != nil {
		panic(err)
	}
	return item
}
