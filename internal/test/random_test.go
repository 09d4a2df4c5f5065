package test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRandomTokenLength(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 16} {
		got := RandomToken(n)
		want := max(n, 1)
		if len(got) != want {
			t.Fatalf("RandomToken(%d) has length %d, want %d", n, len(got), want)
		}
		if strings.Trim(got, lowerAlnum) != "" {
			t.Fatalf("RandomToken(%d) = %q contains characters outside the alphabet", n, got)
		}
	}
}

func TestRandomEmailShape(t *testing.T) {
	email := RandomEmail()
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || !strings.HasSuffix(domain, ".test") {
		t.Fatalf("unexpected email %q", email)
	}
}

func TestRandomItemIsValid(t *testing.T) {
	orderID := uuid.New()
	for range 50 {
		item := RandomItem(orderID)
		if item.OrderID != orderID || item.ID == uuid.Nil {
			t.Fatalf("unexpected identifiers %+v", item)
		}
		if !item.Price.IsPositive() || item.Price.Exponent() != -2 {
			t.Fatalf("unexpected price %s", item.Price)
		}
		if item.Quantity < 1 || item.Quantity > 9 {
			t.Fatalf("unexpected quantity %d", item.Quantity)
		}
		if item.ProductName == "" {
			t.Fatal("expected product name")
		}
	}
}
