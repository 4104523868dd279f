package orderform

import (
	"takeprofit/internal/models"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewDefaultsToBuy(t *testing.T) {
	f := New("", d("100"), d("1"))
	assert.Equal(t, models.OrderSideBuy, f.Side())
}

func TestTotal(t *testing.T) {
	f := New(models.OrderSideSell, d("250.5"), d("0.4"))
	assert.True(t, d("100.2").Equal(f.Total()), "got %s", f.Total())

	f.SetPrice(d("300"))
	assert.True(t, d("120").Equal(f.Total()), "got %s", f.Total())
}

func TestSetTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		total    string
		expected string
	}{
		{name: "divides by price", price: "200", total: "50", expected: "0.25"},
		{name: "zero price gives zero amount", price: "0", total: "50", expected: "0"},
		{name: "negative price gives zero amount", price: "-1", total: "50", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(models.OrderSideBuy, d(tt.price), d("7"))
			f.SetTotal(d(tt.total))
			assert.True(t, d(tt.expected).Equal(f.Amount()), "got %s", f.Amount())
		})
	}
}

func TestSetters(t *testing.T) {
	f := New(models.OrderSideBuy, decimal.Zero, decimal.Zero)
	f.SetSide(models.OrderSideSell)
	f.SetPrice(d("10"))
	f.SetAmount(d("3"))

	assert.Equal(t, models.OrderSideSell, f.Side())
	assert.True(t, d("10").Equal(f.Price()))
	assert.True(t, d("3").Equal(f.Amount()))
}
