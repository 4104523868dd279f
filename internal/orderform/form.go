package orderform

import (
	"sync"
	"takeprofit/internal/models"

	"github.com/shopspring/decimal"
)

// Form is the parent order as entered by the trader. The target engine reads
// it but never writes it.
type Form struct {
	mu     sync.RWMutex
	side   models.OrderSide
	price  decimal.Decimal
	amount decimal.Decimal
}

func New(side models.OrderSide, price, amount decimal.Decimal) *Form {
	if side == "" {
		side = models.OrderSideBuy
	}
	return &Form{side: side, price: price, amount: amount}
}

func (f *Form) Side() models.OrderSide {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.side
}

func (f *Form) Price() decimal.Decimal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.price
}

func (f *Form) Amount() decimal.Decimal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.amount
}

func (f *Form) Total() decimal.Decimal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.price.Mul(f.amount)
}

func (f *Form) SetSide(side models.OrderSide) {
	f.mu.Lock()
	f.side = side
	f.mu.Unlock()
}

func (f *Form) SetPrice(price decimal.Decimal) {
	f.mu.Lock()
	f.price = price
	f.mu.Unlock()
}

func (f *Form) SetAmount(amount decimal.Decimal) {
	f.mu.Lock()
	f.amount = amount
	f.mu.Unlock()
}

// SetTotal derives amount from a quote-currency total at the current price.
// Without a positive price the amount collapses to zero.
func (f *Form) SetTotal(total decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.price.IsPositive() {
		f.amount = decimal.Zero
		return
	}
	f.amount = total.Div(f.price)
}
