package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderSide string
type TargetField string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"

	FieldProfit TargetField = "profit"
	FieldPrice  TargetField = "price"
	FieldAmount TargetField = "amount"
)

func ParseOrderSide(side string) (OrderSide, error) {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "buy":
		return OrderSideBuy, nil
	case "sell":
		return OrderSideSell, nil
	default:
		return "", fmt.Errorf("invalid order side: %q", side)
	}
}

// Target is a user-entered take-profit level. Profit is the percentage move
// of price in the direction implied by the order side, Amount the percentage
// of the order size executed at this level.
type Target struct {
	Profit decimal.Decimal `json:"profit" yaml:"profit"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

type ComputedTarget struct {
	Target `yaml:",inline"`
	Price  decimal.Decimal `json:"price" yaml:"price"`
}

// TargetErrors holds validation messages keyed by field. A missing key means
// the field is valid.
type TargetErrors map[TargetField]string

func (te TargetErrors) Get(field TargetField) (string, bool) {
	msg, ok := te[field]
	return msg, ok
}

func (te TargetErrors) Empty() bool {
	return len(te) == 0
}
