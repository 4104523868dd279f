package engine

import (
	"takeprofit/internal/models"

	"github.com/shopspring/decimal"
)

// divisionPrecision is the number of fractional digits kept when dividing by
// the order price. Multiplication and percent shifts are exact.
const divisionPrecision = 32

var one = decimal.NewFromInt(1)

// CalcTargetPrice turns a profit percentage into the absolute price at which
// it is reached. Buy targets sit above the order price, sell targets below.
func CalcTargetPrice(profit, orderPrice decimal.Decimal, side models.OrderSide) decimal.Decimal {
	direction := profit
	if side != models.OrderSideBuy {
		direction = profit.Neg()
	}
	return direction.Shift(-2).Add(one).Mul(orderPrice)
}

// CalcTargetProfit is the inverse of CalcTargetPrice. It reports false when
// the order price is not positive and no profit can be derived.
func CalcTargetProfit(price, orderPrice decimal.Decimal, side models.OrderSide) (decimal.Decimal, bool) {
	if !orderPrice.IsPositive() {
		return decimal.Zero, false
	}
	profit := price.DivRound(orderPrice, divisionPrecision).Sub(one).Shift(2)
	if side != models.OrderSideBuy {
		profit = profit.Neg()
	}
	return profit, true
}

func ComputeTargets(targets []models.Target, orderPrice decimal.Decimal, side models.OrderSide) []models.ComputedTarget {
	computed := make([]models.ComputedTarget, 0, len(targets))
	for _, t := range targets {
		computed = append(computed, models.ComputedTarget{
			Target: t,
			Price:  CalcTargetPrice(t.Profit, orderPrice, side),
		})
	}
	return computed
}

// CalcProjectedProfit estimates the quote-currency gain if every target fills
// completely at its price.
func CalcProjectedProfit(targets []models.ComputedTarget, orderPrice, orderAmount decimal.Decimal, side models.OrderSide) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range targets {
		delta := t.Price.Sub(orderPrice)
		if side != models.OrderSideBuy {
			delta = orderPrice.Sub(t.Price)
		}
		sum = sum.Add(delta.Mul(t.Amount.Shift(-2)))
	}
	return sum.Mul(orderAmount)
}

// normalizeAmounts trims the first largest amount so the total does not exceed
// maxSum. Only one entry is touched.
func normalizeAmounts(targets []models.Target, maxSum decimal.Decimal) (int, bool) {
	sum := decimal.Zero
	maxValue := decimal.Zero
	maxIndex := 0
	for i, t := range targets {
		sum = sum.Add(t.Amount)
		if t.Amount.GreaterThan(maxValue) {
			maxValue = t.Amount
			maxIndex = i
		}
	}
	if !sum.GreaterThan(maxSum) {
		return 0, false
	}
	targets[maxIndex].Amount = targets[maxIndex].Amount.Sub(sum.Sub(maxSum))
	return maxIndex, true
}
