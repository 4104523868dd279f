package engine

import (
	"fmt"
	"strings"
	"takeprofit/internal/config"

	"github.com/shopspring/decimal"
)

// ApplyTargets replays configured targets through the regular commands, the
// same way a trader would enter them: enable, add, then edit each field.
// A target with both profit and price set ends up with the price-derived profit.
func (e *Engine) ApplyTargets(targets []config.TargetConfig) error {
	if len(targets) == 0 {
		return nil
	}
	if len(targets) > e.limits.maxTargets {
		return fmt.Errorf("too many targets: %d > %d", len(targets), e.limits.maxTargets)
	}

	e.SetTakeProfitEnabled(true)
	for i := 1; i < len(targets); i++ {
		e.AddTarget()
	}

	for i, tc := range targets {
		if tc.Profit != "" {
			profit, err := parseDecimal(tc.Profit)
			if err != nil {
				return fmt.Errorf("target %d profit: %w", i+1, err)
			}
			e.SetTargetProfit(i, profit)
		}
		if tc.Price != "" {
			price, err := parseDecimal(tc.Price)
			if err != nil {
				return fmt.Errorf("target %d price: %w", i+1, err)
			}
			e.SetTargetPrice(i, price)
		}
		if tc.Amount != "" {
			amount, err := parseDecimal(tc.Amount)
			if err != nil {
				return fmt.Errorf("target %d amount: %w", i+1, err)
			}
			e.SetTargetAmount(i, amount)
		}
	}
	return nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
