package engine

import (
	"takeprofit/internal/models"

	"github.com/shopspring/decimal"
)

// State is a point-in-time view of the engine and the order it reads from.
type State struct {
	SessionID         string                  `json:"session_id"`
	Side              models.OrderSide        `json:"side"`
	Price             decimal.Decimal         `json:"price"`
	Amount            decimal.Decimal         `json:"amount"`
	Total             decimal.Decimal         `json:"total"`
	TakeProfitEnabled bool                    `json:"take_profit_enabled"`
	Targets           []models.ComputedTarget `json:"targets"`
	ProjectedProfit   string                  `json:"projected_profit"`
	TargetErrors      []models.TargetErrors   `json:"target_errors"`
}

func (s State) Validated() bool {
	return s.TargetErrors != nil
}

func (s State) Valid() bool {
	if !s.Validated() {
		return false
	}
	for _, errs := range s.TargetErrors {
		if !errs.Empty() {
			return false
		}
	}
	return true
}

func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	side, price, amount := e.orderInputs()
	return State{
		SessionID:         e.sessionID,
		Side:              side,
		Price:             price,
		Amount:            amount,
		Total:             price.Mul(amount),
		TakeProfitEnabled: e.takeProfit,
		Targets:           ComputeTargets(e.targets, price, side),
		ProjectedProfit:   e.projectedProfitLocked(),
		TargetErrors:      copyTargetErrors(e.targetErrors),
	}
}
