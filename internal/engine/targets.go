package engine

import (
	"takeprofit/internal/models"

	"github.com/shopspring/decimal"
)

func (e *Engine) SetTakeProfitEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.takeProfit == enabled {
		return
	}
	e.takeProfit = enabled
	if enabled {
		e.logEntry().Debug("Take-profit enabled.")
		e.addTargetLocked()
		return
	}
	e.targets = nil
	e.clearTargetErrors()
	e.logEntry().Debug("Take-profit disabled, targets cleared.")
}

func (e *Engine) AddTarget() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.takeProfit {
		e.logEntry().Debug("Take-profit is disabled, target not added.")
		return
	}
	e.addTargetLocked()
}

func (e *Engine) addTargetLocked() {
	if len(e.targets) >= e.limits.maxTargets {
		e.logEntry().WithField("max_targets", e.limits.maxTargets).Debug("Target limit reached.")
		return
	}

	lastProfit := decimal.Zero
	amount := e.limits.firstAmount
	if n := len(e.targets); n > 0 {
		lastProfit = e.targets[n-1].Profit
		amount = e.limits.nextAmount
	}
	target := models.Target{
		Profit: lastProfit.Add(e.limits.profitStep),
		Amount: amount,
	}
	e.targets = append(e.targets, target)

	if idx, ok := normalizeAmounts(e.targets, e.limits.maxAmountSum); ok {
		e.logEntry().WithFields(map[string]interface{}{
			"target": idx,
			"amount": e.targets[idx].Amount.String(),
		}).Debug("Amount trimmed to keep allocation within limit.")
	}
	e.clearTargetErrors()

	e.logEntry().WithFields(map[string]interface{}{
		"target": len(e.targets) - 1,
		"profit": target.Profit.String(),
		"amount": e.targets[len(e.targets)-1].Amount.String(),
	}).Debug("Target added.")
}

// RemoveTarget drops the target at index. Removing the last target turns
// take-profit off.
func (e *Engine) RemoveTarget(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.validIndex(index) {
		e.logEntry().WithField("target", index).Debug("Remove ignored, no such target.")
		return
	}
	targets := make([]models.Target, 0, len(e.targets)-1)
	targets = append(targets, e.targets[:index]...)
	e.targets = append(targets, e.targets[index+1:]...)
	e.clearTargetErrors()

	if len(e.targets) < 1 {
		e.takeProfit = false
		e.logEntry().Debug("Last target removed, take-profit disabled.")
		return
	}
	e.logEntry().WithField("target", index).Debug("Target removed.")
}

func (e *Engine) SetTargetProfit(index int, profit decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.validIndex(index) {
		e.logEntry().WithField("target", index).Debug("Profit edit ignored, no such target.")
		return
	}
	e.targets[index].Profit = profit
	e.clearTargetErrors()
}

// SetTargetPrice stores the profit that reproduces price at the current order
// price and side. Without a positive order price the edit is dropped.
func (e *Engine) SetTargetPrice(index int, price decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.validIndex(index) {
		e.logEntry().WithField("target", index).Debug("Price edit ignored, no such target.")
		return
	}
	side, orderPrice, _ := e.orderInputs()
	profit, ok := CalcTargetProfit(price, orderPrice, side)
	if !ok {
		e.logEntry().WithFields(map[string]interface{}{
			"target":      index,
			"order_price": orderPrice.String(),
		}).Warn("Price edit ignored, order price is not positive.")
		return
	}
	e.targets[index].Profit = profit
	e.clearTargetErrors()
}

func (e *Engine) SetTargetAmount(index int, amount decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.validIndex(index) {
		e.logEntry().WithField("target", index).Debug("Amount edit ignored, no such target.")
		return
	}
	e.targets[index].Amount = amount
	e.clearTargetErrors()
}

// ValidateTargets replaces the error table with a fresh pass over all targets.
func (e *Engine) ValidateTargets() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.targetErrors = validateTargets(e.targets, e.limits)

	invalid := 0
	for _, errs := range e.targetErrors {
		if !errs.Empty() {
			invalid++
		}
	}
	e.logEntry().WithFields(map[string]interface{}{
		"targets": len(e.targets),
		"invalid": invalid,
	}).Debug("Targets validated.")
}

func (e *Engine) TakeProfitEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.takeProfit
}

func (e *Engine) Targets() []models.Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Target(nil), e.targets...)
}

func (e *Engine) ComputedTargets() []models.ComputedTarget {
	e.mu.Lock()
	defer e.mu.Unlock()
	side, price, _ := e.orderInputs()
	return ComputeTargets(e.targets, price, side)
}

// ProjectedProfit is the estimated gain in quote currency with two decimals.
func (e *Engine) ProjectedProfit() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projectedProfitLocked()
}

func (e *Engine) projectedProfitLocked() string {
	side, price, amount := e.orderInputs()
	computed := ComputeTargets(e.targets, price, side)
	return CalcProjectedProfit(computed, price, amount, side).StringFixed(2)
}

// TargetErrors returns nil until ValidateTargets runs after the last edit.
func (e *Engine) TargetErrors() []models.TargetErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyTargetErrors(e.targetErrors)
}

func (e *Engine) validIndex(index int) bool {
	return index >= 0 && index < len(e.targets)
}

func (e *Engine) clearTargetErrors() {
	e.targetErrors = nil
}

func (e *Engine) orderInputs() (models.OrderSide, decimal.Decimal, decimal.Decimal) {
	if e.order == nil {
		return models.OrderSideBuy, decimal.Zero, decimal.Zero
	}
	return e.order.Side(), e.order.Price(), e.order.Amount()
}

func copyTargetErrors(src []models.TargetErrors) []models.TargetErrors {
	if src == nil {
		return nil
	}
	dst := make([]models.TargetErrors, len(src))
	for i, errs := range src {
		cp := make(models.TargetErrors, len(errs))
		for field, msg := range errs {
			cp[field] = msg
		}
		dst[i] = cp
	}
	return dst
}
