package engine

import (
	"takeprofit/internal/config"
	"takeprofit/internal/logger"
	"takeprofit/internal/models"
	"takeprofit/internal/orderform"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(side models.OrderSide, price, amount string) (*Engine, *orderform.Form) {
	form := orderform.New(side, d(price), d(amount))
	return New(config.Default(), form, logger.Nop()), form
}

func amountSum(targets []models.Target) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range targets {
		sum = sum.Add(t.Amount)
	}
	return sum
}

func TestEnableAddsDefaultTarget(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	assert.False(t, e.TakeProfitEnabled())
	assert.Empty(t, e.Targets())

	e.SetTakeProfitEnabled(true)

	targets := e.Targets()
	require.Len(t, targets, 1)
	assert.True(t, e.TakeProfitEnabled())
	assertDecimal(t, "2", targets[0].Profit)
	assertDecimal(t, "100", targets[0].Amount)

	e.SetTakeProfitEnabled(true)
	assert.Len(t, e.Targets(), 1, "enabling twice must not add another target")
}

func TestDisableClearsTargets(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)
	e.AddTarget()
	e.ValidateTargets()

	e.SetTakeProfitEnabled(false)

	assert.False(t, e.TakeProfitEnabled())
	assert.Empty(t, e.Targets())
	assert.Nil(t, e.TargetErrors())
}

func TestAddTargetSeedsAndNormalizes(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)

	expected := [][]string{
		{"80", "20"},
		{"60", "20", "20"},
		{"40", "20", "20", "20"},
		{"20", "20", "20", "20", "20"},
	}
	for step, amounts := range expected {
		e.AddTarget()
		targets := e.Targets()
		require.Len(t, targets, step+2)
		for i, want := range amounts {
			assertDecimal(t, want, targets[i].Amount)
			assertDecimal(t, decimal.NewFromInt(int64(2*(i+1))).String(), targets[i].Profit)
		}
		assert.True(t, amountSum(targets).LessThanOrEqual(d("100")))
	}
}

func TestAddTargetCapacity(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)
	for i := 0; i < 10; i++ {
		e.AddTarget()
		assert.LessOrEqual(t, len(e.Targets()), 5)
	}
	assert.Len(t, e.Targets(), 5)
}

func TestAddTargetAfterEditSeedsFromLastProfit(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)
	e.SetTargetProfit(0, d("7.25"))
	e.SetTargetAmount(0, d("30"))

	e.AddTarget()

	targets := e.Targets()
	require.Len(t, targets, 2)
	assertDecimal(t, "9.25", targets[1].Profit)
	assertDecimal(t, "30", targets[0].Amount)
	assertDecimal(t, "20", targets[1].Amount)
}

func TestAddTargetNormalizesLargestOnly(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)
	e.AddTarget()
	e.SetTargetAmount(0, d("45"))
	e.SetTargetAmount(1, d("45"))

	// 45 + 45 + 20 = 110: the first 45 absorbs the excess.
	e.AddTarget()

	targets := e.Targets()
	assertDecimal(t, "35", targets[0].Amount)
	assertDecimal(t, "45", targets[1].Amount)
	assertDecimal(t, "20", targets[2].Amount)
}

func TestAddTargetWhileDisabledIsNoop(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.AddTarget()
	assert.Empty(t, e.Targets())
	assert.False(t, e.TakeProfitEnabled())
}

func TestRemoveTarget(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)
	e.AddTarget()
	e.AddTarget()

	e.RemoveTarget(1)

	targets := e.Targets()
	require.Len(t, targets, 2)
	assertDecimal(t, "2", targets[0].Profit)
	assertDecimal(t, "6", targets[1].Profit)
	assert.True(t, e.TakeProfitEnabled())
}

func TestRemoveLastTargetDisables(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)

	e.RemoveTarget(0)

	assert.Empty(t, e.Targets())
	assert.False(t, e.TakeProfitEnabled())
}

func TestRemoveOutOfRangeIsNoop(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)
	e.AddTarget()
	e.ValidateTargets()
	before := e.Targets()

	e.RemoveTarget(2)
	e.RemoveTarget(-1)

	assert.Equal(t, before, e.Targets())
	assert.NotNil(t, e.TargetErrors())
}

func TestSetTargetProfitTouchesOneTarget(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	e.SetTakeProfitEnabled(true)
	e.AddTarget()

	e.SetTargetProfit(1, d("12.5"))
	e.SetTargetProfit(9, d("1"))

	targets := e.Targets()
	assertDecimal(t, "2", targets[0].Profit)
	assertDecimal(t, "12.5", targets[1].Profit)
	assertDecimal(t, "20", targets[1].Amount)
}

func TestSetTargetPrice(t *testing.T) {
	tests := []struct {
		name     string
		side     models.OrderSide
		price    string
		expected string
	}{
		{name: "buy above", side: models.OrderSideBuy, price: "110", expected: "10"},
		{name: "buy below", side: models.OrderSideBuy, price: "95", expected: "-5"},
		{name: "sell below", side: models.OrderSideSell, price: "90", expected: "10"},
		{name: "sell above", side: models.OrderSideSell, price: "101.5", expected: "-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(tt.side, "100", "1")
			e.SetTakeProfitEnabled(true)

			e.SetTargetPrice(0, d(tt.price))

			assertDecimal(t, tt.expected, e.Targets()[0].Profit)
			assertDecimal(t, tt.price, e.ComputedTargets()[0].Price)
		})
	}
}

func TestSetTargetPriceWithoutOrderPriceIsNoop(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "0", "1")
	e.SetTakeProfitEnabled(true)
	e.ValidateTargets()

	e.SetTargetPrice(0, d("110"))

	assertDecimal(t, "2", e.Targets()[0].Profit)
	assert.NotNil(t, e.TargetErrors())
}

func TestMutationInvalidatesValidation(t *testing.T) {
	mutations := map[string]func(e *Engine){
		"set profit": func(e *Engine) { e.SetTargetProfit(0, d("3")) },
		"set amount": func(e *Engine) { e.SetTargetAmount(0, d("10")) },
		"set price":  func(e *Engine) { e.SetTargetPrice(0, d("120")) },
		"add":        func(e *Engine) { e.AddTarget() },
		"remove":     func(e *Engine) { e.RemoveTarget(1) },
		"disable":    func(e *Engine) { e.SetTakeProfitEnabled(false) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
			e.SetTakeProfitEnabled(true)
			e.AddTarget()
			e.ValidateTargets()
			require.NotNil(t, e.TargetErrors())

			mutate(e)

			assert.Nil(t, e.TargetErrors())
		})
	}
}

func TestDerivedValuesFollowOrderForm(t *testing.T) {
	e, form := newTestEngine(models.OrderSideBuy, "100", "10")
	e.SetTakeProfitEnabled(true)
	e.SetTargetProfit(0, d("10"))
	e.SetTargetAmount(0, d("50"))

	assertDecimal(t, "110", e.ComputedTargets()[0].Price)
	assert.Equal(t, "50.00", e.ProjectedProfit())

	form.SetPrice(d("200"))
	assertDecimal(t, "220", e.ComputedTargets()[0].Price)
	assert.Equal(t, "100.00", e.ProjectedProfit())

	form.SetSide(models.OrderSideSell)
	assertDecimal(t, "180", e.ComputedTargets()[0].Price)
	assert.Equal(t, "100.00", e.ProjectedProfit())

	form.SetAmount(d("1"))
	assert.Equal(t, "10.00", e.ProjectedProfit())
}

func TestProjectedProfitRounding(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "3", "1")
	e.SetTakeProfitEnabled(true)
	e.SetTargetProfit(0, d("0.1"))

	// (3.003 - 3) * 1 * 1 = 0.003
	assert.Equal(t, "0.00", e.ProjectedProfit())

	e.SetTargetProfit(0, d("0.2"))
	// 0.006 rounds up
	assert.Equal(t, "0.01", e.ProjectedProfit())
}

func TestProjectedProfitEmpty(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideSell, "100", "5")
	assert.Equal(t, "0.00", e.ProjectedProfit())
	assert.Empty(t, e.ComputedTargets())
}

func TestEngineWithoutOrderSource(t *testing.T) {
	e := New(nil, nil, nil)
	e.SetTakeProfitEnabled(true)

	assertDecimal(t, "0", e.ComputedTargets()[0].Price)
	assert.Equal(t, "0.00", e.ProjectedProfit())
	assert.NotEmpty(t, e.SessionID())
}

func TestSnapshot(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "10")
	e.SetTakeProfitEnabled(true)
	e.SetTargetProfit(0, d("10"))
	e.SetTargetAmount(0, d("50"))

	s := e.Snapshot()
	assert.Equal(t, e.SessionID(), s.SessionID)
	assert.Equal(t, models.OrderSideBuy, s.Side)
	assertDecimal(t, "1000", s.Total)
	assert.True(t, s.TakeProfitEnabled)
	require.Len(t, s.Targets, 1)
	assertDecimal(t, "110", s.Targets[0].Price)
	assert.Equal(t, "50.00", s.ProjectedProfit)
	assert.False(t, s.Validated())

	e.ValidateTargets()
	s = e.Snapshot()
	assert.True(t, s.Validated())
	assert.True(t, s.Valid())
}

func TestApplyTargets(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideSell, "200", "1")

	err := e.ApplyTargets([]config.TargetConfig{
		{Profit: "1", Amount: "50"},
		{Price: "190", Amount: "30"},
		{Profit: "8"},
	})
	require.NoError(t, err)

	targets := e.Targets()
	require.Len(t, targets, 3)
	assertDecimal(t, "1", targets[0].Profit)
	assertDecimal(t, "50", targets[0].Amount)
	assertDecimal(t, "5", targets[1].Profit)
	assertDecimal(t, "30", targets[1].Amount)
	assertDecimal(t, "8", targets[2].Profit)
	assertDecimal(t, "20", targets[2].Amount)
}

func TestApplyTargetsErrors(t *testing.T) {
	e, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	assert.NoError(t, e.ApplyTargets(nil))
	assert.False(t, e.TakeProfitEnabled())

	err := e.ApplyTargets([]config.TargetConfig{{Profit: "abc"}})
	assert.Error(t, err)

	tooMany := make([]config.TargetConfig, 6)
	e2, _ := newTestEngine(models.OrderSideBuy, "100", "1")
	assert.Error(t, e2.ApplyTargets(tooMany))
	assert.Empty(t, e2.Targets())
}
