package engine

import (
	"sync"
	"takeprofit/internal/config"
	"takeprofit/internal/logger"
	"takeprofit/internal/models"

	"github.com/shopspring/decimal"
)

// OrderSource supplies the parent order the targets are attached to. The
// engine reads it on every query and never caches what it returns.
type OrderSource interface {
	Side() models.OrderSide
	Price() decimal.Decimal
	Amount() decimal.Decimal
}

type Engine struct {
	cfg    *config.Config
	order  OrderSource
	log    *logger.Logger
	limits limits

	mu           sync.Mutex
	sessionID    string
	takeProfit   bool
	targets      []models.Target
	targetErrors []models.TargetErrors
}

type limits struct {
	maxTargets     int
	profitStep     decimal.Decimal
	firstAmount    decimal.Decimal
	nextAmount     decimal.Decimal
	minProfit      decimal.Decimal
	maxProfitSum   decimal.Decimal
	maxAmountSum   decimal.Decimal
	minProfitBound decimal.Decimal
}

func New(cfg *config.Config, order OrderSource, log *logger.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		cfg:       cfg,
		order:     order,
		log:       log,
		limits:    limitsFromConfig(cfg.Targets),
		sessionID: newSessionID(),
	}
}

func limitsFromConfig(tc config.TargetsConfig) limits {
	maxTargets := tc.MaxTargets
	if maxTargets <= 0 || maxTargets > hardMaxTargets {
		maxTargets = hardMaxTargets
	}
	return limits{
		maxTargets:     maxTargets,
		profitStep:     decimal.NewFromFloat(tc.ProfitStep),
		firstAmount:    decimal.NewFromFloat(tc.FirstAmount),
		nextAmount:     decimal.NewFromFloat(tc.NextAmount),
		minProfit:      decimal.NewFromFloat(tc.MinProfit),
		maxProfitSum:   decimal.NewFromFloat(tc.MaxProfitSum),
		maxAmountSum:   decimal.NewFromFloat(tc.MaxAmountSum),
		minProfitBound: decimal.NewFromFloat(tc.MinProfitBound),
	}
}

// hardMaxTargets caps the target list regardless of configuration.
const hardMaxTargets = 5

func (e *Engine) SessionID() string {
	return e.sessionID
}
