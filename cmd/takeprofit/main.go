package main

import (
	"fmt"
	"os"
	"strings"
	"takeprofit/internal/config"
	"takeprofit/internal/engine"
	"takeprofit/internal/logger"
	"takeprofit/internal/models"
	"takeprofit/internal/orderform"
	"takeprofit/internal/report"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadFile(os.Getenv("TAKEPROFIT_CONFIG"))
	if err != nil {
		panic(err)
	}

	logger := logger.New(logger.Config{
		Level:      cfg.Runtime.Log.Level,
		Format:     cfg.Runtime.Log.Format,
		Output:     cfg.Runtime.Log.File,
		MaxSize:    cfg.Runtime.Log.MaxSize,
		MaxBackups: cfg.Runtime.Log.MaxBackups,
		MaxAge:     cfg.Runtime.Log.MaxAge,
		Compress:   cfg.Runtime.Log.Compress,
	})

	form, err := newOrderForm(cfg.Order)
	if err != nil {
		logger.WithError(err).Fatal("Invalid order.")
	}

	eng := engine.New(cfg, form, logger)
	log := logger.WithSession(eng.SessionID())
	log.WithFields(map[string]interface{}{
		"side":    form.Side(),
		"price":   form.Price().String(),
		"amount":  form.Amount().String(),
		"targets": len(cfg.Order.Targets),
	}).Info("Target engine started.")

	if err := eng.ApplyTargets(cfg.Order.Targets); err != nil {
		log.WithError(err).Fatal("Could not apply targets.")
	}
	eng.ValidateTargets()
	state := eng.Snapshot()

	switch cfg.Runtime.Report {
	case "yaml":
		out, err := report.YAML(state)
		if err != nil {
			log.WithError(err).Fatal("Could not render report.")
		}
		os.Stdout.Write(out)
	default:
		report.Console(os.Stdout, state)
	}

	log.WithFields(map[string]interface{}{
		"projected_profit": state.ProjectedProfit,
		"valid":            state.Valid(),
	}).Info("Targets evaluated.")
}

func newOrderForm(oc config.OrderConfig) (*orderform.Form, error) {
	side, err := models.ParseOrderSide(oc.Side)
	if err != nil {
		return nil, err
	}
	price, err := parseOptionalDecimal(oc.Price)
	if err != nil {
		return nil, fmt.Errorf("order price: %w", err)
	}
	amount, err := parseOptionalDecimal(oc.Amount)
	if err != nil {
		return nil, fmt.Errorf("order amount: %w", err)
	}

	form := orderform.New(side, price, amount)
	if oc.Total != "" {
		total, err := parseOptionalDecimal(oc.Total)
		if err != nil {
			return nil, fmt.Errorf("order total: %w", err)
		}
		form.SetTotal(total)
	}
	return form, nil
}

func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
