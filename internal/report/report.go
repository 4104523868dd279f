package report

import (
	"fmt"
	"io"
	"strings"
	"takeprofit/internal/engine"
	"takeprofit/internal/models"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	cyan    = color.New(color.FgCyan).SprintfFunc()
	green   = color.New(color.FgGreen).SprintfFunc()
	red     = color.New(color.FgRed).SprintfFunc()
	yellow  = color.New(color.FgYellow).SprintfFunc()
	boldRed = color.New(color.FgRed, color.Bold).SprintfFunc()
)

type Document struct {
	Session         string      `yaml:"session"`
	Order           OrderReport `yaml:"order"`
	TakeProfit      bool        `yaml:"take_profit"`
	Targets         []TargetRow `yaml:"targets"`
	ProjectedProfit string      `yaml:"projected_profit"`
	Validated       bool        `yaml:"validated"`
	Valid           bool        `yaml:"valid"`
}

type OrderReport struct {
	Side   string `yaml:"side"`
	Price  string `yaml:"price"`
	Amount string `yaml:"amount"`
	Total  string `yaml:"total"`
}

type TargetRow struct {
	Index  int               `yaml:"index"`
	Profit string            `yaml:"profit"`
	Price  string            `yaml:"price"`
	Amount string            `yaml:"amount"`
	Errors map[string]string `yaml:"errors,omitempty"`
}

func FromState(s engine.State) Document {
	doc := Document{
		Session: s.SessionID,
		Order: OrderReport{
			Side:   string(s.Side),
			Price:  s.Price.String(),
			Amount: s.Amount.String(),
			Total:  s.Total.String(),
		},
		TakeProfit:      s.TakeProfitEnabled,
		Targets:         make([]TargetRow, 0, len(s.Targets)),
		ProjectedProfit: s.ProjectedProfit,
		Validated:       s.Validated(),
		Valid:           s.Valid(),
	}
	for i, t := range s.Targets {
		row := TargetRow{
			Index:  i + 1,
			Profit: t.Profit.String(),
			Price:  t.Price.String(),
			Amount: t.Amount.String(),
		}
		if i < len(s.TargetErrors) && !s.TargetErrors[i].Empty() {
			row.Errors = make(map[string]string, len(s.TargetErrors[i]))
			for field, msg := range s.TargetErrors[i] {
				row.Errors[string(field)] = msg
			}
		}
		doc.Targets = append(doc.Targets, row)
	}
	return doc
}

func YAML(s engine.State) ([]byte, error) {
	out, err := yaml.Marshal(FromState(s))
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return out, nil
}

var fieldOrder = []models.TargetField{models.FieldProfit, models.FieldPrice, models.FieldAmount}

// Console writes a short human-readable summary of the target set.
func Console(w io.Writer, s engine.State) {
	fmt.Fprintf(w, "%s %s price=%s amount=%s total=%s\n",
		cyan("Order"), strings.ToUpper(string(s.Side)), s.Price, s.Amount, s.Total)

	if !s.TakeProfitEnabled {
		fmt.Fprintln(w, yellow("Take-profit disabled"))
		return
	}

	for i, t := range s.Targets {
		fmt.Fprintf(w, "  #%d profit %s%% price %s amount %s%%\n", i+1, t.Profit, t.Price, t.Amount)
		if i >= len(s.TargetErrors) {
			continue
		}
		errs := s.TargetErrors[i]
		for _, field := range fieldOrder {
			if msg, ok := errs.Get(field); ok {
				fmt.Fprintf(w, "     %s %s\n", red("%s:", field), msg)
			}
		}
	}

	fmt.Fprintf(w, "%s %s\n", cyan("Projected profit:"), green(s.ProjectedProfit))
	switch {
	case !s.Validated():
		fmt.Fprintln(w, yellow("Not validated"))
	case s.Valid():
		fmt.Fprintln(w, green("Targets valid"))
	default:
		fmt.Fprintln(w, boldRed("Targets invalid"))
	}
}
