package engine

import (
	"fmt"
	"takeprofit/internal/models"

	"github.com/shopspring/decimal"
)

type ruleInput struct {
	index     int
	targets   []models.Target
	profitSum decimal.Decimal
	amountSum decimal.Decimal
	limits    limits
}

func (in ruleInput) target() models.Target {
	return in.targets[in.index]
}

type validationRule struct {
	field   models.TargetField
	applies func(in ruleInput) bool
	message func(in ruleInput) string
}

// validationRules run in order for every target. A later rule replaces the
// message of an earlier rule on the same field.
var validationRules = []validationRule{
	{
		field: models.FieldAmount,
		applies: func(in ruleInput) bool {
			return in.amountSum.GreaterThan(in.limits.maxAmountSum)
		},
		message: func(in ruleInput) string {
			return fmt.Sprintf("%s out of %s%% selected. Please decrease by %s",
				in.amountSum, in.limits.maxAmountSum, in.amountSum.Sub(in.limits.maxAmountSum))
		},
	},
	{
		field: models.FieldProfit,
		applies: func(in ruleInput) bool {
			return in.index > 0 && in.target().Profit.LessThan(in.targets[in.index-1].Profit)
		},
		message: func(ruleInput) string {
			return "Each target's profit should be greater than the previous one"
		},
	},
	{
		field: models.FieldPrice,
		applies: func(in ruleInput) bool {
			return in.target().Profit.LessThanOrEqual(in.limits.minProfitBound)
		},
		message: func(ruleInput) string {
			return "Price must be greater than 0"
		},
	},
	{
		field: models.FieldProfit,
		applies: func(in ruleInput) bool {
			return in.target().Profit.LessThan(in.limits.minProfit)
		},
		message: func(in ruleInput) string {
			return fmt.Sprintf("Minimum value is %s", in.limits.minProfit)
		},
	},
	{
		field: models.FieldProfit,
		applies: func(in ruleInput) bool {
			return in.profitSum.GreaterThan(in.limits.maxProfitSum)
		},
		message: func(in ruleInput) string {
			return fmt.Sprintf("Maximum profit sum is %s%%", in.limits.maxProfitSum)
		},
	},
}

func validateTargets(targets []models.Target, lim limits) []models.TargetErrors {
	profitSum := decimal.Zero
	amountSum := decimal.Zero
	for _, t := range targets {
		profitSum = profitSum.Add(t.Profit)
		amountSum = amountSum.Add(t.Amount)
	}

	result := make([]models.TargetErrors, len(targets))
	for i := range targets {
		in := ruleInput{
			index:     i,
			targets:   targets,
			profitSum: profitSum,
			amountSum: amountSum,
			limits:    lim,
		}
		errs := models.TargetErrors{}
		for _, rule := range validationRules {
			if rule.applies(in) {
				errs[rule.field] = rule.message(in)
			}
		}
		result[i] = errs
	}
	return result
}
