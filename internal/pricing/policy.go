// Package pricing computes reservation fees from the ground's rate card.
package pricing

import (
	"groundbook/pkg/config"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

// Policy resolves a category and day-type to an hourly rate and totals it.
// ComputeFee is pure: same inputs, same breakdown, no side effects beyond
// the fallback log line.
type Policy struct {
	categories      map[string]config.CategoryRate
	defaultCategory string
	paymentMethod   string
	log             *logger.Logger
}

func NewPolicy(cfg *config.Config) *Policy {
	return &Policy{
		categories:      cfg.Categories,
		defaultCategory: cfg.DefaultCategory,
		paymentMethod:   cfg.PaymentMethod,
		log:             cfg.Log,
	}
}

// ComputeFee prices hours at the category's weekday or weekend rate. An
// unrecognized category is priced at the default tier; the substitution is
// logged so a silently wrong rate can always be traced.
func (p *Policy) ComputeFee(category string, weekend bool, hours int) model.FeeBreakdown {
	rate, ok := p.categories[category]
	if !ok {
		p.log.Warn("Unknown pricing category, falling back to default tier",
			"category", category,
			"default_category", p.defaultCategory,
		)
		category = p.defaultCategory
		rate = p.categories[category]
	}

	perHour := rate.WeekdayRate
	if weekend {
		perHour = rate.WeekendRate
	}

	return model.FeeBreakdown{
		Category:      category,
		CategoryLabel: rate.Label,
		RatePerHour:   perHour,
		Hours:         hours,
		Total:         perHour * hours,
		Weekend:       weekend,
		PaymentMethod: p.paymentMethod,
	}
}
