// Package expense computes home-currency amounts, category totals and budget
// figures over a trip's expense collection. Everything here is a pure
// function of its inputs.
package expense

import (
	"github.com/viajafacil/viajafacil/internal/models"
	"github.com/viajafacil/viajafacil/pkg/utils"
)

// Convert computes the home-currency value of a foreign amount at the given
// exchange rate, rounded to 2 decimal places.
func Convert(foreignAmount, rate float64) float64 {
	return utils.Round2(foreignAmount * rate)
}

// NormalizeForeign recomputes the home-currency amount of a foreign expense
// from its foreign amount and exchange rate, overwriting any directly entered
// value. The recomputation is one-directional: editing the home amount never
// back-computes the rate. Non-foreign expenses are left untouched.
func NormalizeForeign(e *models.Expense) {
	if !e.IsForeign {
		e.ForeignAmount = 0
		e.CurrencySymbol = ""
		e.ExchangeRate = 0
		return
	}
	if e.ForeignAmount > 0 && e.ExchangeRate > 0 {
		e.Amount = Convert(e.ForeignAmount, e.ExchangeRate)
	}
}

// Total sums the home-currency amount over all expenses.
func Total(expenses []models.Expense) float64 {
	total := 0.0
	for _, e := range expenses {
		total += e.Amount
	}
	return utils.Round2(total)
}

// CategoryTotal sums amounts for one canonical category, counting legacy
// alias labels toward their current category.
func CategoryTotal(expenses []models.Expense, category string) float64 {
	total := 0.0
	for _, e := range expenses {
		if e.Category == category || models.CanonicalCategory(e.Category) == category {
			total += e.Amount
		}
	}
	return utils.Round2(total)
}

// CategoryTotals returns per-category totals in display order. Categories
// with a zero total are omitted.
func CategoryTotals(expenses []models.Expense) []CategoryAmount {
	totals := []CategoryAmount{}
	for _, c := range models.Categories {
		if t := CategoryTotal(expenses, c); t > 0 {
			totals = append(totals, CategoryAmount{Category: c, Amount: t})
		}
	}
	return totals
}

// CategoryAmount pairs a canonical category with its spent total.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Summary aggregates a trip's spending against its budget.
type Summary struct {
	Budget     float64          `json:"budget"`
	Total      float64          `json:"total"`
	Remaining  float64          `json:"remaining"` // negative when overspent
	OverBudget bool             `json:"overBudget"`
	Categories []CategoryAmount `json:"categories"`
}

// Summarize computes the expense summary for a trip. Remaining may be
// negative; overspend is flagged, never clamped.
func Summarize(trip *models.Trip) Summary {
	total := Total(trip.Expenses)
	remaining := utils.Round2(trip.Budget - total)
	return Summary{
		Budget:     trip.Budget,
		Total:      total,
		Remaining:  remaining,
		OverBudget: remaining < 0,
		Categories: CategoryTotals(trip.Expenses),
	}
}
