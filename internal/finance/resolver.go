package finance

import (
	"math"

	"github.com/acadops/programme-finance/internal/models"
)

// Resolve returns the single authoritative amount for an expense line.
// Precedence: approved amount, then actual, then budgeted, then the stored
// display amount, then zero. The first field that is present wins; its value
// is sanitized rather than skipped, so an explicit approved 0 stays 0.
//
// Every consumer of an expense amount (synchronizer, state machine,
// renderers, exports) must go through this function. Divergent totals in the
// generated documents are exactly what it exists to prevent.
func Resolve(item models.ExpenseItem) float64 {
	for _, candidate := range []*float64{item.ApprovedAmount, item.ActualAmount, item.BudgetAmount} {
		if candidate != nil {
			return sanitize(*candidate)
		}
	}
	return sanitize(item.Amount)
}

// ApprovedTotal sums the resolved amounts of approved lines only. Rejected
// and pending lines contribute nothing to a persisted total.
func ApprovedTotal(items []models.ExpenseItem) float64 {
	var total float64
	for _, item := range items {
		if item.IsApproved() {
			total += Resolve(item)
		}
	}
	return total
}

// PlannedTotal sums the resolved amounts of all non-rejected lines, for the
// planned-budget view where pending lines still count.
func PlannedTotal(items []models.ExpenseItem) float64 {
	var total float64
	for _, item := range items {
		if !item.IsRejected() {
			total += Resolve(item)
		}
	}
	return total
}

// sanitize coerces NaN, infinities and negatives to 0.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
