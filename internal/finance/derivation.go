package finance

import (
	"strings"

	"github.com/acadops/programme-finance/internal/models"
	"github.com/shopspring/decimal"
)

// Financial derivation: income lines, overhead and fund-transfer amounts.
// All functions here are pure; computations run on decimals and are returned
// unrounded so callers can chain them, rounding with Round2 for display only.

// DefaultOverheadRate is the university share of registration income applied
// when no explicit overhead is recorded on the budget.
var DefaultOverheadRate = decimal.NewFromFloat(0.30)

// AssociateCentreRate is the cut of gross registration fees a co-organizing
// centre receives ahead of the fund transfer.
var AssociateCentreRate = decimal.NewFromFloat(0.10)

var hundred = decimal.NewFromInt(100)

// IncomeFor computes the net expected income of one line:
// participants x per-head fee, less GST.
func IncomeFor(line models.IncomeLine) decimal.Decimal {
	gross := decimal.NewFromInt(int64(line.ExpectedParticipants)).
		Mul(decimal.NewFromFloat(line.PerParticipantAmount))
	gstFactor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(line.GSTPercentage).Div(hundred))
	return clampNonNegative(gross.Mul(gstFactor))
}

// DefaultOverhead derives the overhead retained centrally when the budget
// does not record one explicitly.
func DefaultOverhead(totalRegistrationFee decimal.Decimal) decimal.Decimal {
	return clampNonNegative(totalRegistrationFee.Mul(DefaultOverheadRate))
}

// RegistrationFeeTotal picks the income total the fund transfer is computed
// from. An income line whose category mentions registration, fees or
// participants is taken as the fee line; when none does, all lines sum.
func RegistrationFeeTotal(lines []models.IncomeLine) decimal.Decimal {
	for _, line := range lines {
		category := strings.ToLower(line.Category)
		if strings.Contains(category, "registration") ||
			strings.Contains(category, "fee") ||
			strings.Contains(category, "participant") {
			return grossIncome(line)
		}
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(grossIncome(line))
	}
	return total
}

// FundTransferAmount computes the amount moved to the co-organizing centre's
// account: gross fees net of GST and the retained overhead, plus the fixed
// associate-centre cut of gross fees when such a centre exists.
func FundTransferAmount(totalFee decimal.Decimal, gstPct, overhead decimal.Decimal, hasAssociateDepartment bool) decimal.Decimal {
	gst := totalFee.Mul(gstPct).Div(hundred)
	base := totalFee.Sub(gst).Sub(overhead)

	centreShare := decimal.Zero
	if hasAssociateDepartment {
		centreShare = totalFee.Mul(AssociateCentreRate)
	}
	return clampNonNegative(base.Add(centreShare))
}

// Round2 rounds half-up to two decimal places for display. Intermediate
// arithmetic stays unrounded.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

func grossIncome(line models.IncomeLine) decimal.Decimal {
	return decimal.NewFromInt(int64(line.ExpectedParticipants)).
		Mul(decimal.NewFromFloat(line.PerParticipantAmount))
}

func clampNonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
