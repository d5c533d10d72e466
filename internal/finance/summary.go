package finance

import (
	"github.com/acadops/programme-finance/internal/models"
	"github.com/shopspring/decimal"
)

// FundTransferSummary gathers every figure the fund-transfer request reports.
type FundTransferSummary struct {
	RegistrationFee decimal.Decimal
	GSTPercentage   decimal.Decimal
	GSTAmount       decimal.Decimal
	Overhead        decimal.Decimal
	OverheadDefault bool
	CentreShare     decimal.Decimal
	TransferAmount  decimal.Decimal
}

// SummarizeFundTransfer derives the fund-transfer figures for an event from
// its income lines, fee structure and recorded overhead. When no overhead is
// recorded the default rate applies and the summary says so.
func SummarizeFundTransfer(event *models.Event) FundTransferSummary {
	var incomeLines []models.IncomeLine
	if event.BudgetBreakdown != nil {
		incomeLines = event.BudgetBreakdown.Income
	}

	totalFee := RegistrationFeeTotal(incomeLines)
	gstPct := decimal.Zero
	if event.RegistrationFees != nil {
		gstPct = decimal.NewFromFloat(event.RegistrationFees.GSTPercentage)
		if totalFee.IsZero() {
			totalFee = decimal.NewFromInt(int64(event.RegistrationFees.ExpectedParticipants)).
				Mul(decimal.NewFromFloat(event.RegistrationFees.PerParticipantAmount))
		}
	} else if len(incomeLines) > 0 {
		gstPct = decimal.NewFromFloat(incomeLines[0].GSTPercentage)
	}

	summary := FundTransferSummary{
		RegistrationFee: totalFee,
		GSTPercentage:   gstPct,
		GSTAmount:       totalFee.Mul(gstPct).Div(hundred),
	}

	if event.BudgetBreakdown != nil && event.BudgetBreakdown.UniversityOverhead != nil {
		summary.Overhead = decimal.NewFromFloat(*event.BudgetBreakdown.UniversityOverhead)
	} else {
		summary.Overhead = DefaultOverhead(totalFee)
		summary.OverheadDefault = true
	}

	hasAssociate := event.HasAssociateDepartment()
	if hasAssociate {
		summary.CentreShare = totalFee.Mul(AssociateCentreRate)
	}
	summary.TransferAmount = FundTransferAmount(totalFee, gstPct, summary.Overhead, hasAssociate)
	return summary
}

// DeriveIncome fills the derived income field of each budget income line.
func DeriveIncome(lines []models.IncomeLine) {
	for i := range lines {
		income, _ := IncomeFor(lines[i]).Float64()
		lines[i].Income = income
	}
}
