package document

import (
	"fmt"

	"github.com/acadops/programme-finance/internal/finance"
	"github.com/acadops/programme-finance/internal/layout"
	"github.com/acadops/programme-finance/internal/models"
)

// buildFundTransfer renders the fund-transfer request: the registration-fee
// working from gross fee down to the transferable amount, and the
// departmental approval that triggers it.
func (r *Renderer) buildFundTransfer(e *layout.Engine, event *models.Event) error {
	r.letterhead(e, "Fund Transfer Request")
	r.eventSummary(e, event)

	summary := finance.SummarizeFundTransfer(event)

	width := e.ContentWidth()
	columns := []layout.Column{
		{Title: "Particulars", Width: width * 0.64},
		{Title: "Amount (Rs.)", Width: width * 0.36, Align: "R"},
	}

	overheadLabel := "University overhead retained"
	if summary.OverheadDefault {
		overheadLabel = "University overhead retained (default 30%)"
	}
	rows := [][]string{
		{"Gross registration fees collected", summary.RegistrationFee.Round(2).String()},
		{fmt.Sprintf("Less: GST @ %s%%", summary.GSTPercentage.Round(1)), summary.GSTAmount.Round(2).String()},
		{"Less: " + overheadLabel, summary.Overhead.Round(2).String()},
	}
	if event.HasAssociateDepartment() {
		rows = append(rows, []string{"Add: associate centre share (10% of gross)", summary.CentreShare.Round(2).String()})
	}
	totals := []string{"Amount to transfer", summary.TransferAmount.Round(2).String()}

	if err := e.Table(columns, rows, totals, tableRow); err != nil {
		return err
	}
	e.Spacer(10)

	if trigger := event.FundTransferTriggerDate(); trigger != nil {
		r.keyValue(e, "Departmental approval date", formatDate(*trigger))
	} else {
		e.TextLine("Departmental approval pending; transfer not yet due.", layout.TextStyle{FontSize: bodySize, Bold: true})
	}
	for _, approver := range event.DepartmentApprovers {
		status := "pending"
		if approver.Approved {
			status = "approved"
			if approver.ApprovedDate != nil {
				status = "approved on " + formatDate(*approver.ApprovedDate)
			}
		}
		r.keyValue(e, approver.Department, status)
	}

	r.signatureGrid(e, event)
	return nil
}
