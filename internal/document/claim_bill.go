package document

import (
	"fmt"

	"github.com/acadops/programme-finance/internal/layout"
	"github.com/acadops/programme-finance/internal/models"
)

// buildClaimBill renders the post-event claim: actual expenses with their
// review status, the approved total, and receipt references. Rendering reads
// the record as-is; removing rejected lines is the purge operation's job,
// never this one's.
func (r *Renderer) buildClaimBill(e *layout.Engine, event *models.Event) error {
	if event.ClaimBill == nil || !event.ClaimBill.ClaimSubmitted {
		return ErrClaimNotSubmitted
	}

	r.letterhead(e, "Expense Claim Bill")
	r.eventSummary(e, event)

	r.keyValue(e, "Claim submitted on", formatDate(event.ClaimBill.CreatedAt))
	r.keyValue(e, "Claim status", event.ClaimBill.Status)
	e.Spacer(8)

	e.TextLine("Claimed Expenditure", layout.TextStyle{FontSize: headingSize, Bold: true})
	e.Spacer(4)
	if err := r.expenseTable(e, event.ClaimBill.Expenses, true); err != nil {
		return err
	}
	e.Spacer(6)

	r.keyValue(e, "Total approved amount", money(event.ClaimBill.TotalApprovedAmount))
	r.keyValue(e, "Total expenditure", money(event.ClaimBill.TotalExpenditure))

	receipts := receiptReferences(event.ClaimBill.Expenses)
	if len(receipts) > 0 {
		e.Spacer(6)
		e.TextLine("Receipts enclosed", layout.TextStyle{FontSize: headingSize, Bold: true})
		e.Spacer(2)
		for _, ref := range receipts {
			e.TextLine(ref, layout.TextStyle{FontSize: bodySize})
		}
	}

	r.signatureGrid(e, event)
	return nil
}

func receiptReferences(items []models.ExpenseItem) []string {
	var refs []string
	for _, item := range items {
		if item.ReceiptNumber == "" || item.IsRejected() {
			continue
		}
		refs = append(refs, fmt.Sprintf("%s (receipt no. %s)", item.Category, item.ReceiptNumber))
	}
	return refs
}
