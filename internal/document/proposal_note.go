package document

import (
	"fmt"

	"github.com/acadops/programme-finance/internal/finance"
	"github.com/acadops/programme-finance/internal/layout"
	"github.com/acadops/programme-finance/internal/models"
)

// buildProposalNote renders the pre-event proposal: programme summary,
// committee, planned income and expenditure, and signatures.
func (r *Renderer) buildProposalNote(e *layout.Engine, event *models.Event) error {
	r.letterhead(e, "Training Programme Proposal")
	r.eventSummary(e, event)
	r.committeeRoster(e, event)
	e.Spacer(8)

	if event.BudgetBreakdown == nil {
		return ErrNoBudget
	}

	if len(event.BudgetBreakdown.Income) > 0 {
		e.TextLine("Expected Income", layout.TextStyle{FontSize: headingSize, Bold: true})
		e.Spacer(4)
		if err := r.incomeTable(e, event.BudgetBreakdown.Income); err != nil {
			return err
		}
		e.Spacer(10)
	}

	e.TextLine("Proposed Expenditure", layout.TextStyle{FontSize: headingSize, Bold: true})
	e.Spacer(4)
	if err := r.expenseTable(e, event.BudgetBreakdown.Expenses, false); err != nil {
		return err
	}
	e.Spacer(6)

	if event.BudgetBreakdown.UniversityOverhead != nil {
		r.keyValue(e, "University overhead", money(*event.BudgetBreakdown.UniversityOverhead))
	}
	r.keyValue(e, "Total proposed expenditure", money(event.BudgetBreakdown.TotalExpenditure))

	if event.RegistrationFees != nil {
		e.Spacer(6)
		r.keyValue(e, "Registration fee per participant", money(event.RegistrationFees.PerParticipantAmount))
		r.keyValue(e, "GST on registration", fmt.Sprintf("%.1f%%", event.RegistrationFees.GSTPercentage))
		r.keyValue(e, "Expected participants", fmt.Sprintf("%d", event.RegistrationFees.ExpectedParticipants))
	}

	r.signatureGrid(e, event)
	return nil
}

// buildBudgetAnnex renders the standalone budget annexure: income and
// expense detail with derived totals, without the narrative sections.
func (r *Renderer) buildBudgetAnnex(e *layout.Engine, event *models.Event) error {
	if event.BudgetBreakdown == nil {
		return ErrNoBudget
	}

	r.letterhead(e, "Budget Annexure")
	e.TextLine(event.Title, layout.TextStyle{FontSize: headingSize, Bold: true})
	e.Spacer(8)

	e.TextLine("A. Income", layout.TextStyle{FontSize: headingSize, Bold: true})
	e.Spacer(4)
	if err := r.incomeTable(e, event.BudgetBreakdown.Income); err != nil {
		return err
	}
	e.Spacer(10)

	e.TextLine("B. Expenditure", layout.TextStyle{FontSize: headingSize, Bold: true})
	e.Spacer(4)
	if err := r.expenseTable(e, event.BudgetBreakdown.Expenses, false); err != nil {
		return err
	}
	e.Spacer(6)

	if event.BudgetBreakdown.UniversityOverhead != nil {
		r.keyValue(e, "University overhead", money(*event.BudgetBreakdown.UniversityOverhead))
	}
	if event.BudgetBreakdown.GSTAmount != nil {
		r.keyValue(e, "GST amount", money(*event.BudgetBreakdown.GSTAmount))
	}
	r.keyValue(e, "Total expenditure", money(event.BudgetBreakdown.TotalExpenditure))

	summary := finance.SummarizeFundTransfer(event)
	balance := summary.RegistrationFee.Sub(summary.GSTAmount)
	r.keyValue(e, "Registration income net of GST", balance.Round(2).String())

	r.signatureGrid(e, event)
	return nil
}
