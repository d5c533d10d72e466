package finance

import (
	"strings"
	"time"

	"github.com/acadops/programme-finance/internal/models"
	"go.uber.org/zap"
)

// ApprovalStateMachine drives the per-item review lifecycle:
// pending (initial) -> approved | rejected. Both outcomes are terminal for a
// given submission pass; a later budget edit may reintroduce the line as a
// fresh pending item.
type ApprovalStateMachine struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewApprovalStateMachine creates a new state machine. The clock is fixed at
// time.Now; tests swap it via WithClock.
func NewApprovalStateMachine(logger *zap.Logger) *ApprovalStateMachine {
	return &ApprovalStateMachine{
		logger: logger,
		now:    time.Now,
	}
}

// WithClock returns a copy using the given clock.
func (m *ApprovalStateMachine) WithClock(now func() time.Time) *ApprovalStateMachine {
	return &ApprovalStateMachine{logger: m.logger, now: now}
}

// Approve marks the line approved, pinning approved, actual and display
// amounts to the resolved value so all three read identically afterwards.
func (m *ApprovalStateMachine) Approve(item *models.ExpenseItem, reviewerID string) {
	amount := Resolve(*item)
	item.ApprovedAmount = &amount
	if item.ActualAmount == nil {
		actual := amount
		item.ActualAmount = &actual
	}
	item.Amount = amount
	item.ItemStatus = models.ItemStatusApproved
	item.RejectionReason = ""
	reviewedAt := m.now()
	item.ReviewDate = &reviewedAt
	item.ReviewedBy = reviewerID

	m.logger.Info("Expense line approved",
		zap.String("line_id", item.LineID),
		zap.String("category", item.Category),
		zap.Float64("amount", amount),
		zap.String("reviewed_by", reviewerID))
}

// Reject marks the line rejected with a mandatory reason. The resolved
// amount is forced to zero and the line stops contributing to any total.
func (m *ApprovalStateMachine) Reject(item *models.ExpenseItem, reason, reviewerID string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyRejectionReason
	}

	zero := 0.0
	item.ApprovedAmount = &zero
	item.Amount = 0
	item.ItemStatus = models.ItemStatusRejected
	item.RejectionReason = reason
	reviewedAt := m.now()
	item.ReviewDate = &reviewedAt
	item.ReviewedBy = reviewerID

	m.logger.Info("Expense line rejected",
		zap.String("line_id", item.LineID),
		zap.String("category", item.Category),
		zap.String("reason", reason),
		zap.String("reviewed_by", reviewerID))
	return nil
}

// AutoApproveOnSubmit transitions every line to approved with
// approvedAmount = actualAmount = amount, attributed to the submitting
// coordinator. Self-approval at submission time; the downstream review
// stage may later re-reject individual lines.
func (m *ApprovalStateMachine) AutoApproveOnSubmit(items []models.ExpenseItem, submitterID string) {
	reviewedAt := m.now()
	for i := range items {
		amount := Resolve(items[i])
		items[i].ApprovedAmount = &amount
		actual := amount
		items[i].ActualAmount = &actual
		items[i].Amount = amount
		items[i].ItemStatus = models.ItemStatusApproved
		items[i].RejectionReason = ""
		t := reviewedAt
		items[i].ReviewDate = &t
		items[i].ReviewedBy = submitterID
	}

	m.logger.Info("Claim lines auto-approved on submission",
		zap.Int("count", len(items)),
		zap.String("submitted_by", submitterID))
}

// PurgeRejected permanently removes rejected lines from both views and
// recomputes totals from the remaining approved set. This is the one
// intentionally destructive operation in the system: the removed lines and
// their rejection reasons are gone from the record afterwards. It is only
// reachable through its own endpoint, never as a side effect of rendering.
func (m *ApprovalStateMachine) PurgeRejected(event *models.Event) []string {
	if event.ClaimBill == nil {
		return nil
	}

	var removed []string
	kept := event.ClaimBill.Expenses[:0]
	for _, item := range event.ClaimBill.Expenses {
		if item.IsRejected() {
			removed = append(removed, item.LineID)
			continue
		}
		kept = append(kept, item)
	}
	if len(removed) == 0 {
		return nil
	}

	event.ClaimBill.Expenses = kept
	event.ClaimBill.TotalExpenditure = ApprovedTotal(kept)
	event.ClaimBill.TotalApprovedAmount = event.ClaimBill.TotalExpenditure
	event.ClaimBill.UpdatedAt = m.now()

	if event.BudgetBreakdown != nil {
		budgetKept := make([]models.ExpenseItem, len(kept))
		copy(budgetKept, kept)
		event.BudgetBreakdown.Expenses = budgetKept
		event.BudgetBreakdown.TotalExpenditure = PlannedTotal(budgetKept)
		if event.BudgetBreakdown.UniversityOverhead != nil {
			event.BudgetBreakdown.TotalExpenditure += *event.BudgetBreakdown.UniversityOverhead
		}
	}

	m.logger.Warn("Rejected expense lines purged from event record",
		zap.String("event_id", event.ID),
		zap.Strings("removed_line_ids", removed))
	return removed
}
