package finance

import (
	"time"

	"github.com/acadops/programme-finance/internal/models"
	"go.uber.org/zap"
)

// ExpenseSynchronizer keeps the planned-budget and submitted-claim views of
// an event's expenses mutually consistent across submit and update
// operations. All mutations happen in memory on the event aggregate; the
// caller persists the whole record afterwards, so a validation failure
// leaves nothing half-written.
type ExpenseSynchronizer struct {
	machine *ApprovalStateMachine
	logger  *zap.Logger
	now     func() time.Time
}

// NewExpenseSynchronizer creates a new synchronizer.
func NewExpenseSynchronizer(machine *ApprovalStateMachine, logger *zap.Logger) *ExpenseSynchronizer {
	return &ExpenseSynchronizer{
		machine: machine,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock returns a copy using the given clock.
func (s *ExpenseSynchronizer) WithClock(now func() time.Time) *ExpenseSynchronizer {
	return &ExpenseSynchronizer{machine: s.machine.WithClock(now), logger: s.logger, now: now}
}

// OnClaimSubmit builds the claim bill from submitted actuals, auto-approving
// every line, and mirrors the same list into the planned budget. A resubmission
// overwrites the existing bill but preserves its creation time. University
// overhead, when recorded, is added to the budget total only, never to the
// claim total.
func (s *ExpenseSynchronizer) OnClaimSubmit(event *models.Event, expenses []models.ExpenseItem, submitterID string) error {
	if len(expenses) == 0 {
		return ErrNoExpenses
	}

	EnsureLineIDs(expenses)
	s.machine.AutoApproveOnSubmit(expenses, submitterID)
	total := ApprovedTotal(expenses)

	now := s.now()
	createdAt := now
	if event.ClaimBill != nil && !event.ClaimBill.CreatedAt.IsZero() {
		createdAt = event.ClaimBill.CreatedAt
	}

	event.ClaimBill = &models.ClaimBill{
		Expenses:            expenses,
		TotalExpenditure:    total,
		TotalApprovedAmount: total,
		Status:              models.ClaimStatusSubmitted,
		ClaimSubmitted:      true,
		CreatedAt:           createdAt,
		UpdatedAt:           now,
	}

	s.mirrorIntoBudget(event, expenses)

	s.logger.Info("Claim submitted and reconciled",
		zap.String("event_id", event.ID),
		zap.Int("line_count", len(expenses)),
		zap.Float64("total_expenditure", total),
		zap.String("submitted_by", submitterID))
	return nil
}

// OnBudgetUpdate replaces the planned expense list and recomputes the budget
// total. If a claim bill already exists its expense list and total are
// overwritten too, with claimSubmitted and createdAt left untouched; if none
// exists a skeleton bill is created so the two views never drift apart.
func (s *ExpenseSynchronizer) OnBudgetUpdate(event *models.Event, newExpenses []models.ExpenseItem) error {
	if len(newExpenses) == 0 {
		return ErrNoExpenses
	}

	EnsureLineIDs(newExpenses)
	s.carryReviewState(event, newExpenses)

	if event.BudgetBreakdown == nil {
		event.BudgetBreakdown = &models.BudgetBreakdown{}
	}
	event.BudgetBreakdown.Expenses = newExpenses
	event.BudgetBreakdown.TotalExpenditure = PlannedTotal(newExpenses)
	if event.BudgetBreakdown.UniversityOverhead != nil {
		event.BudgetBreakdown.TotalExpenditure += *event.BudgetBreakdown.UniversityOverhead
	}

	now := s.now()
	if event.ClaimBill == nil {
		event.ClaimBill = &models.ClaimBill{
			Status:         models.ClaimStatusPending,
			ClaimSubmitted: false,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	claimExpenses := make([]models.ExpenseItem, len(newExpenses))
	copy(claimExpenses, newExpenses)
	event.ClaimBill.Expenses = claimExpenses
	event.ClaimBill.TotalExpenditure = ApprovedTotal(claimExpenses)
	event.ClaimBill.TotalApprovedAmount = event.ClaimBill.TotalExpenditure
	event.ClaimBill.UpdatedAt = now

	s.logger.Info("Budget updated and mirrored into claim",
		zap.String("event_id", event.ID),
		zap.Int("line_count", len(newExpenses)),
		zap.Float64("budget_total", event.BudgetBreakdown.TotalExpenditure))
	return nil
}

// ReviewItem applies an approve or reject decision to a single claim line,
// identified by id, and recomputes both totals.
func (s *ExpenseSynchronizer) ReviewItem(event *models.Event, lineID, reviewerID, rejectionReason string, approve bool) error {
	if event.ClaimBill == nil {
		return ErrNoClaim
	}

	idx := -1
	for i := range event.ClaimBill.Expenses {
		if event.ClaimBill.Expenses[i].LineID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrLineNotFound
	}

	item := &event.ClaimBill.Expenses[idx]
	if approve {
		s.machine.Approve(item, reviewerID)
	} else if err := s.machine.Reject(item, rejectionReason, reviewerID); err != nil {
		return err
	}

	event.ClaimBill.TotalExpenditure = ApprovedTotal(event.ClaimBill.Expenses)
	event.ClaimBill.TotalApprovedAmount = event.ClaimBill.TotalExpenditure
	event.ClaimBill.UpdatedAt = s.now()
	s.mirrorIntoBudget(event, event.ClaimBill.Expenses)
	return nil
}

// ReconcileForEditing returns the one expense list an editor should see:
// the claim bill's when it has lines, else the planned budget's. Both views
// on the returned copy are forced to that list, so it reads consistently no
// matter which view changed last. The stored aggregate is not touched.
func (s *ExpenseSynchronizer) ReconcileForEditing(event *models.Event) *models.Event {
	view := *event

	var canonical []models.ExpenseItem
	switch {
	case event.ClaimBill != nil && len(event.ClaimBill.Expenses) > 0:
		canonical = event.ClaimBill.Expenses
	case event.BudgetBreakdown != nil:
		canonical = event.BudgetBreakdown.Expenses
	}

	if event.BudgetBreakdown != nil {
		budget := *event.BudgetBreakdown
		budget.Expenses = canonical
		view.BudgetBreakdown = &budget
	}
	if event.ClaimBill != nil {
		claim := *event.ClaimBill
		claim.Expenses = canonical
		view.ClaimBill = &claim
	}
	return &view
}

// carryReviewState preserves the review outcome of lines whose id survives a
// budget edit. A line the caller resends with the same id keeps its approval
// or rejection; a new id arrives pending.
func (s *ExpenseSynchronizer) carryReviewState(event *models.Event, newExpenses []models.ExpenseItem) {
	if event.ClaimBill == nil {
		return
	}
	previous := make(map[string]models.ExpenseItem, len(event.ClaimBill.Expenses))
	for _, item := range event.ClaimBill.Expenses {
		previous[item.LineID] = item
	}
	for i := range newExpenses {
		old, ok := previous[newExpenses[i].LineID]
		if !ok || old.ItemStatus == models.ItemStatusPending {
			continue
		}
		newExpenses[i].ItemStatus = old.ItemStatus
		newExpenses[i].RejectionReason = old.RejectionReason
		newExpenses[i].ReviewDate = old.ReviewDate
		newExpenses[i].ReviewedBy = old.ReviewedBy
		if old.ItemStatus == models.ItemStatusApproved {
			amount := Resolve(newExpenses[i])
			newExpenses[i].ApprovedAmount = &amount
			newExpenses[i].Amount = amount
		}
		if old.ItemStatus == models.ItemStatusRejected {
			zero := 0.0
			newExpenses[i].ApprovedAmount = &zero
			newExpenses[i].Amount = 0
		}
	}
}

// mirrorIntoBudget copies the claim's expense list into the planned budget
// and recomputes the budget total, overhead included.
func (s *ExpenseSynchronizer) mirrorIntoBudget(event *models.Event, expenses []models.ExpenseItem) {
	if event.BudgetBreakdown == nil {
		event.BudgetBreakdown = &models.BudgetBreakdown{}
	}
	mirrored := make([]models.ExpenseItem, len(expenses))
	copy(mirrored, expenses)
	event.BudgetBreakdown.Expenses = mirrored
	event.BudgetBreakdown.TotalExpenditure = PlannedTotal(mirrored)
	if event.BudgetBreakdown.UniversityOverhead != nil {
		event.BudgetBreakdown.TotalExpenditure += *event.BudgetBreakdown.UniversityOverhead
	}
}
