package finance

import (
	"testing"
	"time"

	"github.com/acadops/programme-finance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSynchronizer(now time.Time) *ExpenseSynchronizer {
	logger := zap.NewNop()
	return NewExpenseSynchronizer(NewApprovalStateMachine(logger), logger).
		WithClock(func() time.Time { return now })
}

func TestOnClaimSubmit_AutoApprovesAndTotals(t *testing.T) {
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	s := testSynchronizer(now)
	event := &models.Event{ID: "evt-1"}

	expenses := []models.ExpenseItem{
		{Category: "Travel", Amount: 5000, ItemStatus: models.ItemStatusPending},
		{Category: "Stationery", Amount: 1200, ItemStatus: models.ItemStatusPending},
	}
	require.NoError(t, s.OnClaimSubmit(event, expenses, "coordinator-1"))

	require.NotNil(t, event.ClaimBill)
	assert.True(t, event.ClaimBill.ClaimSubmitted)
	assert.Equal(t, 6200.0, event.ClaimBill.TotalExpenditure)
	assert.Equal(t, 6200.0, event.ClaimBill.TotalApprovedAmount)
	assert.Equal(t, now, event.ClaimBill.CreatedAt)
	for _, item := range event.ClaimBill.Expenses {
		assert.Equal(t, models.ItemStatusApproved, item.ItemStatus)
		assert.NotEmpty(t, item.LineID)
	}

	// mirrored into the planned budget
	require.NotNil(t, event.BudgetBreakdown)
	assert.Len(t, event.BudgetBreakdown.Expenses, 2)
	assert.Equal(t, 6200.0, event.BudgetBreakdown.TotalExpenditure)
}

func TestOnClaimSubmit_EmptyListRejectedBeforeMutation(t *testing.T) {
	s := testSynchronizer(time.Now())
	event := &models.Event{ID: "evt-1"}

	err := s.OnClaimSubmit(event, nil, "coordinator-1")
	assert.ErrorIs(t, err, ErrNoExpenses)
	assert.Nil(t, event.ClaimBill)
	assert.Nil(t, event.BudgetBreakdown)
}

func TestOnClaimSubmit_ResubmissionPreservesCreatedAt(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
	s := testSynchronizer(now)
	event := &models.Event{
		ID:        "evt-1",
		ClaimBill: &models.ClaimBill{CreatedAt: created, ClaimSubmitted: true},
	}

	require.NoError(t, s.OnClaimSubmit(event, []models.ExpenseItem{{Category: "Travel", Amount: 100}}, "coordinator-1"))

	assert.Equal(t, created, event.ClaimBill.CreatedAt)
	assert.Equal(t, now, event.ClaimBill.UpdatedAt)
}

func TestOnClaimSubmit_OverheadAddedToBudgetTotalOnly(t *testing.T) {
	s := testSynchronizer(time.Now())
	overhead := 1500.0
	event := &models.Event{
		ID:              "evt-1",
		BudgetBreakdown: &models.BudgetBreakdown{UniversityOverhead: &overhead},
	}

	require.NoError(t, s.OnClaimSubmit(event, []models.ExpenseItem{{Category: "Travel", Amount: 5000}}, "coordinator-1"))

	assert.Equal(t, 5000.0, event.ClaimBill.TotalExpenditure)
	assert.Equal(t, 6500.0, event.BudgetBreakdown.TotalExpenditure)
}

func TestOnBudgetUpdate_OverwritesClaimPreservingSubmissionState(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	s := testSynchronizer(now)
	event := &models.Event{
		ID: "evt-1",
		ClaimBill: &models.ClaimBill{
			Expenses:       []models.ExpenseItem{{LineID: "exp-old", Category: "Travel", ItemStatus: models.ItemStatusApproved, ApprovedAmount: f(5000)}},
			ClaimSubmitted: true,
			CreatedAt:      created,
		},
	}

	newExpenses := []models.ExpenseItem{{Category: "Travel", Amount: 7000, ItemStatus: models.ItemStatusPending}}
	require.NoError(t, s.OnBudgetUpdate(event, newExpenses))

	require.Len(t, event.ClaimBill.Expenses, 1)
	assert.Equal(t, 7000.0, Resolve(event.ClaimBill.Expenses[0]))
	assert.True(t, event.ClaimBill.ClaimSubmitted)
	assert.Equal(t, created, event.ClaimBill.CreatedAt)
	assert.Equal(t, 7000.0, event.BudgetBreakdown.TotalExpenditure)
}

func TestOnBudgetUpdate_CreatesSkeletonClaimWhenAbsent(t *testing.T) {
	s := testSynchronizer(time.Now())
	event := &models.Event{ID: "evt-1"}

	require.NoError(t, s.OnBudgetUpdate(event, []models.ExpenseItem{{Category: "Travel", BudgetAmount: f(3000)}}))

	require.NotNil(t, event.ClaimBill)
	assert.False(t, event.ClaimBill.ClaimSubmitted)
	assert.Equal(t, models.ClaimStatusPending, event.ClaimBill.Status)
	// pending lines count in the planned view but not in the claim total
	assert.Equal(t, 3000.0, event.BudgetBreakdown.TotalExpenditure)
	assert.Equal(t, 0.0, event.ClaimBill.TotalExpenditure)
}

func TestOnBudgetUpdate_CarriesReviewStateBySameLineID(t *testing.T) {
	s := testSynchronizer(time.Now())
	event := &models.Event{
		ID: "evt-1",
		ClaimBill: &models.ClaimBill{
			Expenses: []models.ExpenseItem{
				{LineID: "exp-1", Category: "Travel", ItemStatus: models.ItemStatusApproved, ApprovedAmount: f(5000), ReviewedBy: "reviewer-7"},
				{LineID: "exp-2", Category: "Food", ItemStatus: models.ItemStatusRejected, RejectionReason: "duplicate"},
			},
			ClaimSubmitted: true,
		},
	}

	// Same ids resent with renamed categories keep their review outcomes.
	newExpenses := []models.ExpenseItem{
		{LineID: "exp-1", Category: "Travel & Transport", ActualAmount: f(5200), ItemStatus: models.ItemStatusPending},
		{LineID: "exp-2", Category: "Catering", ActualAmount: f(900), ItemStatus: models.ItemStatusPending},
		{Category: "Printing", BudgetAmount: f(400), ItemStatus: models.ItemStatusPending},
	}
	require.NoError(t, s.OnBudgetUpdate(event, newExpenses))

	byID := map[string]models.ExpenseItem{}
	for _, item := range event.ClaimBill.Expenses {
		byID[item.LineID] = item
	}
	assert.Equal(t, models.ItemStatusApproved, byID["exp-1"].ItemStatus)
	assert.Equal(t, "Travel & Transport", byID["exp-1"].Category)
	assert.Equal(t, models.ItemStatusRejected, byID["exp-2"].ItemStatus)
	assert.Equal(t, 0.0, Resolve(byID["exp-2"]))

	// the new line arrived pending with a generated id
	var pendingCount int
	for _, item := range event.ClaimBill.Expenses {
		if item.ItemStatus == models.ItemStatusPending {
			pendingCount++
			assert.NotEmpty(t, item.LineID)
		}
	}
	assert.Equal(t, 1, pendingCount)
}

func TestReviewItem_RejectExcludesFromTotals(t *testing.T) {
	s := testSynchronizer(time.Now())
	event := &models.Event{
		ID: "evt-1",
		ClaimBill: &models.ClaimBill{
			Expenses: []models.ExpenseItem{
				{LineID: "exp-1", ItemStatus: models.ItemStatusApproved, ApprovedAmount: f(5000)},
				{LineID: "exp-2", ItemStatus: models.ItemStatusApproved, ApprovedAmount: f(1200)},
			},
			TotalExpenditure: 6200,
			ClaimSubmitted:   true,
		},
	}

	require.NoError(t, s.ReviewItem(event, "exp-2", "reviewer-7", "duplicate", false))

	assert.Equal(t, 5000.0, event.ClaimBill.TotalExpenditure)
	assert.Equal(t, 5000.0, event.BudgetBreakdown.TotalExpenditure)
}

func TestReviewItem_UnknownLine(t *testing.T) {
	s := testSynchronizer(time.Now())
	event := &models.Event{ID: "evt-1", ClaimBill: &models.ClaimBill{}}

	err := s.ReviewItem(event, "exp-missing", "reviewer-7", "", true)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestReviewItem_NoClaim(t *testing.T) {
	s := testSynchronizer(time.Now())
	err := s.ReviewItem(&models.Event{ID: "evt-1"}, "exp-1", "reviewer-7", "", true)
	assert.ErrorIs(t, err, ErrNoClaim)
}

func TestReconcileForEditing_ClaimListWins(t *testing.T) {
	s := testSynchronizer(time.Now())
	event := &models.Event{
		ID: "evt-1",
		BudgetBreakdown: &models.BudgetBreakdown{
			Expenses: []models.ExpenseItem{{LineID: "exp-b", Category: "Old"}},
		},
		ClaimBill: &models.ClaimBill{
			Expenses: []models.ExpenseItem{{LineID: "exp-c", Category: "Current"}},
		},
	}

	view := s.ReconcileForEditing(event)

	require.Len(t, view.BudgetBreakdown.Expenses, 1)
	assert.Equal(t, "exp-c", view.BudgetBreakdown.Expenses[0].LineID)
	assert.Equal(t, "exp-c", view.ClaimBill.Expenses[0].LineID)
	// the stored record is untouched
	assert.Equal(t, "exp-b", event.BudgetBreakdown.Expenses[0].LineID)
}

func TestReconcileForEditing_FallsBackToBudgetList(t *testing.T) {
	s := testSynchronizer(time.Now())
	event := &models.Event{
		ID: "evt-1",
		BudgetBreakdown: &models.BudgetBreakdown{
			Expenses: []models.ExpenseItem{{LineID: "exp-b", Category: "Travel"}},
		},
		ClaimBill: &models.ClaimBill{},
	}

	view := s.ReconcileForEditing(event)
	assert.Equal(t, "exp-b", view.ClaimBill.Expenses[0].LineID)
}
