package models

import "time"

// Item status constants
const (
	ItemStatusPending  = "pending"
	ItemStatusApproved = "approved"
	ItemStatusRejected = "rejected"
)

// Claim status constants
const (
	ClaimStatusPending   = "pending"
	ClaimStatusSubmitted = "submitted"
	ClaimStatusSettled   = "settled"
)

// BudgetBreakdown is the planned view of an event's finances, editable until
// the event concludes.
type BudgetBreakdown struct {
	Income             []IncomeLine  `json:"income,omitempty"`
	Expenses           []ExpenseItem `json:"expenses"`
	TotalExpenditure   float64       `json:"total_expenditure"`
	UniversityOverhead *float64      `json:"university_overhead,omitempty"`
	GSTAmount          *float64      `json:"gst_amount,omitempty"`
}

// IncomeLine is one expected income source. Income is derived, never stored
// authoritatively; see finance.IncomeFor.
type IncomeLine struct {
	Category             string  `json:"category"`
	ExpectedParticipants int     `json:"expected_participants"`
	PerParticipantAmount float64 `json:"per_participant_amount"`
	GSTPercentage        float64 `json:"gst_percentage"`
	Income               float64 `json:"income"`
}

// ClaimBill is the actuals view created on first claim submission and
// reconciled against the planned budget from then on.
type ClaimBill struct {
	Expenses            []ExpenseItem `json:"expenses"`
	TotalExpenditure    float64       `json:"total_expenditure"`
	TotalApprovedAmount float64       `json:"total_approved_amount"`
	Status              string        `json:"status"`
	ClaimSubmitted      bool          `json:"claim_submitted"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// ExpenseItem is a single budget/claim line. Lines are matched across the
// two views by LineID; Category is a renamable label. The three amount
// pointers distinguish "not supplied" from an explicit zero, which the
// resolution precedence depends on.
type ExpenseItem struct {
	LineID          string     `json:"line_id"`
	Category        string     `json:"category"`
	BudgetAmount    *float64   `json:"budget_amount,omitempty"`
	ActualAmount    *float64   `json:"actual_amount,omitempty"`
	ApprovedAmount  *float64   `json:"approved_amount,omitempty"`
	Amount          float64    `json:"amount"`
	ItemStatus      string     `json:"item_status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ReceiptNumber   string     `json:"receipt_number,omitempty"`
	ReviewDate      *time.Time `json:"review_date,omitempty"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
}

// IsApproved reports whether the item counts toward persisted totals.
func (i *ExpenseItem) IsApproved() bool {
	return i.ItemStatus == ItemStatusApproved
}

// IsRejected reports whether the item is excluded from totals and eligible
// for purging.
func (i *ExpenseItem) IsRejected() bool {
	return i.ItemStatus == ItemStatusRejected
}
