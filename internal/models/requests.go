package models

import "time"

// Request payloads form the validation boundary: shapes are checked here, at
// binding time, so nothing malformed reaches the reconciliation core.

// ExpenseItemInput is an expense line as supplied by a caller. LineID is
// optional; the synchronizer assigns one when absent.
type ExpenseItemInput struct {
	LineID        string   `json:"line_id"`
	Category      string   `json:"category" binding:"required"`
	BudgetAmount  *float64 `json:"budget_amount"`
	ActualAmount  *float64 `json:"actual_amount"`
	Amount        float64  `json:"amount"`
	ReceiptNumber string   `json:"receipt_number"`
}

// IncomeLineInput is an expected income source as supplied by a caller.
type IncomeLineInput struct {
	Category             string  `json:"category" binding:"required"`
	ExpectedParticipants int     `json:"expected_participants" binding:"min=0"`
	PerParticipantAmount float64 `json:"per_participant_amount" binding:"min=0"`
	GSTPercentage        float64 `json:"gst_percentage" binding:"min=0,max=100"`
}

// CreateEventRequest creates an event with its initial planned budget.
type CreateEventRequest struct {
	Title                 string             `json:"title" binding:"required"`
	Venue                 string             `json:"venue"`
	Mode                  string             `json:"mode" binding:"omitempty,oneof=ONLINE OFFLINE HYBRID"`
	StartDate             time.Time          `json:"start_date" binding:"required"`
	EndDate               time.Time          `json:"end_date" binding:"required"`
	Coordinators          []Coordinator      `json:"coordinators"`
	OrganizingDepartments []string           `json:"organizing_departments"`
	Income                []IncomeLineInput  `json:"income"`
	Expenses              []ExpenseItemInput `json:"expenses"`
	UniversityOverhead    *float64           `json:"university_overhead"`
	RegistrationFees      *RegistrationFees  `json:"registration_fees"`
}

// BudgetUpdateRequest replaces the planned expense list of an event.
type BudgetUpdateRequest struct {
	Income             []IncomeLineInput  `json:"income"`
	Expenses           []ExpenseItemInput `json:"expenses" binding:"required,min=1,dive"`
	UniversityOverhead *float64           `json:"university_overhead"`
}

// ClaimSubmitRequest submits post-event actuals for an event.
type ClaimSubmitRequest struct {
	SubmittedBy string             `json:"submitted_by" binding:"required"`
	Expenses    []ExpenseItemInput `json:"expenses" binding:"required,min=1,dive"`
}

// ReviewRequest approves a single claim line.
type ReviewRequest struct {
	ReviewedBy string `json:"reviewed_by" binding:"required"`
}

// RejectRequest rejects a single claim line. A reason is mandatory; the
// state machine refuses blank ones as well.
type RejectRequest struct {
	ReviewedBy string `json:"reviewed_by" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

// ToExpenseItem converts caller input into a canonical pending expense line.
func (in ExpenseItemInput) ToExpenseItem() ExpenseItem {
	return ExpenseItem{
		LineID:        in.LineID,
		Category:      in.Category,
		BudgetAmount:  in.BudgetAmount,
		ActualAmount:  in.ActualAmount,
		Amount:        in.Amount,
		ReceiptNumber: in.ReceiptNumber,
		ItemStatus:    ItemStatusPending,
	}
}

// ToExpenseItems converts a slice of inputs, preserving order.
func ToExpenseItems(inputs []ExpenseItemInput) []ExpenseItem {
	items := make([]ExpenseItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, in.ToExpenseItem())
	}
	return items
}

// ToIncomeLines converts income inputs, leaving the derived income at zero
// for the derivation engine to fill.
func ToIncomeLines(inputs []IncomeLineInput) []IncomeLine {
	lines := make([]IncomeLine, 0, len(inputs))
	for _, in := range inputs {
		lines = append(lines, IncomeLine{
			Category:             in.Category,
			ExpectedParticipants: in.ExpectedParticipants,
			PerParticipantAmount: in.PerParticipantAmount,
			GSTPercentage:        in.GSTPercentage,
		})
	}
	return lines
}
