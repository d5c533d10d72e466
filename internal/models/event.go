package models

import "time"

// Event is the training-programme aggregate as supplied by the persistence
// layer. The financial core reads and mutates its budget and claim views;
// everything else (rosters, departments) is carried through for rendering.
type Event struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	Venue                 string               `json:"venue,omitempty"`
	Mode                  string               `json:"mode,omitempty"` // ONLINE, OFFLINE, HYBRID
	StartDate             time.Time            `json:"start_date"`
	EndDate               time.Time            `json:"end_date"`
	Coordinators          []Coordinator        `json:"coordinators,omitempty"`
	OrganizingDepartments []string             `json:"organizing_departments,omitempty"`
	DepartmentApprovers   []DepartmentApprover `json:"department_approvers,omitempty"`
	BudgetBreakdown       *BudgetBreakdown     `json:"budget_breakdown,omitempty"`
	ClaimBill             *ClaimBill           `json:"claim_bill,omitempty"`
	RegistrationFees      *RegistrationFees    `json:"registration_fees,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// Coordinator is a programme coordinator entry used in document headers and
// signature grids.
type Coordinator struct {
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// DepartmentApprover records a department-level sign-off. The approval date
// of the administering department sources the fund-transfer trigger date.
type DepartmentApprover struct {
	Department   string     `json:"department"`
	Approved     bool       `json:"approved"`
	ApprovedDate *time.Time `json:"approved_date,omitempty"`
}

// RegistrationFees holds the fee structure used by income derivation.
type RegistrationFees struct {
	PerParticipantAmount float64 `json:"per_participant_amount"`
	GSTPercentage        float64 `json:"gst_percentage"`
	ExpectedParticipants int     `json:"expected_participants"`
}

// HasAssociateDepartment reports whether a co-organizing centre shares the
// event. The fund-transfer computation grants such a centre a 10% cut of
// gross registration fees.
func (e *Event) HasAssociateDepartment() bool {
	return len(e.OrganizingDepartments) > 1
}

// FundTransferTriggerDate returns the approval date of the first approved
// department approver, or nil when no department has signed off yet.
func (e *Event) FundTransferTriggerDate() *time.Time {
	for _, a := range e.DepartmentApprovers {
		if a.Approved && a.ApprovedDate != nil {
			return a.ApprovedDate
		}
	}
	return nil
}
