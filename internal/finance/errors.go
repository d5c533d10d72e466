package finance

import "errors"

// Domain errors for budget/claim reconciliation

var (
	ErrNoExpenses           = errors.New("expense list must be a non-empty list")
	ErrEmptyRejectionReason = errors.New("rejection reason must not be empty")
	ErrLineNotFound         = errors.New("expense line not found")
	ErrNoClaim              = errors.New("no claim bill exists for event")
)
