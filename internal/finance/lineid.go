package finance

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/acadops/programme-finance/internal/models"
)

// NewLineID generates a stable identifier for an expense line. Lines are
// matched across the budget and claim views by this id, so a renamed
// category updates the existing line instead of spawning a new one.
func NewLineID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; an empty id would
		// break cross-view matching, so this is not recoverable.
		panic("finance: cannot generate line id: " + err.Error())
	}
	return "exp-" + hex.EncodeToString(buf)
}

// EnsureLineIDs assigns ids to lines that arrived without one. External
// callers are not required to know about line ids; the validation boundary
// calls this before any reconciliation runs.
func EnsureLineIDs(items []models.ExpenseItem) {
	for i := range items {
		if items[i].LineID == "" {
			items[i].LineID = NewLineID()
		}
	}
}
