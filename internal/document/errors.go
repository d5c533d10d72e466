package document

import "errors"

// Render errors. All of them abort the document; no partial artifact is ever
// returned or persisted.

var (
	ErrUnknownKind       = errors.New("unknown document kind")
	ErrNoBudget          = errors.New("event has no budget breakdown")
	ErrClaimNotSubmitted = errors.New("claim has not been submitted for event")
)
