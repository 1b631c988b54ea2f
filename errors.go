package kassza

import "errors"

// Expected outcomes callers are meant to branch on with errors.Is.
// Anything else bubbling out of this package is a storage or input
// failure and is wrapped with context instead.
var (
	// ErrNoState means no balance has been recorded yet for the day.
	ErrNoState = errors.New("no recorded state for this day")

	// ErrEmptyJournal means the day's journal has zero entries.
	ErrEmptyJournal = errors.New("journal is empty")

	// ErrNoUndoable is the terminal outcome of undoing on a day without
	// any recorded transaction.
	ErrNoUndoable = errors.New("no undoable transaction")

	// ErrInsufficientPayment means the buyer gave less than the amount due.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrCannotMakeChange means the drawer stock cannot produce the exact
	// change for a transaction.
	ErrCannotMakeChange = errors.New("cannot make exact change from drawer")

	// ErrInconsistent means the day's journal and state disagree, typically
	// after an interrupted undo. Neither side is repaired automatically:
	// either value could be the operator's intended truth.
	ErrInconsistent = errors.New("journal and state are inconsistent")
)
