package kassza

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Settle computes the derived fields of a transaction from the amount
// due, the amount the buyer gave, and the balance before the sale. It is
// a pure computation with no storage side effect; the caller appends and
// saves only after it succeeds.
//
// The till nets the amount due: the buyer's cash goes in, the change
// goes back out, so delta equals the amount due.
func Settle(now time.Time, due, given, before Money) (TransactionRecord, error) {
	if due.IsNegative() {
		return TransactionRecord{}, fmt.Errorf("amount due cannot be negative: %s", due)
	}
	if given.LessThan(due) {
		return TransactionRecord{}, fmt.Errorf("%w: buyer gave %s for %s due", ErrInsufficientPayment, given, due)
	}

	return TransactionRecord{
		ID:         uuid.NewString(),
		Time:       now,
		Due:        due,
		Given:      given,
		Change:     given.Sub(due),
		Delta:      due,
		TotalAfter: before.Add(due),
	}, nil
}
