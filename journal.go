package kassza

import "kassza/date"

// Journal is the ordered sequence of completed transactions for one day.
// Append order is the only valid order; records are never reordered.
type Journal struct {
	day     date.Date
	records []TransactionRecord
}

// NewJournal returns an empty journal for the given day.
func NewJournal(day date.Date) *Journal {
	return &Journal{day: day}
}

// Day returns the calendar day this journal belongs to.
func (j *Journal) Day() date.Date { return j.day }

// Len returns the number of records.
func (j *Journal) Len() int { return len(j.records) }

// Records returns the records in append order. The returned slice is a
// copy; mutating it does not affect the journal.
func (j *Journal) Records() []TransactionRecord {
	out := make([]TransactionRecord, len(j.records))
	copy(out, j.records)
	return out
}

// Append adds a record as the new last entry.
func (j *Journal) Append(r TransactionRecord) {
	j.records = append(j.records, r)
}

// Last returns the most recent record, if any.
func (j *Journal) Last() (TransactionRecord, bool) {
	if len(j.records) == 0 {
		return TransactionRecord{}, false
	}
	return j.records[len(j.records)-1], true
}

// RemoveLast pops the most recent record, if any.
func (j *Journal) RemoveLast() (TransactionRecord, bool) {
	last, ok := j.Last()
	if !ok {
		return TransactionRecord{}, false
	}
	j.records = j.records[:len(j.records)-1]
	return last, true
}
