package kassza

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"kassza/date"
)

// tsFormat is the journal timestamp format, second precision, local time.
const tsFormat = "2006-01-02T15:04:05"

// TransactionRecord is one completed sale as appended to a day's journal.
// Immutable once appended; the only permitted mutation of a journal is
// removing its last record during undo.
type TransactionRecord struct {
	ID   string    // unique id of the record
	Time time.Time // when the sale was settled

	Due        Money // amount the buyer had to pay
	Given      Money // amount the buyer handed over
	Change     Money // Given - Due, returned to the buyer
	Delta      Money // net increase of the till balance (= Due)
	TotalAfter Money // till balance immediately after this sale

	// Optional denomination breakdowns, present when the day tracks a
	// drawer. Amounts above stay authoritative.
	GivenTender  *Tender
	ChangeTender *Tender
}

// MarshalJSON encodes the record with a canonical field order so journal
// lines stay diff-friendly.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("ts", r.Time.Format(tsFormat))
	w.Append("amount_due", r.Due)
	w.Append("buyer_given", r.Given)
	w.Append("change", r.Change)
	w.Append("delta", r.Delta)
	w.Append("total_after", r.TotalAfter)
	if r.GivenTender != nil {
		w.Append("given_breakdown", r.GivenTender)
	}
	if r.ChangeTender != nil {
		w.Append("change_breakdown", r.ChangeTender)
	}
	return w.MarshalJSON()
}

// recordCmd is a specialized struct to decode a journal line; amounts are
// read as bare decimals and bound to the store currency afterwards.
type recordCmd struct {
	ID           string          `json:"id"`
	TS           string          `json:"ts"`
	Due          decimal.Decimal `json:"amount_due"`
	Given        decimal.Decimal `json:"buyer_given"`
	Change       decimal.Decimal `json:"change"`
	Delta        decimal.Decimal `json:"delta"`
	TotalAfter   decimal.Decimal `json:"total_after"`
	GivenTender  *Tender         `json:"given_breakdown"`
	ChangeTender *Tender         `json:"change_breakdown"`
}

func (c recordCmd) record(currency string) (TransactionRecord, error) {
	ts, err := time.ParseInLocation(tsFormat, c.TS, time.Local)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("invalid record timestamp %q: %w", c.TS, err)
	}
	return TransactionRecord{
		ID:           c.ID,
		Time:         ts,
		Due:          M(c.Due, currency),
		Given:        M(c.Given, currency),
		Change:       M(c.Change, currency),
		Delta:        M(c.Delta, currency),
		TotalAfter:   M(c.TotalAfter, currency),
		GivenTender:  c.GivenTender,
		ChangeTender: c.ChangeTender,
	}, nil
}

// EncodeRecord marshals a single record to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeRecord(w io.Writer, r TransactionRecord) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction record: %w", err)
	}
	return nil
}

// EncodeJournal persists all records of a journal to w in JSONL format,
// in their append order.
func EncodeJournal(w io.Writer, j *Journal) error {
	for _, r := range j.records {
		if err := EncodeRecord(w, r); err != nil {
			return err
		}
	}
	return nil
}

// DecodeJournal reads a stream of JSONL transaction records. Order on
// disk is preserved exactly. A malformed line is a hard error: the
// journal is never silently repaired or truncated on read.
func DecodeJournal(r io.Reader, day date.Date, currency string) (*Journal, error) {
	journal := NewJournal(day)
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var cmd recordCmd
		if err := json.Unmarshal(lineBytes, &cmd); err != nil {
			return nil, fmt.Errorf("malformed journal line %d %q: %w", line, string(lineBytes), err)
		}
		rec, err := cmd.record(currency)
		if err != nil {
			return nil, fmt.Errorf("malformed journal line %d: %w", line, err)
		}
		journal.Append(rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading journal: %w", err)
	}
	return journal, nil
}
