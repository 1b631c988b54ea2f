package kassza

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"kassza/date"
)

func TestJournalCodecRoundTrip(t *testing.T) {
	day := date.MustParse("2025-08-30")
	journal := NewJournal(day)

	base := time.Date(2025, 8, 30, 9, 0, 0, 0, time.Local)
	balance := M(5000, "HUF")
	for i, due := range []int64{1200, 800, 2500} {
		rec, err := Settle(base.Add(time.Duration(i)*time.Minute), M(due, "HUF"), M(due+500, "HUF"), balance)
		if err != nil {
			t.Fatalf("Settle() failed: %v", err)
		}
		balance = rec.TotalAfter
		journal.Append(rec)
	}

	var buf bytes.Buffer
	if err := EncodeJournal(&buf, journal); err != nil {
		t.Fatalf("EncodeJournal() failed: %v", err)
	}

	decoded, err := DecodeJournal(&buf, day, "HUF")
	if err != nil {
		t.Fatalf("DecodeJournal() failed: %v", err)
	}
	if decoded.Len() != journal.Len() {
		t.Fatalf("decoded %d records, want %d", decoded.Len(), journal.Len())
	}
	want := journal.Records()
	for i, got := range decoded.Records() {
		if got.ID != want[i].ID {
			t.Errorf("record %d id = %q, want %q", i, got.ID, want[i].ID)
		}
		if !got.Time.Equal(want[i].Time) {
			t.Errorf("record %d ts = %v, want %v", i, got.Time, want[i].Time)
		}
		if !got.Due.Equal(want[i].Due) || !got.Given.Equal(want[i].Given) ||
			!got.Change.Equal(want[i].Change) || !got.Delta.Equal(want[i].Delta) ||
			!got.TotalAfter.Equal(want[i].TotalAfter) {
			t.Errorf("record %d amounts differ: got %+v, want %+v", i, got, want[i])
		}
	}
}

func TestEncodeRecordFieldOrder(t *testing.T) {
	rec := TransactionRecord{
		ID:         "11111111-2222-3333-4444-555555555555",
		Time:       time.Date(2025, 8, 30, 12, 34, 56, 0, time.Local),
		Due:        M(1200, "HUF"),
		Given:      M(1500, "HUF"),
		Change:     M(300, "HUF"),
		Delta:      M(1200, "HUF"),
		TotalAfter: M(6200, "HUF"),
	}

	var buf bytes.Buffer
	if err := EncodeRecord(&buf, rec); err != nil {
		t.Fatalf("EncodeRecord() failed: %v", err)
	}

	want := `{"id":"11111111-2222-3333-4444-555555555555","ts":"2025-08-30T12:34:56","amount_due":1200,"buyer_given":1500,"change":300,"delta":1200,"total_after":6200}` + "\n"
	if buf.String() != want {
		t.Errorf("encoded line:\n got: %s\nwant: %s", buf.String(), want)
	}
}

func TestDecodeJournalBreakdowns(t *testing.T) {
	line := `{"id":"x","ts":"2025-08-30T10:00:00","amount_due":1200,"buyer_given":1500,"change":300,"delta":1200,"total_after":6200,"given_breakdown":{"notes":{"1000":1,"500":1}},"change_breakdown":{"notes":{"200":1},"coins":100}}`
	journal, err := DecodeJournal(strings.NewReader(line+"\n"), date.MustParse("2025-08-30"), "HUF")
	if err != nil {
		t.Fatalf("DecodeJournal() failed: %v", err)
	}
	rec, ok := journal.Last()
	if !ok {
		t.Fatal("no record decoded")
	}
	if rec.GivenTender == nil || rec.GivenTender.Total() != 1500 {
		t.Errorf("given breakdown = %+v, want total 1500", rec.GivenTender)
	}
	if rec.ChangeTender == nil || rec.ChangeTender.Total() != 300 {
		t.Errorf("change breakdown = %+v, want total 300", rec.ChangeTender)
	}
}

func TestDecodeJournalRejectsMalformedLine(t *testing.T) {
	stream := `{"id":"a","ts":"2025-08-30T10:00:00","amount_due":100,"buyer_given":100,"change":0,"delta":100,"total_after":100}
this is not json
`
	_, err := DecodeJournal(strings.NewReader(stream), date.MustParse("2025-08-30"), "HUF")
	if err == nil {
		t.Fatal("DecodeJournal() accepted a malformed line")
	}
}

func TestDecodeJournalSkipsEmptyLines(t *testing.T) {
	stream := "\n" + `{"id":"a","ts":"2025-08-30T10:00:00","amount_due":100,"buyer_given":100,"change":0,"delta":100,"total_after":100}` + "\n\n"
	journal, err := DecodeJournal(strings.NewReader(stream), date.MustParse("2025-08-30"), "HUF")
	if err != nil {
		t.Fatalf("DecodeJournal() failed: %v", err)
	}
	if journal.Len() != 1 {
		t.Errorf("decoded %d records, want 1", journal.Len())
	}
}
