package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestEquality asserts that two Dates denoting the same calendar day are
// comparable with ==, including when built from denormalized inputs.
func TestEquality(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)
	if d1 != d2 {
		t.Errorf("same day gives two different Date values")
	}
	// June 31 normalizes to July 1.
	if New(2025, time.June, 31) != New(2025, time.July, 1) {
		t.Errorf("denormalized date did not normalize")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2025-08-30", want: "2025-08-30"},
		{in: "2025-7-1", want: "2025-07-01"},
		{in: "not-a-date", wantErr: true},
		{in: "2025-13-01", wantErr: true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) expected an error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got.String(), tc.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2025-08-30")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-08-30"` {
		t.Errorf("marshal = %s, want %q", b, `"2025-08-30"`)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip changed the date: %s != %s", back, d)
	}
}

func TestAdd(t *testing.T) {
	d := MustParse("2025-12-31")
	if got := d.Add(1).String(); got != "2026-01-01" {
		t.Errorf("Add(1) = %q, want 2026-01-01", got)
	}
	if got := d.Add(-31).String(); got != "2025-11-30" {
		t.Errorf("Add(-31) = %q, want 2025-11-30", got)
	}
}
