package kassza

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Tender is a concrete pile of cash: counted banknotes per denomination
// plus a pooled amount of small coins. It describes what a buyer hands
// over, or what the till hands back as change.
type Tender struct {
	Notes map[int]int `json:"notes,omitempty"`
	Coins int64       `json:"coins,omitempty"`
}

// Total returns the value of the tender in major units.
func (t Tender) Total() int64 {
	var sum int64
	for denom, count := range t.Notes {
		sum += int64(denom) * int64(count)
	}
	return sum + t.Coins
}

// IsZero reports whether the tender holds no cash at all.
func (t Tender) IsZero() bool { return len(t.Notes) == 0 && t.Coins == 0 }

// note adds count banknotes of the given denomination.
func (t *Tender) note(denom, count int) {
	if t.Notes == nil {
		t.Notes = make(map[int]int)
	}
	t.Notes[denom] += count
}

var (
	bareAmountRe = regexp.MustCompile(`^\d+$`)
	coinsPartRe  = regexp.MustCompile(`^(apró|apro|coins)\s*[:x]\s*(\d+)$`)
	notesPartRe  = regexp.MustCompile(`^(\d+)\s*[x:]\s*(\d+)$`)
)

// ParseTender parses a human-entered cash description. Accepted forms:
//
//	"2000"                 a single 2000 note (or a coin amount if 2000
//	                       were not a known denomination)
//	"2000x1, 1000x1"       counted notes
//	"2000:1;apro:150"      counted notes plus a coin amount
//	"coins:150"            coin amount alone
//
// Denominations below the smallest banknote fold into the coin pool.
func ParseTender(text string) (Tender, error) {
	var t Tender
	text = strings.TrimSpace(text)
	if text == "" {
		return t, nil
	}

	// A bare number is a single note of that denomination, or a coin
	// amount when it is not a known note.
	if bareAmountRe.MatchString(text) {
		val, err := strconv.Atoi(text)
		if err != nil {
			return t, fmt.Errorf("invalid amount %q: %w", text, err)
		}
		if isNoteDenomination(val) {
			t.note(val, 1)
		} else {
			t.Coins = int64(val)
		}
		return t, nil
	}

	normalized := strings.NewReplacer(";", ",", "×", "x", "X", "x").Replace(strings.ToLower(text))
	for _, part := range strings.Split(normalized, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if m := coinsPartRe.FindStringSubmatch(part); m != nil {
			amount, err := strconv.ParseInt(m[2], 10, 64)
			if err != nil {
				return Tender{}, fmt.Errorf("invalid coin amount in %q: %w", part, err)
			}
			t.Coins += amount
			continue
		}

		m := notesPartRe.FindStringSubmatch(part)
		if m == nil {
			return Tender{}, fmt.Errorf("cannot parse tender element %q, want forms like 2000x1, 1000x1, coins:150", part)
		}
		denom, err := strconv.Atoi(m[1])
		if err != nil {
			return Tender{}, fmt.Errorf("invalid denomination in %q: %w", part, err)
		}
		count, err := strconv.Atoi(m[2])
		if err != nil {
			return Tender{}, fmt.Errorf("invalid count in %q: %w", part, err)
		}

		if isNoteDenomination(denom) {
			t.note(denom, count)
		} else {
			// Small denominations are pooled as coins.
			t.Coins += int64(denom) * int64(count)
		}
	}

	return t, nil
}
