package kassza

import (
	"fmt"
	"sort"
)

// NoteDenominations are the banknote values tracked individually by
// count, largest first. Anything smaller is pooled into the coin amount.
var NoteDenominations = []int{20000, 10000, 5000, 2000, 1000, 500, 200}

// CoinUnit is the smallest coin in circulation; every coin amount is a
// multiple of it.
const CoinUnit = 5

func isNoteDenomination(denom int) bool {
	for _, d := range NoteDenominations {
		if d == denom {
			return true
		}
	}
	return false
}

// Drawer is the physical content of the till: counted banknotes and a
// pooled small-coin amount.
type Drawer struct {
	Notes map[int]int `json:"notes"`
	Coins int64       `json:"coins"`
}

// NewDrawer returns an empty drawer with every denomination at zero.
func NewDrawer() *Drawer {
	notes := make(map[int]int, len(NoteDenominations))
	for _, d := range NoteDenominations {
		notes[d] = 0
	}
	return &Drawer{Notes: notes}
}

// Total returns the cash value held in the drawer, in major units.
func (d *Drawer) Total() int64 {
	var sum int64
	for denom, count := range d.Notes {
		sum += int64(denom) * int64(count)
	}
	return sum + d.Coins
}

// Clone returns an independent copy of the drawer.
func (d *Drawer) Clone() *Drawer {
	c := &Drawer{Notes: make(map[int]int, len(d.Notes)), Coins: d.Coins}
	for denom, count := range d.Notes {
		c.Notes[denom] = count
	}
	return c
}

// Add puts the tender into the drawer.
func (d *Drawer) Add(t Tender) {
	if d.Notes == nil {
		d.Notes = make(map[int]int)
	}
	for denom, count := range t.Notes {
		d.Notes[denom] += count
	}
	d.Coins += t.Coins
}

// Remove takes the tender out of the drawer. It fails without mutating
// anything when the drawer does not hold enough of any denomination.
func (d *Drawer) Remove(t Tender) error {
	for denom, count := range t.Notes {
		if d.Notes[denom] < count {
			return fmt.Errorf("not enough %d notes in drawer: have %d, need %d", denom, d.Notes[denom], count)
		}
	}
	if d.Coins < t.Coins {
		return fmt.Errorf("not enough coins in drawer: have %d, need %d", d.Coins, t.Coins)
	}
	for denom, count := range t.Notes {
		d.Notes[denom] -= count
	}
	d.Coins -= t.Coins
	return nil
}

// MakeChange computes a tender worth exactly amount that the drawer can
// pay out of its current stock. Notes are preferred; any remainder comes
// from the coin pool when it is a multiple of CoinUnit and covered.
// Returns ErrCannotMakeChange when no exact combination exists.
// The drawer itself is not modified.
func (d *Drawer) MakeChange(amount int64) (Tender, error) {
	if amount < 0 {
		return Tender{}, fmt.Errorf("change amount cannot be negative: %d", amount)
	}
	if amount == 0 {
		return Tender{}, nil
	}

	// First try to pay entirely from notes, stock-bounded.
	if notes, ok := d.changeFromNotes(amount); ok {
		return Tender{Notes: notes}, nil
	}

	// Greedy on notes, remainder from coins.
	remaining := amount
	used := make(map[int]int, len(NoteDenominations))
	for _, denom := range NoteDenominations {
		use := min(int(remaining/int64(denom)), d.Notes[denom])
		if use > 0 {
			used[denom] = use
			remaining -= int64(denom) * int64(use)
		}
	}
	if remaining%CoinUnit == 0 && d.Coins >= remaining {
		return Tender{Notes: nonZero(used), Coins: remaining}, nil
	}

	// Relax the note usage one by one until the remainder becomes
	// payable from coins.
	for _, denom := range NoteDenominations {
		for used[denom] > 0 {
			used[denom]--
			remaining += int64(denom)
			if remaining%CoinUnit == 0 && d.Coins >= remaining {
				return Tender{Notes: nonZero(used), Coins: remaining}, nil
			}
		}
	}

	return Tender{}, fmt.Errorf("%w: %d", ErrCannotMakeChange, amount)
}

// changeFromNotes searches for an exact stock-bounded combination of
// notes worth amount. Greedy with backtracking over the denominations.
func (d *Drawer) changeFromNotes(amount int64) (map[int]int, bool) {
	denoms := make([]int, len(NoteDenominations))
	copy(denoms, NoteDenominations)
	sort.Sort(sort.Reverse(sort.IntSlice(denoms)))

	var search func(idx int, remaining int64, cur map[int]int) (map[int]int, bool)
	search = func(idx int, remaining int64, cur map[int]int) (map[int]int, bool) {
		if remaining == 0 {
			return nonZero(cur), true
		}
		if idx >= len(denoms) {
			return nil, false
		}
		denom := denoms[idx]
		maxUse := min(int(remaining/int64(denom)), d.Notes[denom])
		for k := maxUse; k >= 0; k-- {
			if k > 0 {
				cur[denom] = k
			} else {
				delete(cur, denom)
			}
			if res, ok := search(idx+1, remaining-int64(denom)*int64(k), cur); ok {
				return res, true
			}
		}
		delete(cur, denom)
		return nil, false
	}

	return search(0, amount, make(map[int]int))
}

func nonZero(counts map[int]int) map[int]int {
	out := make(map[int]int, len(counts))
	for denom, count := range counts {
		if count > 0 {
			out[denom] = count
		}
	}
	return out
}
