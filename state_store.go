package kassza

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"kassza/date"
)

// DailyState is the authoritative till state for one day: the balance
// after the last journal entry, and the opening balance recorded when
// the day was started. The opening balance is stored independently of
// the journal so it stays recoverable after every transaction has been
// undone.
type DailyState struct {
	Day     date.Date
	Opening Money
	Balance Money

	// Drawer is the optional denomination breakdown of the balance.
	// When present its total always equals Balance.
	Drawer *Drawer
}

// StateStore keeps one JSON state file per day,
// named <dir>/YYYY-MM-DD_drawer.json. Saves are atomic: a crash leaves
// either the old file or the new one, never a partial write.
type StateStore struct {
	dir    string
	cur    string
	logger *zap.Logger
}

// NewStateStore creates a StateStore rooted at dir.
func NewStateStore(dir, currency string, logger *zap.Logger) *StateStore {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &StateStore{dir: dir, cur: currency, logger: logger}
}

func (s *StateStore) path(day date.Date) string {
	return filepath.Join(s.dir, day.String()+"_drawer.json")
}

// stateCmd is a specialized struct to decode a state file; amounts are
// read as bare decimals and bound to the store currency afterwards.
type stateCmd struct {
	Day     date.Date       `json:"day"`
	Opening decimal.Decimal `json:"opening"`
	Balance decimal.Decimal `json:"balance"`
	Drawer  *Drawer         `json:"drawer,omitempty"`
}

// Load reads the persisted state for day. ErrNoState signals that no
// balance has been recorded yet; callers are expected to branch on it.
func (s *StateStore) Load(day date.Date) (DailyState, error) {
	filename := s.path(day)
	raw, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return DailyState{}, fmt.Errorf("state for %s: %w", day, ErrNoState)
	}
	if err != nil {
		return DailyState{}, fmt.Errorf("could not read state file %q: %w", filename, err)
	}

	var cmd stateCmd
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return DailyState{}, fmt.Errorf("malformed state file %q: %w", filename, err)
	}

	st := DailyState{
		Day:     day,
		Opening: M(cmd.Opening, s.cur),
		Balance: M(cmd.Balance, s.cur),
		Drawer:  cmd.Drawer,
	}
	if !cmd.Day.IsZero() && cmd.Day != day {
		return DailyState{}, fmt.Errorf("state file %q is keyed for %s, not %s", filename, cmd.Day, day)
	}
	if st.Drawer != nil && !M(st.Drawer.Total(), s.cur).Equal(st.Balance) {
		// A drawer that does not add up to the balance is corruption,
		// not something to repair by guessing.
		return DailyState{}, fmt.Errorf("state file %q: drawer total %d does not match balance %s", filename, st.Drawer.Total(), st.Balance)
	}
	return st, nil
}

// Save overwrites the persisted state for st.Day. The new content is
// fully on stable storage before Save returns success.
func (s *StateStore) Save(st DailyState) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("could not create data directory %q: %w", s.dir, err)
	}

	var w jsonObjectWriter
	w.Append("day", st.Day)
	w.Append("opening", st.Opening)
	w.Append("balance", st.Balance)
	if st.Drawer != nil {
		w.Append("drawer", st.Drawer)
	}
	data, err := w.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode state for %s: %w", st.Day, err)
	}

	final := s.path(st.Day)
	f, err := os.CreateTemp(s.dir, st.Day.String()+"_drawer-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp state file for %q: %w", final, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("could not write temp state file for %q: %w", final, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("could not sync temp state file for %q: %w", final, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("could not close temp state file for %q: %w", final, err)
	}
	if err := os.Rename(f.Name(), final); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("could not finalize state file %q: %w", final, err)
	}

	s.logger.Debug("state saved",
		zap.String("day", st.Day.String()),
		zap.String("balance", st.Balance.String()))
	return nil
}
