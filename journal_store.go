package kassza

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"kassza/date"
)

// JournalStore keeps one append-only JSONL journal file per day,
// named <dir>/YYYY-MM-DD_txlog.jsonl.
type JournalStore struct {
	dir    string
	cur    string
	logger *zap.Logger
}

// NewJournalStore creates a JournalStore rooted at dir.
func NewJournalStore(dir, currency string, logger *zap.Logger) *JournalStore {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &JournalStore{dir: dir, cur: currency, logger: logger}
}

func (s *JournalStore) path(day date.Date) string {
	return filepath.Join(s.dir, day.String()+"_txlog.jsonl")
}

// Append adds record as the new last entry of the day's journal. The
// record must already be validated; the journal only ever contains
// committed transactions. The write is flushed to stable storage before
// Append reports success.
func (s *JournalStore) Append(day date.Date, r TransactionRecord) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("could not create data directory %q: %w", s.dir, err)
	}

	filename := s.path(day)
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open journal file %q: %w", filename, err)
	}
	defer f.Close()

	if err := EncodeRecord(f, r); err != nil {
		return fmt.Errorf("could not append to journal %q: %w", filename, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("could not sync journal %q: %w", filename, err)
	}

	s.logger.Debug("journal append",
		zap.String("day", day.String()),
		zap.String("id", r.ID),
		zap.String("total_after", r.TotalAfter.String()))
	return nil
}

// ReadAll returns the day's journal in on-disk order. A missing file is
// not an error: it yields an empty journal.
func (s *JournalStore) ReadAll(day date.Date) (*Journal, error) {
	filename := s.path(day)
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return NewJournal(day), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open journal file %q: %w", filename, err)
	}
	defer f.Close()

	journal, err := DecodeJournal(f, day, s.cur)
	if err != nil {
		return nil, fmt.Errorf("could not decode journal file %q: %w", filename, err)
	}
	return journal, nil
}

// RemoveLast deletes exactly the final record of the day's journal and
// returns it. All preceding lines are untouched and the file stays
// well-formed, even when it becomes empty. Returns ErrEmptyJournal when
// there is nothing to remove.
func (s *JournalStore) RemoveLast(day date.Date) (TransactionRecord, error) {
	journal, err := s.ReadAll(day)
	if err != nil {
		return TransactionRecord{}, err
	}
	removed, ok := journal.RemoveLast()
	if !ok {
		return TransactionRecord{}, fmt.Errorf("journal for %s: %w", day, ErrEmptyJournal)
	}

	staged, err := s.stageRewrite(day, journal)
	if err != nil {
		return TransactionRecord{}, err
	}
	if err := staged.commit(); err != nil {
		return TransactionRecord{}, err
	}
	return removed, nil
}

// journalRewrite is a shortened journal written to a temp file but not
// yet visible. commit renames it into place atomically; discard drops it.
type journalRewrite struct {
	tmp, final string
}

// stageRewrite writes the journal to a temporary file next to the final
// one and returns a handle to commit or discard it. This lets the undo
// coordinator finalize the journal only after the state write succeeded.
func (s *JournalStore) stageRewrite(day date.Date, journal *Journal) (*journalRewrite, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create data directory %q: %w", s.dir, err)
	}

	final := s.path(day)
	f, err := os.CreateTemp(s.dir, day.String()+"_txlog-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("could not create temp journal for %q: %w", final, err)
	}

	if err := EncodeJournal(f, journal); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("could not write temp journal for %q: %w", final, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("could not sync temp journal for %q: %w", final, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("could not close temp journal for %q: %w", final, err)
	}

	return &journalRewrite{tmp: f.Name(), final: final}, nil
}

func (w *journalRewrite) commit() error {
	if err := os.Rename(w.tmp, w.final); err != nil {
		return fmt.Errorf("could not finalize journal %q: %w", w.final, err)
	}
	return nil
}

func (w *journalRewrite) discard() {
	os.Remove(w.tmp)
}
