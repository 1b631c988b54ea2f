package kassza

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kassza/date"
)

// Register is the collaborator surface of the till: it composes the
// state store, the journal store and the settle computation, and it
// coordinates undo so journal and state stay consistent.
type Register struct {
	states   *StateStore
	journals *JournalStore
	cur      string
	logger   *zap.Logger
}

// NewRegister creates a Register persisting under cfg.DataDir.
func NewRegister(cfg Config, logger *zap.Logger) *Register {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Register{
		states:   NewStateStore(cfg.DataDir, cfg.Currency, logger),
		journals: NewJournalStore(cfg.DataDir, cfg.Currency, logger),
		cur:      cfg.Currency,
		logger:   logger,
	}
}

// Money binds an integer amount to the register's currency.
func (r *Register) Money(v int64) Money { return M(v, r.cur) }

// GetState returns the persisted state for day, or ErrNoState.
func (r *Register) GetState(day date.Date) (DailyState, error) {
	return r.states.Load(day)
}

// Journal returns the day's journal in on-disk order.
func (r *Register) Journal(day date.Date) (*Journal, error) {
	return r.journals.ReadAll(day)
}

// StartDay records the opening balance for a day. No journal entry is
// produced; the opening value is persisted independently of the journal
// so undo can fall back to it after the last transaction is removed.
// A drawer breakdown is optional; when given, its total must equal the
// opening balance.
func (r *Register) StartDay(day date.Date, opening Money, drawer *Drawer) (DailyState, error) {
	if opening.IsNegative() {
		return DailyState{}, fmt.Errorf("opening balance cannot be negative: %s", opening)
	}
	if drawer != nil && !M(drawer.Total(), r.cur).Equal(opening) {
		return DailyState{}, fmt.Errorf("drawer total %d does not match opening balance %s", drawer.Total(), opening)
	}

	journal, err := r.journals.ReadAll(day)
	if err != nil {
		return DailyState{}, err
	}
	if journal.Len() > 0 {
		r.logger.Warn("starting a day that already has journal entries; its balance will no longer match the journal",
			zap.String("day", day.String()),
			zap.Int("entries", journal.Len()))
	}

	st := DailyState{Day: day, Opening: opening, Balance: opening, Drawer: drawer}
	if err := r.states.Save(st); err != nil {
		return DailyState{}, err
	}
	r.logger.Info("day started",
		zap.String("day", day.String()),
		zap.String("opening", opening.String()))
	return st, nil
}

// ResetDay starts the day over with a zero balance and an empty drawer.
func (r *Register) ResetDay(day date.Date) (DailyState, error) {
	return r.StartDay(day, r.Money(0), NewDrawer())
}

// Pending is a settled but not yet persisted transaction. Commit appends
// it to the journal and saves the new state; Abort discards it, leaving
// every file exactly as it was.
type Pending struct {
	reg    *Register
	record TransactionRecord
	after  DailyState
	done   bool
}

// Record returns the computed transaction record.
func (p *Pending) Record() TransactionRecord { return p.record }

// State returns the state the till will have once committed.
func (p *Pending) State() DailyState { return p.after }

// Abort discards the pending transaction. Nothing was persisted, so
// there is nothing to roll back on disk.
func (p *Pending) Abort() {
	if p.done {
		return
	}
	p.done = true
	p.reg.logger.Info("transaction aborted",
		zap.String("day", p.after.Day.String()),
		zap.String("id", p.record.ID))
}

// Commit persists the pending transaction: journal append first, then
// state save. Both writes land on stable storage before Commit reports
// success.
func (p *Pending) Commit() error {
	if p.done {
		return fmt.Errorf("transaction %s is already finalized", p.record.ID)
	}
	p.done = true

	if err := p.reg.journals.Append(p.after.Day, p.record); err != nil {
		return err
	}
	if err := p.reg.states.Save(p.after); err != nil {
		// The journal entry is already durable. Leave both sides as they
		// are and surface the mismatch; `check` will flag this day.
		p.reg.logger.Error("state save failed after journal append, day is inconsistent",
			zap.String("day", p.after.Day.String()),
			zap.String("id", p.record.ID),
			zap.Error(err))
		return fmt.Errorf("state save failed after journal append for %s: %w", p.after.Day, err)
	}

	p.reg.logger.Info("transaction recorded",
		zap.String("day", p.after.Day.String()),
		zap.String("id", p.record.ID),
		zap.String("due", p.record.Due.String()),
		zap.String("change", p.record.Change.String()),
		zap.String("balance", p.after.Balance.String()))
	return nil
}

// begin validates and computes a transaction without persisting anything.
func (r *Register) begin(day date.Date, due, given Money, tender *Tender) (*Pending, error) {
	st, err := r.states.Load(day)
	if err != nil {
		return nil, err
	}

	record, err := Settle(time.Now(), due, given, st.Balance)
	if err != nil {
		return nil, err
	}

	after := DailyState{Day: day, Opening: st.Opening, Balance: record.TotalAfter, Drawer: st.Drawer}

	if st.Drawer != nil {
		if tender == nil {
			return nil, fmt.Errorf("day %s tracks a drawer, the buyer's cash must be given as a denomination breakdown", day)
		}
		drawer := st.Drawer.Clone()
		drawer.Add(*tender)
		plan, err := drawer.MakeChange(record.Change.IntPart())
		if err != nil {
			return nil, err
		}
		if err := drawer.Remove(plan); err != nil {
			return nil, fmt.Errorf("could not take change out of drawer: %w", err)
		}
		if !plan.IsZero() {
			record.ChangeTender = &plan
		}
		after.Drawer = drawer
	}
	if tender != nil {
		record.GivenTender = tender
		if st.Drawer == nil && !record.Change.IsZero() {
			// No drawer stock to plan against; record the change as a
			// plain coin amount.
			record.ChangeTender = &Tender{Coins: record.Change.IntPart()}
		}
	}

	return &Pending{reg: r, record: record, after: after}, nil
}

// Begin settles a purchase paid with a concrete tender and stages it for
// Commit or Abort. The given amount is the tender's total.
func (r *Register) Begin(day date.Date, due Money, tender Tender) (*Pending, error) {
	return r.begin(day, due, r.Money(tender.Total()), &tender)
}

// SettleAndRecord settles a purchase given as plain amounts and persists
// it immediately. It fails without mutating anything when the payment is
// insufficient or the day's state is missing.
func (r *Register) SettleAndRecord(day date.Date, due, given Money) (TransactionRecord, error) {
	pending, err := r.begin(day, due, given, nil)
	if err != nil {
		return TransactionRecord{}, err
	}
	if err := pending.Commit(); err != nil {
		return TransactionRecord{}, err
	}
	return pending.record, nil
}

// UndoResult is the outcome of a successful undo.
type UndoResult struct {
	Removed  TransactionRecord
	Restored DailyState
}

// UndoLast removes the last journal entry for day and restores the
// persisted state to the value it had before that transaction: the
// total_after of the new last entry, or the day's opening balance when
// the journal becomes empty.
//
// The two writes cannot be one atomic operation on a plain filesystem,
// so the order is fixed: the shortened journal is staged invisibly, the
// restored state is saved, and only then is the journal finalized. A
// crash in between leaves the undone entry in the journal, which CheckDay
// reports as an inconsistency instead of guessing at a repair.
func (r *Register) UndoLast(day date.Date) (UndoResult, error) {
	journal, err := r.journals.ReadAll(day)
	if err != nil {
		return UndoResult{}, err
	}
	removed, ok := journal.RemoveLast()
	if !ok {
		return UndoResult{}, fmt.Errorf("undo for %s: %w", day, ErrNoUndoable)
	}

	st, err := r.states.Load(day)
	if errors.Is(err, ErrNoState) {
		return UndoResult{}, fmt.Errorf("day %s has journal entries but no state file: %w", day, ErrInconsistent)
	}
	if err != nil {
		return UndoResult{}, err
	}

	balance := st.Opening
	if last, stillSome := journal.Last(); stillSome {
		balance = last.TotalAfter
	}

	drawer := st.Drawer
	if drawer != nil {
		drawer, err = undoDrawer(st.Drawer, removed)
		if err != nil {
			return UndoResult{}, err
		}
		if !M(drawer.Total(), r.cur).Equal(balance) {
			return UndoResult{}, fmt.Errorf("restored drawer total %d does not match restored balance %s: %w", drawer.Total(), balance, ErrInconsistent)
		}
	}

	restored := DailyState{Day: day, Opening: st.Opening, Balance: balance, Drawer: drawer}

	staged, err := r.journals.stageRewrite(day, journal)
	if err != nil {
		return UndoResult{}, err
	}
	if err := r.states.Save(restored); err != nil {
		staged.discard()
		return UndoResult{}, err
	}
	if err := staged.commit(); err != nil {
		r.logger.Error("journal finalize failed after state restore, day is inconsistent",
			zap.String("day", day.String()),
			zap.Error(err))
		return UndoResult{}, fmt.Errorf("journal finalize failed after state restore for %s: %w", day, err)
	}

	r.logger.Info("last transaction undone",
		zap.String("day", day.String()),
		zap.String("id", removed.ID),
		zap.String("balance", restored.Balance.String()))
	return UndoResult{Removed: removed, Restored: restored}, nil
}

// undoDrawer inverts the removed transaction's effect on the drawer:
// the buyer's cash comes back out, the change goes back in.
func undoDrawer(drawer *Drawer, removed TransactionRecord) (*Drawer, error) {
	if removed.GivenTender == nil {
		return nil, fmt.Errorf("record %s carries no denomination breakdown to undo against a tracked drawer: %w", removed.ID, ErrInconsistent)
	}
	clone := drawer.Clone()
	if removed.ChangeTender != nil {
		clone.Add(*removed.ChangeTender)
	}
	if err := clone.Remove(*removed.GivenTender); err != nil {
		return nil, fmt.Errorf("drawer does not hold the cash recorded by %s: %v: %w", removed.ID, err, ErrInconsistent)
	}
	return clone, nil
}

// CheckDay verifies that the day's journal and state agree. It returns
// ErrInconsistent when they do not, typically the signature of an
// interrupted undo; nothing is repaired in either direction, since
// either value could be the operator's intended truth.
func (r *Register) CheckDay(day date.Date) error {
	journal, err := r.journals.ReadAll(day)
	if err != nil {
		return err
	}

	st, err := r.states.Load(day)
	if errors.Is(err, ErrNoState) {
		if journal.Len() == 0 {
			return nil // nothing recorded for this day at all
		}
		return fmt.Errorf("day %s has %d journal entries but no state file: %w", day, journal.Len(), ErrInconsistent)
	}
	if err != nil {
		return err
	}

	if last, some := journal.Last(); some {
		if !last.TotalAfter.Equal(st.Balance) {
			return fmt.Errorf("day %s: last journal entry ends at %s but state balance is %s: %w",
				day, last.TotalAfter, st.Balance, ErrInconsistent)
		}
	} else if !st.Balance.Equal(st.Opening) {
		return fmt.Errorf("day %s: empty journal but balance %s differs from opening %s: %w",
			day, st.Balance, st.Opening, ErrInconsistent)
	}
	return nil
}
