package kassza

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kassza/date"
)

func newTestRegister(t *testing.T) (*Register, string) {
	t.Helper()
	dir := t.TempDir()
	reg := NewRegister(Config{DataDir: dir, Currency: "HUF"}, zap.NewNop())
	return reg, dir
}

// snapshotDir captures every file's content under dir, for before/after
// comparisons.
func snapshotDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		raw, err := os.ReadFile(dir + "/" + e.Name())
		require.NoError(t, err)
		snap[e.Name()] = string(raw)
	}
	return snap
}

// TestRegisterScenario walks the reference flow: start with 5000, settle
// 1200 paid with 1500, undo it, then undo again on the empty journal.
func TestRegisterScenario(t *testing.T) {
	reg, _ := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	_, err := reg.StartDay(day, reg.Money(5000), nil)
	require.NoError(t, err)

	rec, err := reg.SettleAndRecord(day, reg.Money(1200), reg.Money(1500))
	require.NoError(t, err)
	assert.True(t, rec.Change.Equal(reg.Money(300)))
	assert.True(t, rec.Delta.Equal(reg.Money(1200)))
	assert.True(t, rec.TotalAfter.Equal(reg.Money(6200)))

	st, err := reg.GetState(day)
	require.NoError(t, err)
	assert.True(t, st.Balance.Equal(reg.Money(6200)))

	journal, err := reg.Journal(day)
	require.NoError(t, err)
	assert.Equal(t, 1, journal.Len())

	undone, err := reg.UndoLast(day)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, undone.Removed.ID)
	assert.True(t, undone.Restored.Balance.Equal(reg.Money(5000)))

	journal, err = reg.Journal(day)
	require.NoError(t, err)
	assert.Equal(t, 0, journal.Len())

	_, err = reg.UndoLast(day)
	assert.True(t, errors.Is(err, ErrNoUndoable), "want ErrNoUndoable, got %v", err)

	st, err = reg.GetState(day)
	require.NoError(t, err)
	assert.True(t, st.Balance.Equal(reg.Money(5000)), "failed undo must leave state untouched")
}

// TestUndoInverseLaw: settle followed by undo restores journal and state
// to their pre-settle values.
func TestUndoInverseLaw(t *testing.T) {
	reg, dir := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	_, err := reg.StartDay(day, reg.Money(5000), nil)
	require.NoError(t, err)
	_, err = reg.SettleAndRecord(day, reg.Money(700), reg.Money(1000))
	require.NoError(t, err)
	_, err = reg.SettleAndRecord(day, reg.Money(1300), reg.Money(1300))
	require.NoError(t, err)

	before := snapshotDir(t, dir)

	_, err = reg.SettleAndRecord(day, reg.Money(450), reg.Money(500))
	require.NoError(t, err)
	_, err = reg.UndoLast(day)
	require.NoError(t, err)

	assert.Equal(t, before, snapshotDir(t, dir), "settle+undo must be a no-op on disk")
}

func TestUndoToEmptyRestoresOpening(t *testing.T) {
	reg, _ := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	_, err := reg.StartDay(day, reg.Money(4321), nil)
	require.NoError(t, err)
	_, err = reg.SettleAndRecord(day, reg.Money(999), reg.Money(1000))
	require.NoError(t, err)

	res, err := reg.UndoLast(day)
	require.NoError(t, err)
	assert.True(t, res.Restored.Balance.Equal(reg.Money(4321)),
		"undoing the only transaction must restore the opening balance, got %s", res.Restored.Balance)
	assert.True(t, res.Restored.Opening.Equal(reg.Money(4321)))
}

func TestSettleInsufficientMutatesNothing(t *testing.T) {
	reg, dir := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	_, err := reg.StartDay(day, reg.Money(5000), nil)
	require.NoError(t, err)
	before := snapshotDir(t, dir)

	_, err = reg.SettleAndRecord(day, reg.Money(1200), reg.Money(1000))
	assert.True(t, errors.Is(err, ErrInsufficientPayment), "want ErrInsufficientPayment, got %v", err)
	assert.Equal(t, before, snapshotDir(t, dir))
}

func TestSettleOnUnstartedDay(t *testing.T) {
	reg, _ := newTestRegister(t)

	_, err := reg.SettleAndRecord(date.MustParse("2025-08-30"), reg.Money(100), reg.Money(100))
	assert.True(t, errors.Is(err, ErrNoState), "want ErrNoState, got %v", err)
}

func TestDayIsolation(t *testing.T) {
	reg, _ := newTestRegister(t)
	d1 := date.MustParse("2025-08-30")
	d2 := date.MustParse("2025-08-31")

	_, err := reg.StartDay(d1, reg.Money(1000), nil)
	require.NoError(t, err)
	_, err = reg.StartDay(d2, reg.Money(2000), nil)
	require.NoError(t, err)
	_, err = reg.SettleAndRecord(d2, reg.Money(500), reg.Money(500))
	require.NoError(t, err)

	_, err = reg.SettleAndRecord(d1, reg.Money(100), reg.Money(100))
	require.NoError(t, err)
	_, err = reg.UndoLast(d1)
	require.NoError(t, err)

	st2, err := reg.GetState(d2)
	require.NoError(t, err)
	assert.True(t, st2.Balance.Equal(reg.Money(2500)), "operations on one day must not alter another day")
	j2, err := reg.Journal(d2)
	require.NoError(t, err)
	assert.Equal(t, 1, j2.Len())
}

func TestAbortLeavesFilesUntouched(t *testing.T) {
	reg, dir := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	drawer := NewDrawer()
	drawer.Add(Tender{Notes: map[int]int{1000: 5}, Coins: 500})
	_, err := reg.StartDay(day, reg.Money(5500), drawer)
	require.NoError(t, err)
	before := snapshotDir(t, dir)

	pending, err := reg.Begin(day, reg.Money(700), Tender{Notes: map[int]int{1000: 1}})
	require.NoError(t, err)
	assert.True(t, pending.Record().Change.Equal(reg.Money(300)))

	pending.Abort()
	assert.Equal(t, before, snapshotDir(t, dir), "abort must leave all persisted files exactly as they were")

	require.Error(t, pending.Commit(), "an aborted transaction must not be committable")
}

func TestDrawerSettleAndUndo(t *testing.T) {
	reg, _ := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	drawer := NewDrawer()
	drawer.Add(Tender{Notes: map[int]int{2000: 1, 1000: 2, 500: 2}, Coins: 500})
	_, err := reg.StartDay(day, reg.Money(drawer.Total()), drawer)
	require.NoError(t, err)

	// Buyer owes 700, pays with a 1000 note; the 300 change comes from coins.
	pending, err := reg.Begin(day, reg.Money(700), Tender{Notes: map[int]int{1000: 1}})
	require.NoError(t, err)
	require.NoError(t, pending.Commit())

	st, err := reg.GetState(day)
	require.NoError(t, err)
	require.NotNil(t, st.Drawer)
	assert.Equal(t, int64(6200), st.Drawer.Total())
	assert.True(t, st.Balance.Equal(reg.Money(6200)))
	assert.Equal(t, 3, st.Drawer.Notes[1000], "tendered note must be in the drawer")

	res, err := reg.UndoLast(day)
	require.NoError(t, err)
	require.NotNil(t, res.Restored.Drawer)
	assert.Equal(t, int64(5500), res.Restored.Drawer.Total())
	assert.Equal(t, 2, res.Restored.Drawer.Notes[1000])
	assert.Equal(t, int64(500), res.Restored.Drawer.Coins)
}

func TestDrawerCannotMakeChangeRejects(t *testing.T) {
	reg, dir := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	// Only a 20000 note in the drawer: no way to give 300 back.
	drawer := NewDrawer()
	drawer.Add(Tender{Notes: map[int]int{20000: 1}})
	_, err := reg.StartDay(day, reg.Money(20000), drawer)
	require.NoError(t, err)
	before := snapshotDir(t, dir)

	_, err = reg.Begin(day, reg.Money(700), Tender{Notes: map[int]int{1000: 1}})
	assert.True(t, errors.Is(err, ErrCannotMakeChange), "want ErrCannotMakeChange, got %v", err)
	assert.Equal(t, before, snapshotDir(t, dir))
}

func TestResetDay(t *testing.T) {
	reg, _ := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	_, err := reg.StartDay(day, reg.Money(5000), nil)
	require.NoError(t, err)

	st, err := reg.ResetDay(day)
	require.NoError(t, err)
	assert.True(t, st.Balance.IsZero())
	assert.True(t, st.Opening.IsZero())
	require.NotNil(t, st.Drawer)
	assert.Equal(t, int64(0), st.Drawer.Total())
}

func TestCheckDayFlagsInterruptedUndo(t *testing.T) {
	reg, _ := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	_, err := reg.StartDay(day, reg.Money(5000), nil)
	require.NoError(t, err)
	_, err = reg.SettleAndRecord(day, reg.Money(1200), reg.Money(1500))
	require.NoError(t, err)
	require.NoError(t, reg.CheckDay(day))

	// Simulate an undo interrupted between the state save and the
	// journal finalize: state restored, journal still holding the entry.
	require.NoError(t, reg.states.Save(DailyState{Day: day, Opening: reg.Money(5000), Balance: reg.Money(5000)}))

	err = reg.CheckDay(day)
	assert.True(t, errors.Is(err, ErrInconsistent), "want ErrInconsistent, got %v", err)
}

func TestCheckDayUntouchedDay(t *testing.T) {
	reg, _ := newTestRegister(t)
	assert.NoError(t, reg.CheckDay(date.MustParse("2025-08-30")), "a day with no files at all is consistent")
}

func TestCheckDayJournalWithoutState(t *testing.T) {
	reg, dir := newTestRegister(t)
	day := date.MustParse("2025-08-30")

	store := NewJournalStore(dir, "HUF", zap.NewNop())
	require.NoError(t, store.Append(day, testRecord(t, 100, 100, 0)))

	err := reg.CheckDay(day)
	assert.True(t, errors.Is(err, ErrInconsistent), "want ErrInconsistent, got %v", err)
}
