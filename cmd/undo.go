package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"kassza"
)

type undoCmd struct {
	day string
}

func (*undoCmd) Name() string     { return "undo" }
func (*undoCmd) Synopsis() string { return "remove the most recent transaction of a day" }
func (*undoCmd) Usage() string {
	return `kz undo [-d <date>]

  Removes the last journal entry of the day and restores the balance to
  its value before that transaction. Only the most recent entry can be
  undone; repeat to unwind several.
`
}

func (p *undoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.day, "d", "", "Day to undo on (YYYY-MM-DD). Defaults to today.")
}

func (p *undoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(p.day)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	reg, _, err := openRegister()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if st := guardConsistency(reg, day); st != subcommands.ExitSuccess {
		return st
	}

	res, err := reg.UndoLast(day)
	if errors.Is(err, kassza.ErrNoUndoable) {
		fmt.Printf("No transaction to undo on %s.\n", day)
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Removed transaction of %s (change %s), balance back to %s.\n",
		res.Removed.Due, res.Removed.Change, res.Restored.Balance)
	return subcommands.ExitSuccess
}
