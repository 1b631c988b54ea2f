package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type resetCmd struct {
	day string
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "reset a day to a zero balance and an empty drawer" }
func (*resetCmd) Usage() string {
	return `kz reset [-d <date>]

  Starts the day over with a zero opening balance and an empty drawer.
  Existing journal entries for the day are kept but will no longer match
  the balance; prefer resetting before recording anything.
`
}

func (p *resetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.day, "d", "", "Day to reset (YYYY-MM-DD). Defaults to today.")
}

func (p *resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	st, err := reg.ResetDay(day)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Day %s reset, balance %s.\n", st.Day, st.Balance)
	return subcommands.ExitSuccess
}
