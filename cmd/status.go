package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"kassza"
)

type statusCmd struct {
	day string
}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show the balance and drawer content for a day" }
func (*statusCmd) Usage() string {
	return `kz status [-d <date>]

  Shows the opening balance, current balance and, when tracked, the
  drawer breakdown for the day.
`
}

func (p *statusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.day, "d", "", "Day to show (YYYY-MM-DD). Defaults to today.")
}

func (p *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	st, err := reg.GetState(day)
	if errors.Is(err, kassza.ErrNoState) {
		fmt.Printf("Day %s has not been started. Run 'kz start' first.\n", day)
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	journal, err := reg.Journal(day)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Register %s\n\n", st.Day)
	fmt.Fprintf(&b, "- Opening balance: %s\n", st.Opening)
	fmt.Fprintf(&b, "- Current balance: %s\n", st.Balance)
	fmt.Fprintf(&b, "- Transactions recorded: %d\n", journal.Len())

	if st.Drawer != nil {
		fmt.Fprintf(&b, "\n## Drawer\n\n")
		fmt.Fprintf(&b, "| Denomination | Count |\n|---:|---:|\n")
		for _, d := range kassza.NoteDenominations {
			if n := st.Drawer.Notes[d]; n > 0 {
				fmt.Fprintf(&b, "| %d | %d |\n", d, n)
			}
		}
		fmt.Fprintf(&b, "| coins | %d |\n", st.Drawer.Coins)
	}

	printMarkdown(b.String())

	if err := reg.CheckDay(day); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return subcommands.ExitSuccess
}
