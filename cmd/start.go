package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"kassza"
)

type startCmd struct {
	day     string
	opening int64
	notes   string
	coins   int64
}

func (*startCmd) Name() string     { return "start" }
func (*startCmd) Synopsis() string { return "record the opening balance for a day" }
func (*startCmd) Usage() string {
	return `kz start [-d <date>] [-o <amount>] [-notes <breakdown>] [-coins <amount>]

  Records the opening balance for the day. No journal entry is produced.
  With -notes/-coins the denomination breakdown of the drawer is tracked
  and the opening balance is their total (unless -o is also given, in
  which case both must agree).

Usage Examples:
# Start today with a plain 5000 opening balance.
$ kz start -o 5000

# Start today with a tracked drawer.
$ kz start -notes "2000x2, 1000x1" -coins 150
`
}

func (p *startCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.day, "d", "", "Day to start (YYYY-MM-DD). Defaults to today.")
	f.Int64Var(&p.opening, "o", -1, "Opening balance amount.")
	f.StringVar(&p.notes, "notes", "", "Banknote breakdown, e.g. \"2000x2, 1000x1\".")
	f.Int64Var(&p.coins, "coins", 0, "Pooled small-coin amount.")
}

func (p *startCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(p.day)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	var drawer *kassza.Drawer
	if p.notes != "" || p.coins > 0 {
		tender, err := kassza.ParseTender(p.notes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -notes: %v\n", err)
			return subcommands.ExitUsageError
		}
		drawer = kassza.NewDrawer()
		drawer.Add(tender)
		drawer.Coins += p.coins
	}

	opening := p.opening
	if opening < 0 {
		if drawer == nil {
			fmt.Fprintln(os.Stderr, "Error: give an opening balance with -o, or a drawer breakdown with -notes/-coins.")
			return subcommands.ExitUsageError
		}
		opening = drawer.Total()
	}

	reg, _, err := openRegister()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	st, err := reg.StartDay(day, reg.Money(opening), drawer)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Day %s started with opening balance %s.\n", st.Day, st.Opening)
	return subcommands.ExitSuccess
}
