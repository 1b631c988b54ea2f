package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type logCmd struct {
	day  string
	head int
	tail int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list the transactions recorded on a day" }
func (*logCmd) Usage() string {
	return `kz log [-d <date>] [-head <n>] [-tail <n>]

  Lists the day's journal, oldest first.
`
}

func (p *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.day, "d", "", "Day to list (YYYY-MM-DD). Defaults to today.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

func (p *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

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

	journal, err := reg.Journal(day)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	records := journal.Records()
	if p.head > 0 && len(records) > p.head {
		records = records[:p.head]
	}
	if p.tail > 0 && len(records) > p.tail {
		records = records[len(records)-p.tail:]
	}

	if len(records) == 0 {
		fmt.Printf("No transactions recorded on %s.\n", day)
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Journal %s\n\n", day)
	fmt.Fprintf(&b, "| Time | Due | Given | Change | Balance |\n|---|---:|---:|---:|---:|\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			rec.Time.Format("15:04:05"), rec.Due, rec.Given, rec.Change, rec.TotalAfter)
	}
	printMarkdown(b.String())

	return subcommands.ExitSuccess
}
