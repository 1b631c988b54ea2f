package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/google/subcommands"

	"kassza/date"
)

type checkCmd struct {
	day string
	all bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify that journal and balance files agree" }
func (*checkCmd) Usage() string {
	return `kz check [-d <date> | -all]

  Verifies that the day's journal and balance file agree. A mismatch
  usually means an undo was interrupted; the files are reported but
  never repaired automatically.
`
}

func (p *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.day, "d", "", "Day to check (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&p.all, "all", false, "Check every day found in the data directory.")
}

var dayFileRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_`)

func (p *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reg, cfg, err := openRegister()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var days []date.Date
	if p.all {
		days, err = listDays(cfg.DataDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if len(days) == 0 {
			fmt.Println("No register files found.")
			return subcommands.ExitSuccess
		}
	} else {
		day, err := parseDay(p.day)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		days = []date.Date{day}
	}

	status := subcommands.ExitSuccess
	for _, day := range days {
		if err := reg.CheckDay(day); err != nil {
			fmt.Printf("%s: %v\n", day, err)
			status = subcommands.ExitFailure
		} else {
			fmt.Printf("%s: ok\n", day)
		}
	}
	return status
}

// listDays collects the distinct days that have a balance or journal
// file in dir.
func listDays(dir string) ([]date.Date, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read data directory %q: %w", dir, err)
	}

	seen := make(map[date.Date]bool)
	for _, e := range entries {
		m := dayFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		day, err := date.Parse(m[1])
		if err != nil {
			continue
		}
		seen[day] = true
	}

	days := make([]date.Date, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}
