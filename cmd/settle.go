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

type settleCmd struct {
	day   string
	due   int64
	given string
	dry   bool
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "settle a purchase and record it in the journal" }
func (*settleCmd) Usage() string {
	return `kz settle -due <amount> -given <tender> [-d <date>] [-dry]

  Settles a purchase: computes the change for the tendered payment,
  appends the transaction to the day's journal and updates the balance.
  With -dry the outcome is shown but nothing is recorded.

  The tender is either a plain amount or a breakdown:

    -given 2000
    -given "2000x1, 1000x1"
    -given "1000x1, apro:150"

Usage Examples:
# A 1200 purchase paid with a 2000 note.
$ kz settle -due 1200 -given 2000
`
}

func (p *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.day, "d", "", "Day to record on (YYYY-MM-DD). Defaults to today.")
	f.Int64Var(&p.due, "due", 0, "Amount the buyer owes.")
	f.StringVar(&p.given, "given", "", "Payment tendered by the buyer.")
	f.BoolVar(&p.dry, "dry", false, "Preview the settlement without recording it.")
}

func (p *settleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := parseDay(p.day)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if p.given == "" {
		fmt.Fprintln(os.Stderr, "Error: -given is required.")
		return subcommands.ExitUsageError
	}
	tender, err := kassza.ParseTender(p.given)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -given: %v\n", err)
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

	pending, err := reg.Begin(day, reg.Money(p.due), tender)
	switch {
	case errors.Is(err, kassza.ErrNoState):
		fmt.Fprintf(os.Stderr, "Day %s has not been started. Run 'kz start' first.\n", day)
		return subcommands.ExitFailure
	case errors.Is(err, kassza.ErrInsufficientPayment):
		fmt.Fprintf(os.Stderr, "Error: the payment does not cover the %s due.\n", reg.Money(p.due))
		return subcommands.ExitFailure
	case errors.Is(err, kassza.ErrCannotMakeChange):
		fmt.Fprintln(os.Stderr, "Error: the drawer cannot give that change. Collect a different tender.")
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rec := pending.Record()
	if p.dry {
		pending.Abort()
		fmt.Printf("Would give %s change, new balance %s. Nothing recorded.\n", rec.Change, rec.TotalAfter)
		return subcommands.ExitSuccess
	}

	if err := pending.Commit(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Change due back: %s\n", rec.Change)
	if rec.ChangeTender != nil {
		fmt.Printf("Give back: %s\n", describeTender(*rec.ChangeTender))
	}
	fmt.Printf("New balance: %s\n", rec.TotalAfter)
	return subcommands.ExitSuccess
}

// describeTender renders a tender breakdown the way an operator reads it
// out, largest note first.
func describeTender(t kassza.Tender) string {
	s := ""
	for _, d := range kassza.NoteDenominations {
		if n := t.Notes[d]; n > 0 {
			if s != "" {
				s += ", "
			}
			s += fmt.Sprintf("%dx%d", d, n)
		}
	}
	if t.Coins > 0 {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("%d in coins", t.Coins)
	}
	if s == "" {
		s = "nothing"
	}
	return s
}
