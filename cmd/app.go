// Package cmd implements the CLI application to operate the till.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"kassza"
	"kassza/date"
)

// Commands lists the subcommands of the application.
// A main package will register each of them and execute the user-selected one.
var Commands = []subcommands.Command{
	subcommands.HelpCommand(),
	subcommands.CommandsCommand(),
	&startCmd{},
	&resetCmd{},
	&statusCmd{},
	&settleCmd{},
	&undoCmd{},
	&logCmd{},
	&checkCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok
// to build the register once per command execution.

// openRegister loads the configuration and returns a ready Register.
func openRegister() (*kassza.Register, kassza.Config, error) {
	cfg, err := kassza.LoadConfig()
	if err != nil {
		return nil, kassza.Config{}, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, kassza.Config{}, fmt.Errorf("could not set up logging: %w", err)
	}
	return kassza.NewRegister(cfg, logger), cfg, nil
}

func newLogger(cfg kassza.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if !cfg.Verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return zcfg.Build()
}

// parseDay resolves a -d flag value; empty means today.
func parseDay(str string) (date.Date, error) {
	if str == "" {
		return date.Today(), nil
	}
	return date.Parse(str)
}

// printMarkdown renders a markdown string to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// Fall back to the raw markdown rather than losing the output.
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// guardConsistency refuses to operate on a day whose journal and state
// already disagree; the operator has to resolve the mismatch first.
func guardConsistency(reg *kassza.Register, day date.Date) subcommands.ExitStatus {
	if err := reg.CheckDay(day); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nResolve the mismatch before recording or undoing transactions.\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
