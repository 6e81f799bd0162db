package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dashrun/dash/pkg/log"

	"github.com/jessevdk/go-flags"
)

type options struct {
	Debug bool `short:"d" long:"debug" description:"Debug mode"`

	Parse    parseCommand    `command:"parse" description:"Parse workout notation and print it as JSON"`
	Mileage  mileageCommand  `command:"mileage" description:"Estimate the miles a workout covers"`
	Manifest manifestCommand `command:"manifest" description:"Validate a package manifest"`
	Watch    watchCommand    `command:"watch" description:"Run the planner until terminated"`
}

var (
	opts   options
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var logger = log.New("main")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts = options{}
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "dash"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		log.SetDebug(opts.Debug)
		if cmd == nil {
			return nil
		}
		if _, ok := cmd.(*watchCommand); !ok && !opts.Debug {
			log.SetQuiet()
		}
		return cmd.Execute(args)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(stdout, flagsErr.Message)
			return 0
		}
		var exitErr exitError
		if errors.As(err, &exitErr) {
			return int(exitErr)
		}
		_, _ = fmt.Fprintf(stderr, "dash: %v\n", err)
		return 1
	}
	return 0
}

// exitError ends the process with the given code once the command has
// reported the problem itself.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
