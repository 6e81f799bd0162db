package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dashrun/dash"
)

type parseCommand struct {
	Pretty bool `short:"p" long:"pretty" description:"Indent the JSON and point at parse errors"`

	Args struct {
		Notation []string `positional-arg-name:"notation" required:"1"`
	} `positional-args:"yes"`
}

func (c *parseCommand) Execute([]string) error {
	w, err := dash.GetWorkout(strings.Join(c.Args.Notation, " "))
	if err != nil {
		return reportParseError(err, c.Pretty)
	}
	return printJSON(w, c.Pretty)
}

func reportParseError(err error, pretty bool) error {
	var perr *dash.ParseError
	if pretty && errors.As(err, &perr) {
		_, _ = fmt.Fprintf(stderr, "error: %s\n%s\n", perr.Msg, perr.Pretty())
		return exitError(1)
	}
	return err
}

func printJSON(v interface{}, pretty bool) error {
	var bs []byte
	var err error
	if pretty {
		bs, err = json.MarshalIndent(v, "", "  ")
	} else {
		bs, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(bs))
	return err
}
