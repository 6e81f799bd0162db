package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dashrun/dash"
)

const envPacesFile = "DASH_PACES_FILE"

type mileageCommand struct {
	Paces string `long:"paces" description:"Pace map YAML file (env DASH_PACES_FILE)"`
	JSON  bool   `long:"json" description:"Print the estimate as JSON"`

	Args struct {
		Notation []string `positional-arg-name:"notation" required:"1"`
	} `positional-args:"yes"`
}

func (c *mileageCommand) Execute([]string) error {
	if v, ok := os.LookupEnv(envPacesFile); ok && c.Paces == "" {
		c.Paces = v
	}
	if c.Paces == "" {
		return errors.New("pace map not set, use --paces or " + envPacesFile)
	}

	paces, err := dash.LoadPaceMap(c.Paces)
	if err != nil {
		return err
	}
	notation := strings.Join(c.Args.Notation, " ")
	w, err := dash.GetWorkout(notation)
	if err != nil {
		return reportParseError(err, true)
	}
	m, err := dash.GetMileage(paces, w)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(m, false)
	}
	_, err = fmt.Fprintf(stdout, "%s: %s-%s miles\n", w,
		strconv.FormatFloat(m.Min, 'f', 1, 64), strconv.FormatFloat(m.Max, 'f', 1, 64))
	return err
}
