package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dashrun/dash/pkg/manifest"
)

type manifestCommand struct {
	Root  string `long:"root" description:"Directory binary paths are relative to (default: the manifest directory)"`
	Graph bool   `long:"graph" description:"Print the resolved artifact graph"`

	Args struct {
		Manifest string `positional-arg-name:"package.yml" required:"yes"`
	} `positional-args:"yes"`
}

func (c *manifestCommand) Execute([]string) error {
	pkg, err := manifest.Load(c.Args.Manifest)
	if err != nil {
		return err
	}
	root := c.Root
	if root == "" {
		root = filepath.Dir(c.Args.Manifest)
	}

	g, err := manifest.Resolve(pkg, os.DirFS(root))
	if err != nil {
		return err
	}
	if !c.Graph {
		_, err = fmt.Fprintf(stdout, "%s: ok, %d artifact(s)\n", g.Package, len(g.Artifacts))
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "package %s\n", g.Package)
	for _, a := range g.Artifacts {
		fmt.Fprintf(&sb, "  %s %s: %s\n", a.Kind, a.Product, strings.Join(a.Targets, ", "))
		for _, e := range a.Edges {
			if e.Path != "" {
				fmt.Fprintf(&sb, "    %s -> %s (%s, %s)\n", e.From, e.To, e.Kind, e.Path)
			} else {
				fmt.Fprintf(&sb, "    %s -> %s (%s)\n", e.From, e.To, e.Kind)
			}
		}
	}
	_, err = fmt.Fprint(stdout, sb.String())
	return err
}
