// Package manifest models the package manifest that distributes the library:
// products exposing targets, and targets that are either compiled from source
// or shipped as a prebuilt binary bundle.
package manifest

import (
	"fmt"
	"io"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type TargetKind string

const (
	KindSource TargetKind = "source"
	KindBinary TargetKind = "binary"
)

type ProductKind string

const (
	ProductLibrary ProductKind = "library"
)

type (
	Package struct {
		Name         string    `yaml:"name"`         // mandatory
		Products     []Product `yaml:"products"`     // mandatory, at least 1
		Dependencies []string  `yaml:"dependencies"` // optional, external packages
		Targets      []Target  `yaml:"targets"`      // mandatory, at least 1
	}
	Product struct {
		Name    string      `yaml:"name"`    // mandatory
		Kind    ProductKind `yaml:"kind"`    // optional, library when empty
		Targets []string    `yaml:"targets"` // mandatory, at least 1
	}
	Target struct {
		Name         string     `yaml:"name"`         // mandatory
		Kind         TargetKind `yaml:"kind"`         // optional, source when empty
		Path         string     `yaml:"path"`         // mandatory for binary targets
		Dependencies []string   `yaml:"dependencies"` // optional
	}
)

func (p Product) kind() ProductKind {
	if p.Kind == "" {
		return ProductLibrary
	}
	return p.Kind
}

func (t Target) kind() TargetKind {
	if t.Kind == "" {
		return KindSource
	}
	return t.Kind
}

// SourcePath returns the declared path, or Sources/<name> for a source target without one.
func (t Target) SourcePath() string {
	if t.Path == "" && t.kind() == KindSource {
		return path.Join("Sources", t.Name)
	}
	return t.Path
}

func (p Package) target(name string) (Target, bool) {
	for _, t := range p.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

func (p Package) hasDependency(name string) bool {
	for _, d := range p.Dependencies {
		if d == name {
			return true
		}
	}
	return false
}

// Decode reads a YAML manifest.
func Decode(r io.Reader) (Package, error) {
	var pkg Package
	if err := yaml.NewDecoder(r).Decode(&pkg); err != nil {
		return Package{}, err
	}
	return pkg, nil
}

// Load reads a YAML manifest from a file.
func Load(filename string) (Package, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Package{}, err
	}
	defer f.Close()

	pkg, err := Decode(f)
	if err != nil {
		return Package{}, fmt.Errorf("decode '%s': %v", filename, err)
	}
	return pkg, nil
}
