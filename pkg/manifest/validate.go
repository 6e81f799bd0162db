package manifest

import (
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Validate checks the structural invariants of the manifest and returns the first violation.
func Validate(pkg Package) error {
	if pkg.Name == "" {
		return &Error{Err: ErrNoName, Element: "package"}
	}
	if len(pkg.Targets) == 0 {
		return &Error{Err: ErrNoTargets, Element: "package '" + pkg.Name + "'"}
	}
	if len(pkg.Products) == 0 {
		return &Error{Err: ErrNoProducts, Element: "package '" + pkg.Name + "'"}
	}

	seen := make(map[string]bool)
	for i, t := range pkg.Targets {
		if t.Name == "" {
			return &Error{Err: ErrNoName, Element: "target", Detail: indexDetail(i)}
		}
		if seen[t.Name] {
			return targetError(t.Name, ErrDuplicateTarget, "")
		}
		seen[t.Name] = true

		switch t.kind() {
		case KindSource:
		case KindBinary:
			if t.Path == "" {
				return targetError(t.Name, ErrMissingPath, "")
			}
		default:
			return targetError(t.Name, ErrBadKind, string(t.Kind))
		}

		for _, dep := range t.Dependencies {
			if _, ok := pkg.target(dep); !ok && !pkg.hasDependency(dep) {
				return targetError(t.Name, ErrUnknownDependency, dep)
			}
		}
	}

	seen = make(map[string]bool)
	for i, p := range pkg.Products {
		if p.Name == "" {
			return &Error{Err: ErrNoName, Element: "product", Detail: indexDetail(i)}
		}
		if seen[p.Name] {
			return productError(p.Name, ErrDuplicateProduct, "")
		}
		seen[p.Name] = true

		if p.kind() != ProductLibrary {
			return productError(p.Name, ErrBadKind, string(p.Kind))
		}
		if len(p.Targets) == 0 {
			return productError(p.Name, ErrEmptyProduct, "")
		}
		for _, name := range p.Targets {
			if _, ok := pkg.target(name); !ok {
				return productError(p.Name, ErrUnknownTarget, name)
			}
		}
	}

	if cycle := findCycle(pkg); len(cycle) > 0 {
		return &Error{Err: ErrCycle, Element: "package '" + pkg.Name + "'", Cycle: cycle}
	}
	return nil
}

// CheckArtifacts verifies every binary target path exists in fsys. It checks
// existence only, the bundle content is opaque.
func CheckArtifacts(pkg Package, fsys fs.FS) error {
	for _, t := range pkg.Targets {
		if t.kind() != KindBinary {
			continue
		}
		name := path.Clean(strings.TrimPrefix(t.Path, "./"))
		if !fs.ValidPath(name) {
			return targetError(t.Name, ErrMissingArtifact, t.Path)
		}
		if _, err := fs.Stat(fsys, name); err != nil {
			return targetError(t.Name, ErrMissingArtifact, t.Path)
		}
	}
	return nil
}

// findCycle runs a DFS over targets in name order and returns one cycle as
// [a, b, ..., a], or nil.
func findCycle(pkg Package) []string {
	const (
		white = iota
		gray
		black
	)

	names := targetNames(pkg)
	color := make(map[string]int, len(names))
	var stack []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		stack = append(stack, name)
		for _, dep := range internalDeps(pkg, name) {
			switch color[dep] {
			case white:
				if visit(dep) {
					return true
				}
			case gray:
				for i, n := range stack {
					if n == dep {
						cycle = append(append([]string{}, stack[i:]...), dep)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		return false
	}

	for _, name := range names {
		if color[name] == white && visit(name) {
			return cycle
		}
	}
	return nil
}

func targetNames(pkg Package) []string {
	names := make([]string, 0, len(pkg.Targets))
	for _, t := range pkg.Targets {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// internalDeps returns the sorted dependencies of a target that are targets of the same package.
func internalDeps(pkg Package, name string) []string {
	t, _ := pkg.target(name)
	var deps []string
	for _, dep := range t.Dependencies {
		if _, ok := pkg.target(dep); ok {
			deps = append(deps, dep)
		}
	}
	sort.Strings(deps)
	return deps
}

func indexDetail(i int) string {
	return "#" + strconv.Itoa(i+1)
}
