package manifest

import (
	"io/fs"
	"sort"

	"github.com/ilyam8/hashstructure"
)

type EdgeKind string

const (
	EdgeSource  EdgeKind = "source"  // dependency on a target built from source
	EdgeBinary  EdgeKind = "binary"  // dependency on a prebuilt bundle
	EdgePackage EdgeKind = "package" // dependency on an external package
)

type (
	// Graph is the resolved form of a Package: one buildable artifact per product.
	Graph struct {
		Package   string
		Artifacts []Artifact
	}
	Artifact struct {
		Product string
		Kind    ProductKind
		// Targets lists every target the product needs, dependencies first.
		Targets []string
		Edges   []Edge
	}
	Edge struct {
		From string
		To   string
		Kind EdgeKind
		// Path is the bundle path for EdgeBinary edges.
		Path string
	}
)

// Resolve validates pkg and builds its artifact graph. Binary paths are checked
// against fsys unless it is nil. Nothing is returned on failure.
func Resolve(pkg Package, fsys fs.FS) (*Graph, error) {
	if err := Validate(pkg); err != nil {
		return nil, err
	}
	if fsys != nil {
		if err := CheckArtifacts(pkg, fsys); err != nil {
			return nil, err
		}
	}

	g := &Graph{Package: pkg.Name}
	for _, p := range pkg.Products {
		g.Artifacts = append(g.Artifacts, resolveProduct(pkg, p))
	}
	return g, nil
}

func resolveProduct(pkg Package, p Product) Artifact {
	a := Artifact{Product: p.Name, Kind: p.kind()}
	visited := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true

		t, _ := pkg.target(name)
		for _, dep := range sortedCopy(t.Dependencies) {
			if dt, ok := pkg.target(dep); ok {
				visit(dep)
				edge := Edge{From: name, To: dep, Kind: EdgeSource}
				if dt.kind() == KindBinary {
					edge.Kind, edge.Path = EdgeBinary, dt.Path
				}
				a.Edges = append(a.Edges, edge)
			} else {
				a.Edges = append(a.Edges, Edge{From: name, To: dep, Kind: EdgePackage})
			}
		}
		a.Targets = append(a.Targets, name)
	}

	for _, name := range sortedCopy(p.Targets) {
		visit(name)
	}
	return a
}

// Artifact returns the artifact built for the named product.
func (g *Graph) Artifact(product string) (Artifact, bool) {
	for _, a := range g.Artifacts {
		if a.Product == product {
			return a, true
		}
	}
	return Artifact{}, false
}

// Hash never fails, a Graph holds only strings and slices.
func (g *Graph) Hash() uint64 { hash, _ := hashstructure.Hash(g, nil); return hash }

func (a Artifact) EdgesOf(kind EdgeKind) []Edge {
	var edges []Edge
	for _, e := range a.Edges {
		if e.Kind == kind {
			edges = append(edges, e)
		}
	}
	return edges
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
