// Package catalog holds the built-in provider catalog: the registry of
// runtimes vx can resolve, with their aliases, dependency requirements,
// command prefixes, and platform support.
package catalog

import (
	"sort"
	"strings"

	"vx/internal/ports"
	"vx/internal/types"
)

// Catalog is an explicitly constructed runtime registry. It is passed
// into the resolver and CLI at startup rather than living in process
// globals, so tests can build small custom catalogs.
type Catalog struct {
	specs   map[string]types.ToolSpec
	aliases map[string]string
}

// New returns a catalog populated with the built-in runtime table.
func New() *Catalog {
	c := Empty()
	for _, spec := range builtinSpecs() {
		c.Register(spec)
	}
	return c
}

// Empty returns a catalog with no runtimes (for testing).
func Empty() *Catalog {
	return &Catalog{
		specs:   map[string]types.ToolSpec{},
		aliases: map[string]string{},
	}
}

// Register adds a spec, indexing its aliases. Later registrations of
// the same name replace earlier ones.
func (c *Catalog) Register(spec types.ToolSpec) {
	for _, alias := range spec.Aliases {
		c.aliases[alias] = spec.Name
	}
	c.specs[spec.Name] = spec
}

func (c *Catalog) IsKnown(name string) bool {
	_, ok := c.ResolveName(name)
	return ok
}

func (c *Catalog) GetSpec(name string) (types.ToolSpec, bool) {
	canonical, ok := c.ResolveName(name)
	if !ok {
		return types.ToolSpec{}, false
	}
	spec, ok := c.specs[canonical]
	return spec, ok
}

func (c *Catalog) ResolveName(name string) (string, bool) {
	if _, ok := c.specs[name]; ok {
		return name, true
	}
	if primary, ok := c.aliases[name]; ok {
		return primary, true
	}
	return "", false
}

func (c *Catalog) KnownTools() []string {
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest returns known runtime names close to the requested one, for
// "did you mean" output on unknown tools.
func (c *Catalog) Suggest(name string) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	var out []string
	for _, candidate := range c.KnownTools() {
		if strings.HasPrefix(candidate, name) || strings.Contains(candidate, name) {
			out = append(out, candidate)
			continue
		}
		if editDistance(name, candidate) <= 2 {
			out = append(out, candidate)
		}
	}
	return out
}

// editDistance is a plain Levenshtein distance over runtime names,
// which are short ASCII strings.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(values ...int) int {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}

var _ ports.CatalogPort = (*Catalog)(nil)
