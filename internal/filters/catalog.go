// Package filters holds the sticker catalog and the geometry that places a
// sticker on a photo.
package filters

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Original is the sentinel filter id meaning "store the photo as uploaded".
const Original = "original"

// MaxScale caps every scale before it is applied.
const MaxScale = 0.99

//go:embed filters.yaml
var defaultDocument []byte

// Descriptor is the placement configuration of one filter.
type Descriptor struct {
	Scale   float64 `json:"scale" yaml:"scale"`
	OffsetX int     `json:"offsetX" yaml:"offsetX"`
	OffsetY int     `json:"offsetY" yaml:"offsetY"`
}

// EffectiveScale is the scale used for placement: values above MaxScale are capped.
func (d Descriptor) EffectiveScale() float64 {
	if d.Scale > MaxScale {
		return MaxScale
	}
	return d.Scale
}

type entry struct {
	Aliases    []string `yaml:"aliases"`
	Descriptor `yaml:",inline"`
}

type document struct {
	Version int              `yaml:"version"`
	Default *Descriptor      `yaml:"default"`
	Filters map[string]entry `yaml:"filters"`
}

// Catalog maps filter ids to descriptors. It is never mutated after
// construction, so it can be shared between requests without locking.
type Catalog struct {
	version     int
	fallback    Descriptor
	descriptors map[string]Descriptor
	aliases     map[string]string
}

// DefaultDescriptor is used for unknown ids when the document sets no default.
var DefaultDescriptor = Descriptor{Scale: 0.9}

// Default returns the catalog built from the embedded document.
func Default() *Catalog {
	catalog, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded filter document is invalid: %v", err))
	}
	return catalog
}

// Load reads a YAML or JSON filter document. An empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read filter document: %w", err)
	}

	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse filter document %s: %w", path, err)
	}
	return catalog, nil
}

// Parse builds a catalog from document bytes.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	catalog := &Catalog{
		version:     doc.Version,
		fallback:    DefaultDescriptor,
		descriptors: make(map[string]Descriptor, len(doc.Filters)),
		aliases:     make(map[string]string),
	}

	if doc.Default != nil {
		if doc.Default.Scale <= 0 {
			return nil, fmt.Errorf("default: scale must be positive, got %v", doc.Default.Scale)
		}
		catalog.fallback = *doc.Default
	}

	for rawID, e := range doc.Filters {
		id := normalize(rawID)
		if id == "" || id == Original {
			return nil, fmt.Errorf("invalid filter id %q", rawID)
		}
		if e.Scale <= 0 {
			return nil, fmt.Errorf("filter %s: scale must be positive, got %v", id, e.Scale)
		}
		if _, dup := catalog.descriptors[id]; dup {
			return nil, fmt.Errorf("filter %s defined twice", id)
		}
		catalog.descriptors[id] = e.Descriptor

		for _, alias := range e.Aliases {
			alias = normalize(alias)
			if alias == "" {
				continue
			}
			if owner, taken := catalog.aliases[alias]; taken && owner != id {
				return nil, fmt.Errorf("alias %s used by %s and %s", alias, owner, id)
			}
			catalog.aliases[alias] = id
		}
	}

	for alias := range catalog.aliases {
		if _, clash := catalog.descriptors[alias]; clash {
			return nil, fmt.Errorf("alias %s shadows a filter id", alias)
		}
	}

	return catalog, nil
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Canonical maps an id or alias to its catalog id. Unknown ids are returned lowercased.
func (c *Catalog) Canonical(id string) string {
	id = normalize(id)
	if target, ok := c.aliases[id]; ok {
		return target
	}
	return id
}

// IsOriginal reports whether id asks for no overlay. An empty id counts as original.
func (c *Catalog) IsOriginal(id string) bool {
	id = normalize(id)
	return id == "" || id == Original
}

// Lookup returns the descriptor for id without falling back.
func (c *Catalog) Lookup(id string) (Descriptor, bool) {
	d, ok := c.descriptors[c.Canonical(id)]
	return d, ok
}

// Resolve never fails: ids missing from the catalog get the default descriptor.
func (c *Catalog) Resolve(id string) Descriptor {
	if d, ok := c.Lookup(id); ok {
		return d
	}
	return c.fallback
}

// Fallback returns the descriptor used for unknown ids.
func (c *Catalog) Fallback() Descriptor {
	return c.fallback
}

// Version is the document version the catalog was built from.
func (c *Catalog) Version() int {
	return c.version
}

// IDs lists the catalog ids in alphabetical order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.descriptors))
	for id := range c.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Document returns a copy of the id to descriptor mapping.
func (c *Catalog) Document() map[string]Descriptor {
	out := make(map[string]Descriptor, len(c.descriptors))
	for id, d := range c.descriptors {
		out[id] = d
	}
	return out
}
