package species

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Species holds the life-history traits the cohort collections consult:
// how old a cohort may get before senescence removes it, and the age at
// which it counts as reproductively mature.
type Species struct {
	Name      string `yaml:"name" json:"name"`
	Longevity uint16 `yaml:"longevity" json:"longevity"`
	Maturity  uint16 `yaml:"maturity" json:"maturity"`
}

// Catalog is the immutable set of species known to one run. Order is
// deterministic (sorted by name) and the digest covers the canonical
// JSON form, so run logs and snapshots can record which trait set
// produced them.
type Catalog struct {
	list   []*Species
	byName map[string]*Species
	digest string
}

type catalogFile struct {
	Species []Species `yaml:"species"`
}

// Load reads a species catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("species catalog %s: %w", path, err)
	}
	c, err := FromList(f.Species)
	if err != nil {
		return nil, fmt.Errorf("species catalog %s: %w", path, err)
	}
	return c, nil
}

// FromList builds a catalog from in-memory definitions.
func FromList(defs []Species) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("no species defined")
	}
	c := &Catalog{byName: make(map[string]*Species, len(defs))}
	for i := range defs {
		sp := defs[i]
		if sp.Name == "" {
			return nil, fmt.Errorf("species %d: empty name", i)
		}
		if sp.Longevity == 0 {
			return nil, fmt.Errorf("species %s: longevity must be positive", sp.Name)
		}
		if sp.Maturity > sp.Longevity {
			return nil, fmt.Errorf("species %s: maturity %d exceeds longevity %d", sp.Name, sp.Maturity, sp.Longevity)
		}
		if _, dup := c.byName[sp.Name]; dup {
			return nil, fmt.Errorf("species %s: duplicate definition", sp.Name)
		}
		p := &sp
		c.byName[sp.Name] = p
		c.list = append(c.list, p)
	}
	sort.Slice(c.list, func(i, j int) bool { return c.list[i].Name < c.list[j].Name })

	canon := make([]Species, len(c.list))
	for i, sp := range c.list {
		canon[i] = *sp
	}
	jb, err := json.Marshal(canon)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(jb)
	c.digest = hex.EncodeToString(sum[:])
	return c, nil
}

// Lookup returns the species with the given name, if present.
func (c *Catalog) Lookup(name string) (*Species, bool) {
	sp, ok := c.byName[name]
	return sp, ok
}

// All returns the species sorted by name. Callers must not mutate the
// returned entries.
func (c *Catalog) All() []*Species {
	out := make([]*Species, len(c.list))
	copy(out, c.list)
	return out
}

func (c *Catalog) Len() int { return len(c.list) }

// Digest identifies the trait set for provenance records.
func (c *Catalog) Digest() string { return c.digest }
