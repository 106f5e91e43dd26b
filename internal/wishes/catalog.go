// Package wishes holds the fixed catalog of holiday wishes and the random
// selection over it.
package wishes

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a catalog file contains no usable wishes.
var ErrEmptyCatalog = errors.New("wish catalog is empty")

// Catalog is an ordered, read-only list of wishes.
type Catalog struct {
	entries []string
}

var defaultWishes = []string{
	"May your holidays be painted in the softest whites and the warmest golds.",
	"Here’s to the blank page of the New Year—may you write your best chapter yet.",
	"Wishing you the peace of a silent night and the excitement of a bright morning.",
	"May you find a moment to press pause and simply soak in the magic around you.",
	"Hoping your season is wrapped in love and tied with a ribbon of hope.",
	"May your joy shine brighter than the North Star on a clear winter's night.",
	"Wishing you a heart light enough to float like a snowflake.",
	"May the melody of the holidays stay in your heart all year long.",
	"Sending you the kind of peace that settles like fresh snow: quiet and beautiful.",
	"May your dreams for the coming year be as big as the holiday spirit.",
}

// Default returns the built-in catalog of ten wishes.
func Default() Catalog {
	return New(defaultWishes)
}

// New builds a catalog from entries. Blank entries are dropped.
func New(entries []string) Catalog {
	c := Catalog{entries: make([]string, 0, len(entries))}
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			c.entries = append(c.entries, e)
		}
	}
	return c
}

// Len returns the number of wishes.
func (c Catalog) Len() int { return len(c.entries) }

// At returns the wish at index i.
func (c Catalog) At(i int) string { return c.entries[i] }

// Entries returns a copy of the catalog contents.
func (c Catalog) Entries() []string {
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contains reports whether wish is one of the catalog entries.
func (c Catalog) Contains(wish string) bool {
	for _, e := range c.entries {
		if e == wish {
			return true
		}
	}
	return false
}

type catalogFile struct {
	Wishes []string `yaml:"wishes"`
}

// Load reads a YAML catalog of the form
//
//	wishes:
//	  - "..."
//
// An empty path yields the built-in catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	c := New(f.Wishes)
	if c.Len() == 0 {
		return Catalog{}, fmt.Errorf("%s: %w", path, ErrEmptyCatalog)
	}
	return c, nil
}

// Select picks one wish uniformly at random. A nil rng uses the global source.
func Select(c Catalog, rng *rand.Rand) (int, string) {
	if c.Len() == 0 {
		return -1, ""
	}
	var i int
	if rng != nil {
		i = rng.IntN(c.Len())
	} else {
		i = rand.IntN(c.Len())
	}
	return i, c.entries[i]
}
