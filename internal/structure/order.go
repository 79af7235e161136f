// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// FamilyOrder ranks equipment tags for group ordering. Known prefix
// families sort by their position in the configured priority table;
// unrecognized prefixes sort alphabetically after all known families;
// the cut-sheet section is always last. Within one prefix family,
// numeric suffixes (AHU-1, AHU-10) precede alphanumeric suffixes
// (AHU-D4), numerics by value and alphanumerics lexically.
//
// The table is configuration, not code: site naming conventions differ,
// and the priority list ships as a config default rather than a
// hardcoded inference from tag numbers.
type FamilyOrder struct {
	rank map[string]int
	n    int
}

// NewFamilyOrder builds an ordering from a prefix priority table. An
// empty table falls back to the built-in default.
func NewFamilyOrder(families []string) *FamilyOrder {
	if len(families) == 0 {
		families = types.DefaultFamilyOrder
	}
	rank := make(map[string]int, len(families))
	for i, f := range families {
		rank[strings.ToUpper(f)] = i
	}
	return &FamilyOrder{rank: rank, n: len(families)}
}

// tagSortKey decomposes a tag for comparison.
type tagSortKey struct {
	familyRank  int
	prefix      string
	numeric     bool
	number      int
	alphaSuffix string
}

func (o *FamilyOrder) key(tag string) tagSortKey {
	prefix, suffix := splitTag(tag)
	k := tagSortKey{prefix: prefix, alphaSuffix: suffix}

	if r, known := o.rank[prefix]; known {
		k.familyRank = r
	} else {
		k.familyRank = o.n
	}

	if n, err := strconv.Atoi(suffix); err == nil {
		k.numeric = true
		k.number = n
		k.alphaSuffix = ""
	}
	return k
}

// Less reports whether tag a orders before tag b.
func (o *FamilyOrder) Less(a, b string) bool {
	if a == types.CutSheetsTag || b == types.CutSheetsTag {
		return b == types.CutSheetsTag && a != types.CutSheetsTag
	}

	ka, kb := o.key(a), o.key(b)
	if ka.familyRank != kb.familyRank {
		return ka.familyRank < kb.familyRank
	}
	if ka.prefix != kb.prefix {
		// Both unknown families: alphabetical.
		return ka.prefix < kb.prefix
	}
	if ka.numeric != kb.numeric {
		return ka.numeric
	}
	if ka.numeric {
		if ka.number != kb.number {
			return ka.number < kb.number
		}
		return a < b
	}
	if ka.alphaSuffix != kb.alphaSuffix {
		return ka.alphaSuffix < kb.alphaSuffix
	}
	return a < b
}

// splitTag separates PREFIX-SUFFIX; a tag without a hyphen is all
// prefix.
func splitTag(tag string) (prefix, suffix string) {
	if i := strings.Index(tag, "-"); i >= 0 {
		return tag[:i], tag[i+1:]
	}
	return tag, ""
}

// familyFile is the YAML shape of a site family table.
type familyFile struct {
	Families []string `yaml:"families"`
}

// LoadFamilyOrder reads a site-specific family priority table from a
// YAML file with a top-level "families" list. An empty list is an
// error, since it would silently fall back to the built-in default.
func LoadFamilyOrder(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading family table %s: %w", path, err)
	}

	var f familyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing family table %s: %w", path, err)
	}
	if len(f.Families) == 0 {
		return nil, fmt.Errorf("family table %s: no families listed", path)
	}
	return f.Families, nil
}
