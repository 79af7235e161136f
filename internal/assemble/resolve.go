// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// PathResolver locates the PDF backing a structure item. Structures
// are often generated on one machine and assembled on another, so the
// recorded converted path is a hint, not an authority. The resolver
// tries, in order:
//
//  1. the item's recorded converted path
//  2. the conversion mapping table
//  3. the converted directory, by filename convention
//  4. the docs directory itself, for sources that were already PDFs
type PathResolver struct {
	docsDir      string
	convertedDir string
	mapping      map[string]string
}

// NewPathResolver builds a resolver over the assembly directories and
// an optional conversion mapping (nil is an empty mapping).
func NewPathResolver(cfg types.AssemblyConfig, mapping map[string]string) *PathResolver {
	if mapping == nil {
		mapping = map[string]string{}
	}
	return &PathResolver{
		docsDir:      cfg.DocsDir,
		convertedDir: cfg.ConvertedDir,
		mapping:      mapping,
	}
}

// Resolve returns the first existing PDF for the item, or an error
// naming every location tried.
func (r *PathResolver) Resolve(item types.PDFStructureItem) (string, error) {
	stem := strings.TrimSuffix(item.Filename, filepath.Ext(item.Filename))

	candidates := make([]string, 0, 4)
	if item.ConvertedPath != "" {
		candidates = append(candidates, item.ConvertedPath)
	}
	if mapped, ok := r.mapping[item.Filename]; ok {
		candidates = append(candidates, mapped)
	}
	candidates = append(candidates, filepath.Join(r.convertedDir, stem+".pdf"))
	if strings.EqualFold(filepath.Ext(item.Filename), ".pdf") {
		candidates = append(candidates, filepath.Join(r.docsDir, item.Filename))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("no PDF found for %s (tried %s)", item.Filename, strings.Join(candidates, ", "))
}
