// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// TitlePages produces the single-page section dividers. A page already
// present in the directory wins, so sites can drop in hand-designed
// divider PDFs and the generator fills the gaps.
type TitlePages struct {
	dir  string
	conf *model.Configuration
}

// NewTitlePages creates a generator writing into dir.
func NewTitlePages(dir string) *TitlePages {
	return &TitlePages{dir: dir, conf: model.NewDefaultConfiguration()}
}

// The decl types mirror the pdfcpu create-command JSON for one
// centered text page.
type pageDecl struct {
	Pages map[string]contentDecl `json:"pages"`
}

type contentDecl struct {
	Content struct {
		Text []textDecl `json:"text"`
	} `json:"content"`
}

type textDecl struct {
	Value  string   `json:"value"`
	Anchor string   `json:"anchor"`
	Font   fontDecl `json:"font"`
}

type fontDecl struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Generate returns the path of the title page for a tag, rendering it
// if no page exists yet.
func (t *TitlePages) Generate(tag, title string) (string, error) {
	path := filepath.Join(t.dir, safeName(tag)+".pdf")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating title page directory: %w", err)
	}

	var page contentDecl
	page.Content.Text = []textDecl{{
		Value:  title,
		Anchor: "center",
		Font:   fontDecl{Name: "Helvetica-Bold", Size: 48},
	}}
	decl := pageDecl{Pages: map[string]contentDecl{"1": page}}

	data, err := json.Marshal(decl)
	if err != nil {
		return "", fmt.Errorf("encoding title page for %s: %w", tag, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("rendering title page for %s: %w", tag, err)
	}
	if err := api.Create(nil, bytes.NewReader(data), f, t.conf); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("rendering title page for %s: %w", tag, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("rendering title page for %s: %w", tag, err)
	}
	return path, nil
}

// safeName strips path separators out of a tag before it becomes a
// filename.
func safeName(tag string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, tag)
}
