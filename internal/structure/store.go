// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// Store persists PDF structures as JSON. The structure file is a
// single-writer resource: concurrent batch runs against the same file
// must be serialized by the caller.
type Store struct {
	path string
}

// NewStore creates a store for the given structure file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the structure file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a persisted structure is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and validates the persisted structure. A missing file
// returns os.ErrNotExist; a file that fails schema or invariant
// validation is a fatal error, since assembling from a corrupt
// structure would scramble bookmark page numbering.
func (s *Store) Load() (*types.PDFStructure, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("reading structure file %s: %w", s.path, err)
	}

	var ps types.PDFStructure
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parsing structure file %s: %w", s.path, err)
	}
	if len(ps.Items) == 0 {
		return nil, fmt.Errorf("structure file %s: no pdf_structure items", s.path)
	}
	if err := ps.Validate(); err != nil {
		return nil, fmt.Errorf("structure file %s: %w", s.path, err)
	}
	return &ps, nil
}

// Save writes the structure atomically (temp file + rename) so a
// crashed run never leaves a truncated structure behind. Empty
// structures are rejected, mirroring Load.
func (s *Store) Save(ps *types.PDFStructure) error {
	if len(ps.Items) == 0 {
		return fmt.Errorf("refusing to persist empty structure: no items")
	}
	if err := ps.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid structure: %w", err)
	}

	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding structure: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating structure directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".structure-*.json")
	if err != nil {
		return fmt.Errorf("creating temp structure file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing structure: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing structure file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing structure file: %w", err)
	}
	return nil
}
