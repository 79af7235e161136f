// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"fmt"
	"os"
)

// maxPlainBytes bounds how much of a text file is read for tag scanning.
const maxPlainBytes = 1 << 20

// PlainExtractor reads text-like files directly.
type PlainExtractor struct{}

func (e *PlainExtractor) Supports(path string) bool {
	return hasExt(path, ".txt", ".csv", ".md")
}

func (e *PlainExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if len(data) > maxPlainBytes {
		data = data[:maxPlainBytes]
	}
	return string(data), nil
}
