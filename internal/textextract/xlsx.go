// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XlsxExtractor reads cell text from .xlsx workbooks, one line per row.
type XlsxExtractor struct{}

func (e *XlsxExtractor) Supports(path string) bool {
	return hasExt(path, ".xlsx")
}

func (e *XlsxExtractor) Extract(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var out strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, " "))
			if line != "" {
				out.WriteString(line)
				out.WriteByte('\n')
			}
		}
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("no cell text in %s", path)
	}
	return out.String(), nil
}
