package files

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"diamondprep/internal/diamonds"
	apperrors "diamondprep/internal/errors"
)

// ReadXLSX reads the first worksheet of a workbook into a raw table. The
// first non-empty row is the header.
func ReadXLSX(r io.Reader) (*diamonds.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}

	// Skip leading blank rows
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, apperrors.NewParsingError("workbook sheet is empty", nil).
			WithContext("sheet", sheets[0])
	}

	table := &diamonds.RawTable{Header: rows[start]}
	for _, row := range rows[start+1:] {
		if isBlank(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
