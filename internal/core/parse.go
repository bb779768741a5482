package core

import (
	"errors"
	"io"
)

// ParseWorkbook reads the first sheet of an uploaded workbook and extracts
// master data records. A non-nil error is always an *ImportError.
func ParseWorkbook(r io.Reader) (*ParseResult, error) {
	grid, err := ReadWorkbook(r)
	if err != nil {
		return nil, err
	}
	return ParseGrid(grid)
}

// ParseGrid runs header location, column mapping and row extraction over
// an in-memory sheet.
func ParseGrid(grid [][]string) (*ParseResult, error) {
	if isEmptyGrid(grid) {
		return nil, structuralError(msgEmptySheet, nil)
	}

	headerRow, err := LocateHeader(grid)
	if err != nil {
		return nil, err
	}

	cols, err := MapColumns(grid[headerRow], headerRow)
	if err != nil {
		return nil, err
	}

	return ExtractRows(grid, headerRow, cols)
}

func isEmptyGrid(grid [][]string) bool {
	for _, row := range grid {
		if !isEmptyRow(row) {
			return false
		}
	}
	return true
}

// AsImportError unwraps err into an *ImportError when it is one.
func AsImportError(err error) (*ImportError, bool) {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
