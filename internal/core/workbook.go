package core

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// oleSignature starts every OLE2 compound file, which is how legacy BIFF
// .xls workbooks are stored.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ReadWorkbook opens an xlsx, xlsm or legacy xls stream and returns the
// first sheet as a grid of raw cell text. Rows may be ragged; missing cells
// read as "".
func ReadWorkbook(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, structuralError(msgParseFailed, err)
	}
	if bytes.HasPrefix(data, oleSignature) {
		return readLegacyWorkbook(data)
	}
	return readOpenXMLWorkbook(data)
}

func readOpenXMLWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, parseFailed(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, structuralError(msgNoSheets, nil)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, structuralError(msgUnreadableSheet, err)
	}
	return rows, nil
}

// readLegacyWorkbook reads a BIFF workbook. The decoder panics on some
// corrupt files, so a panic is reported as a parse failure.
func readLegacyWorkbook(data []byte) (grid [][]string, err error) {
	defer func() {
		if p := recover(); p != nil {
			grid, err = nil, parseFailed(fmt.Errorf("xls decode: %v", p))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, parseFailed(err)
	}
	if wb.NumSheets() == 0 {
		return nil, structuralError(msgNoSheets, nil)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, structuralError(msgUnreadableSheet, nil)
	}

	return legacyGrid(int(sheet.MaxRow), func(i int) legacyRow {
		if row := sheet.Row(i); row != nil {
			return row
		}
		return nil
	}), nil
}

// legacyRow is the part of an xls row the grid builder reads.
type legacyRow interface {
	FirstCol() int
	LastCol() int
	Col(i int) string
}

// legacyGrid copies rows 0..maxRow into a grid. Missing rows become empty
// rows and trailing empty rows are dropped, matching the xlsx reader.
func legacyGrid(maxRow int, rowAt func(i int) legacyRow) [][]string {
	grid := make([][]string, 0, maxRow+1)
	for i := 0; i <= maxRow; i++ {
		row := rowAt(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, max(row.LastCol(), 0))
		for c := max(row.FirstCol(), 0); c < len(cells); c++ {
			cells[c] = row.Col(c)
		}
		grid = append(grid, cells)
	}

	for len(grid) > 0 && isEmptyRow(grid[len(grid)-1]) {
		grid = grid[:len(grid)-1]
	}
	return grid
}

func parseFailed(err error) *ImportError {
	return &ImportError{
		Kind:    KindStructural,
		Message: msgParseFailed,
		Details: err.Error(),
		Err:     err,
	}
}
