package core

import "strings"

// ExtractRows converts every grid row below headerRow into a record.
// Empty rows and rows without an integer Sr. No. are counted as skipped.
func ExtractRows(grid [][]string, headerRow int, cols ColumnMap) (*ParseResult, error) {
	result := &ParseResult{
		Records:   []MasterDataInput{},
		TotalRows: max(len(grid)-(headerRow+1), 0),
	}

	for i := headerRow + 1; i < len(grid); i++ {
		row := grid[i]
		if isEmptyRow(row) {
			result.SkippedRows++
			continue
		}

		rec, ok := extractRecord(row, cols)
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	if len(result.Records) == 0 {
		return nil, &ImportError{
			Kind:    KindNoDataRows,
			Message: msgNoDataRows,
			Details: detailsNoDataRows,
		}
	}
	return result, nil
}

// extractRecord builds a record from one row. It reports false when the
// row has no usable Sr. No.
func extractRecord(row []string, cols ColumnMap) (MasterDataInput, bool) {
	get := func(key FieldKey) string {
		return cellAt(row, cols[key])
	}

	srNo, ok := parseLeadingInt(get(FieldSrNo))
	if !ok {
		return MasterDataInput{}, false
	}

	rec := MasterDataInput{
		SrNo:      Int(srNo),
		Model:     get(FieldModel),
		Phase:     CoercePhase(get(FieldPhase)),
		Direction: CoerceDirection(get(FieldDirection)),
	}

	for _, def := range FieldDefinitions {
		switch def.Key {
		case FieldSrNo, FieldModel, FieldPhase, FieldDirection:
			continue
		}
		*rec.floatField(def.Key) = parseNumber(get(def.Key))
	}

	return rec, true
}

// cellAt returns the whitespace-collapsed cell at col, or "" past the row end.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return collapseSpace(row[col])
}

// isEmptyRow returns true if all cells in the row are empty or whitespace.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
