package core

import (
	"fmt"
	"strings"
)

// MaxHeaderSearchRows is the maximum number of rows to scan when looking for the header.
const MaxHeaderSearchRows = 20

// MinHeaderMatches is the number of distinct fields a row must name to count as a header.
const MinHeaderMatches = 3

// ColumnMap maps each field to its zero-based column in the header row.
type ColumnMap map[FieldKey]int

// LocateHeader scans the top of the grid for the row naming the most
// distinct fields and returns its index. Ties keep the earliest row.
func LocateHeader(grid [][]string) (int, error) {
	best, bestMatches := -1, 0

	limit := min(len(grid), MaxHeaderSearchRows)
	for i := 0; i < limit; i++ {
		matches := countFieldMatches(grid[i])
		if matches > bestMatches {
			best, bestMatches = i, matches
		}
	}

	if best < 0 || bestMatches < MinHeaderMatches {
		return -1, &ImportError{
			Kind:    KindHeaderNotFound,
			Message: msgHeaderNotFound,
			Details: detailsHeaderNotFound,
		}
	}
	return best, nil
}

// countFieldMatches counts distinct fields named by any cell in the row.
func countFieldMatches(row []string) int {
	seen := make(map[FieldKey]struct{}, len(FieldDefinitions))
	for _, cell := range row {
		if def, ok := LookupAlias(cell); ok {
			seen[def.Key] = struct{}{}
		}
	}
	return len(seen)
}

// MapColumns assigns each field the leftmost column whose header matches one
// of its aliases. headerRow is the zero-based grid index, used only for the
// error report. Every unmatched field is listed in the error.
func MapColumns(header []string, headerRow int) (ColumnMap, error) {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = Normalize(cell)
	}

	cols := make(ColumnMap, len(FieldDefinitions))
	var missing []string

	for _, def := range FieldDefinitions {
		col := findColumn(normalized, def)
		if col < 0 {
			missing = append(missing, def.DisplayName())
			continue
		}
		cols[def.Key] = col
	}

	if len(missing) > 0 {
		return nil, &ImportError{
			Kind:    KindMissingColumns,
			Message: msgMissingColumns,
			Details: missingColumnsDetails(missing, headerRow+1),
		}
	}
	return cols, nil
}

func findColumn(normalized []string, def FieldDefinition) int {
	for i, cell := range normalized {
		if cell == "" {
			continue
		}
		for _, alias := range def.Aliases {
			if cell == Normalize(alias) {
				return i
			}
		}
	}
	return -1
}

func missingColumnsDetails(missing []string, rowNumber int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following columns were not found in the identified header row (Row %d):\n\n", rowNumber)
	for i, name := range missing {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + name)
	}
	b.WriteString("\n\nPlease ensure the headers match exactly.")
	return b.String()
}
