package core

// report.go renders xlsx downloads with excelize: the tested-results report
// and the failed-rows export of an import session.

import (
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// TestedReportSheet is the sheet name of the tested results report.
const TestedReportSheet = "Test Results"

// FailedRowsSheet is the sheet name of the failed rows export.
const FailedRowsSheet = "Failed Rows"

const blank = "-"

var testedReportHeaders = []string{
	"Sr No", "Model", "Serial No", "Date & Time",
	"Before IR (MΩ)", "Before IR Result",
	"Voltage (V)", "Current (A)", "Power (W)", "Freq (Hz)", "No Load Result",
	"After IR (MΩ)", "After IR Result", "Final Result",
}

// FormatReportTime renders t as DD-MM-YYYY h:mm:ss AM/PM.
func FormatReportTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return blank
	}
	return t.Format("02-01-2006 3:04:05 PM")
}

// FormatResult renders a result flag as PASS, FAIL or "-".
func FormatResult(v *bool) string {
	switch {
	case v == nil:
		return blank
	case *v:
		return string(Pass)
	default:
		return string(Fail)
	}
}

func numberOrBlank(v *float64) any {
	if v == nil {
		return blank
	}
	return *v
}

func testedReportRow(r TestedData) []any {
	var srNo any = blank
	if r.SrNo != nil {
		srNo = *r.SrNo
	}
	return []any{
		srNo,
		textOrBlank(r.ModelName),
		textOrBlank(r.SerialNo),
		FormatReportTime(r.DateTime),
		numberOrBlank(r.BeforeInsulationRes),
		FormatResult(r.Result),
		numberOrBlank(r.Voltage),
		numberOrBlank(r.CurrentAmp),
		numberOrBlank(r.Power),
		numberOrBlank(r.Frequency),
		FormatResult(r.Result3),
		numberOrBlank(r.AfterInsulationRes),
		FormatResult(r.Result2),
		FormatResult(r.FinalResult),
	}
}

func textOrBlank(s string) string {
	if s == "" {
		return blank
	}
	return s
}

// WriteTestedReport writes the tested results workbook to w.
func WriteTestedReport(w io.Writer, rows []TestedData) error {
	table := make([][]any, 0, len(rows))
	for _, r := range rows {
		table = append(table, testedReportRow(r))
	}
	return writeSheet(w, TestedReportSheet, testedReportHeaders, table)
}

// WriteFailedRows writes invalid or errored import rows, one column per
// field followed by the row's problems.
func WriteFailedRows(w io.Writer, rows []ParsedRow) error {
	headers := make([]string, 0, len(FieldDefinitions)+2)
	for _, def := range FieldDefinitions {
		headers = append(headers, def.DisplayName())
	}
	headers = append(headers, "Status", "Problems")

	table := make([][]any, 0, len(rows))
	for _, r := range rows {
		line := make([]any, 0, len(headers))
		for _, def := range FieldDefinitions {
			line = append(line, fieldCell(r.Data, def.Key))
		}
		problems := ValidationMessages(r.Errors)
		if r.Message != "" {
			if problems != "" {
				problems += "; "
			}
			problems += r.Message
		}
		line = append(line, string(r.Status), problems)
		table = append(table, line)
	}
	return writeSheet(w, FailedRowsSheet, headers, table)
}

func fieldCell(d MasterDataInput, key FieldKey) any {
	switch key {
	case FieldSrNo:
		if d.SrNo == nil {
			return ""
		}
		return *d.SrNo
	case FieldModel:
		return d.Model
	}
	if p := d.floatField(key); p != nil && *p != nil {
		return **p
	}
	return ""
}

// writeSheet renders a single-sheet workbook with a bold header row and
// column widths fitted to the longest value, capped at excelize's maximum.
func writeSheet(w io.Writer, sheet string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %q: %w", h, err)
		}
		widths[i] = utf8.RuneCountInString(h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
			if c < len(widths) {
				widths[c] = max(widths[c], utf8.RuneCountInString(cellText(v)))
			}
		}
	}

	for i, wch := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := min(float64(wch+2), excelize.MaxColumnWidth)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("column width %s: %w", col, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
