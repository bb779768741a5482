package core

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

// standardHeader returns the display name of every field in workbook order.
func standardHeader() []string {
	out := make([]string, 0, len(FieldDefinitions))
	for _, def := range FieldDefinitions {
		out = append(out, def.DisplayName())
	}
	return out
}

// headerWithout returns standardHeader minus the named columns.
func headerWithout(names ...string) []string {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var out []string
	for _, h := range standardHeader() {
		if !drop[h] {
			out = append(out, h)
		}
	}
	return out
}

// dataRow builds a full row matching standardHeader.
func dataRow(srNo any, model string) []any {
	return []any{
		srNo, model, "Three Phase",
		10, 100, 5,
		200, 240, 1.5, 2.5, 100, 300, 49, 51, 1400, 1500,
		"CW",
	}
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// buildWorkbook writes rows into the first sheet of a new workbook.
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("SetCellValue(%s): %v", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

// testRecords returns n valid records numbered from 1.
func testRecords(n int) []MasterDataInput {
	recs := make([]MasterDataInput, n)
	for i := range recs {
		recs[i] = MasterDataInput{
			SrNo:       Int(i + 1),
			Model:      "M-100",
			MinVoltage: Float64(200),
			MaxVoltage: Float64(240),
			Direction:  Float64(DirectionCW),
		}
	}
	return recs
}

func newTestSession(recs []MasterDataInput) *ImportSession {
	return NewImportSession("master.xlsx", 1024, &ParseResult{
		Records:   recs,
		TotalRows: len(recs),
	}, testNow)
}

func requireImportError(t *testing.T, err error, kind ImportErrorKind) *ImportError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s import error, got nil", kind)
	}
	ie, ok := AsImportError(err)
	if !ok {
		t.Fatalf("error %v is not an *ImportError", err)
	}
	if ie.Kind != kind {
		t.Fatalf("Kind = %s, want %s (message %q)", ie.Kind, kind, ie.Message)
	}
	return ie
}
