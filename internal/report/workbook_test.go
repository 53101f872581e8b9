package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"recipe-insights-go/internal/types"
)

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	wb := New(path)

	res := types.PipelineResult{
		MediaMetadata: types.MediaMetadata{Title: "Pasta Night", Author: "Chef A", ViewCount: 1000},
		ExtractionResult: types.ExtractionResult{
			Ingredients:      []string{"2 cups flour", "1 egg"},
			OrderSuggestions: []string{"Flour - Amazon link"},
			Summary:          "1. Boil pasta. 2. Add sauce.",
		},
	}
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if err := wb.Append(res, at); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := wb.Append(res, at.Add(time.Minute)); err != nil {
		t.Fatalf("second append: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Results")
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d want 3 (header + 2 results)", len(rows))
	}
	if rows[0][1] != "Title" {
		t.Fatalf("header: got %q want %q", rows[0][1], "Title")
	}
	if rows[1][1] != "Pasta Night" || rows[1][2] != "Chef A" {
		t.Fatalf("unexpected first result row: %v", rows[1])
	}
	if rows[2][0] != at.Add(time.Minute).Format(time.RFC3339) {
		t.Fatalf("timestamp: got %q", rows[2][0])
	}
}
