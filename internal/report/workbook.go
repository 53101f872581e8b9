package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"recipe-insights-go/internal/types"
)

const sheet = "Results"

var header = []interface{}{
	"Processed At", "Title", "Author", "Views",
	"Ingredients", "Order Suggestions", "Summary",
}

// Workbook appends processed results to an xlsx file. Appends are
// serialized; the workbook is created with a header row on first use.
type Workbook struct {
	Path string

	mu sync.Mutex
}

func New(path string) *Workbook {
	return &Workbook{Path: path}
}

// Append writes one result row and saves the workbook.
func (w *Workbook) Append(res types.PipelineResult, processedAt time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}

	cell, _ := excelize.CoordinatesToCellName(1, len(rows)+1)
	values := []interface{}{
		processedAt.Format(time.RFC3339),
		res.Title,
		res.Author,
		res.ViewCount,
		strings.Join(res.Ingredients, "\n"),
		strings.Join(res.OrderSuggestions, "\n"),
		res.Summary,
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	return f.SaveAs(w.Path)
}

func (w *Workbook) open() (*excelize.File, error) {
	if _, err := os.Stat(w.Path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat workbook: %w", err)
		}
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("init sheet: %w", err)
		}
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		if err := f.SetSheetRow(sheet, cell, &header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		return f, nil
	}

	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return f, nil
}
