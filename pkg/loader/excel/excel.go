// Package excel implements a SourceFileLoader that decodes Excel
// workbooks (.xlsx) in-process and renders their sheets as CSV text.
package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sync"

	"vanshavali/pkg/loader"
	loadercsv "vanshavali/pkg/loader/csv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/singleflight"
)

// ExcelSourceLoader loads Excel files on top of a base loader and
// converts the selected worksheet into normalized CSV text.
type ExcelSourceLoader struct {
	loader loader.SourceFileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewExcelSourceLoader creates a new ExcelSourceLoader with the given base loader.
func NewExcelSourceLoader(baseLoader loader.SourceFileLoader) *ExcelSourceLoader {
	return &ExcelSourceLoader{
		loader: baseLoader,
		cache:  make(map[string][]byte),
	}
}

// GetFileText retrieves the workbook and returns the file's selected
// sheet (first sheet when unset) rendered as normalized CSV text.
func (l *ExcelSourceLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	key := loader.CacheKey(file) + ":" + file.Sheet

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := l.loader.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}

		wb, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer wb.Close()

		sheet := file.Sheet
		if sheet == "" {
			sheets := wb.GetSheetList()
			if len(sheets) == 0 {
				return nil, fmt.Errorf("workbook has no sheets")
			}
			sheet = sheets[0]
		}

		rendered, err := renderSheet(wb, sheet)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = rendered
		l.cacheMu.Unlock()

		return rendered, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// Evict drops a file's cached rendering, for one-shot sources that will
// never be re-read.
func (l *ExcelSourceLoader) Evict(file loader.SourceFile) {
	l.cacheMu.Lock()
	delete(l.cache, loader.CacheKey(file)+":"+file.Sheet)
	l.cacheMu.Unlock()
}

// GetSheetRows retrieves the workbook and returns the selected sheet's
// decoded cell rows (first sheet when unset). The decoder drops trailing
// empty cells, so row-structured ingestion should right-pad.
func (l *ExcelSourceLoader) GetSheetRows(ctx context.Context, file loader.SourceFile) ([][]string, error) {
	content, err := l.loader.GetFileText(ctx, file)
	if err != nil {
		return nil, err
	}

	wb, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheet := file.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	return wb.GetRows(sheet)
}

// ExcelSheet represents a single sheet from an Excel workbook.
type ExcelSheet struct {
	Name    string
	Content []byte
}

// GetSheets retrieves the workbook and returns each sheet as a separate
// document. Sheets with no usable rows are skipped.
func (l *ExcelSourceLoader) GetSheets(ctx context.Context, file loader.SourceFile) ([]ExcelSheet, error) {
	content, err := l.loader.GetFileText(ctx, file)
	if err != nil {
		return nil, err
	}

	wb, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	names := wb.GetSheetList()
	sheets := make([]ExcelSheet, 0, len(names))
	for _, name := range names {
		rendered, err := renderSheet(wb, name)
		if err != nil {
			continue
		}
		sheets = append(sheets, ExcelSheet{
			Name:    name,
			Content: rendered,
		})
	}

	return sheets, nil
}

func renderSheet(wb *excelize.File, sheet string) ([]byte, error) {
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return loadercsv.ParseCSV(buf.Bytes())
}
