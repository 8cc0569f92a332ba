package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXStore keeps the registration sheet in a local workbook. Every call
// opens, mutates and saves the file under a mutex, so the store is safe for
// concurrent use inside one process but not across processes.
type XLSXStore struct {
	mu   sync.Mutex
	path string
}

// NewXLSXStore opens path, creating a workbook whose only sheet is titled
// sheetName when the file does not exist yet.
func NewXLSXStore(path, sheetName string) (*XLSXStore, error) {
	if path == "" {
		return nil, errors.New("xlsx path is empty")
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		defer f.Close() //nolint:errcheck
		if sheetName != "" && sheetName != "Sheet1" {
			if err := f.SetSheetName("Sheet1", sheetName); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		}
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat workbook: %w", err)
	}
	return &XLSXStore{path: path}, nil
}

func (s *XLSXStore) Metadata(ctx context.Context) (*Spreadsheet, error) {
	var meta *Spreadsheet
	err := s.withFile(ctx, false, func(f *excelize.File) error {
		ids := make(map[string]int, len(f.GetSheetMap()))
		for id, name := range f.GetSheetMap() {
			ids[name] = id
		}
		meta = &Spreadsheet{ID: s.path, Title: s.path}
		for i, name := range f.GetSheetList() {
			props := SheetProperties{SheetID: int64(ids[name]), Title: name, Index: i}
			if view, err := f.GetSheetView(name, 0); err == nil && view.RightToLeft != nil {
				props.RightToLeft = *view.RightToLeft
			}
			meta.Sheets = append(meta.Sheets, props)
		}
		return nil
	})
	return meta, err
}

func (s *XLSXStore) UpdateValues(ctx context.Context, rng Range, values [][]string) error {
	return s.withFile(ctx, true, func(f *excelize.File) error {
		if idx, err := f.GetSheetIndex(rng.Sheet); err != nil || idx < 0 {
			return fmt.Errorf("unable to parse range %s: %w", rng, ErrSheetNotFound)
		}
		return writeCells(f, rng.Sheet, rng.StartRow, max(rng.StartCol, 1), values)
	})
}

func (s *XLSXStore) AppendValues(ctx context.Context, rng Range, values [][]string) (*AppendResult, error) {
	var res *AppendResult
	err := s.withFile(ctx, true, func(f *excelize.File) error {
		rows, err := f.GetRows(rng.Sheet)
		if err != nil {
			return fmt.Errorf("unable to parse range %s: %w", rng, ErrSheetNotFound)
		}
		first := lastOccupiedRow(rows) + 1
		startCol := max(rng.StartCol, 1)
		if err := writeCells(f, rng.Sheet, first, startCol, values); err != nil {
			return err
		}
		width := 0
		for _, row := range values {
			width = max(width, len(row))
		}
		updated := Range{Sheet: rng.Sheet, StartRow: first, StartCol: startCol, EndRow: first + len(values) - 1, EndCol: startCol + width - 1}
		res = &AppendResult{UpdatedRange: updated.String(), UpdatedRows: len(values)}
		return nil
	})
	return res, err
}

func (s *XLSXStore) UpdateDisplayProperties(ctx context.Context, sheetID int64, props DisplayProperties) error {
	return s.withFile(ctx, true, func(f *excelize.File) error {
		name, ok := f.GetSheetMap()[int(sheetID)]
		if !ok {
			return fmt.Errorf("no sheet with id %d: %w", sheetID, ErrSheetNotFound)
		}
		rtl := props.RightToLeft
		return f.SetSheetView(name, 0, &excelize.ViewOptions{RightToLeft: &rtl})
	})
}

func (s *XLSXStore) withFile(ctx context.Context, save bool, fn func(*excelize.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := fn(f); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeCells(f *excelize.File, sheet string, startRow, startCol int, values [][]string) error {
	for r, row := range values {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(startCol+c, startRow+r)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func lastOccupiedRow(rows [][]string) int {
	for i := len(rows) - 1; i >= 0; i-- {
		for _, v := range rows[i] {
			if v != "" {
				return i + 1
			}
		}
	}
	return 0
}
