package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps sheets in process memory. It backs the "memory" driver
// and the service tests; SetError injects failures per operation.
type MemoryStore struct {
	mu     sync.Mutex
	id     string
	sheets []*memorySheet
	errs   map[Operation]error
	calls  map[Operation]int
}

type memorySheet struct {
	props SheetProperties
	cells [][]string
}

// NewMemoryStore creates a store containing one empty sheet per title.
func NewMemoryStore(id string, titles ...string) *MemoryStore {
	s := &MemoryStore{
		id:    id,
		errs:  make(map[Operation]error),
		calls: make(map[Operation]int),
	}
	for i, title := range titles {
		s.sheets = append(s.sheets, &memorySheet{props: SheetProperties{
			SheetID: int64(i * 1000),
			Title:   title,
			Index:   i,
		}})
	}
	return s
}

// SetError makes every subsequent call of op fail with err. A nil err clears it.
func (s *MemoryStore) SetError(op Operation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, op)
		return
	}
	s.errs[op] = err
}

// Calls returns how many times op was invoked, failed calls included.
func (s *MemoryStore) Calls(op Operation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Rows returns a copy of the occupied rows of the titled sheet.
func (s *MemoryStore) Rows(title string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheet := s.sheetByTitle(title)
	if sheet == nil {
		return nil
	}
	out := make([][]string, 0, len(sheet.cells))
	for _, row := range sheet.cells[:sheet.lastOccupied()] {
		out = append(out, append([]string(nil), row...))
	}
	return out
}

// Sheet returns the current properties of the titled sheet.
func (s *MemoryStore) Sheet(title string) (SheetProperties, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheet := s.sheetByTitle(title)
	if sheet == nil {
		return SheetProperties{}, false
	}
	return sheet.props, true
}

func (s *MemoryStore) Metadata(ctx context.Context) (*Spreadsheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpMetadata); err != nil {
		return nil, err
	}
	meta := &Spreadsheet{ID: s.id, Title: s.id, Sheets: make([]SheetProperties, 0, len(s.sheets))}
	for _, sheet := range s.sheets {
		meta.Sheets = append(meta.Sheets, sheet.props)
	}
	return meta, nil
}

func (s *MemoryStore) UpdateValues(ctx context.Context, rng Range, values [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpUpdate); err != nil {
		return err
	}
	sheet := s.sheetByTitle(rng.Sheet)
	if sheet == nil {
		return fmt.Errorf("unable to parse range %s: %w", rng, ErrSheetNotFound)
	}
	for r, row := range values {
		for c, value := range row {
			sheet.set(rng.StartRow+r, max(rng.StartCol, 1)+c, value)
		}
	}
	return nil
}

func (s *MemoryStore) AppendValues(ctx context.Context, rng Range, values [][]string) (*AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpAppend); err != nil {
		return nil, err
	}
	sheet := s.sheetByTitle(rng.Sheet)
	if sheet == nil {
		return nil, fmt.Errorf("unable to parse range %s: %w", rng, ErrSheetNotFound)
	}
	first := sheet.lastOccupied() + 1
	startCol := max(rng.StartCol, 1)
	width := 0
	for r, row := range values {
		width = max(width, len(row))
		for c, value := range row {
			sheet.set(first+r, startCol+c, value)
		}
	}
	updated := Range{Sheet: rng.Sheet, StartRow: first, StartCol: startCol, EndRow: first + len(values) - 1, EndCol: startCol + width - 1}
	return &AppendResult{UpdatedRange: updated.String(), UpdatedRows: len(values)}, nil
}

func (s *MemoryStore) UpdateDisplayProperties(ctx context.Context, sheetID int64, props DisplayProperties) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpDisplay); err != nil {
		return err
	}
	for _, sheet := range s.sheets {
		if sheet.props.SheetID == sheetID {
			sheet.props.RightToLeft = props.RightToLeft
			return nil
		}
	}
	return fmt.Errorf("no sheet with id %d: %w", sheetID, ErrSheetNotFound)
}

func (s *MemoryStore) begin(op Operation) error {
	s.calls[op]++
	return s.errs[op]
}

func (s *MemoryStore) sheetByTitle(title string) *memorySheet {
	for _, sheet := range s.sheets {
		if sheet.props.Title == title {
			return sheet
		}
	}
	return nil
}

func (m *memorySheet) set(row, col int, value string) {
	for len(m.cells) < row {
		m.cells = append(m.cells, nil)
	}
	cells := m.cells[row-1]
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	m.cells[row-1] = cells
}

// lastOccupied returns the 1-based index of the last row holding a value.
func (m *memorySheet) lastOccupied() int {
	for i := len(m.cells) - 1; i >= 0; i-- {
		for _, v := range m.cells[i] {
			if v != "" {
				return i + 1
			}
		}
	}
	return 0
}
