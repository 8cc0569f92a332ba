// Package sheets defines the tabular store the registration service writes to
// and its drivers: the Google Sheets API, a local xlsx workbook and an
// in-memory store for tests and local runs.
//
// The contract is deliberately small: read sheet metadata, overwrite a cell
// range, append rows after the last occupied row, and set sheet display
// properties. Callers never read values back.
package sheets

import (
	"context"
	"errors"
)

// Operation names a store call. It doubles as a metrics label.
type Operation string

const (
	OpMetadata Operation = "metadata"
	OpUpdate   Operation = "update"
	OpAppend   Operation = "append"
	OpDisplay  Operation = "display"
)

// ErrSheetNotFound is returned by drivers when a range names an unknown sheet.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetProperties describes one sheet (tab) inside a spreadsheet.
type SheetProperties struct {
	SheetID     int64
	Title       string
	Index       int
	RightToLeft bool
}

// Spreadsheet is the metadata returned by Store.Metadata. Sheets are ordered
// by their position in the spreadsheet.
type Spreadsheet struct {
	ID     string
	Title  string
	Sheets []SheetProperties
}

// FindSheet returns the sheet titled title.
func (s *Spreadsheet) FindSheet(title string) (SheetProperties, bool) {
	if s == nil {
		return SheetProperties{}, false
	}
	for _, sheet := range s.Sheets {
		if sheet.Title == title {
			return sheet, true
		}
	}
	return SheetProperties{}, false
}

// DisplayProperties are the sheet-level view settings the service manages.
type DisplayProperties struct {
	RightToLeft bool
}

// AppendResult reports where appended rows landed.
type AppendResult struct {
	UpdatedRange string
	UpdatedRows  int
}

// Store is the remote tabular API. Implementations must be safe for
// concurrent use.
type Store interface {
	Metadata(ctx context.Context) (*Spreadsheet, error)
	UpdateValues(ctx context.Context, rng Range, values [][]string) error
	AppendValues(ctx context.Context, rng Range, values [][]string) (*AppendResult, error)
	UpdateDisplayProperties(ctx context.Context, sheetID int64, props DisplayProperties) error
}
