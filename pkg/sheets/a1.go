package sheets

import (
	"fmt"
	"regexp"
	"strings"
)

var plainSheetName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Range is a rectangular A1 range on one sheet. Rows and columns are 1-based;
// a zero EndRow/EndCol leaves that side open.
type Range struct {
	Sheet    string
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// CellRange anchors a range at a single cell, e.g. Registrations!A1.
func CellRange(sheet string, row, col int) Range {
	return Range{Sheet: sheet, StartRow: row, StartCol: col}
}

// RowRange covers columns firstCol..lastCol of a single row.
func RowRange(sheet string, row, firstCol, lastCol int) Range {
	return Range{Sheet: sheet, StartRow: row, StartCol: firstCol, EndRow: row, EndCol: lastCol}
}

// String renders the range in A1 notation, quoting the sheet title when it
// contains anything beyond letters, digits and underscores.
func (r Range) String() string {
	var b strings.Builder
	b.WriteString(QuoteSheetName(r.Sheet))
	b.WriteByte('!')
	b.WriteString(cellName(r.StartRow, r.StartCol))
	if r.EndRow > 0 || r.EndCol > 0 {
		b.WriteByte(':')
		b.WriteString(cellName(r.EndRow, r.EndCol))
	}
	return b.String()
}

// QuoteSheetName wraps a sheet title in single quotes when A1 notation needs it.
func QuoteSheetName(title string) string {
	if plainSheetName.MatchString(title) {
		return title
	}
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// ColumnName converts a 1-based column number to letters (1 -> A, 27 -> AA).
func ColumnName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func cellName(row, col int) string {
	switch {
	case row > 0 && col > 0:
		return fmt.Sprintf("%s%d", ColumnName(col), row)
	case col > 0:
		return ColumnName(col)
	case row > 0:
		return fmt.Sprintf("%d", row)
	}
	return ""
}
