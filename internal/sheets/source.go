// Package sheets abstracts tabular row sources: a Google Sheets backend
// for live dashboards and a local Excel workbook backend for offline use.
//
// A tab reference is either a sheet title ("Sheet2"), a zero-based numeric
// index ("1"), or empty for the first sheet in the document.
package sheets

import (
	"context"
	"strconv"
)

// Source fetches raw rows from a spreadsheet tab. The first returned row
// is the header row; all cells are returned as strings.
type Source interface {
	Fetch(ctx context.Context, spreadsheetID, tab string) ([][]string, error)
}

// parseTabIndex reports whether tab is a numeric index reference.
func parseTabIndex(tab string) (int, bool) {
	idx, err := strconv.Atoi(tab)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
