package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xuri/excelize/v2"

	apierrors "github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/errors"
)

// WorkbookSource reads rows from a local Excel workbook. The spreadsheetID
// argument to Fetch is ignored; the path is fixed at construction.
type WorkbookSource struct {
	path   string
	logger *slog.Logger
}

// NewWorkbookSource creates a source reading the workbook at path.
func NewWorkbookSource(path string, logger *slog.Logger) *WorkbookSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookSource{path: path, logger: logger}
}

// Fetch reads all rows from the referenced tab. The file is opened per
// call so edits to the workbook are picked up without a restart.
func (w *WorkbookSource) Fetch(ctx context.Context, _ string, tab string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		w.logger.Error("failed to open workbook",
			slog.String("path", w.path),
			slog.String("error", err.Error()),
		)
		return nil, apierrors.Wrap(err, "SHEET_UNAVAILABLE", "Spreadsheet source could not be read", http.StatusBadGateway)
	}
	defer f.Close()

	title, err := w.resolveTab(f, tab)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(title)
	if err != nil {
		return nil, apierrors.Wrap(err, "SHEET_UNAVAILABLE", "Spreadsheet source could not be read", http.StatusBadGateway)
	}

	w.logger.Debug("read workbook tab",
		slog.String("path", w.path),
		slog.String("tab", title),
		slog.Int("rows", len(rows)),
	)
	return rows, nil
}

func (w *WorkbookSource) resolveTab(f *excelize.File, tab string) (string, error) {
	idx, isIndex := parseTabIndex(tab)
	if tab != "" && !isIndex {
		if i, err := f.GetSheetIndex(tab); err != nil || i < 0 {
			return "", apierrors.NewWithDetails("SHEET_NOT_FOUND", "Requested sheet tab not found",
				fmt.Sprintf("no sheet named %q in workbook", tab), http.StatusNotFound)
		}
		return tab, nil
	}
	if tab == "" {
		idx = 0
	}

	title := f.GetSheetName(idx)
	if title == "" {
		return "", apierrors.NewWithDetails("SHEET_NOT_FOUND", "Requested sheet tab not found",
			fmt.Sprintf("index %d out of range, workbook has %d sheets", idx, f.SheetCount), http.StatusNotFound)
	}
	return title, nil
}
