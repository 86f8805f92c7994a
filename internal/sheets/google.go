package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apierrors "github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/errors"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/infrastructure"
)

// GoogleSource reads rows from the Google Sheets API using a service
// account credential.
type GoogleSource struct {
	service *sheets.Service
	logger  *slog.Logger
}

// NewGoogleSource creates a Google Sheets backed source. Exactly one of
// credentialsJSON or credentialsFile should be set; JSON takes precedence
// so the credential can be injected through the environment.
func NewGoogleSource(ctx context.Context, credentialsJSON, credentialsFile string, logger *slog.Logger) (*GoogleSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var opt option.ClientOption
	switch {
	case credentialsJSON != "":
		opt = option.WithCredentialsJSON([]byte(credentialsJSON))
	case credentialsFile != "":
		opt = option.WithCredentialsFile(credentialsFile)
	default:
		return nil, fmt.Errorf("google sheets source requires credentials")
	}

	service, err := sheets.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSource{service: service, logger: logger}, nil
}

// Fetch retrieves all rows from the given tab of the spreadsheet.
func (g *GoogleSource) Fetch(ctx context.Context, spreadsheetID, tab string) ([][]string, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	title, err := g.resolveTab(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, err
	}

	resp, err := g.service.Spreadsheets.Values.Get(spreadsheetID, title).Context(ctx).Do()
	if err != nil {
		logger.Error("failed to fetch sheet values",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("tab", title),
			slog.String("error", err.Error()),
		)
		return nil, apierrors.Wrap(err, "SHEET_UNAVAILABLE", "Spreadsheet source could not be read", http.StatusBadGateway)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}

	logger.Debug("fetched sheet",
		slog.String("spreadsheet_id", spreadsheetID),
		slog.String("tab", title),
		slog.Int("rows", len(rows)),
	)
	return rows, nil
}

// resolveTab turns a tab reference into a sheet title. Numeric references
// and the empty reference require listing the spreadsheet's sheets.
func (g *GoogleSource) resolveTab(ctx context.Context, spreadsheetID, tab string) (string, error) {
	idx, isIndex := parseTabIndex(tab)
	if tab != "" && !isIndex {
		return tab, nil
	}
	if tab == "" {
		idx = 0
	}

	meta, err := g.service.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", apierrors.Wrap(err, "SHEET_UNAVAILABLE", "Spreadsheet source could not be read", http.StatusBadGateway)
	}
	if idx >= len(meta.Sheets) {
		return "", apierrors.NewWithDetails("SHEET_NOT_FOUND", "Requested sheet tab not found",
			fmt.Sprintf("index %d out of range, spreadsheet has %d sheets", idx, len(meta.Sheets)), http.StatusNotFound)
	}
	return meta.Sheets[idx].Properties.Title, nil
}
