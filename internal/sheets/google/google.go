package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gigledger/internal/core"
	ports "gigledger/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config selects the spreadsheet and the service account used to reach it.
type Config struct {
	SpreadsheetID   string
	ForecastSheet   string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	forecastSheet string
}

// Ensure interface conformance
var (
	_ ports.ForecastWriter = (*Client)(nil)
	_ ports.ForecastReader = (*Client)(nil)
)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(cfg.ForecastSheet)
	if sheet == "" {
		sheet = "Forecast"
	}

	svc, err := newSheetsService(ctx, cfg.CredentialsJSON, cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, forecastSheet: sheet}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Inline JSON wins over the file path.
func newSheetsService(ctx context.Context, serviceAccountJSON, serviceAccountFile string) (*gsheet.Service, error) {
	serviceAccountJSON = strings.TrimSpace(serviceAccountJSON)
	serviceAccountFile = strings.TrimSpace(serviceAccountFile)

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// WriteForecast clears the forecast sheet and writes f from A1.
func (c *Client) WriteForecast(ctx context.Context, f ports.Forecast) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:ZZ", c.forecastSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	rng := fmt.Sprintf("%s!A1", c.forecastSheet)
	vr := &gsheet.ValueRange{Values: forecastValues(f)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Forecast written to Google Sheets",
		"sheet", c.forecastSheet,
		"months", len(f.Months),
		"rows", len(f.Rows))
	return nil
}

// ReadForecast reads the forecast sheet back into a table.
func (c *Client) ReadForecast(ctx context.Context) (ports.Forecast, error) {
	if c.svc == nil {
		return ports.Forecast{}, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:ZZ", c.forecastSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return ports.Forecast{}, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseForecast(resp.Values)
}

const (
	headerID       = "Expense ID"
	headerName     = "Expense"
	headerCategory = "Category"
	totalLabel     = "Total"
)

// forecastValues renders f as a values matrix. Absent cells stay blank so a
// month where an expense does not apply reads differently from a zero charge.
func forecastValues(f ports.Forecast) [][]any {
	header := []any{headerID, headerName, headerCategory}
	for _, m := range f.Months {
		header = append(header, m.String())
	}
	values := [][]any{header}

	for _, r := range f.Rows {
		row := []any{r.ExpenseID, r.Name, r.Category}
		for _, m := range f.Months {
			if amount, ok := r.Cells[m]; ok {
				row = append(row, amount.Float())
			} else {
				row = append(row, "")
			}
		}
		values = append(values, row)
	}

	totals := []any{"", totalLabel, ""}
	for i := range f.Months {
		var t core.Money
		if i < len(f.Totals) {
			t = f.Totals[i]
		}
		totals = append(totals, t.Float())
	}
	return append(values, totals)
}
