package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mbellec/bocage/internal/common"
	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/report"
	"github.com/mbellec/bocage/internal/service"
)

// Writer pushes a prospect export to a single spreadsheet tab.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets export writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write replaces the configured tab's contents with a KPI summary block
// followed by one row per prospect.
func (w *Writer) Write(ctx context.Context, prospects []model.ProspectWithStatus, kpis report.KPIs) error {
	w.logger.Info("starting sheet export",
		"prospects", len(prospects),
		"sheet", w.config.SheetName)

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := prepareExportRows(prospects, kpis)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("sheet export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))
	return nil
}

// prepareExportRows builds the sheet contents: a small summary block, a blank
// spacer, then the same columns the CSV export uses.
func prepareExportRows(prospects []model.ProspectWithStatus, kpis report.KPIs) [][]any {
	rows := [][]any{
		{"Exported", time.Now().Format("2006-01-02 15:04")},
		{"Prospects", kpis.Count},
		{"Total area (ha)", kpis.TotalAreaHa},
		{"Certified %", kpis.CertifiedPct},
		{"Mean score", kpis.MeanScore},
		{},
	}

	header := make([]any, len(report.CSVHeader))
	for i, h := range report.CSVHeader {
		header[i] = h
	}
	rows = append(rows, header)

	for i := range prospects {
		p := &prospects[i]
		area := ""
		if p.EstimatedAreaHa != nil {
			area = strconv.FormatFloat(*p.EstimatedAreaHa, 'f', -1, 64)
		}
		rows = append(rows, []any{
			p.ExternalRef,
			p.Name,
			stringOrEmpty(p.City),
			stringOrEmpty(p.Department),
			stringOrEmpty(p.Zone),
			area,
			p.RelevanceScore,
			p.Status.Label(),
			p.Phone(),
		})
	}
	return rows
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		if _, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: w.config.SpreadsheetName,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: w.config.SheetName}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"spreadsheet_id", created.SpreadsheetId,
		"title", w.config.SpreadsheetName)
	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, w.config.SheetName, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to clear sheet %s: %w", w.config.SheetName, err)
	}
	return nil
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	valueRange := &sheets.ValueRange{Values: values}

	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, w.config.SheetName+"!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to update sheet values: %w", err)
	}
	return nil
}
