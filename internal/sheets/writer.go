package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/export"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer publishes classification results to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

var _ service.ResultWriter = (*Writer)(nil)

// NewWriter creates a new Google Sheets writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
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

// Write replaces the contents of the Classificação sheet with result.
func (w *Writer) Write(ctx context.Context, result *model.ClassificationResult) error {
	values := prepareValues(result)
	w.logger.Info("Publishing classification", "rows", len(result.Rows), "columns", len(values[0]))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	var sheetID int64
	if err := w.retry(ctx, func() error {
		id, err := w.ensureSheet(ctx, spreadsheetID)
		if err != nil {
			return err
		}
		sheetID = id
		return w.clearSheet(ctx, spreadsheetID)
	}); err != nil {
		return fmt.Errorf("failed to prepare sheet: %w", err)
	}

	if err := w.retry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		if err := w.retry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, sheetID, len(values[0]))
		}); err != nil {
			w.logger.Warn("Failed to format sheet", "spreadsheet_id", spreadsheetID, "error", err)
		}
	}

	w.logger.Info("Published classification", "spreadsheet_id", spreadsheetID, "rows_written", len(values))
	return nil
}

// retry runs op with the configured backoff, classifying API errors first.
func (w *Writer) retry(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, func() error {
		return classifyAPIError(op())
	}, common.RetryOptions{
		MaxAttempts:  max(w.config.RetryAttempts, 1),
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
	})
}

// classifyAPIError marks quota errors as rate limits and other client errors
// as permanent. Server errors and transport failures stay retryable.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return common.Permanent(err)
	}
	return err
}

// createSheetsService builds an API client for the configured credentials.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	switch config.AuthMethod() {
	case AuthServiceAccount:
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	case AuthOAuth:
		token := &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	default:
		return nil, fmt.Errorf("%w: no Google credentials", common.ErrMissingConfig)
	}

	return sheets.NewService(ctx, option.WithTokenSource(tokenSource))
}

// getOrCreateSpreadsheet gets the configured spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
			Locale:   "pt_BR",
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: export.SheetName}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// ensureSheet returns the id of the export sheet, adding it when missing.
func (w *Writer) ensureSheet(ctx context.Context, spreadsheetID string) (int64, error) {
	ss, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err)
	}

	for _, sheet := range ss.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == export.SheetName {
			return sheet.Properties.SheetId, nil
		}
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: export.SheetName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to add sheet: %w", err)
	}

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// clearSheet clears all data from the export sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, sheetRange("A:ZZ"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareValues lays the result out exactly like the xlsx export.
func prepareValues(result *model.ClassificationResult) [][]any {
	header, rows := export.Table(result)

	values := make([][]any, 0, len(rows)+1)
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	return append(values, rows...)
}

func sheetRange(cells string) string {
	return fmt.Sprintf("'%s'!%s", export.SheetName, cells)
}

// writeData writes the values in batches to stay under API request limits.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		// RAW keeps account codes and original amount text as typed.
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, sheetRange(fmt.Sprintf("A%d", i+1)),
			&sheets.ValueRange{Values: batch}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds and freezes the header and sizes the columns.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, columns int) error {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(columns),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(columns),
				},
			},
		},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
