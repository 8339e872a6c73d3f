package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"catalogo-builder/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Range read from the sheet; the first row must be the column headers.
const sheetReadRange = "A1:Z1000"

// SheetsService reads product rows from Google Sheets.
// Implements SheetsConnectorInterface.
type SheetsService struct {
	client *sheets.Service
}

// NewSheetsService creates a new SheetsService instance.
// credentialsPath should be the path to the Service Account JSON file.
func NewSheetsService(credentialsPath string) (*SheetsService, error) {
	ctx := context.Background()

	// option.WithCredentialsFile automatically handles Service Account authentication
	sheetsService, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsService{
		client: sheetsService,
	}, nil
}

// Ensure SheetsService implements SheetsConnectorInterface
var _ SheetsConnectorInterface = (*SheetsService)(nil)

// GetProductRows reads the sheet and maps each data row onto the header row,
// preserving spreadsheet order. Empty rows are skipped; columns outside the
// header are ignored.
func (s *SheetsService) GetProductRows(ctx context.Context, spreadsheetID, sheetName string) ([]models.RawRow, error) {
	readRange := fmt.Sprintf("%s!%s", sheetName, sheetReadRange)

	resp, err := s.client.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", spreadsheetID, err)
	}

	if len(resp.Values) < 2 {
		log.Printf("⚠️  Spreadsheet %s has no data rows", spreadsheetID)
		return nil, nil
	}

	// First row holds the column headers.
	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, strings.TrimSpace(fmt.Sprintf("%v", cell)))
	}

	rows := make([]models.RawRow, 0, len(resp.Values)-1)
	for _, values := range resp.Values[1:] {
		if len(values) == 0 {
			continue
		}
		row := make(models.RawRow, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(values) {
				row[header] = fmt.Sprintf("%v", values[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	log.Printf("📋 Read %d product row(s) from spreadsheet %s", len(rows), spreadsheetID)
	return rows, nil
}
