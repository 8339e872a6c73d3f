package service

import (
	"context"

	"catalogo-builder/models"
)

// SheetsConnectorInterface defines the spreadsheet connector contract.
// It returns the ordered raw rows of a sheet, keyed by the header row.
type SheetsConnectorInterface interface {
	GetProductRows(ctx context.Context, spreadsheetID, sheetName string) ([]models.RawRow, error)
}
