package service

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"catalogo-builder/models"
	"catalogo-builder/utils"
)

// ProductProcessor normalizes and validates raw spreadsheet rows into typed
// product records. Rows are processed independently: one row's failure never
// affects the others, and output ordering always matches input order.
type ProductProcessor struct{}

// NewProductProcessor creates a new ProductProcessor.
func NewProductProcessor() *ProductProcessor {
	return &ProductProcessor{}
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// cleanText trims and collapses runs of whitespace into single spaces.
func cleanText(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// highlightBadge maps the Destaque column to a badge text. The column holds
// either a boolean flag ("TRUE" means the generic badge) or free text.
func highlightBadge(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "FALSE":
		return ""
	case "TRUE":
		return "DESTAQUE"
	default:
		return cleanText(value)
	}
}

// Normalize turns raw rows into validated products plus an ordered list of
// rejections. A product with no name or an unparseable/negative price is
// rejected with a recorded reason, not silently dropped.
func (p *ProductProcessor) Normalize(rows []models.RawRow) ([]models.Product, []models.Rejection) {
	products := make([]models.Product, 0, len(rows))
	var rejections []models.Rejection

	for i, row := range rows {
		name := cleanText(row[models.ColumnName])
		if name == "" {
			rejections = append(rejections, models.Rejection{RowIndex: i, Reason: "missing product name"})
			continue
		}

		price, err := utils.ParsePrice(row[models.ColumnPrice])
		if err != nil {
			rejections = append(rejections, models.Rejection{
				RowIndex: i,
				Reason:   fmt.Sprintf("invalid price for %q: %v", name, err),
			})
			continue
		}

		products = append(products, models.Product{
			Name:           name,
			Price:          price,
			Description:    cleanText(row[models.ColumnDescription]),
			Category:       cleanText(row[models.ColumnCategory]),
			Size:           cleanText(row[models.ColumnSize]),
			Color:          cleanText(row[models.ColumnColor]),
			ImageSource:    strings.TrimSpace(row[models.ColumnImageURL]),
			HighlightBadge: highlightBadge(row[models.ColumnHighlight]),
		})
	}

	if len(rejections) > 0 {
		log.Printf("⚠️  %d row(s) rejected during normalization", len(rejections))
	}
	return products, rejections
}

// Statistics summarizes a processed product list for the run report.
func (p *ProductProcessor) Statistics(products []models.Product) models.ProductStatistics {
	stats := models.ProductStatistics{
		Total:      len(products),
		Categories: make(map[string]int),
		Sizes:      make(map[string]int),
		Colors:     make(map[string]int),
	}
	if len(products) == 0 {
		return stats
	}

	var sum float64
	stats.PriceMin = products[0].Price
	stats.PriceMax = products[0].Price
	for _, prod := range products {
		sum += prod.Price
		if prod.Price < stats.PriceMin {
			stats.PriceMin = prod.Price
		}
		if prod.Price > stats.PriceMax {
			stats.PriceMax = prod.Price
		}
		if prod.Category != "" {
			stats.Categories[prod.Category]++
		}
		if prod.Size != "" {
			stats.Sizes[prod.Size]++
		}
		if prod.Color != "" {
			stats.Colors[prod.Color]++
		}
	}
	stats.PriceAvg = sum / float64(len(products))
	return stats
}
