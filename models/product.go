package models

// Expected spreadsheet column names. The header row of the sheet must use
// these names; any additional columns are ignored.
const (
	ColumnName        = "Nome"
	ColumnPrice       = "Preço"
	ColumnDescription = "Descrição"
	ColumnImageURL    = "URL da Imagem"
	ColumnCategory    = "Categoria"
	ColumnSize        = "Tamanho"
	ColumnColor       = "Cor"
	ColumnHighlight   = "Destaque"
)

// RawRow is one spreadsheet row, keyed by column name.
type RawRow map[string]string

// Product represents a single catalog entry built from one spreadsheet row.
// LocalImagePath is set by the image cache after resolution; it stays empty
// when the product has no image source or resolution failed.
type Product struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Size           string  `json:"size"`
	Color          string  `json:"color"`
	ImageSource    string  `json:"imageSource"`
	LocalImagePath string  `json:"localImagePath"`
	HighlightBadge string  `json:"highlightBadge"`
}

// HasImage reports whether the product has a resolved local image.
func (p *Product) HasImage() bool {
	return p.LocalImagePath != ""
}

// Rejection records a spreadsheet row that was excluded during normalization.
// RowIndex is the zero-based index of the row in the input sequence.
type Rejection struct {
	RowIndex int    `json:"rowIndex"`
	Reason   string `json:"reason"`
}

// ImageStats aggregates the outcome of one image resolution pass,
// counted per product.
type ImageStats struct {
	Resolved int `json:"resolved"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// ProductStatistics summarizes a processed product list for the run report.
type ProductStatistics struct {
	Total      int
	PriceMin   float64
	PriceMax   float64
	PriceAvg   float64
	Categories map[string]int
	Sizes      map[string]int
	Colors     map[string]int
}
