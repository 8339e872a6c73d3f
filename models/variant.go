package models

// Generation result status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// GenerationVariant is one requested output configuration: which template to
// render, with which color scheme and column count, and where to write it.
// A nil Scheme means "use the template defaults"; Columns <= 0 means "use the
// template's default column count". OutputFilename is auto-generated from the
// scheme and a timestamp when empty.
type GenerationVariant struct {
	TemplateID     string       `json:"templateId"`
	Scheme         *ColorScheme `json:"scheme,omitempty"`
	Columns        int          `json:"columns"`
	OutputFilename string       `json:"outputFilename"`
}

// GenerationResult is the outcome of rendering one variant.
type GenerationResult struct {
	Variant      GenerationVariant `json:"variant"`
	Status       string            `json:"status"`
	OutputPath   string            `json:"outputPath,omitempty"`
	Err          error             `json:"-"`
	ProductCount int               `json:"productCount"`
	ImageStats   ImageStats        `json:"imageStats"`
}

// Succeeded reports whether the variant produced an output document.
func (r GenerationResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
