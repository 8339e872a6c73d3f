package service

import (
	"fmt"
	"time"

	"github.com/flosch/pongo2/v6"

	"catalogo-builder/models"
	"catalogo-builder/templates"
	"catalogo-builder/utils"
)

// Built-in template ids.
const (
	TemplateGrid   = "grid"
	TemplateSimple = "simples"
)

const defaultCatalogTitle = "Catálogo de Produtos"

// templateInfo describes one registered template.
type templateInfo struct {
	file           string
	defaultColumns int
}

// Registry of template id -> markup file and per-template defaults. The grid
// template is a multi-column card layout with images; the simple template is
// a single-column list. Both share the stylesheet.
var templateRegistry = map[string]templateInfo{
	TemplateGrid:   {file: "catalogo_grid.html", defaultColumns: 2},
	TemplateSimple: {file: "catalogo_simples.html", defaultColumns: 1},
}

const stylesheetFile = "catalogo.css"

// CatalogMetadata carries the optional passthrough metadata rendered into the
// catalog header and footer.
type CatalogMetadata struct {
	Title    string
	Contact  string
	Address  string
	LogoPath string
}

// TemplateService loads the embedded catalog templates and binds template
// variables for rendering.
type TemplateService struct {
	markup     map[string]*pongo2.Template
	stylesheet *pongo2.Template
	now        func() time.Time
}

// NewTemplateService parses all registered templates plus the stylesheet.
func NewTemplateService() (*TemplateService, error) {
	markup := make(map[string]*pongo2.Template, len(templateRegistry))
	for id, info := range templateRegistry {
		raw, err := templates.FS.ReadFile(info.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", info.file, err)
		}
		tpl, err := pongo2.FromString(string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", info.file, err)
		}
		markup[id] = tpl
	}

	raw, err := templates.FS.ReadFile(stylesheetFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	stylesheet, err := pongo2.FromString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse stylesheet: %w", err)
	}

	return &TemplateService{
		markup:     markup,
		stylesheet: stylesheet,
		now:        time.Now,
	}, nil
}

// HasTemplate reports whether id is registered.
func (t *TemplateService) HasTemplate(id string) bool {
	_, ok := templateRegistry[id]
	return ok
}

// DefaultColumns returns the default column count of a template.
func (t *TemplateService) DefaultColumns(id string) int {
	if info, ok := templateRegistry[id]; ok {
		return info.defaultColumns
	}
	return 1
}

// Bind assembles the variable set consumed by the markup and stylesheet.
// Defaulting is total: every recognized variable receives a value, so the
// template never sees an unresolved one. Pure function of its inputs; the
// product list is not mutated.
func (t *TemplateService) Bind(products []models.Product, variant models.GenerationVariant, meta CatalogMetadata) pongo2.Context {
	scheme := models.DefaultScheme()
	if variant.Scheme != nil {
		scheme = *variant.Scheme
	}

	columns := variant.Columns
	if columns <= 0 {
		columns = t.DefaultColumns(variant.TemplateID)
	}

	title := meta.Title
	if title == "" {
		title = defaultCatalogTitle
	}

	bound := make([]pongo2.Context, 0, len(products))
	for _, p := range products {
		bound = append(bound, pongo2.Context{
			"nome":         p.Name,
			"preco":        utils.FormatBRL(p.Price),
			"descricao":    p.Description,
			"categoria":    p.Category,
			"tamanho":      p.Size,
			"cor":          p.Color,
			"imagem_local": p.LocalImagePath,
			"destaque":     p.HighlightBadge,
		})
	}

	return pongo2.Context{
		"produtos":       bound,
		"titulo":         title,
		"data_geracao":   t.now().Format("02/01/2006"),
		"total_produtos": len(products),
		"columns":        columns,

		// Color scheme roles, flattened for the stylesheet.
		"cor_fundo":    scheme.Background,
		"cor_titulo":   scheme.Title,
		"cor_texto":    scheme.DescriptionText,
		"cor_preco":    scheme.PriceText,
		"cor_borda":    scheme.Border,
		"cor_destaque": scheme.Highlight,

		"contato":   meta.Contact,
		"endereco":  meta.Address,
		"logo_path": meta.LogoPath,
	}
}

// Render executes the markup template and the stylesheet with the bound
// variables, returning both as strings for the rendering engine.
func (t *TemplateService) Render(templateID string, vars pongo2.Context) (markup string, stylesheet string, err error) {
	tpl, ok := t.markup[templateID]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}

	markup, err = tpl.Execute(vars)
	if err != nil {
		return "", "", fmt.Errorf("failed to render template %s: %w", templateID, err)
	}

	stylesheet, err = t.stylesheet.Execute(vars)
	if err != nil {
		return "", "", fmt.Errorf("failed to render stylesheet: %w", err)
	}
	return markup, stylesheet, nil
}
