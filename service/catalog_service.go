package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"catalogo-builder/models"
)

// CatalogService drives the end-to-end generation flow: for each requested
// variant it binds template variables, renders markup and stylesheet, hands
// them to the rendering engine and writes the output document.
type CatalogService struct {
	templates *TemplateService
	renderer  RendererInterface
	outputDir string
	now       func() time.Time
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(templates *TemplateService, renderer RendererInterface, outputDir string) *CatalogService {
	return &CatalogService{
		templates: templates,
		renderer:  renderer,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Generate renders one output document per requested variant, in request
// order. Variants are independent: a failure in one never aborts the others,
// and the result list always has exactly one entry per variant. Products must
// already be validated and image-resolved; they are shared read-only across
// all variants. Returns ErrNoProducts before attempting any variant when
// there is nothing to render.
func (s *CatalogService) Generate(
	ctx context.Context,
	products []models.Product,
	variants []models.GenerationVariant,
	meta CatalogMetadata,
	imageStats models.ImageStats,
) ([]models.GenerationResult, error) {
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", s.outputDir, err)
	}

	results := make([]models.GenerationResult, 0, len(variants))
	for _, variant := range variants {
		result := s.generateVariant(ctx, products, variant, meta)
		result.ProductCount = len(products)
		result.ImageStats = imageStats

		if result.Succeeded() {
			log.Printf("✓ Variant %s generated: %s", variantLabel(variant), result.OutputPath)
		} else {
			log.Printf("❌ Variant %s failed: %v", variantLabel(variant), result.Err)
		}
		results = append(results, result)
	}
	return results, nil
}

// generateVariant runs one variant in isolation: registry lookup, variable
// binding, rendering, document write.
func (s *CatalogService) generateVariant(
	ctx context.Context,
	products []models.Product,
	variant models.GenerationVariant,
	meta CatalogMetadata,
) models.GenerationResult {
	result := models.GenerationResult{Variant: variant, Status: models.StatusFailed}

	if !s.templates.HasTemplate(variant.TemplateID) {
		result.Err = fmt.Errorf("%w: %q", ErrUnknownTemplate, variant.TemplateID)
		return result
	}

	vars := s.templates.Bind(products, variant, meta)
	markup, stylesheet, err := s.templates.Render(variant.TemplateID, vars)
	if err != nil {
		result.Err = err
		return result
	}

	pdf, err := s.renderer.RenderPDF(ctx, markup, stylesheet)
	if err != nil {
		result.Err = fmt.Errorf("rendering engine failed: %w", err)
		return result
	}

	outputPath := filepath.Join(s.outputDir, s.outputFilename(variant))
	if err := os.WriteFile(outputPath, pdf, 0644); err != nil {
		result.Err = fmt.Errorf("failed to write output document: %w", err)
		return result
	}

	result.Status = models.StatusSuccess
	result.OutputPath = outputPath
	return result
}

// outputFilename returns the variant's output filename, auto-generated from
// the scheme name and a timestamp when absent.
func (s *CatalogService) outputFilename(variant models.GenerationVariant) string {
	if variant.OutputFilename != "" {
		return variant.OutputFilename
	}
	scheme := "default"
	if variant.Scheme != nil {
		scheme = variant.Scheme.Name
	}
	return fmt.Sprintf("catalogo_%s_%s.pdf", scheme, s.now().Format("20060102_150405"))
}

func variantLabel(variant models.GenerationVariant) string {
	if variant.Scheme != nil {
		return fmt.Sprintf("%s/%s", variant.TemplateID, variant.Scheme.Name)
	}
	return variant.TemplateID
}

// AllFailed reports whether every variant in a non-empty result list failed,
// distinguishing a complete failure from a partial one.
func AllFailed(results []models.GenerationResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Succeeded() {
			return false
		}
	}
	return true
}
