package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"catalogo-builder/models"
	"catalogo-builder/service"
)

// Config holds one generation run's configuration, assembled from CLI flags
// and environment variables by main.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsPath string

	TemplateID     string
	SchemeName     string
	AllSchemes     bool
	Columns        int
	OutputFilename string

	OutputDir      string
	CacheDir       string
	DownloadImages bool
	MaxDimension   int

	Title    string
	Contact  string
	Address  string
	LogoPath string
}

// Run executes the full catalog pipeline: fetch rows, normalize products,
// resolve images, generate one document per requested variant and report the
// outcome. Returns an error on fatal conditions (connector unreachable, no
// valid products) and when every requested variant failed.
func Run(ctx context.Context, cfg Config) error {
	if cfg.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is required (flag --spreadsheet-id or SPREADSHEET_ID)")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}

	connector, err := service.NewSheetsService(cfg.CredentialsPath)
	if err != nil {
		return fmt.Errorf("failed to initialize sheets connector: %w", err)
	}

	return run(ctx, cfg, connector, service.NewPDFService())
}

// run is the connector/renderer-injectable core of Run.
func run(ctx context.Context, cfg Config, connector service.SheetsConnectorInterface, renderer service.RendererInterface) error {
	rows, err := connector.GetProductRows(ctx, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		return fmt.Errorf("failed to fetch product rows: %w", err)
	}

	processor := service.NewProductProcessor()
	products, rejections := processor.Normalize(rows)
	for _, r := range rejections {
		log.Printf("⚠️  Row %d rejected: %s", r.RowIndex+1, r.Reason)
	}
	log.Printf("✅ %d valid product(s), %d rejected out of %d row(s)",
		len(products), len(rejections), len(rows))
	if len(products) == 0 {
		return service.ErrNoProducts
	}
	printStatistics(processor.Statistics(products))

	cache := service.NewImageCache(service.ImageCacheOptions{
		DownloadImages: cfg.DownloadImages,
		MaxDimension:   cfg.MaxDimension,
		CacheDir:       cfg.CacheDir,
	})
	refs := make([]*models.Product, len(products))
	for i := range products {
		refs[i] = &products[i]
	}
	imageStats := cache.ResolveAll(ctx, refs)
	for key, reason := range cache.Failures() {
		log.Printf("⚠️  Image %s: %s", key, reason)
	}

	templates, err := service.NewTemplateService()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	variants, err := buildVariants(cfg)
	if err != nil {
		return err
	}

	catalog := service.NewCatalogService(templates, renderer, cfg.OutputDir)
	meta := service.CatalogMetadata{
		Title:    cfg.Title,
		Contact:  cfg.Contact,
		Address:  cfg.Address,
		LogoPath: cfg.LogoPath,
	}

	started := time.Now()
	results, err := catalog.Generate(ctx, products, variants, meta, imageStats)
	if err != nil {
		return err
	}

	succeeded := 0
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
			log.Printf("📄 %s", r.OutputPath)
		}
	}
	log.Printf("🎉 Generation completed in %s: %d/%d variant(s) succeeded",
		time.Since(started).Round(time.Millisecond), succeeded, len(results))

	if service.AllFailed(results) {
		return service.ErrAllVariantsFailed
	}
	return nil
}

// buildVariants expands the run configuration into the requested variants:
// one per built-in scheme in all-schemes mode, a single variant otherwise.
func buildVariants(cfg Config) ([]models.GenerationVariant, error) {
	if cfg.AllSchemes {
		names := models.SchemeNames()
		variants := make([]models.GenerationVariant, 0, len(names))
		for _, name := range names {
			scheme, _ := models.SchemeByName(name)
			variants = append(variants, models.GenerationVariant{
				TemplateID:     cfg.TemplateID,
				Scheme:         &scheme,
				Columns:        cfg.Columns,
				OutputFilename: fmt.Sprintf("catalogo_%s.pdf", name),
			})
		}
		return variants, nil
	}

	variant := models.GenerationVariant{
		TemplateID:     cfg.TemplateID,
		Columns:        cfg.Columns,
		OutputFilename: cfg.OutputFilename,
	}
	if cfg.SchemeName != "" {
		scheme, ok := models.SchemeByName(cfg.SchemeName)
		if !ok {
			return nil, fmt.Errorf("unknown color scheme %q (available: %v)",
				cfg.SchemeName, models.SchemeNames())
		}
		variant.Scheme = &scheme
	}
	return []models.GenerationVariant{variant}, nil
}

func printStatistics(stats models.ProductStatistics) {
	log.Printf("📊 Products: %d | price min %.2f max %.2f avg %.2f",
		stats.Total, stats.PriceMin, stats.PriceMax, stats.PriceAvg)
	if len(stats.Categories) > 0 {
		log.Printf("📊 Categories: %v", stats.Categories)
	}
	if len(stats.Sizes) > 0 {
		log.Printf("📊 Sizes: %v", stats.Sizes)
	}
}
