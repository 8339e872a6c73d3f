package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"catalogo-builder/app"
	"catalogo-builder/service"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		if err := godotenv.Overload(".env"); err != nil {
			log.Printf("Warning: .env file not found, using system environment variables")
		}
	}

	cfg := app.Config{}
	flag.StringVar(&cfg.SpreadsheetID, "spreadsheet-id", os.Getenv("SPREADSHEET_ID"), "Google Sheets spreadsheet id")
	flag.StringVar(&cfg.SheetName, "sheet", envOr("SHEET_NAME", "Sheet1"), "sheet (tab) name")
	flag.StringVar(&cfg.TemplateID, "template", service.TemplateGrid, "catalog template: grid or simples")
	flag.StringVar(&cfg.SchemeName, "scheme", "", "color scheme name (default: template default)")
	flag.BoolVar(&cfg.AllSchemes, "all-schemes", false, "generate one catalog per built-in color scheme")
	flag.IntVar(&cfg.Columns, "columns", 0, "grid column count (0 = template default)")
	flag.StringVar(&cfg.OutputFilename, "output", "", "output filename (default: auto-generated)")
	flag.BoolVar(&cfg.DownloadImages, "download-images", true, "download and optimize product images")
	flag.IntVar(&cfg.MaxDimension, "max-dimension", 0, "longest image edge in pixels (0 = default)")
	flag.StringVar(&cfg.Title, "title", "", "catalog title")
	flag.StringVar(&cfg.Contact, "contact", "", "contact line for the catalog footer")
	flag.StringVar(&cfg.Address, "address", "", "address line for the catalog footer")
	flag.StringVar(&cfg.LogoPath, "logo", "", "path to a logo image for the catalog header")
	flag.Parse()

	cfg.CredentialsPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	cfg.OutputDir = envOr("OUTPUT_DIR", "output")
	cfg.CacheDir = os.Getenv("CACHE_DIR")

	if err := app.Run(context.Background(), cfg); err != nil {
		log.Fatalf("❌ Catalog generation failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
