package service

import "context"

// RendererInterface defines the document rendering engine contract: bound
// markup plus stylesheet in, finished document byte stream out.
type RendererInterface interface {
	RenderPDF(ctx context.Context, markup, stylesheet string) ([]byte, error)
}
