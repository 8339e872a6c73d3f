package service

import "errors"

// Sentinel errors for pipeline operations.
var (
	// ErrNoProducts signals a run with nothing to render; raised before any
	// variant is attempted.
	ErrNoProducts = errors.New("no valid products to generate")

	// ErrUnknownTemplate signals a variant referencing a template id that is
	// not in the registry.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrAllVariantsFailed distinguishes a complete failure from a partial
	// one; returned by the run wiring, never by Generate itself.
	ErrAllVariantsFailed = errors.New("all requested variants failed")

	// Image resolution errors.
	ErrImageTooLarge = errors.New("image exceeds maximum file size")
	ErrNotAnImage    = errors.New("downloaded data is not a valid image")
)
