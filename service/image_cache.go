package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"catalogo-builder/models"
)

const (
	defaultCacheDir     = "cache/images"
	defaultMaxDimension = 800
	defaultQuality      = 85
	defaultTimeout      = 30 * time.Second
	defaultWorkers      = 4
	defaultMaxFileSize  = 5 * 1024 * 1024 // 5MB

	// Some image hosts refuse requests without a browser User-Agent.
	downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ImageCacheOptions configures one resolution pass.
type ImageCacheOptions struct {
	DownloadImages bool          // when false, the whole step is skipped
	MaxDimension   int           // longest edge after optimization, pixels
	Quality        int           // JPEG quality
	TargetFormat   string        // "jpeg" (default) or "png"
	CacheDir       string        // optimized images persisted here, keyed by source hash
	Timeout        time.Duration // per-fetch bound
	Workers        int           // bounded worker count for distinct keys
	MaxFileSize    int64         // remote download size guard
}

type entryState int

const (
	statePending entryState = iota
	stateResolved
	stateFailed
)

// cacheEntry is the resolution record for one distinct source key.
// An entry transitions pending -> resolved|failed exactly once; readers never
// observe a partially resolved entry.
type cacheEntry struct {
	state         entryState
	localPath     string
	failureReason string
}

// ImageCache resolves product image sources to locally cached, print-optimized
// files. At most one entry exists per distinct source key; concurrent requests
// for the same key share a single resolution attempt.
type ImageCache struct {
	opts   ImageCacheOptions
	client *http.Client

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewImageCache creates an ImageCache, applying defaults for unset options.
func NewImageCache(opts ImageCacheOptions) *ImageCache {
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = defaultMaxDimension
	}
	if opts.Quality <= 0 {
		opts.Quality = defaultQuality
	}
	if opts.CacheDir == "" {
		opts.CacheDir = defaultCacheDir
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = defaultMaxFileSize
	}

	return &ImageCache{
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		entries: make(map[string]*cacheEntry),
	}
}

// ResolveAll resolves every product's image source, mutating products in place
// with the resolved local path. Distinct keys are resolved in parallel up to
// the worker bound; failures are non-fatal and counted in the returned stats.
func (c *ImageCache) ResolveAll(ctx context.Context, products []*models.Product) models.ImageStats {
	var stats models.ImageStats

	if !c.opts.DownloadImages {
		log.Printf("⏭️  Image download disabled, skipping %d product(s)", len(products))
		stats.Skipped = len(products)
		return stats
	}

	if err := os.MkdirAll(c.opts.CacheDir, 0755); err != nil {
		log.Printf("❌ Failed to create cache directory %s: %v", c.opts.CacheDir, err)
		for _, p := range products {
			if p.ImageSource == "" {
				stats.Skipped++
			} else {
				stats.Failed++
			}
		}
		return stats
	}

	// Normalize sources and collect the distinct keys to resolve. Products
	// sharing a source share one cache entry.
	keys := make([]string, len(products))
	seen := make(map[string]bool)
	var distinct []string
	for i, p := range products {
		if p.ImageSource == "" {
			continue
		}
		key, err := sourceKey(p.ImageSource)
		keys[i] = key
		if err != nil {
			c.store(key, &cacheEntry{state: stateFailed, failureReason: err.Error()})
			continue
		}
		if !seen[key] {
			seen[key] = true
			distinct = append(distinct, key)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for _, key := range distinct {
		g.Go(func() error {
			c.resolve(gctx, key)
			return nil
		})
	}
	_ = g.Wait()

	// Merge results back onto the ordered product list by identity.
	for i, p := range products {
		if keys[i] == "" {
			stats.Skipped++
			continue
		}
		entry := c.lookup(keys[i])
		if entry != nil && entry.state == stateResolved {
			p.LocalImagePath = entry.localPath
			stats.Resolved++
		} else {
			stats.Failed++
		}
	}

	log.Printf("📸 Image resolution finished: %d resolved, %d failed, %d skipped",
		stats.Resolved, stats.Failed, stats.Skipped)
	return stats
}

// Failures returns the failure reason per source key for entries that failed.
func (c *ImageCache) Failures() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	failures := make(map[string]string)
	for key, entry := range c.entries {
		if entry.state == stateFailed {
			failures[key] = entry.failureReason
		}
	}
	return failures
}

// resolve returns the entry for key, performing the resolution at most once
// even under concurrent requests: later requesters for an in-flight key attach
// to the same singleflight call and receive the shared result.
func (c *ImageCache) resolve(ctx context.Context, key string) *cacheEntry {
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if entry := c.lookup(key); entry != nil && entry.state != statePending {
			return entry, nil
		}
		entry := c.doResolve(ctx, key)
		c.store(key, entry)
		return entry, nil
	})
	return v.(*cacheEntry)
}

func (c *ImageCache) lookup(key string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key]
}

func (c *ImageCache) store(key string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// doResolve performs one bounded resolution attempt for a distinct key:
// cache-hit check, fetch or local read, optimization, cache write.
func (c *ImageCache) doResolve(ctx context.Context, key string) *cacheEntry {
	cachePath := c.cachePath(key)

	// A previous run already optimized this source; reuse without fetching.
	if _, err := os.Stat(cachePath); err == nil {
		return &cacheEntry{state: stateResolved, localPath: cachePath}
	}

	var data []byte
	var err error
	if isRemoteSource(key) {
		data, err = c.fetch(ctx, key)
	} else {
		data, err = os.ReadFile(key)
	}
	if err != nil {
		log.Printf("⚠️  Failed to acquire image %s: %v", key, err)
		return &cacheEntry{state: stateFailed, failureReason: err.Error()}
	}

	optimized, err := c.optimize(data)
	if err != nil {
		log.Printf("⚠️  Failed to optimize image %s: %v", key, err)
		return &cacheEntry{state: stateFailed, failureReason: err.Error()}
	}

	if err := os.WriteFile(cachePath, optimized, 0644); err != nil {
		log.Printf("❌ Failed to write cache file %s: %v", cachePath, err)
		return &cacheEntry{state: stateFailed, failureReason: err.Error()}
	}

	log.Printf("✓ Image cached: %s", cachePath)
	return &cacheEntry{state: stateResolved, localPath: cachePath}
}

// fetch downloads a remote image with a bounded timeout and size guard.
// Single attempt, no retry.
func (c *ImageCache) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image source returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > c.opts.MaxFileSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, c.opts.MaxFileSize)
	}
	return data, nil
}

// optimize decodes, flattens transparency onto white, resizes so the longest
// edge fits MaxDimension (never upscales) and re-encodes to the target format.
func (c *ImageCache) optimize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	// Flatten possible transparency onto a white background before JPEG encode.
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat := imaging.OverlayCenter(background, img, 1.0)

	if bounds.Dx() > c.opts.MaxDimension || bounds.Dy() > c.opts.MaxDimension {
		flat = imaging.Fit(flat, c.opts.MaxDimension, c.opts.MaxDimension, imaging.Lanczos)
	}

	format, _ := c.targetFormat()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, format, imaging.JPEGQuality(c.opts.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *ImageCache) targetFormat() (imaging.Format, string) {
	if strings.EqualFold(c.opts.TargetFormat, "png") {
		return imaging.PNG, ".png"
	}
	return imaging.JPEG, ".jpg"
}

// cachePath returns the on-disk location for a source key: a stable hash of
// the key, so reruns against the same cache directory reuse prior downloads.
func (c *ImageCache) cachePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	_, ext := c.targetFormat()
	return filepath.Join(c.opts.CacheDir, hex.EncodeToString(sum[:8])+ext)
}

// sourceKey normalizes an image source into its cache identity: absolute URLs
// as-is, local paths in canonical absolute form.
func sourceKey(source string) (string, error) {
	if isRemoteSource(source) {
		return source, nil
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return source, fmt.Errorf("failed to normalize path %q: %w", source, err)
	}
	return abs, nil
}

func isRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
