package service

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogo-builder/models"
)

// testJPEG returns an encoded JPEG of the given dimensions.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 180, G: 90, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

// imageServer serves a JPEG on every path and counts requests per path.
type imageServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newImageServer(t *testing.T, width, height int) *imageServer {
	t.Helper()
	payload := testJPEG(t, width, height)
	s := &imageServer{hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *imageServer) totalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func newTestCache(t *testing.T) *ImageCache {
	t.Helper()
	return NewImageCache(ImageCacheOptions{
		DownloadImages: true,
		CacheDir:       t.TempDir(),
	})
}

func TestResolveAllDeduplicatesSharedSource(t *testing.T) {
	t.Parallel()

	server := newImageServer(t, 50, 50)
	url := server.URL + "/a.jpg"
	products := []*models.Product{
		{Name: "Vestido", ImageSource: url},
		{Name: "Blusa", ImageSource: url},
	}

	stats := newTestCache(t).ResolveAll(context.Background(), products)

	assert.Equal(t, 1, server.totalHits(), "shared source must be fetched exactly once")
	assert.Equal(t, 2, stats.Resolved)
	require.NotEmpty(t, products[0].LocalImagePath)
	assert.Equal(t, products[0].LocalImagePath, products[1].LocalImagePath)
	_, err := os.Stat(products[0].LocalImagePath)
	assert.NoError(t, err)
}

func TestResolveAllFetchesAtMostOncePerDistinctSource(t *testing.T) {
	t.Parallel()

	server := newImageServer(t, 50, 50)
	products := []*models.Product{
		{Name: "A", ImageSource: server.URL + "/a.jpg"},
		{Name: "B", ImageSource: server.URL + "/b.jpg"},
		{Name: "C", ImageSource: server.URL + "/a.jpg"},
		{Name: "D", ImageSource: server.URL + "/b.jpg"},
		{Name: "E", ImageSource: server.URL + "/c.jpg"},
	}

	stats := newTestCache(t).ResolveAll(context.Background(), products)

	assert.Equal(t, 3, server.totalHits(), "5 products over 3 distinct sources must issue 3 fetches")
	assert.Equal(t, 5, stats.Resolved)
}

func TestResolveAllIsIdempotentAgainstWarmCacheDir(t *testing.T) {
	t.Parallel()

	server := newImageServer(t, 50, 50)
	cacheDir := t.TempDir()
	url := server.URL + "/a.jpg"

	first := NewImageCache(ImageCacheOptions{DownloadImages: true, CacheDir: cacheDir})
	firstProducts := []*models.Product{{Name: "A", ImageSource: url}}
	first.ResolveAll(context.Background(), firstProducts)
	require.Equal(t, 1, server.totalHits())

	// A fresh cache over the same directory must reuse the optimized file.
	second := NewImageCache(ImageCacheOptions{DownloadImages: true, CacheDir: cacheDir})
	secondProducts := []*models.Product{{Name: "A", ImageSource: url}}
	stats := second.ResolveAll(context.Background(), secondProducts)

	assert.Equal(t, 1, server.totalHits(), "warm cache must not fetch again")
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, firstProducts[0].LocalImagePath, secondProducts[0].LocalImagePath)
}

func TestResolveAllSharesFailureAcrossProducts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	url := server.URL + "/missing.jpg"
	products := []*models.Product{
		{Name: "A", ImageSource: url},
		{Name: "B", ImageSource: url},
	}

	cache := newTestCache(t)
	stats := cache.ResolveAll(context.Background(), products)

	assert.Equal(t, 2, stats.Failed)
	assert.Empty(t, products[0].LocalImagePath)
	assert.Empty(t, products[1].LocalImagePath)

	failures := cache.Failures()
	require.Contains(t, failures, url)
	assert.Contains(t, failures[url], "404")
}

func TestResolveAllRejectsInvalidImageData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	t.Cleanup(server.Close)

	products := []*models.Product{{Name: "A", ImageSource: server.URL + "/a.jpg"}}
	cache := newTestCache(t)
	stats := cache.ResolveAll(context.Background(), products)

	assert.Equal(t, 1, stats.Failed)
	assert.Empty(t, products[0].LocalImagePath)
	failures := cache.Failures()
	require.Len(t, failures, 1)
	for _, reason := range failures {
		assert.Contains(t, reason, "not a valid image")
	}
}

func TestResolveAllSkipsWhenDownloadDisabled(t *testing.T) {
	t.Parallel()

	server := newImageServer(t, 50, 50)
	products := []*models.Product{
		{Name: "A", ImageSource: server.URL + "/a.jpg"},
		{Name: "B"},
	}

	cache := NewImageCache(ImageCacheOptions{DownloadImages: false, CacheDir: t.TempDir()})
	stats := cache.ResolveAll(context.Background(), products)

	assert.Equal(t, 0, server.totalHits())
	assert.Equal(t, 2, stats.Skipped)
	assert.Empty(t, products[0].LocalImagePath)
}

func TestResolveAllCountsProductsWithoutSourceAsSkipped(t *testing.T) {
	t.Parallel()

	server := newImageServer(t, 50, 50)
	products := []*models.Product{
		{Name: "Com imagem", ImageSource: server.URL + "/a.jpg"},
		{Name: "Sem imagem"},
	}

	stats := newTestCache(t).ResolveAll(context.Background(), products)

	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
}

func TestResolveAllLocalSource(t *testing.T) {
	t.Parallel()

	localPath := filepath.Join(t.TempDir(), "produto.jpg")
	require.NoError(t, os.WriteFile(localPath, testJPEG(t, 40, 40), 0644))

	products := []*models.Product{{Name: "Local", ImageSource: localPath}}
	cache := newTestCache(t)
	stats := cache.ResolveAll(context.Background(), products)

	assert.Equal(t, 1, stats.Resolved)
	require.NotEmpty(t, products[0].LocalImagePath)
	assert.NotEqual(t, localPath, products[0].LocalImagePath, "optimized copy lives in the cache dir")
}

func TestResolveAllLocalSourceMissingFile(t *testing.T) {
	t.Parallel()

	products := []*models.Product{{Name: "Fantasma", ImageSource: filepath.Join(t.TempDir(), "nope.jpg")}}
	stats := newTestCache(t).ResolveAll(context.Background(), products)

	assert.Equal(t, 1, stats.Failed)
	assert.Empty(t, products[0].LocalImagePath)
}

func TestOptimizationResizesLargeImages(t *testing.T) {
	t.Parallel()

	server := newImageServer(t, 2000, 1000)
	products := []*models.Product{{Name: "Grande", ImageSource: server.URL + "/big.jpg"}}

	cache := NewImageCache(ImageCacheOptions{DownloadImages: true, CacheDir: t.TempDir(), MaxDimension: 500})
	stats := cache.ResolveAll(context.Background(), products)
	require.Equal(t, 1, stats.Resolved)

	img, err := imaging.Open(products[0].LocalImagePath)
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 250, img.Bounds().Dy())
}

func TestOptimizationNeverUpscales(t *testing.T) {
	t.Parallel()

	server := newImageServer(t, 60, 30)
	products := []*models.Product{{Name: "Pequena", ImageSource: server.URL + "/small.jpg"}}

	cache := NewImageCache(ImageCacheOptions{DownloadImages: true, CacheDir: t.TempDir(), MaxDimension: 800})
	stats := cache.ResolveAll(context.Background(), products)
	require.Equal(t, 1, stats.Resolved)

	img, err := imaging.Open(products[0].LocalImagePath)
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestResolveAllRejectsOversizedDownload(t *testing.T) {
	t.Parallel()

	payload := testJPEG(t, 300, 300)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	t.Cleanup(server.Close)

	cache := NewImageCache(ImageCacheOptions{
		DownloadImages: true,
		CacheDir:       t.TempDir(),
		MaxFileSize:    64,
	})
	products := []*models.Product{{Name: "Enorme", ImageSource: server.URL + "/huge.jpg"}}
	stats := cache.ResolveAll(context.Background(), products)

	assert.Equal(t, 1, stats.Failed)
	for _, reason := range cache.Failures() {
		assert.Contains(t, reason, "maximum file size")
	}
}
