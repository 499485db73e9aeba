package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	"github.com/chemlabel/backend/internal/metrics"
	"github.com/chemlabel/backend/internal/pubchem"
	"github.com/chemlabel/backend/pkg/logger"
)

// ImageLoader fetches and decodes pictogram images for export.
// PubChem serves GHS and NFPA icons as SVG, so those are rasterized;
// PNG, JPEG and GIF decode directly. Decoded rasters are cached so
// repeated exports of the same label do not re-fetch.
type ImageLoader struct {
	httpClient *http.Client
	cache      *gocache.Cache
	size       int
}

func NewImageLoader(timeout, cacheTTL time.Duration, size int) *ImageLoader {
	if size <= 0 {
		size = 70
	}
	return &ImageLoader{
		httpClient: &http.Client{Timeout: timeout},
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
		size:       size,
	}
}

// LoadedIcon is a decoded pictogram ready to draw.
type LoadedIcon struct {
	Image   image.Image
	Caption string
}

// LoadAll resolves every icon it can and drops the rest. An icon that
// cannot be fetched or decoded is omitted from the export, the same
// way the browser export skipped images that never finished loading.
func (l *ImageLoader) LoadAll(ctx context.Context, icons []pubchem.Icon) []LoadedIcon {
	loaded := make([]LoadedIcon, 0, len(icons))
	for _, icon := range icons {
		img, err := l.load(ctx, icon.URL)
		if err != nil {
			logger.Warn("Skipping pictogram",
				zap.String("url", icon.URL),
				zap.Error(err),
			)
			continue
		}
		loaded = append(loaded, LoadedIcon{Image: img, Caption: icon.Description})
	}
	return loaded
}

func (l *ImageLoader) load(ctx context.Context, url string) (image.Image, error) {
	if cached, ok := l.cache.Get(url); ok {
		metrics.PictogramCacheHits.Inc()
		return cached.(image.Image), nil
	}
	metrics.PictogramCacheMisses.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	img, err := l.decode(resp.Header.Get("Content-Type"), url, data)
	if err != nil {
		return nil, err
	}

	l.cache.SetDefault(url, img)
	return img, nil
}

func (l *ImageLoader) decode(contentType, url string, data []byte) (image.Image, error) {
	if isSVG(contentType, url, data) {
		return rasterizeSVG(data, l.size)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func isSVG(contentType, url string, data []byte) bool {
	if strings.Contains(contentType, "svg") {
		return true
	}
	if strings.HasSuffix(strings.ToLower(url), ".svg") {
		return true
	}
	head := bytes.TrimSpace(data)
	return bytes.HasPrefix(head, []byte("<?xml")) || bytes.HasPrefix(head, []byte("<svg"))
}

func rasterizeSVG(data []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return rgba, nil
}
