package vault

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ryanm101/gamevault/internal/logging"
	"github.com/ryanm101/gamevault/internal/metrics"
)

// DefaultImageTimeout bounds each image download.
const DefaultImageTimeout = 30 * time.Second

// Images holds the local paths of cached images. A nil path was not cached.
type Images struct {
	Cover      *string
	Background *string
}

// ImageCache downloads game artwork into the vault directory.
type ImageCache struct {
	http    *http.Client
	timeout time.Duration
}

// NewImageCache creates an image cache. httpClient may be nil; timeout <= 0
// uses DefaultImageTimeout.
func NewImageCache(httpClient *http.Client, timeout time.Duration) *ImageCache {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if timeout <= 0 {
		timeout = DefaultImageTimeout
	}
	return &ImageCache{http: httpClient, timeout: timeout}
}

// Cache stores the cover and background of a game under its folder. An
// unwritable folder caches nothing and makes no requests. Images already on
// disk are returned without downloading. The two downloads succeed or fail
// independently.
func (c *ImageCache) Cache(ctx context.Context, folder string, coverURL, backgroundURL *string) Images {
	return c.cache(ctx, folder, coverURL, backgroundURL, false)
}

// Refresh downloads both images even when they are already cached. A file on
// disk is only replaced by a successful download, so a failed refresh keeps
// the previous artwork and returns a nil path for it.
func (c *ImageCache) Refresh(ctx context.Context, folder string, coverURL, backgroundURL *string) Images {
	return c.cache(ctx, folder, coverURL, backgroundURL, true)
}

func (c *ImageCache) cache(ctx context.Context, folder string, coverURL, backgroundURL *string, force bool) Images {
	if !IsWritable(folder) {
		logging.Warn("game folder not writable, skipping image cache", "folder", folder)
		return Images{}
	}

	return Images{
		Cover:      c.cacheOne(ctx, "cover", coverURL, CoverPath(folder), force),
		Background: c.cacheOne(ctx, "background", backgroundURL, BackgroundPath(folder), force),
	}
}

func (c *ImageCache) cacheOne(ctx context.Context, kind string, url *string, dest string, force bool) *string {
	if url == nil || *url == "" {
		return nil
	}

	if _, err := os.Stat(dest); err == nil && !force {
		logging.Debug("image already cached", "kind", kind, "path", dest)
		metrics.ImageDownloads.WithLabelValues(kind, "cached").Inc()
		return &dest
	}

	if err := c.download(ctx, *url, dest); err != nil {
		logging.Warn("failed to download image", "kind", kind, "url", *url, "error", err)
		metrics.ImageDownloads.WithLabelValues(kind, "failed").Inc()
		return nil
	}

	metrics.ImageDownloads.WithLabelValues(kind, "downloaded").Inc()
	return &dest
}

func (c *ImageCache) download(ctx context.Context, url, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http error: %s", resp.Status)
	}

	var n int64
	err = writeFileAtomic(dest, func(f *os.File) error {
		n, err = io.Copy(f, resp.Body)
		return err
	})
	if err != nil {
		return err
	}

	logging.Info("saved image", "path", dest, "bytes", n)
	return nil
}
