// Package imageproxy implements the image optimization pipeline: fetch a
// remote image, optionally shrink it, re-encode it as WebP.
//
// The proxy exists because card artwork comes from the upstream catalog as
// large PNG/JPEG scans, and the mobile client renders them as thumbnails.
// Fetching a 2MB scan to display at 200px wastes the user's data plan; this
// service turns it into a few-kB WebP once, and the 1-year immutable cache
// header lets every CDN and browser between us and the user keep it.
//
// The whole pipeline is a single request-scoped transform — no queueing, no
// persistence, no state between requests.
package imageproxy

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"

	"github.com/sakif/card-trader/internal/apperror"
)

const (
	// fetchTimeout bounds the upstream download. The catalog normally
	// answers in well under a second; anything past 5s is effectively down.
	fetchTimeout = 5 * time.Second

	// quality is the lossy WebP quality factor. 85 is visually
	// indistinguishable from the source for card scans at thumbnail sizes.
	quality = 85

	// ContentType and CacheControl are what the handler sends with every
	// successful response. The cache key is (url, width) and upstream
	// images at a given URL never change content, so immutable is safe.
	ContentType  = "image/webp"
	CacheControl = "public, max-age=31536000, immutable"
)

// Service fetches and optimizes images. Construct it once at startup and
// share it — the underlying resty client reuses connections.
type Service struct {
	client *resty.Client
	logger *slog.Logger
}

// New creates a Service with the fixed 5s fetch timeout.
func New(logger *slog.Logger) *Service {
	client := resty.New().
		SetTimeout(fetchTimeout)

	return &Service{
		client: client,
		logger: logger,
	}
}

// Optimize downloads the image at url, fits it within width pixels when
// width > 0, and returns it re-encoded as lossy WebP.
//
// width <= 0 means "keep the original dimensions". The resize never
// enlarges: an image narrower than the requested width comes back at its
// original size, because upscaling only adds bytes and blur.
//
// Every failure — network, non-2xx status, undecodable image — returns an
// error wrapping apperror.ErrUpstream whose message is safe to surface to
// the client for diagnostics. No partial image is ever returned.
func (s *Service) Optimize(ctx context.Context, url string, width int) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, apperror.Upstream("fetching image", err)
	}
	if !resp.IsSuccess() {
		return nil, apperror.Upstream("fetching image",
			fmt.Errorf("upstream returned status %d", resp.StatusCode()))
	}

	img, err := imaging.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, apperror.Upstream("decoding image", err)
	}

	original := img.Bounds()

	// Fit-inside resize: bound the width, keep the aspect ratio (height 0
	// tells imaging to derive it), never upscale.
	if width > 0 && original.Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, apperror.Upstream("encoding image", err)
	}

	s.logger.Debug("image optimized",
		slog.String("url", url),
		slog.Int("requestedWidth", width),
		slog.Int("originalWidth", original.Dx()),
		slog.Int("finalWidth", img.Bounds().Dx()),
		slog.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}
