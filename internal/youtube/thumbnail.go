package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// ThumbnailOption configures the downloader.
type ThumbnailOption func(*Thumbnails)

// WithSize sets the side of the square output in pixels.
func WithSize(px int) ThumbnailOption {
	return func(t *Thumbnails) {
		if px > 0 {
			t.size = px
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) ThumbnailOption {
	return func(t *Thumbnails) {
		t.client = c
	}
}

const (
	// maxThumbnailBytes caps the download.
	maxThumbnailBytes = 8 << 20
	// maxImagePixels caps the canvas an image may declare before it is
	// decoded.
	maxImagePixels = 4096 * 4096
)

// ErrImageTooLarge is returned for images whose declared size exceeds
// maxImagePixels.
var ErrImageTooLarge = errors.New("image too large")

// Thumbnails downloads an image and turns it into a method icon.
type Thumbnails struct {
	client *http.Client
	size   int
	log    *logger.Logger
}

// NewThumbnails creates a downloader producing 300×300 icons by default.
func NewThumbnails(log *logger.Logger, opts ...ThumbnailOption) *Thumbnails {
	t := &Thumbnails{
		client: &http.Client{Timeout: 15 * time.Second},
		size:   300,
		log:    log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Download fetches url and returns a letterboxed JPEG, or nil when
// anything goes wrong. Failures are only logged.
func (t *Thumbnails) Download(ctx context.Context, url string) []byte {
	data, err := t.fetch(ctx, url)
	if err != nil {
		t.log.Warn("thumbnail: %v", err)
		return nil
	}
	img, format, err := DecodeImage(data)
	if err != nil {
		t.log.Warn("thumbnail: decoding %s: %v", url, err)
		return nil
	}
	t.log.Debug("thumbnail: %s %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())

	out, err := EncodeIcon(Letterbox(img, t.size))
	if err != nil {
		t.log.Warn("thumbnail: %v", err)
		return nil
	}
	return out
}

func (t *Thumbnails) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}

// DecodeImage reads the image header first and refuses canvases larger
// than maxImagePixels, then decodes the whole image.
func DecodeImage(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrImageTooLarge)
	}
	return image.Decode(bytes.NewReader(data))
}

// Letterbox scales img to fit a size×size square, keeping its aspect
// ratio, centred on white.
func Letterbox(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return dst
	}
	sw, sh := size, size
	if w > h {
		sh = max(1, size*h/w)
	} else {
		sw = max(1, size*w/h)
	}
	x0, y0 := (size-sw)/2, (size-sh)/2
	draw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+sw, y0+sh), img, b, draw.Over, nil)
	return dst
}

// EncodeIcon encodes img as the JPEG stored in a method's iconData.
func EncodeIcon(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("encoding icon: %w", err)
	}
	return buf.Bytes(), nil
}
