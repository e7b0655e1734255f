package youtube

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
)

func quietLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/12345", "", false},
		{"https://youtube.com/watch?v=short", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractVideoID(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractVideoID(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFetchVideoInfo(t *testing.T) {
	f := NewFetcher(quietLog(), WithDelay(0))
	v, err := f.FetchVideoInfo(context.Background(), "https://youtu.be/abcdefghijk")
	if err != nil {
		t.Fatalf("FetchVideoInfo: %v", err)
	}
	if v.Title == "" || v.Duration != "8:45" || v.PublishedAt != "2024-01-15" {
		t.Errorf("unexpected video %+v", v)
	}
	if v.ThumbnailURL != ThumbnailFor(v.ID) {
		t.Errorf("thumbnail url = %q", v.ThumbnailURL)
	}

	if _, err := f.FetchVideoInfo(context.Background(), "not a link"); !errors.Is(err, domain.ErrInvalidField) {
		t.Errorf("bad link: %v", err)
	}
}

func TestFetchVideoInfoHonorsContext(t *testing.T) {
	f := NewFetcher(quietLog(), WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.FetchVideoInfo(ctx, "dQw4w9WgXcQ"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r>>8 > 240 && g>>8 > 240 && b>>8 > 240
}

func TestThumbnailLetterboxesWideImage(t *testing.T) {
	body := pngBytes(t, 160, 90, color.RGBA{R: 200, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	th := NewThumbnails(quietLog(), WithSize(100))
	out := th.Download(context.Background(), srv.URL+"/thumb.png")
	if out == nil {
		t.Fatal("Download returned nil")
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("size = %v, want 100x100", img.Bounds())
	}
	if !isWhite(img.At(50, 2)) || !isWhite(img.At(50, 97)) {
		t.Error("top and bottom bands should be white")
	}
	if isWhite(img.At(50, 50)) {
		t.Error("centre should carry the image")
	}
}

func TestThumbnailFailuresReturnNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("definitely not an image"))
	}))
	defer srv.Close()

	th := NewThumbnails(quietLog())
	for _, path := range []string{"/missing", "/garbage"} {
		if out := th.Download(context.Background(), srv.URL+path); out != nil {
			t.Errorf("%s: expected nil, got %d bytes", path, len(out))
		}
	}
	if out := th.Download(context.Background(), "http://127.0.0.1:1/unreachable"); out != nil {
		t.Error("unreachable host should give nil")
	}
}

// hugePNGHeader is a PNG signature and IHDR chunk declaring a w×h RGBA
// canvas, with no pixel data after it.
func hugePNGHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8], ihdr[9] = 8, 6 // 8-bit RGBA

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecodeImageRejectsHugeCanvas(t *testing.T) {
	if _, _, err := DecodeImage(hugePNGHeader(60000, 60000)); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("DecodeImage = %v, want ErrImageTooLarge", err)
	}
	if _, _, err := DecodeImage(pngBytes(t, 16, 9, color.RGBA{B: 255, A: 255})); err != nil {
		t.Errorf("small image rejected: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(hugePNGHeader(60000, 60000))
	}))
	defer srv.Close()
	if out := NewThumbnails(quietLog()).Download(context.Background(), srv.URL); out != nil {
		t.Errorf("oversized thumbnail gave %d bytes", len(out))
	}
}

func TestLetterboxTallImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.Black)
		}
	}
	out := Letterbox(src, 40)
	if !isWhite(out.At(1, 20)) || !isWhite(out.At(38, 20)) {
		t.Error("side bands should be white")
	}
	if isWhite(out.At(20, 20)) {
		t.Error("centre should be black")
	}
}

func TestBuildMethodDefaults(t *testing.T) {
	m := BuildMethod(Input{Title: " Video V60 ", Amount: "lots", Weight: "", Temp: "9x"})
	if m.Title != "Video V60" || m.Amount != 300 || m.Weight != 20 || m.Temp != 92 || m.Grind != "Medium" {
		t.Errorf("defaults not applied: %+v", m)
	}
	m = BuildMethod(Input{Amount: "250", Weight: "16", Temp: "90", Grind: "Fine"})
	if m.Amount != 250 || m.Weight != 16 || m.Temp != 90 || m.Grind != "Fine" {
		t.Errorf("parsed fields lost: %+v", m)
	}
}

type fakeAdder struct{ added []domain.BrewMethod }

func (f *fakeAdder) Add(_ context.Context, m domain.BrewMethod) (domain.BrewMethod, error) {
	m.ID = int64(len(f.added) + 1)
	f.added = append(f.added, m)
	return m, nil
}

type failingDrafter struct{}

func (failingDrafter) DraftSteps(context.Context, Video) ([]domain.BrewStep, error) {
	return nil, errors.New("model offline")
}

func TestCreatorFallsBackToDefaultSteps(t *testing.T) {
	body := pngBytes(t, 20, 20, color.Black)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	adder := &fakeAdder{}
	c := NewCreator(NewFetcher(quietLog(), WithDelay(0)), NewThumbnails(quietLog(), WithSize(32)), adder, quietLog(),
		WithDrafter(failingDrafter{}))

	ctx := context.Background()
	v, err := c.Preview(ctx, "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	v.ThumbnailURL = srv.URL

	m, err := c.Create(ctx, v, Input{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Title != v.Title {
		t.Errorf("title = %q, want video title", m.Title)
	}
	if len(m.Steps) != 3 || m.TotalWeight() != 300 {
		t.Errorf("steps = %d (%dg), want default three pours", len(m.Steps), m.TotalWeight())
	}
	if len(m.IconData) == 0 {
		t.Error("icon missing")
	}
}
