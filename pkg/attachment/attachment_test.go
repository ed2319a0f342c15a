package attachment

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// 1x1 PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestReadFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "look.png")
	if err := os.WriteFile(path, pngPixel, 0o600); err != nil {
		t.Fatal(err)
	}

	url, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %.40s", url)
	}

	mime, data, err := Decode(url)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if mime != "image/png" || string(data) != string(pngPixel) {
		t.Fatalf("round trip mismatch: %s, %d bytes", mime, len(data))
	}
}

func TestEncodeRejectsNonImages(t *testing.T) {
	if _, err := Encode([]byte("just some text")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if _, err := Encode(make([]byte, MaxSize+1)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestDecodeRejectsPlainURLs(t *testing.T) {
	if _, _, err := Decode("https://example.com/a.png"); err == nil {
		t.Fatalf("expected error")
	}
}
