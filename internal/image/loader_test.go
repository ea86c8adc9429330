package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/jmylchreest/hueprobe/internal/util/imagecache"
)

// encodePNG returns a w×h PNG filled with c.
func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestFileLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "red.png", encodePNG(t, 4, 3, color.NRGBA{R: 255, A: 255}))

	img, err := NewFileLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 4x3", b)
	}
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	junk := writeFile(t, dir, "junk.png", []byte("not an image"))

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "missing file", path: filepath.Join(dir, "missing.png")},
		{name: "directory", path: dir},
		{name: "undecodable", path: junk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFileLoader().Load(context.Background(), tt.path); err == nil {
				t.Error("Load() expected error")
			}
		})
	}

	if _, err := NewFileLoader().Load(context.Background(), junk); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("undecodable file error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ok.png", encodePNG(t, 1, 1, color.Black))
	bad := writeFile(t, dir, "bad.png", []byte("nope"))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid png", path: good},
		{name: "directory", path: dir},
		{name: "url", path: "https://example.com/a.png"},
		{name: "empty", path: "", wantErr: true},
		{name: "missing", path: filepath.Join(dir, "x.png"), wantErr: true},
		{name: "invalid data", path: bad, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImagePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScanAndResolve(t *testing.T) {
	dir := t.TempDir()
	data := encodePNG(t, 1, 1, color.White)
	writeFile(t, dir, "b.png", data)
	writeFile(t, dir, "a.JPG", []byte("extension only"))
	writeFile(t, dir, "notes.txt", []byte("skip"))
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDirectoryForImages(dir)
	if err != nil {
		t.Fatalf("ScanDirectoryForImages() error = %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.JPG" || filepath.Base(files[1]) != "b.png" {
		t.Errorf("ScanDirectoryForImages() = %v", files)
	}

	all, err := ResolveImagePaths(dir, true)
	if err != nil || len(all) != 2 {
		t.Errorf("ResolveImagePaths(all) = %v, %v", all, err)
	}

	one, err := ResolveImagePaths(dir, false)
	if err != nil || len(one) != 1 {
		t.Errorf("ResolveImagePaths(one) = %v, %v", one, err)
	}

	if _, err := ScanDirectoryForImages(t.TempDir()); err == nil {
		t.Error("empty directory should be an error")
	}
}

func TestSmartLoaderURL(t *testing.T) {
	data := encodePNG(t, 2, 2, color.NRGBA{B: 255, A: 255})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	img, err := NewSmartLoader().Load(context.Background(), srv.URL+"/blue.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	cacheDir := t.TempDir()
	loader := NewSmartLoader(WithCache(imagecache.CacheOptions{CacheDir: cacheDir}))
	for range 2 {
		if _, err := loader.Load(context.Background(), srv.URL+"/cached.png"); err != nil {
			t.Fatalf("cached Load() error = %v", err)
		}
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2 (second cached load should not fetch)", hits.Load())
	}
}

func TestFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))

	tests := []struct {
		name   string
		maxDim int
		wantW  int
		wantH  int
	}{
		{name: "disabled", maxDim: 0, wantW: 400, wantH: 100},
		{name: "already small", maxDim: 500, wantW: 400, wantH: 100},
		{name: "landscape", maxDim: 200, wantW: 200, wantH: 50},
		{name: "tiny", maxDim: 2, wantW: 2, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Fit(src, tt.maxDim).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Fit() = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}

	portrait := Fit(image.NewRGBA(image.Rect(0, 0, 30, 90)), 45).Bounds()
	if portrait.Dx() != 15 || portrait.Dy() != 45 {
		t.Errorf("portrait Fit() = %v", portrait)
	}
}
