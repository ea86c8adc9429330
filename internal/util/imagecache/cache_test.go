package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{url: "https://example.com/wall.png", wantExt: ".png"},
		{url: "https://example.com/wall.JPG?size=large", wantExt: ".jpg"},
		{url: "https://example.com/image", wantExt: ".img"},
		{url: "https://example.com/file.verylongext", wantExt: ".img"},
	}

	for _, tt := range tests {
		got := generateFilename(tt.url)
		if !strings.HasSuffix(got, tt.wantExt) {
			t.Errorf("generateFilename(%q) = %s, want suffix %s", tt.url, got, tt.wantExt)
		}
		if got != generateFilename(tt.url) {
			t.Errorf("generateFilename(%q) is not deterministic", tt.url)
		}
	}
}

func TestDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	opts := CacheOptions{CacheDir: dir}

	path, err := DownloadAndCache(context.Background(), srv.URL+"/a.png", opts)
	if err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("cached path %s not in %s", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "image-bytes" {
		t.Fatalf("cached file = %q, %v", data, err)
	}

	if _, err := DownloadAndCache(context.Background(), srv.URL+"/a.png", opts); err != nil {
		t.Fatalf("second DownloadAndCache() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}

	opts.AllowOverwrite = true
	if _, err := DownloadAndCache(context.Background(), srv.URL+"/a.png", opts); err != nil {
		t.Fatalf("overwrite DownloadAndCache() error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2 after overwrite", hits.Load())
	}

	if _, err := DownloadAndCache(context.Background(), "ftp://example.com/a.png", opts); err == nil {
		t.Error("non-HTTP URL should be rejected")
	}
}
