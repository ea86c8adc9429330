package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("User-Agent") != UserAgent() {
				http.Error(w, "bad agent", http.StatusBadRequest)
				return
			}
			if r.Header.Get("X-Test") != "yes" {
				http.Error(w, "missing header", http.StatusBadRequest)
				return
			}
			w.Write([]byte("payload"))
		case "/big":
			w.Write([]byte(strings.Repeat("x", 100)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.URL+"/ok", FetchOptions{Headers: map[string]string{"X-Test": "yes"}})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Fetch() = %q, want payload", data)
	}

	if _, err := Fetch(context.Background(), srv.URL+"/missing", FetchOptions{}); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Fetch() on 404 error = %v", err)
	}

	if _, err := Fetch(context.Background(), srv.URL+"/big", FetchOptions{MaxBytes: 10}); err == nil {
		t.Error("Fetch() should reject bodies over MaxBytes")
	}
	if _, err := Fetch(context.Background(), srv.URL+"/big", FetchOptions{MaxBytes: 100}); err != nil {
		t.Errorf("Fetch() at exactly MaxBytes error = %v", err)
	}
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Fetch(ctx, "http://127.0.0.1:1/", FetchOptions{}); err == nil {
		t.Error("Fetch() with cancelled context should fail")
	}
}
