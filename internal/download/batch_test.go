package download

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Results must come back in input order even when later entries finish first.
func TestDownloadAllPreservesInputOrder(t *testing.T) {
	payload := []byte(strings.Repeat("x", 16*1024))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The first entry is served slowly so the others complete before it.
		if strings.HasPrefix(r.URL.Path, "/slow") && r.Method == http.MethodGet {
			time.Sleep(300 * time.Millisecond)
		}
		http.ServeContent(w, r, "payload.bin", time.Time{}, bytes.NewReader(payload))
	}))
	defer server.Close()
	destDir := t.TempDir()

	requests := []Request{
		{URL: server.URL + "/slow-a.bin", DestDir: destDir, Segments: 1, Timeout: 10 * time.Second},
		{URL: server.URL + "/b.bin", DestDir: destDir, Segments: 1, Timeout: 10 * time.Second},
		{URL: server.URL + "/c.bin", DestDir: destDir, Segments: 1, Timeout: 10 * time.Second},
	}
	results := DownloadAll(context.Background(), requests, 3)
	require.Len(t, results, 3)
	for i, outcome := range results {
		assert.Equal(t, requests[i].URL, outcome.URL)
		assert.NoError(t, outcome.Err)
	}
	assert.Equal(t, 0, results.Failed())
}

// One bad URL fails its own slot; siblings are unaffected.
func TestDownloadAllIsolatesFailures(t *testing.T) {
	payload := []byte("hello world")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.ServeContent(w, r, "ok.bin", time.Time{}, bytes.NewReader(payload))
	}))
	defer server.Close()
	destDir := t.TempDir()

	requests := []Request{
		{URL: server.URL + "/ok-1.bin", DestDir: destDir, Segments: 1, Timeout: 10 * time.Second},
		{URL: server.URL + "/missing.bin", DestDir: destDir, Segments: 1, Timeout: 10 * time.Second},
		{URL: server.URL + "/ok-2.bin", DestDir: destDir, Segments: 1, Timeout: 10 * time.Second},
	}
	results := DownloadAll(context.Background(), requests, 2)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, results.Failed())

	for _, path := range []string{results[0].Path, results[2].Path} {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestDownloadAllBoundsWorkers(t *testing.T) {
	var mu sync.Mutex
	var active, peak int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()
			time.Sleep(50 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}
		http.ServeContent(w, r, "x.bin", time.Time{}, bytes.NewReader([]byte("data")))
	}))
	defer server.Close()
	destDir := t.TempDir()

	requests := make([]Request, 6)
	for i := range requests {
		requests[i] = Request{
			URL:     fmt.Sprintf("%s/file-%d.bin", server.URL, i),
			DestDir: destDir, Segments: 1, Timeout: 10 * time.Second,
		}
	}
	results := DownloadAll(context.Background(), requests, 2)
	assert.Equal(t, 0, results.Failed())
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2)
}

func TestDownloadAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	requests := []Request{
		{URL: "http://127.0.0.1:1/never.bin", DestDir: t.TempDir(), Segments: 1},
	}
	results := DownloadAll(ctx, requests, 1)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestDownloadAllEmpty(t *testing.T) {
	results := DownloadAll(context.Background(), nil, 4)
	assert.Empty(t, results)
	assert.Equal(t, 0, results.Failed())
}
