package scheduler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avance-dl/avance/internal/download"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayNamesDeduplicate(t *testing.T) {
	requests := []download.Request{
		{URL: "https://mirror-a.example.com/dist/tool.tar.gz"},
		{URL: "https://mirror-b.example.com/dist/tool.tar.gz"},
		{URL: "https://example.com/other.bin", Filename: "tool.tar.gz"},
		{URL: "https://example.com/unique.bin"},
	}
	names := displayNames(requests)
	assert.Equal(t, []string{"tool.tar.gz", "tool.tar.gz (2)", "tool.tar.gz (3)", "unique.bin"}, names)
}

// Two URLs with the same trailing filename run as distinct jobs: the shared
// display label never merges their progress or outcomes.
func TestRunKeepsSameNamedJobsSeparate(t *testing.T) {
	payload := []byte("scheduler end to end payload for two mirrors")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "data.bin", time.Unix(0, 0), bytes.NewReader(payload))
	}))
	defer server.Close()

	dirA := t.TempDir()
	dirB := t.TempDir()
	requests := []download.Request{
		{URL: server.URL + "/data.bin", DestDir: dirA, Timeout: 10 * time.Second},
		{URL: server.URL + "/data.bin", DestDir: dirB, Timeout: 10 * time.Second},
	}

	results := Run(context.Background(), requests, 2)
	require.Len(t, results, 2)
	assert.Zero(t, results.Failed())
	for i, dir := range []string{dirA, dirB} {
		require.NoError(t, results[i].Err)
		assert.Equal(t, int64(len(payload)), results[i].Bytes)
		info, err := os.Stat(filepath.Join(dir, "data.bin"))
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), info.Size())
	}
}
