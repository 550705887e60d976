package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avance-dl/avance/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeClient() *utils.AvanceHTTPClient {
	return utils.NewAvanceHTTPClient(utils.HTTPClientConfig{})
}

func TestProbeMetadata(t *testing.T) {
	tests := []struct {
		name         string
		headers      map[string]string
		wantSize     int64
		wantRanges   bool
		wantFilename string
	}{
		{
			name: "full metadata",
			headers: map[string]string{
				"Content-Length":      "4096",
				"Accept-Ranges":       "bytes",
				"Content-Disposition": `attachment; filename="report.pdf"`,
			},
			wantSize:     4096,
			wantRanges:   true,
			wantFilename: "report.pdf",
		},
		{
			name:       "no accept-ranges",
			headers:    map[string]string{"Content-Length": "100"},
			wantSize:   100,
			wantRanges: false,
		},
		{
			name:       "accept-ranges none",
			headers:    map[string]string{"Content-Length": "100", "Accept-Ranges": "none"},
			wantSize:   100,
			wantRanges: false,
		},
		{
			name:     "zero content-length is a known size",
			headers:  map[string]string{"Content-Length": "0"},
			wantSize: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			result, err := Probe(context.Background(), probeClient(), server.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, result.Size)
			assert.Equal(t, tt.wantRanges, result.AcceptRanges)
			assert.Equal(t, tt.wantFilename, result.Filename)
		})
	}
}

// The stdlib server always computes a Content-Length for plain handlers, so a
// truly length-less response needs a hijacked connection.
func TestProbeMissingContentLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, buf, err := w.(http.Hijacker).Hijack()
		require.NoError(t, err)
		defer conn.Close()
		buf.WriteString("HTTP/1.1 200 OK\r\nAccept-Ranges: bytes\r\nConnection: close\r\n\r\n")
		buf.Flush()
	}))
	defer server.Close()

	result, err := Probe(context.Background(), probeClient(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), result.Size, "omitted length stays unknown")
	assert.True(t, result.AcceptRanges)
}

func TestProbeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Probe(context.Background(), probeClient(), server.URL)
	require.Error(t, err)
	var perr *ProbeError
	assert.ErrorAs(t, err, &perr)
}

func TestProbeUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := Probe(context.Background(), probeClient(), server.URL)
	require.Error(t, err)
	var perr *ProbeError
	assert.ErrorAs(t, err, &perr)
}

func TestProbeFollowsRedirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "256")
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusOK)
	}))
	defer final.Close()
	redirect := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/real.bin", http.StatusFound)
	}))
	defer redirect.Close()

	result, err := Probe(context.Background(), probeClient(), redirect.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(256), result.Size)
	assert.Equal(t, final.URL+"/real.bin", result.FinalURL)
}

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `attachment; filename="data.tar.gz"`, want: "data.tar.gz"},
		{name: "unquoted", input: `attachment; filename=data.bin`, want: "data.bin"},
		{name: "utf-8 extended", input: `attachment; filename*=UTF-8''na%C3%AFve%20file.txt`, want: "na_ve file.txt"},
		{name: "path neutralized by sanitizer", input: `attachment; filename="../../etc/passwd"`, want: "_.._etc_passwd"},
		{name: "empty", input: "", want: ""},
		{name: "malformed", input: `;;;`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filenameFromDisposition(tt.input))
		})
	}
}
