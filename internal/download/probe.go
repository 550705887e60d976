package download

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/avance-dl/avance/internal/utils"
)

// ProbeResult captures what one HEAD round trip revealed about the target.
// It is computed once per download and consumed by the segment planner.
type ProbeResult struct {
	Size         int64 // -1 when the server omitted Content-Length
	AcceptRanges bool
	Filename     string // from Content-Disposition, sanitized; empty if absent
	FinalURL     string // after redirects
}

// Probe issues a metadata-only request against link. A returned error means
// the probe itself failed; callers fall back to a plain streaming fetch since
// probing is advisory, not a hard prerequisite.
func Probe(ctx context.Context, client *utils.AvanceHTTPClient, link string) (ProbeResult, error) {
	result := ProbeResult{Size: -1, FinalURL: link}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return result, &ProbeError{URL: link, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return result, &ProbeError{URL: link, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return result, &ProbeError{URL: link, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}
	if resp.Request != nil && resp.Request.URL != nil {
		result.FinalURL = resp.Request.URL.String()
	}

	result.Filename = filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	result.AcceptRanges = resp.Header.Get("Accept-Ranges") == "bytes"

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		size, err := strconv.ParseInt(contentLength, 10, 64)
		if err == nil && size >= 0 {
			// Zero is a known size: empty files still get size verification.
			result.Size = size
		}
	}
	return result, nil
}

func filenameFromDisposition(contentDisposition string) string {
	if contentDisposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return ""
	}
	if fn, ok := params["filename"]; ok && fn != "" {
		return utils.SanitizeFilename(fn)
	}
	if fn, ok := params["filename*"]; ok && fn != "" {
		if strings.HasPrefix(fn, "UTF-8''") {
			unescaped, _ := url.PathUnescape(strings.TrimPrefix(fn, "UTF-8''"))
			return utils.SanitizeFilename(unescaped)
		}
	}
	return ""
}
