package download

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/avance-dl/avance/internal/utils"
)

// ValidateURL checks scheme and host before any transfer begins. It is purely
// syntactic; reachability is a separate, optional check.
func ValidateURL(raw string) error {
	if raw == "" {
		return &ValidationError{Input: raw, Reason: "empty URL"}
	}
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Input: raw, Reason: err.Error()}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Input: raw, Reason: "unsupported scheme: " + parsedURL.Scheme}
	}
	if parsedURL.Host == "" {
		return &ValidationError{Input: raw, Reason: "missing host"}
	}
	return nil
}

// CheckReachable issues a lightweight HEAD with a short timeout. A non-nil
// error is advisory; callers decide whether to proceed.
func CheckReachable(ctx context.Context, link string, timeout time.Duration) error {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	client := utils.NewAvanceHTTPClient(utils.HTTPClientConfig{Timeout: timeout})
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &ValidationError{Input: link, Reason: "server returned " + resp.Status}
	}
	return nil
}
