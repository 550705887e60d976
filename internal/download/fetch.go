package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/avance-dl/avance/internal/utils"
)

// fetchRange streams one byte range into dst at its absolute offsets. On
// success exactly seg.Length() bytes were written inside [seg.Start, seg.End];
// the fetcher never writes outside its assigned range. report receives
// just-transferred deltas, not cumulative counts. Cancellation is checked
// between chunks.
func fetchRange(ctx context.Context, client *utils.AvanceHTTPClient, link string, seg Range, dst io.WriterAt, chunkSize int, report func(int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", seg.Start, seg.End))
	req.Header.Set("Connection", "keep-alive")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		// Server ignored the Range header despite advertising support.
		return ErrRangeUnsupported
	}
	if resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Range") == "" {
		return errors.New("missing Content-Range header")
	}
	// The server may have changed state between probe and fetch; a length
	// disagreement fails the segment rather than risking a corrupt file.
	if resp.ContentLength >= 0 && resp.ContentLength != seg.Length() {
		return fmt.Errorf("content length mismatch: expected %d bytes for range, server sent %d", seg.Length(), resp.ContentLength)
	}

	buffer := make([]byte, chunkSize)
	var written int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if written+int64(bytesRead) > seg.Length() {
				return fmt.Errorf("server sent more than the %d assigned bytes", seg.Length())
			}
			if _, writeErr := dst.WriteAt(buffer[:bytesRead], seg.Start+written); writeErr != nil {
				return writeErr
			}
			written += int64(bytesRead)
			if report != nil {
				report(int64(bytesRead))
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return readErr
		}
	}
	if written != seg.Length() {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", seg.Length(), written)
	}
	return nil
}

// fetchStream downloads the whole body sequentially into outFile, resuming
// from resumeOffset when the server honors a Range request for it. Returns
// the total byte count on disk after this attempt.
func fetchStream(ctx context.Context, client *utils.AvanceHTTPClient, link string, outFile *os.File, resumeOffset int64, chunkSize int, report func(int64)) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return resumeOffset, err
	}
	if resumeOffset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", resumeOffset))
	}
	req.Header.Set("Connection", "keep-alive")
	resp, err := client.Do(req)
	if err != nil {
		return resumeOffset, err
	}
	defer resp.Body.Close()

	total := resumeOffset
	switch {
	case resumeOffset > 0 && resp.StatusCode == http.StatusPartialContent:
		if _, err := outFile.Seek(resumeOffset, io.SeekStart); err != nil {
			return resumeOffset, err
		}
	case resp.StatusCode == http.StatusOK:
		// Server ignored (or was not sent) the resume offset; restart. The
		// already-counted bytes are rolled back before anything else so the
		// aggregate stays truthful even if the truncate fails.
		if report != nil && resumeOffset > 0 {
			report(-resumeOffset)
		}
		total = 0
		if err := outFile.Truncate(0); err != nil {
			return total, err
		}
		if _, err := outFile.Seek(0, io.SeekStart); err != nil {
			return total, err
		}
	default:
		// Bytes already on disk stay counted; the next attempt resumes there.
		return resumeOffset, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	buffer := make([]byte, chunkSize)
	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if _, writeErr := outFile.Write(buffer[:bytesRead]); writeErr != nil {
				return total, writeErr
			}
			total += int64(bytesRead)
			if report != nil {
				report(int64(bytesRead))
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return total, readErr
		}
	}
	if err := outFile.Sync(); err != nil {
		return total, err
	}
	return total, nil
}
