package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avance-dl/avance/internal/utils"
)

// Download runs the whole pipeline for one file: validate, probe, plan,
// fetch (single stream or concurrent ranges) and finalize. It always returns
// a structured Outcome; ordinary network failure never panics.
func Download(ctx context.Context, req Request) Outcome {
	req = req.withDefaults()
	log := utils.GetLogger("download")
	startTime := time.Now()
	outcome := Outcome{URL: req.URL}

	if err := ValidateURL(req.URL); err != nil {
		outcome.Err = err
		return outcome
	}
	if req.DestDir == "" {
		req.DestDir = "."
	}
	if err := os.MkdirAll(req.DestDir, 0755); err != nil {
		outcome.Err = &ValidationError{Input: req.DestDir, Reason: err.Error()}
		return outcome
	}

	clientConfig := req.ClientConfig
	clientConfig.HighThreadMode = req.Segments > 5
	client := utils.NewAvanceHTTPClient(clientConfig)

	probe, err := Probe(ctx, client, req.URL)
	if err != nil {
		// Probing is advisory: fall back to a plain streaming fetch.
		log.Debug().Err(err).Str("url", req.URL).Msg("Probe failed, using single-stream download")
		probe = ProbeResult{Size: -1, FinalURL: req.URL}
	}
	link := probe.FinalURL

	filename := req.Filename
	if filename == "" {
		filename = probe.Filename
	}
	if filename == "" {
		filename = utils.FilenameFromURL(req.URL)
	}
	destPath := filepath.Join(req.DestDir, filename)
	if _, err := os.Stat(destPath); err == nil {
		destPath = utils.RenewOutputPath(destPath)
	}

	plan := PlanSegments(probe, req.Segments, req.MinSegmentSize)
	outcome.Segmented = plan.Segmented
	if err := checkCapacity(req.DestDir, plan.TotalSize); err != nil {
		outcome.Err = err
		return outcome
	}

	preallocSize := int64(0)
	if plan.Segmented {
		preallocSize = plan.TotalSize
	}
	outFile, tempPath, err := prepareTempFile(destPath, preallocSize)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	tracker := NewTracker(plan.TotalSize, req.ProgressFunc)
	tracker.Start()

	var fetchErr error
	if plan.Segmented {
		log.Debug().Str("output", destPath).Int("segments", len(plan.Ranges)).Int64("size", plan.TotalSize).Msg("Starting segmented download")
		coord := newCoordinator(client, link, plan, outFile, req.ChunkSize, req.RetryAttempts, tracker)
		fetchErr = coord.Run(ctx)
		if fetchErr == nil {
			fetchErr = outFile.Sync()
		}
	} else {
		log.Debug().Str("output", destPath).Msg("Starting single-stream download")
		_, fetchErr = streamWithRetry(ctx, client, link, outFile, req, tracker)
	}
	outFile.Close()
	tracker.Stop()

	if fetchErr == nil {
		fetchErr = finalizeFile(tempPath, destPath, plan.TotalSize)
	}
	outcome.Elapsed = time.Since(startTime)
	if fetchErr != nil {
		outcome.Err = fetchErr
		// Integrity failures keep the artifact for diagnostics; otherwise the
		// temp file is removed unless the caller asked to retain partials.
		var integrityErr *IntegrityError
		if !req.KeepPartial && !errors.As(fetchErr, &integrityErr) {
			os.Remove(tempPath)
			utils.CleanFunction(destPath)
		}
		log.Debug().Err(fetchErr).Str("url", req.URL).Msg("Download failed")
		return outcome
	}

	utils.CleanFunction(destPath)
	if fileInfo, err := os.Stat(destPath); err == nil {
		outcome.Bytes = fileInfo.Size()
	} else {
		outcome.Bytes = tracker.Downloaded()
	}
	outcome.Path = destPath
	log.Debug().Str("output", destPath).Int64("bytes", outcome.Bytes).Dur("elapsed", outcome.Elapsed).Msg("Download completed")
	return outcome
}

// streamWithRetry drives the non-segmented path with the same retry budget
// the coordinator gives each segment, resuming from the current on-disk
// offset when the server honors it.
func streamWithRetry(ctx context.Context, client *utils.AvanceHTTPClient, link string, outFile *os.File, req Request, tracker *Tracker) (int64, error) {
	log := utils.GetLogger("stream")
	var total int64
	var lastErr error
	maxAttempts := req.RetryAttempts + 1
	for attempt := range maxAttempts {
		if attempt > 0 {
			log.Debug().Int("attempt", attempt+1).Int("maxAttempts", maxAttempts).Int64("resumeOffset", total).Msg("Retrying download")
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond): // Backoff
			case <-ctx.Done():
				return total, ctx.Err()
			}
		}
		written, err := fetchStream(ctx, client, link, outFile, total, req.ChunkSize, tracker.Add)
		total = written
		if err == nil {
			return total, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
	}
	return total, fmt.Errorf("download failed after %d attempts: %w", maxAttempts, lastErr)
}
