// Package scheduler wires the download engine to the terminal display for
// CLI runs: it registers each request with the output manager, forwards
// progress callbacks, and reports per-URL outcomes.
package scheduler

import (
	"context"
	"fmt"

	"github.com/avance-dl/avance/internal/download"
	"github.com/avance-dl/avance/internal/output"
	"github.com/avance-dl/avance/internal/utils"
	"github.com/google/uuid"
)

// Run executes the requests under the batch coordinator with live display.
// The returned results preserve input order.
func Run(ctx context.Context, requests []download.Request, workers int) download.BatchResult {
	log := utils.GetLogger("scheduler")
	outputMgr := output.NewManager()
	outputMgr.StartDisplay()

	names := displayNames(requests)
	jobIDs := make([]string, len(requests))
	wired := make([]download.Request, len(requests))
	for i, req := range requests {
		jobID := uuid.NewString()
		jobIDs[i] = jobID
		outputMgr.Register(jobID, names[i], -1)
		log.Debug().Str("jobId", jobID).Str("url", req.URL).Str("name", names[i]).Msg("Queued download")
		req.ProgressFunc = func(downloaded, total int64, speed float64) {
			outputMgr.Update(jobID, downloaded, total, speed)
		}
		wired[i] = req
	}

	results := download.DownloadAll(ctx, wired, workers)
	for i, result := range results {
		if result.Success() {
			outputMgr.Complete(jobIDs[i], result.Bytes)
		} else {
			outputMgr.ReportError(jobIDs[i], result.Err)
		}
	}
	outputMgr.Stop()
	outputMgr.ShowSummary()
	return results
}

// displayNames derives unique display labels, since distinct URLs can share a
// trailing path element.
func displayNames(requests []download.Request) []string {
	names := make([]string, len(requests))
	seen := make(map[string]int)
	for i, req := range requests {
		name := req.Filename
		if name == "" {
			name = utils.FilenameFromURL(req.URL)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		names[i] = name
	}
	return names
}
