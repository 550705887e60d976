package download

import (
	"context"
	"sync"

	"github.com/avance-dl/avance/internal/utils"
)

// DownloadAll runs whole-file downloads concurrently under a bounded worker
// pool. Results preserve input order regardless of completion order, and one
// URL's failure never aborts its siblings. Each worker may itself run up to
// MaxSegments range fetches, so total in-flight connections are bounded by
// workers x segments; callers size the defaults with that product in mind.
func DownloadAll(ctx context.Context, requests []Request, workers int) BatchResult {
	if workers <= 0 {
		workers = utils.DefaultWorkers
	}
	if workers > len(requests) {
		workers = len(requests)
	}
	log := utils.GetLogger("batch")
	log.Debug().Int("totalFiles", len(requests)).Int("workers", workers).Msg("Starting batch download")

	results := make(BatchResult, len(requests))
	indexCh := make(chan int, len(requests))
	for i := range requests {
		indexCh <- i
	}
	close(indexCh)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range indexCh {
				if ctx.Err() != nil {
					results[i] = Outcome{URL: requests[i].URL, Err: ctx.Err()}
					continue
				}
				log.Debug().Int("worker", workerID).Str("url", requests[i].URL).Msg("Worker picked up download")
				results[i] = Download(ctx, requests[i])
			}
		}(w + 1)
	}
	wg.Wait()
	return results
}
