package download

import (
	"time"

	"github.com/avance-dl/avance/internal/utils"
)

// ProgressFunc receives the running byte count, the total size (-1 when the
// server did not report one) and the current speed estimate in bytes/second.
type ProgressFunc func(downloaded, total int64, speed float64)

// Request describes one whole-file download. It is never mutated by the engine.
type Request struct {
	URL      string
	DestDir  string
	Filename string // optional, inferred from server metadata or URL when empty

	Segments       int   // desired segment count, clamped to [MinSegments, MaxSegments]
	ChunkSize      int   // bytes per read, defaults to utils.DefaultChunkSize
	RetryAttempts  int   // per-segment retry budget
	MinSegmentSize int64 // files below this are never segmented
	KeepPartial    bool  // retain the temp artifact after a failed download

	Timeout      time.Duration
	ClientConfig utils.HTTPClientConfig
	ProgressFunc ProgressFunc
}

func (r Request) withDefaults() Request {
	if r.Segments == 0 {
		r.Segments = utils.DefaultSegments
	}
	if r.ChunkSize <= 0 {
		r.ChunkSize = utils.DefaultChunkSize
	}
	if r.RetryAttempts <= 0 {
		r.RetryAttempts = utils.DefaultRetryAttempts
	}
	if r.MinSegmentSize <= 0 {
		r.MinSegmentSize = utils.DefaultMinSegmentSize
	}
	if r.Timeout == 0 {
		r.Timeout = utils.DefaultTimeout
	}
	if r.ClientConfig.Timeout == 0 {
		r.ClientConfig.Timeout = r.Timeout
	}
	return r
}

// Outcome is the structured result of one whole-file download.
type Outcome struct {
	URL       string
	Path      string
	Bytes     int64
	Elapsed   time.Duration
	Segmented bool
	Err       error
}

func (o Outcome) Success() bool { return o.Err == nil }

// BatchResult holds one outcome per requested URL, in input order.
type BatchResult []Outcome

func (b BatchResult) Failed() int {
	n := 0
	for _, o := range b {
		if !o.Success() {
			n++
		}
	}
	return n
}
