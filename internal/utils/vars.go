package utils

import (
	"time"
)

const (
	// DefaultChunkSize is the read-buffer size for streaming fetches.
	DefaultChunkSize = 256 * 1024
	// DefaultBufferSize is the socket buffer size for high thread mode.
	DefaultBufferSize = 1024 * 1024 * 8

	DefaultWorkers       = 5
	DefaultSegments      = 8
	MinSegments          = 2
	MaxSegments          = 16
	DefaultRetryAttempts = 3
	DefaultTimeout       = 30 * time.Second

	// DefaultMinSegmentSize is the smallest file worth splitting into ranges.
	DefaultMinSegmentSize int64 = 10 * 1024 * 1024
)

const ToolUserAgent = "Avance-CLI"
const TempDirName = ".avance-temp"
const LogFile = ".avance.log"

// Local-only User-Agent list
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:135.0) Gecko/20100101 Firefox/135.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.3 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36 Edg/132.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:135.0) Gecko/20100101 Firefox/135.0",
	"curl/7.88.1",
	"Wget/1.21.4",
}
