package download

import (
	"errors"
	"fmt"
)

// ErrRangeUnsupported marks a server that cannot serve byte ranges. It is
// advisory: the engine falls back to a single-stream fetch instead of failing.
var ErrRangeUnsupported = errors.New("range requests are not supported")

// ValidationError reports a malformed URL or destination. Never retried.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// ProbeError wraps a failed capability probe. Probing is advisory, so callers
// fall back to a plain streaming fetch rather than aborting the download.
type ProbeError struct {
	URL string
	Err error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe failed for %s: %v", e.URL, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// SegmentError identifies the byte range a fetcher could not complete.
type SegmentError struct {
	ID    int
	Range Range
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d (bytes %d-%d): %v", e.ID, e.Range.Start, e.Range.End, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// IntegrityError reports a final size mismatch after all segments completed.
// The temporary artifact is retained for diagnostics.
type IntegrityError struct {
	Path string
	Want int64
	Got  int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("size mismatch for %s: expected %d bytes, found %d", e.Path, e.Want, e.Got)
}

// CapacityError reports insufficient space on the destination disk. Fatal, not retried.
type CapacityError struct {
	Path string
	Need int64
	Free int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough space at %s: need %d bytes, %d free", e.Path, e.Need, e.Free)
}
