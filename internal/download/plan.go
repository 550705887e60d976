package download

import "github.com/avance-dl/avance/internal/utils"

// Range is an inclusive byte interval [Start, End].
type Range struct {
	Start int64
	End   int64
}

func (r Range) Length() int64 { return r.End - r.Start + 1 }

// SegmentPlan is the ordered, contiguous set of ranges covering the file.
// When Segmented is false the plan holds exactly one range spanning the whole
// file, or a zero-length placeholder when the total size is unknown.
type SegmentPlan struct {
	TotalSize int64 // -1 when unknown
	Segmented bool
	Ranges    []Range
}

// ClampSegments bounds a requested segment count to the supported window.
func ClampSegments(n int) int {
	if n < utils.MinSegments {
		return utils.MinSegments
	}
	if n > utils.MaxSegments {
		return utils.MaxSegments
	}
	return n
}

// PlanSegments decides whether to segment and computes the range boundaries.
// Pure and deterministic: identical inputs always yield an identical plan.
// Segmentation requires range support, a known size at or above minSize, and
// a requested count of at least two; otherwise the plan is a single range.
func PlanSegments(probe ProbeResult, segments int, minSize int64) SegmentPlan {
	if minSize <= 0 {
		minSize = utils.DefaultMinSegmentSize
	}
	plan := SegmentPlan{TotalSize: probe.Size}
	if probe.Size < 0 {
		// Unknown length is streamed without ranges.
		plan.Ranges = []Range{{Start: 0, End: -1}}
		return plan
	}
	if !probe.AcceptRanges || segments < utils.MinSegments || probe.Size < minSize {
		plan.Ranges = []Range{{Start: 0, End: probe.Size - 1}}
		return plan
	}

	segments = ClampSegments(segments)
	segmentSize := probe.Size / int64(segments)
	plan.Segmented = true
	var currentPosition int64
	for i := range segments {
		startByte := currentPosition
		endByte := startByte + segmentSize - 1
		if i == segments-1 {
			// Last range absorbs the integer-division remainder.
			endByte = probe.Size - 1
		}
		if endByte >= startByte {
			plan.Ranges = append(plan.Ranges, Range{Start: startByte, End: endByte})
		}
		currentPosition = endByte + 1
	}
	return plan
}
