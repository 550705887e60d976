package download

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampSegments(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "below minimum", in: 1, want: 2},
		{name: "zero", in: 0, want: 2},
		{name: "negative", in: -4, want: 2},
		{name: "at minimum", in: 2, want: 2},
		{name: "in range", in: 8, want: 8},
		{name: "at maximum", in: 16, want: 16},
		{name: "above maximum", in: 100, want: 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampSegments(tt.in))
		})
	}
}

func TestPlanSegmentsSingleRange(t *testing.T) {
	tests := []struct {
		name    string
		probe   ProbeResult
		n       int
		minSize int64
	}{
		{name: "no range support", probe: ProbeResult{Size: 50 << 20, AcceptRanges: false}, n: 8, minSize: 1024},
		{name: "below threshold", probe: ProbeResult{Size: 1024, AcceptRanges: true}, n: 8, minSize: 10 << 20},
		{name: "requested count too low", probe: ProbeResult{Size: 50 << 20, AcceptRanges: true}, n: 1, minSize: 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanSegments(tt.probe, tt.n, tt.minSize)
			assert.False(t, plan.Segmented)
			require.Len(t, plan.Ranges, 1)
			assert.Equal(t, Range{Start: 0, End: tt.probe.Size - 1}, plan.Ranges[0])
			assert.Equal(t, tt.probe.Size, plan.Ranges[0].Length())
		})
	}
}

func TestPlanSegmentsUnknownSize(t *testing.T) {
	plan := PlanSegments(ProbeResult{Size: -1, AcceptRanges: true}, 8, 1024)
	assert.False(t, plan.Segmented)
	assert.Equal(t, int64(-1), plan.TotalSize)
	require.Len(t, plan.Ranges, 1)
}

// Any segmented plan must tile the file exactly: contiguous, non-overlapping
// ranges whose lengths sum to the total size.
func TestPlanSegmentsCoverage(t *testing.T) {
	sizes := []int64{10 << 20, 10<<20 + 1, 10<<20 + 7, 64 << 20, 1 << 30}
	for _, size := range sizes {
		for n := 2; n <= 16; n++ {
			t.Run(fmt.Sprintf("size=%d/n=%d", size, n), func(t *testing.T) {
				plan := PlanSegments(ProbeResult{Size: size, AcceptRanges: true}, n, 1024)
				require.True(t, plan.Segmented)
				require.NotEmpty(t, plan.Ranges)

				var sum int64
				assert.Equal(t, int64(0), plan.Ranges[0].Start)
				for i, rng := range plan.Ranges {
					require.GreaterOrEqual(t, rng.End, rng.Start)
					if i > 0 {
						require.Equal(t, plan.Ranges[i-1].End+1, rng.Start, "ranges must be contiguous")
					}
					sum += rng.Length()
				}
				assert.Equal(t, size-1, plan.Ranges[len(plan.Ranges)-1].End)
				assert.Equal(t, size, sum)
			})
		}
	}
}

func TestPlanSegmentsRemainderGoesToLast(t *testing.T) {
	size := int64(10<<20 + 5)
	plan := PlanSegments(ProbeResult{Size: size, AcceptRanges: true}, 4, 1024)
	require.True(t, plan.Segmented)
	require.Len(t, plan.Ranges, 4)
	base := plan.Ranges[0].Length()
	for _, rng := range plan.Ranges[:3] {
		assert.Equal(t, base, rng.Length())
	}
	assert.Equal(t, base+5, plan.Ranges[3].Length())
}

func TestPlanSegmentsDeterministic(t *testing.T) {
	probe := ProbeResult{Size: 123 << 20, AcceptRanges: true}
	first := PlanSegments(probe, 8, 1024)
	second := PlanSegments(probe, 8, 1024)
	assert.Equal(t, first, second)
}

func TestPlanSegmentsClampsRequestedCount(t *testing.T) {
	plan := PlanSegments(ProbeResult{Size: 64 << 20, AcceptRanges: true}, 100, 1024)
	require.True(t, plan.Segmented)
	assert.Len(t, plan.Ranges, 16)
}
