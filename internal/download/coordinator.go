package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/avance-dl/avance/internal/utils"
)

// SegmentStatus tracks one planned range through its lifecycle.
type SegmentStatus int

const (
	SegmentPending SegmentStatus = iota
	SegmentInProgress
	SegmentCompleted
	SegmentFailed
)

func (s SegmentStatus) String() string {
	switch s {
	case SegmentPending:
		return "pending"
	case SegmentInProgress:
		return "in-progress"
	case SegmentCompleted:
		return "completed"
	case SegmentFailed:
		return "failed"
	}
	return "unknown"
}

// SegmentState is owned exclusively by the coordinator; fetchers report into
// it through the coordinator but never hold a reference themselves.
type SegmentState struct {
	ID         int
	Range      Range
	Status     SegmentStatus
	Downloaded int64
	Attempts   int
	LastErr    error
}

// coordinator runs one range fetcher per planned segment, all concurrent
// (segment counts are small, 2-16, so no extra pooling), aggregates progress
// through the tracker and isolates failure per segment: a failed range is
// re-fetched from its own start within the retry budget while siblings keep
// going. Only budget exhaustion cancels the rest of the download.
type coordinator struct {
	client    *utils.AvanceHTTPClient
	link      string
	dst       *os.File
	chunkSize int
	retries   int
	tracker   *Tracker

	mu     sync.Mutex
	states []SegmentState
}

func newCoordinator(client *utils.AvanceHTTPClient, link string, plan SegmentPlan, dst *os.File, chunkSize, retries int, tracker *Tracker) *coordinator {
	states := make([]SegmentState, len(plan.Ranges))
	for i, rng := range plan.Ranges {
		states[i] = SegmentState{ID: i, Range: rng, Status: SegmentPending}
	}
	return &coordinator{
		client:    client,
		link:      link,
		dst:       dst,
		chunkSize: chunkSize,
		retries:   retries,
		tracker:   tracker,
		states:    states,
	}
}

// Run blocks until every segment completed or one exhausted its retry budget.
func (c *coordinator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := range c.states {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.runSegment(ctx, cancel, id)
		}(i)
	}
	wg.Wait()

	var failed []*SegmentError
	c.mu.Lock()
	for i := range c.states {
		if c.states[i].Status != SegmentCompleted {
			failed = append(failed, &SegmentError{ID: c.states[i].ID, Range: c.states[i].Range, Err: c.states[i].LastErr})
		}
	}
	c.mu.Unlock()
	if len(failed) > 0 {
		// Siblings torn down by the cancel carry a context error; surface the
		// segment that actually exhausted its budget as the cause.
		cause := failed[0]
		for _, f := range failed {
			if f.Err != nil && !errors.Is(f.Err, context.Canceled) {
				cause = f
				break
			}
		}
		return fmt.Errorf("download incomplete, %d of %d segments failed: %w", len(failed), len(c.states), cause)
	}
	return nil
}

func (c *coordinator) runSegment(ctx context.Context, cancel context.CancelFunc, id int) {
	log := utils.GetLogger("segment").With().Int("segmentId", id).Logger()
	c.setStatus(id, SegmentInProgress)
	maxAttempts := c.retries + 1
	for attempt := range maxAttempts {
		if ctx.Err() != nil {
			c.failSegment(id, ctx.Err())
			return
		}
		if attempt > 0 {
			log.Debug().Int("attempt", attempt+1).Int("maxAttempts", maxAttempts).Msg("Retrying segment")
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond): // Backoff
			case <-ctx.Done():
				c.failSegment(id, ctx.Err())
				return
			}
			// Exact resume by range: the failed interval is re-fetched from
			// its own start, so roll its bytes back out of the aggregate.
			c.resetSegment(id)
		}
		c.bumpAttempts(id)
		err := fetchRange(ctx, c.client, c.link, c.states[id].Range, c.dst, c.chunkSize, func(n int64) {
			c.addBytes(id, n)
		})
		if err == nil {
			c.setStatus(id, SegmentCompleted)
			return
		}
		c.recordError(id, err)
		log.Debug().Err(err).Int("attempt", attempt+1).Msg("Segment fetch failed")
	}
	log.Debug().Int("maxAttempts", maxAttempts).Msg("Segment failed permanently, cancelling siblings")
	c.failSegment(id, nil)
	cancel()
}

// States returns a snapshot of the per-segment table.
func (c *coordinator) States() []SegmentState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SegmentState, len(c.states))
	copy(out, c.states)
	return out
}

func (c *coordinator) setStatus(id int, status SegmentStatus) {
	c.mu.Lock()
	c.states[id].Status = status
	c.mu.Unlock()
}

func (c *coordinator) bumpAttempts(id int) {
	c.mu.Lock()
	c.states[id].Attempts++
	c.mu.Unlock()
}

func (c *coordinator) addBytes(id int, n int64) {
	c.mu.Lock()
	c.states[id].Downloaded += n
	c.mu.Unlock()
	c.tracker.Add(n)
}

func (c *coordinator) resetSegment(id int) {
	c.mu.Lock()
	downloaded := c.states[id].Downloaded
	c.states[id].Downloaded = 0
	c.mu.Unlock()
	if downloaded > 0 {
		c.tracker.Add(-downloaded)
	}
}

func (c *coordinator) recordError(id int, err error) {
	c.mu.Lock()
	c.states[id].LastErr = err
	c.mu.Unlock()
}

func (c *coordinator) failSegment(id int, err error) {
	c.mu.Lock()
	c.states[id].Status = SegmentFailed
	if err != nil && c.states[id].LastErr == nil {
		c.states[id].LastErr = err
	}
	c.mu.Unlock()
}
