package download

import (
	"sync"
	"sync/atomic"
	"time"
)

// Tracker aggregates byte deltas from concurrent fetchers for one download.
// Fetchers call Add with just-transferred counts; a ticker goroutine invokes
// the observer callback with the running total and a speed estimate. There is
// no process-wide progress state.
type Tracker struct {
	total      int64
	downloaded atomic.Int64
	startTime  time.Time
	fn         ProgressFunc

	mu        sync.Mutex
	lastTime  time.Time
	lastBytes int64
	speed     float64

	doneCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewTracker(total int64, fn ProgressFunc) *Tracker {
	return &Tracker{
		total:  total,
		fn:     fn,
		doneCh: make(chan struct{}),
	}
}

// Add records bytes just transferred (may be negative when a segment resets).
func (t *Tracker) Add(n int64) {
	t.downloaded.Add(n)
}

func (t *Tracker) Downloaded() int64 { return t.downloaded.Load() }

// Speed returns the most recent per-tick speed estimate in bytes/second.
func (t *Tracker) Speed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speed
}

func (t *Tracker) Elapsed() time.Duration {
	if t.startTime.IsZero() {
		return 0
	}
	return time.Since(t.startTime)
}

// Start launches the ticker goroutine that drives the observer callback.
func (t *Tracker) Start() {
	t.startTime = time.Now()
	t.lastTime = t.startTime
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.tick()
			case <-t.doneCh:
				return
			}
		}
	}()
}

func (t *Tracker) tick() {
	downloaded := t.downloaded.Load()
	t.mu.Lock()
	now := time.Now()
	elapsed := now.Sub(t.lastTime).Seconds()
	if elapsed > 0 {
		t.speed = float64(downloaded-t.lastBytes) / elapsed
		t.lastTime = now
		t.lastBytes = downloaded
	}
	speed := t.speed
	t.mu.Unlock()
	if t.fn != nil {
		t.fn(downloaded, t.total, speed)
	}
}

// Stop ends the ticker goroutine and emits one final update.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.doneCh)
		t.wg.Wait()
		if t.fn != nil {
			elapsed := t.Elapsed().Seconds()
			avg := float64(0)
			if elapsed > 0 {
				avg = float64(t.downloaded.Load()) / elapsed
			}
			t.fn(t.downloaded.Load(), t.total, avg)
		}
	})
}
