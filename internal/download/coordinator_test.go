package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avance-dl/avance/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatorCompletesAllSegments(t *testing.T) {
	payload := randomPayload(t, 96*1024)
	server := rangeServer(payload)
	defer server.Close()

	dir := t.TempDir()
	outFile, err := os.OpenFile(filepath.Join(dir, "out.bin"), os.O_RDWR|os.O_CREATE, 0644)
	require.NoError(t, err)
	defer outFile.Close()
	require.NoError(t, outFile.Truncate(int64(len(payload))))

	plan := PlanSegments(ProbeResult{Size: int64(len(payload)), AcceptRanges: true}, 4, 1)
	require.True(t, plan.Segmented)

	client := utils.NewAvanceHTTPClient(utils.HTTPClientConfig{Timeout: 10 * time.Second})
	tracker := NewTracker(plan.TotalSize, nil)
	tracker.Start()
	defer tracker.Stop()

	coord := newCoordinator(client, server.URL+"/out.bin", plan, outFile, 4096, 1, tracker)
	require.NoError(t, coord.Run(context.Background()))

	for _, state := range coord.States() {
		assert.Equal(t, SegmentCompleted, state.Status, "segment %d", state.ID)
		assert.Equal(t, state.Range.Length(), state.Downloaded)
		assert.Equal(t, 1, state.Attempts)
		assert.NoError(t, state.LastErr)
	}
	assert.Equal(t, int64(len(payload)), tracker.Downloaded())

	got := make([]byte, len(payload))
	_, err = outFile.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestCoordinatorCancelsSiblingsOnExhaustion(t *testing.T) {
	payload := randomPayload(t, 64*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The first segment's range always fails; others succeed.
		if parseRangeStart(t, r.Header.Get("Range")) == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, r, "out.bin", time.Time{}, bytes.NewReader(payload))
	}))
	defer server.Close()

	dir := t.TempDir()
	outFile, err := os.OpenFile(filepath.Join(dir, "out.bin"), os.O_RDWR|os.O_CREATE, 0644)
	require.NoError(t, err)
	defer outFile.Close()
	require.NoError(t, outFile.Truncate(int64(len(payload))))

	plan := PlanSegments(ProbeResult{Size: int64(len(payload)), AcceptRanges: true}, 4, 1)
	client := utils.NewAvanceHTTPClient(utils.HTTPClientConfig{Timeout: 10 * time.Second})
	tracker := NewTracker(plan.TotalSize, nil)
	tracker.Start()
	defer tracker.Stop()

	coord := newCoordinator(client, server.URL+"/out.bin", plan, outFile, 4096, 1, tracker)
	err = coord.Run(context.Background())
	require.Error(t, err)
	var serr *SegmentError
	require.ErrorAs(t, err, &serr)

	states := coord.States()
	assert.Equal(t, SegmentFailed, states[0].Status)
	assert.Equal(t, 2, states[0].Attempts, "retry budget of 1 means two attempts")
}
