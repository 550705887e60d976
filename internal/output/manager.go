package output

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/avance-dl/avance/internal/utils"
)

// ProgressInfo is the display state for one download.
type ProgressInfo struct {
	Name       string
	TotalSize  int64
	Downloaded int64
	Speed      float64
	Completed  bool
	Failure    string
	StartTime  time.Time
	Index      int
}

// Manager renders live progress for concurrent downloads. It is fed by the
// engine's progress callbacks and owns the terminal; the engine itself never
// prints.
type Manager struct {
	progressMap map[string]*ProgressInfo
	mutex       sync.RWMutex
	doneCh      chan struct{}
	displayWg   sync.WaitGroup
	numLines    int
	count       int
}

func NewManager() *Manager {
	return &Manager{
		progressMap: make(map[string]*ProgressInfo),
		doneCh:      make(chan struct{}),
	}
}

// Register adds a job under its id; name is only the display label and need
// not be unique.
func (m *Manager) Register(id, name string, totalSize int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.count++
	m.progressMap[id] = &ProgressInfo{
		Name:      name,
		TotalSize: totalSize,
		StartTime: time.Now(),
		Index:     m.count,
	}
}

// Update records the running byte count and speed estimate for the job.
func (m *Manager) Update(id string, downloaded, totalSize int64, speed float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.progressMap[id]; exists {
		info.Downloaded = downloaded
		info.TotalSize = totalSize
		info.Speed = speed
	}
}

func (m *Manager) Complete(id string, totalDownloaded int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.progressMap[id]; exists {
		info.Completed = true
		info.Downloaded = totalDownloaded
	}
}

func (m *Manager) ReportError(id string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.progressMap[id]; exists {
		info.Completed = true
		info.Failure = fmt.Sprintf("Error: %v", err)
	}
}

func (m *Manager) StartDisplay() {
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(300 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.updateDisplay()
			case <-m.doneCh:
				m.updateDisplay()
				return
			}
		}
	}()
}

func (m *Manager) Stop() {
	close(m.doneCh)
	m.displayWg.Wait()
}

func (m *Manager) updateDisplay() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.numLines != 0 {
		fmt.Printf("\033[%dA\033[J", m.numLines)
	}
	infos := make([]*ProgressInfo, 0, len(m.progressMap))
	for _, info := range m.progressMap {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Index < infos[j].Index })

	nameWidth := min(25, getTerminalWidth()/3)
	for _, info := range infos {
		name := truncateName(info.Name, nameWidth)
		switch {
		case info.Completed && info.Failure != "":
			fmt.Printf("%s %s %s\n", errorStyle.Render(StyleSymbols["fail"]), name, errorStyle.Render(info.Failure))
		case info.Completed:
			fmt.Printf("%s %s %s\n", successStyle.Render(StyleSymbols["pass"]), name, debugStyle.Render(utils.FormatBytes(uint64(info.Downloaded))))
		case info.Downloaded > 0 && info.TotalSize > 0:
			bar := RenderProgressBar(info.Downloaded, info.TotalSize, 30)
			eta := utils.FormatETA(info.TotalSize-info.Downloaded, info.Speed)
			fmt.Printf("%s %s %s %s/%s %s ETA: %s\n", pendingStyle.Render(StyleSymbols["pending"]), name, bar,
				utils.FormatBytes(uint64(info.Downloaded)), utils.FormatBytes(uint64(info.TotalSize)),
				utils.FormatSpeed(int64(info.Speed), 1), eta)
		case info.Downloaded > 0:
			// total size unknown
			fmt.Printf("%s %s %s %s\n", pendingStyle.Render(StyleSymbols["pending"]), name,
				utils.FormatBytes(uint64(info.Downloaded)), utils.FormatSpeed(int64(info.Speed), 1))
		default:
			fmt.Printf("%s %s waiting\n", debugStyle.Render(StyleSymbols["bullet"]), name)
		}
	}
	m.numLines = len(infos)
}

// ShowSummary prints the end-of-run totals once the display has stopped.
func (m *Manager) ShowSummary() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var totalBytes int64
	var failures int
	longest := float64(0)
	for _, info := range m.progressMap {
		totalBytes += info.Downloaded
		if info.Failure != "" {
			failures++
		}
		if elapsed := time.Since(info.StartTime).Seconds(); elapsed > longest {
			longest = elapsed
		}
	}
	if longest > 0 {
		fmt.Printf("Total Data: %s, Overall Speed: %s, Time Elapsed: %.2fs\n",
			utils.FormatBytes(uint64(totalBytes)), utils.FormatSpeed(totalBytes, longest), longest)
	}
	if failures > 0 {
		PrintError(fmt.Sprintf("%d of %d downloads failed", failures, len(m.progressMap)))
	}
}
