package profiler

import (
	"fmt"
	"log"
	"runtime"
	"time"
)

// FrameStats is the work done in one engine frame.
type FrameStats struct {
	Instances int
	Batches   int
	Vertices  int
	Draws     int
}

// Add sums two frame statistics.
func (s FrameStats) Add(o FrameStats) FrameStats {
	return FrameStats{
		Instances: s.Instances + o.Instances,
		Batches:   s.Batches + o.Batches,
		Vertices:  s.Vertices + o.Vertices,
		Draws:     s.Draws + o.Draws,
	}
}

// Profiler tracks frame rate, spine workload and memory statistics.
// Outputs a summary to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	totals FrameStats
	peak   FrameStats
	last   string
}

// NewProfiler creates a new Profiler that reports once per interval.
//
// Parameters:
//   - interval: the reporting interval (one second when <= 0)
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Record should be called once per frame with the frame's statistics.
// Logs a summary when the update interval has elapsed.
//
// Parameters:
//   - stats: the statistics of the frame
//
// Returns:
//   - bool: true if a summary was logged this frame
func (p *Profiler) Record(stats FrameStats) bool {
	p.frameCount++
	p.totals = p.totals.Add(stats)
	p.peak = FrameStats{
		Instances: max(p.peak.Instances, stats.Instances),
		Batches:   max(p.peak.Batches, stats.Batches),
		Vertices:  max(p.peak.Vertices, stats.Vertices),
		Draws:     max(p.peak.Draws, stats.Draws),
	}

	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	frames := float64(p.frameCount)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	// PauseNs is a circular buffer of the last 256 pauses
	start := p.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	p.last = fmt.Sprintf("FPS: %.1f | Instances: %d | Batches: %.1f (peak %d) | Vertices: %.0f (peak %d) | Draws: %.1f",
		fps, p.peak.Instances,
		float64(p.totals.Batches)/frames, p.peak.Batches,
		float64(p.totals.Vertices)/frames, p.peak.Vertices,
		float64(p.totals.Draws)/frames)
	log.Printf("[Profiler] %s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max pause %d µs)",
		p.last, allocMB, allocRateMB, gcCount, maxPauseUs)

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.totals = FrameStats{}
	p.peak = FrameStats{}
	return true
}

// Summary returns the frame statistics part of the last logged report.
func (p *Profiler) Summary() string {
	return p.last
}
