package profiler

import (
	"fmt"
	"log"
	"runtime"
	"time"
)

// Stats is one reporting interval's worth of measurements.
type Stats struct {
	FPS         float64
	FrameTimeMs float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	// Draws and Culled are the draw call and culled node counts of the most recent frame.
	Draws  int
	Culled int
}

// String formats the stats as a single log or title line.
func (s Stats) String() string {
	return fmt.Sprintf("FPS: %.1f | Frame: %.2f ms | Draws: %d (culled %d) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.FrameTimeMs, s.Draws, s.Culled, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
}

// Profiler tracks frame rate and memory statistics and acts as the debug HUD.
// Stats are gathered every interval; they are only reported while the HUD is visible.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	visible bool
	draws   int
	culled  int
	last    Stats

	now    func() time.Time
	report func(Stats)
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second, the HUD starts hidden and reports go to the log.
//
// Parameters:
//   - options: profiler options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
		now:            time.Now,
	}
	p.report = func(s Stats) {
		log.Printf("[Profiler] %s", s)
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Visible reports whether the HUD is shown.
func (p *Profiler) Visible() bool {
	return p.visible
}

// SetVisible shows or hides the HUD.
func (p *Profiler) SetVisible(visible bool) {
	p.visible = visible
}

// Toggle flips the HUD and returns the new state.
//
// Returns:
//   - bool: true if the HUD is now visible
func (p *Profiler) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// RecordDraws stores the renderer's counts for the current frame.
//
// Parameters:
//   - draws: draw calls issued
//   - culled: nodes rejected by frustum culling
func (p *Profiler) RecordDraws(draws, culled int) {
	p.draws = draws
	p.culled = culled
}

// Last returns the most recently completed interval.
//
// Returns:
//   - Stats: the stats, zero before the first interval completes
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// When the update interval has elapsed it computes fresh stats and, if the HUD is
// visible, reports them.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		FrameTimeMs: float64(elapsed.Milliseconds()) / float64(p.frameCount),
		// Alloc is live heap, Sys is the process footprint obtained from the OS.
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		Draws:       p.draws,
		Culled:      p.culled,
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc

	if !p.visible {
		return false
	}
	p.report(s)
	return true
}
