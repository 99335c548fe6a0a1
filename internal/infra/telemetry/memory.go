package telemetry

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"officegw/internal/domain"
)

// HeapSample reports used and total heap bytes.
type HeapSample struct {
	Used  uint64
	Total uint64
}

func (s HeapSample) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Used) / float64(s.Total)
}

func runtimeHeapSample() HeapSample {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return HeapSample{Used: stats.HeapAlloc, Total: stats.HeapSys}
}

// MemoryGovernor disables non-error output under critical memory pressure.
// A slow loop samples every check interval and emits a warning event above
// the warn ratio; a fast path runs on every log call but samples at most
// once per sample floor, flipping the emergency flag above the emergency
// ratio. The flag clears only below the recover ratio (hysteresis).
type MemoryGovernor struct {
	emergencyDisabled atomic.Bool

	mu         sync.Mutex
	lastSample time.Time

	sample  func() HeapSample
	now     func() time.Time
	onEvent func(event string, ratio float64)
}

type MemoryGovernorOptions struct {
	Sample  func() HeapSample
	Now     func() time.Time
	OnEvent func(event string, ratio float64)
}

func NewMemoryGovernor(opts MemoryGovernorOptions) *MemoryGovernor {
	g := &MemoryGovernor{
		sample:  opts.Sample,
		now:     opts.Now,
		onEvent: opts.OnEvent,
	}
	if g.sample == nil {
		g.sample = runtimeHeapSample
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.onEvent == nil {
		g.onEvent = func(string, float64) {}
	}
	return g
}

func (g *MemoryGovernor) EmergencyDisabled() bool {
	return g.emergencyDisabled.Load()
}

// Run drives the slow check loop until ctx is done.
func (g *MemoryGovernor) Run(ctx context.Context) {
	ticker := time.NewTicker(domain.MemoryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.SlowCheck()
		}
	}
}

// SlowCheck samples the heap, warns above the warn ratio and requests a GC.
func (g *MemoryGovernor) SlowCheck() {
	ratio := g.sample().Ratio()
	g.apply(ratio)
	if ratio > domain.MemoryWarnRatio {
		g.onEvent(domain.EventMemoryWarning, ratio)
		runtime.GC()
	}
}

// FastCheck is invoked on every log call but samples at most once per
// sample floor; between samples the cached flag decides.
func (g *MemoryGovernor) FastCheck() {
	g.mu.Lock()
	now := g.now()
	if now.Sub(g.lastSample) < domain.MemorySampleFloor {
		g.mu.Unlock()
		return
	}
	g.lastSample = now
	g.mu.Unlock()

	g.apply(g.sample().Ratio())
}

func (g *MemoryGovernor) apply(ratio float64) {
	switch {
	case ratio > domain.MemoryEmergencyRatio:
		if !g.emergencyDisabled.Swap(true) {
			g.onEvent(domain.EventEmergency, ratio)
		}
	case ratio < domain.MemoryRecoverRatio:
		g.emergencyDisabled.Store(false)
	}
}
