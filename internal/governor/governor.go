// Package governor implements the memory governor: it samples process
// memory usage, estimates row counts from file size, picks adaptive check
// intervals for the pipeline and row sink, and triggers reclamation when
// usage crosses a configured threshold.
package governor

import (
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
)

// LeakStatus is the detect-leak verdict.
type LeakStatus string

const (
	LeakStable           LeakStatus = "stable"
	LeakSlowlyIncreasing LeakStatus = "slowly-increasing"
	LeakPotential        LeakStatus = "potential-leak"
)

const (
	// WarnThreshold triggers a one-shot log when usage crosses it.
	WarnThreshold = 0.8
	// CleanupThreshold triggers reclaim when usage crosses it.
	CleanupThreshold = 0.9

	historySize    = 100
	minLeakSamples = 10

	leakSpanRatio       = 0.10
	leakMinMiBPerSample = 1.0
)

// Status is the result of a check.
type Status int

const (
	StatusOK Status = iota
	StatusNeedsCleanup
)

// Governor tracks a sliding window of memory samples against a limit and
// decides when to reclaim.
type Governor struct {
	mu sync.Mutex

	limit    uint64
	history  []uint64 // bytes, oldest first, capped at historySize
	warned   bool
	reclaims int
	logger   *slog.Logger
}

// New constructs a Governor with the given byte limit. If limit is 0, the
// limit is derived from the current process's resident set at
// construction time (a conservative runtime.MemStats.Sys reading).
func New(limit uint64) *Governor {
	if limit == 0 {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		limit = ms.Sys
		if limit == 0 {
			limit = 512 * 1024 * 1024
		}
	}
	return &Governor{limit: limit, logger: slog.Default()}
}

// sample reads current heap usage and appends it to history, capped at
// historySize samples.
func (g *Governor) sample() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usage := ms.HeapAlloc

	g.history = append(g.history, usage)
	if len(g.history) > historySize {
		g.history = g.history[len(g.history)-historySize:]
	}
	return usage
}

// Check samples current usage and compares it against limit *
// CleanupThreshold, returning StatusNeedsCleanup when above. Crossing
// WarnThreshold logs a one-shot warning.
func (g *Governor) Check() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	usage := g.sample()
	ratio := float64(usage) / float64(g.limit)

	if ratio >= WarnThreshold && !g.warned {
		g.warned = true
		g.logger.Warn("memory usage crossed warning threshold",
			"usage_bytes", usage, "limit_bytes", g.limit, "ratio", ratio)
	}
	if ratio < WarnThreshold {
		g.warned = false
	}

	if ratio >= CleanupThreshold {
		return StatusNeedsCleanup
	}
	return StatusOK
}

// Reclaim forces a GC pass, returns allocator memory to the OS, and logs a
// reclamation event. Pool callers are expected to evict half of their own
// retained entries around this call; the governor has no pool references
// of its own to evict.
func (g *Governor) Reclaim() {
	g.mu.Lock()
	g.reclaims++
	n := g.reclaims
	g.mu.Unlock()

	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	runtime.GC()
	debug.FreeOSMemory()

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	g.logger.Info("memory reclamation",
		"event", n,
		"before_bytes", before.HeapAlloc,
		"after_bytes", after.HeapAlloc,
		"freed_bytes", int64(before.HeapAlloc)-int64(after.HeapAlloc),
	)
}

// DetectLeak inspects the sample history and classifies the trend. It
// returns LeakStable until at least minLeakSamples samples have been
// collected.
func (g *Governor) DetectLeak() LeakStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.history) < minLeakSamples {
		return LeakStable
	}

	var totalDelta int64
	for i := 1; i < len(g.history); i++ {
		totalDelta += int64(g.history[i]) - int64(g.history[i-1])
	}
	avgDelta := float64(totalDelta) / float64(len(g.history)-1)

	baseline := g.history[0]
	span := g.history[len(g.history)-1]
	if baseline == 0 {
		return LeakStable
	}
	spanRatio := float64(int64(span)-int64(baseline)) / float64(baseline)
	avgDeltaMiB := avgDelta / (1024 * 1024)

	switch {
	case spanRatio > leakSpanRatio && avgDeltaMiB > leakMinMiBPerSample:
		return LeakPotential
	case avgDelta > 0:
		return LeakSlowlyIncreasing
	default:
		return LeakStable
	}
}

// EstimateRows heuristically estimates the row count of a file from its
// byte size and declared format: roughly bytes/100 for delimited text,
// bytes/50 for OOXML (denser per-row XML overhead per row is offset by
// shared-string interning, so the engine uses a coarser divisor).
func EstimateRows(sizeBytes int64, isOOXML bool) int64 {
	if sizeBytes <= 0 {
		return 0
	}
	if isOOXML {
		return sizeBytes / 50
	}
	return sizeBytes / 100
}

// CheckInterval returns how many rows the pipeline should process between
// governor checks, scaled to the estimated row count.
func CheckInterval(estimatedRows int64) int {
	switch {
	case estimatedRows < 1000:
		return 50
	case estimatedRows < 10000:
		return 100
	case estimatedRows < 100000:
		return 500
	case estimatedRows < 1000000:
		return 2000
	default:
		return 5000
	}
}

// TNoInfer is the estimated-row threshold above which the pipeline
// disables type inference to avoid per-cell allocation overhead.
const TNoInfer = 100000

// ShouldInferTypes reports whether type inference should run given an
// estimated row count.
func ShouldInferTypes(estimatedRows int64) bool {
	return estimatedRows <= TNoInfer
}
