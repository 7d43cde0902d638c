// Package metrics provides convenient facilities to record
// on-line high-level performance metrics as rotating
// high-dynamic-range latency histograms.
package metrics

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
)

// Period is the sampling window for each latency histogram.
// After each period, the oldest window is discarded.
const Period = time.Minute

const (
	histMin  = 0
	histMax  = int64(10 * time.Second)
	sigfigs  = 2
	nWindows = 5
)

var (
	latencyMu sync.Mutex
	latencies = map[string]*RotatingLatency{}
)

// RecordElapsed records the time elapsed since t0 in the rotating
// latency histogram named after the calling function. It is designed
// to be called in a defer statement at the top of the function being
// measured:
//
//	defer metrics.RecordElapsed(time.Now())
func RecordElapsed(t0 time.Time) {
	Latency(callerName(1)).Record(time.Since(t0))
}

// Latency returns the rotating latency histogram with the given
// name, creating it if necessary.
func Latency(name string) *RotatingLatency {
	latencyMu.Lock()
	defer latencyMu.Unlock()
	l, ok := latencies[name]
	if !ok {
		l = NewRotatingLatency()
		latencies[name] = l
	}
	return l
}

// RotatingLatency is a rotating histogram of latency samples.
type RotatingLatency struct {
	mu      sync.Mutex
	w       *hdrhistogram.WindowedHistogram
	rotated time.Time
	over    int64 // samples exceeding the histogram's max value
}

// NewRotatingLatency returns a new rotating latency histogram
// covering samples up to ten seconds at two significant figures.
func NewRotatingLatency() *RotatingLatency {
	return &RotatingLatency{
		w:       hdrhistogram.NewWindowed(nWindows, histMin, histMax, sigfigs),
		rotated: time.Now(),
	}
}

// Record records a latency sample in r.
// If a full Period has elapsed since the last rotation,
// the oldest window is discarded first.
func (r *RotatingLatency) Record(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now := time.Now(); now.Sub(r.rotated) >= Period {
		r.w.Rotate()
		r.rotated = now
	}
	err := r.w.Current.RecordValue(int64(d))
	if err != nil {
		r.over++
	}
}

// Histogram returns a merged snapshot of all live windows in r.
func (r *RotatingLatency) Histogram() *hdrhistogram.Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Merge()
}

// Over returns the number of recorded samples that exceeded
// the histogram's maximum trackable value.
func (r *RotatingLatency) Over() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.over
}

// String satisfies the fmt.Stringer interface
// with a brief summary of the distribution.
func (r *RotatingLatency) String() string {
	h := r.Histogram()
	return fmt.Sprintf(
		"p50=%s p99=%s max=%s n=%d",
		time.Duration(h.ValueAtQuantile(50)),
		time.Duration(h.ValueAtQuantile(99)),
		time.Duration(h.Max()),
		h.TotalCount(),
	)
}

// callerName returns the name of the function
// skip frames above the caller of callerName.
func callerName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "unknown"
	}
	return f.Name()
}
