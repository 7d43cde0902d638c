package metrics

import (
	"testing"
	"time"
)

func TestRecordElapsed(t *testing.T) {
	t0 := time.Now().Add(-5 * time.Millisecond)
	RecordElapsed(t0)

	l := Latency("vestchain/metrics.TestRecordElapsed")
	h := l.Histogram()
	if h.TotalCount() != 1 {
		t.Fatalf("got %d samples, want 1", h.TotalCount())
	}
	if h.Max() < int64(time.Millisecond) {
		t.Errorf("max latency %v too small", time.Duration(h.Max()))
	}
}

func TestRecordOverflow(t *testing.T) {
	r := NewRotatingLatency()
	r.Record(time.Hour)
	if r.Over() != 1 {
		t.Errorf("got %d overflowed samples, want 1", r.Over())
	}
	if got := r.Histogram().TotalCount(); got != 0 {
		t.Errorf("got %d recorded samples, want 0", got)
	}
}

func BenchmarkRecordElapsed(b *testing.B) {
	t := time.Now()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		RecordElapsed(t)
	}
}
