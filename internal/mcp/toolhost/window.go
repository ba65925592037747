package toolhost

import (
	"slices"
	"sync"
)

const defaultWindowSize = 100

type sample struct {
	ms     int64
	failed bool
}

// window keeps the last size call samples in a ring buffer.
type window struct {
	mu      sync.Mutex
	samples []sample
	pos     int
	total   int // calls ever recorded
}

// windowStats is a consistent view of a window.
type windowStats struct {
	p50, p99  int64
	errorRate float64
	total     int
}

func newWindow(size int) *window {
	if size <= 0 {
		size = defaultWindowSize
	}
	return &window{samples: make([]sample, 0, size)}
}

// record adds a sample, overwriting the oldest once the buffer is full.
func (w *window) record(ms int64, failed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := sample{ms: ms, failed: failed}
	if len(w.samples) < cap(w.samples) {
		w.samples = append(w.samples, s)
	} else {
		w.samples[w.pos] = s
		w.pos = (w.pos + 1) % len(w.samples)
	}
	w.total++
}

// stats computes percentiles and the error rate over the current samples.
// All values are zero for an empty window.
func (w *window) stats() windowStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := windowStats{total: w.total}
	n := len(w.samples)
	if n == 0 {
		return st
	}
	lat := make([]int64, n)
	failed := 0
	for i, s := range w.samples {
		lat[i] = s.ms
		if s.failed {
			failed++
		}
	}
	slices.Sort(lat)
	st.p50 = lat[n/2]
	st.p99 = lat[int(float64(n-1)*0.99)]
	st.errorRate = float64(failed) / float64(n)
	return st
}
