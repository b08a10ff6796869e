package sfx

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// Tap passes a stream through unchanged while keeping the most recent mono
// samples, so the renderer can follow how loud the effects currently are.
type Tap struct {
	src beep.Streamer

	mu    sync.RWMutex
	ring  []float64
	head  int // next write position
	count int // valid samples, at most len(ring)
}

func NewTap(src beep.Streamer, size int) *Tap {
	return &Tap{src: src, ring: make([]float64, max(size, 1))}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.src.Stream(samples)
	if n == 0 {
		return n, ok
	}
	t.mu.Lock()
	for _, s := range samples[:n] {
		t.ring[t.head] = (s[0] + s[1]) / 2
		t.head = (t.head + 1) % len(t.ring)
	}
	t.count = min(t.count+n, len(t.ring))
	t.mu.Unlock()
	return n, ok
}

func (t *Tap) Err() error { return t.src.Err() }

// Recent returns up to the last n mono samples, oldest first.
func (t *Tap) Recent(n int) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.count)
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	start := (t.head - n + len(t.ring)) % len(t.ring)
	for i := range out {
		out[i] = t.ring[(start+i)%len(t.ring)]
	}
	return out
}

// RMS is the root-mean-square of the last n samples, 0 before anything played.
func (t *Tap) RMS(n int) float64 {
	recent := t.Recent(n)
	if len(recent) == 0 {
		return 0
	}
	var sum float64
	for _, v := range recent {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(recent)))
}
