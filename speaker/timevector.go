package speaker

import (
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-speaker/config"
)

// TimeVector is the uniform grid of sample instants over [0, duration).
// It is built once and shared read-only by every evaluation.
type TimeVector struct {
	samples    []float64
	sampleRate int
	duration   float64
}

// NewTimeVector builds sampleRate*duration instants starting at 0, excluding duration itself
func NewTimeVector(cfg config.SamplingConfig) *TimeVector {
	n := cfg.SampleCount()
	if n < 1 {
		return &TimeVector{sampleRate: cfg.SampleRate, duration: cfg.Duration}
	}

	// span n+1 points over the closed interval, then drop the endpoint
	grid := floats.Span(make([]float64, n+1), 0, cfg.Duration)

	return &TimeVector{
		samples:    grid[:n:n],
		sampleRate: cfg.SampleRate,
		duration:   cfg.Duration,
	}
}

// Len returns the number of samples
func (tv *TimeVector) Len() int { return len(tv.samples) }

// At returns the i-th sample instant in seconds
func (tv *TimeVector) At(i int) float64 { return tv.samples[i] }

// Samples returns the shared instants. Callers must not modify the slice.
func (tv *TimeVector) Samples() []float64 { return tv.samples }

func (tv *TimeVector) SampleRate() int { return tv.sampleRate }

func (tv *TimeVector) Duration() float64 { return tv.duration }

// CountBefore returns how many instants are strictly earlier than t
func (tv *TimeVector) CountBefore(t float64) int {
	lo, hi := 0, len(tv.samples)
	for lo < hi {
		mid := (lo + hi) / 2
		if tv.samples[mid] < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
