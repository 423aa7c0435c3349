package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Buffer is a mono PCM buffer ready for playback, samples in [-1, 1]
type Buffer struct {
	Samples    []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
}

func newBuffer(samples []float64, sampleRate int) *Buffer {
	var d time.Duration
	if sampleRate > 0 {
		d = time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second))
	}
	return &Buffer{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   d,
	}
}

// Float32LE encodes the samples as little-endian float32, the layout oto expects
func (b *Buffer) Float32LE() []byte {
	out := make([]byte, 4*len(b.Samples))
	for i, s := range b.Samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(float32(s)))
	}
	return out
}
