// Package audio turns drive parameters into a playable waveform and hands it to an output device.
package audio

import (
	"math"

	"github.com/RyanBlaney/sonido-speaker/algorithms/common"
	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/logging"
	"github.com/RyanBlaney/sonido-speaker/speaker"
)

// Synthesizer builds normalized playback buffers from the drive voltage.
//
// Samples are scaled against a fixed reference voltage rather than their own
// peak, so a 2 V drive plays quieter than a 20 V drive and the loudest
// setting never exceeds the ceiling.
type Synthesizer struct {
	time       *speaker.TimeVector
	normalizer *common.Normalizer
	reference  float64
	ceiling    float64
	logger     logging.Logger
}

// NewSynthesizer creates a synthesizer over the shared time vector
func NewSynthesizer(tv *speaker.TimeVector, cfg config.AudioConfig) *Synthesizer {
	return &Synthesizer{
		time:       tv,
		normalizer: common.NewNormalizer(cfg.ReferenceVoltage, cfg.Ceiling),
		reference:  cfg.ReferenceVoltage,
		ceiling:    cfg.Ceiling,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_synthesizer",
		}),
	}
}

// Synthesize computes Uamp*sin(2*pi*f*t) over the time vector and normalizes it
func (s *Synthesizer) Synthesize(p speaker.DriveParameters) *Buffer {
	raw := make([]float64, s.time.Len())
	omega := 2 * math.Pi * p.Frequency
	for i, t := range s.time.Samples() {
		raw[i] = p.VoltageAmplitude * math.Sin(omega*t)
	}

	buf := newBuffer(s.normalizer.Normalize(raw), s.time.SampleRate())

	s.logger.Debug("Synthesized playback buffer", logging.Fields{
		"voltage_amplitude": p.VoltageAmplitude,
		"frequency":         p.Frequency,
		"samples":           len(buf.Samples),
		"peak_level":        s.PeakLevel(p.VoltageAmplitude),
	})

	return buf
}

// PeakLevel is the buffer's theoretical peak magnitude for a voltage amplitude
func (s *Synthesizer) PeakLevel(voltageAmplitude float64) float64 {
	return math.Abs(voltageAmplitude) / s.reference * s.ceiling
}
