package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-speaker/algorithms/common"
	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/logging"
	"github.com/RyanBlaney/sonido-speaker/speaker"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(&logging.NoOpLogger{})
	m.Run()
}

func newTestSynthesizer() *Synthesizer {
	return NewSynthesizer(speaker.NewTimeVector(config.DefaultSamplingConfig()), config.DefaultAudioConfig())
}

func TestSynthesizeLength(t *testing.T) {
	buf := newTestSynthesizer().Synthesize(speaker.DriveParameters{VoltageAmplitude: 5, Frequency: 440})

	assert.Len(t, buf.Samples, 44100)
	assert.Equal(t, 44100, buf.SampleRate)
	assert.Equal(t, 1, buf.Channels)
	assert.Equal(t, time.Second, buf.Duration)
}

func TestSynthesizeNormalization(t *testing.T) {
	s := newTestSynthesizer()

	tests := []struct {
		voltage float64
		peak    float64
	}{
		{20.0, 0.5},
		{10.0, 0.25},
		{0.1, 0.0025},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%gV", tt.voltage), func(t *testing.T) {
			assert.InDelta(t, tt.peak, s.PeakLevel(tt.voltage), 1e-15)

			// 441 Hz puts a crest exactly on sample 25
			buf := s.Synthesize(speaker.DriveParameters{VoltageAmplitude: tt.voltage, Frequency: 441})
			assert.InDelta(t, tt.peak, common.PeakAbs(buf.Samples), 1e-12)
			assert.LessOrEqual(t, common.PeakAbs(buf.Samples), 0.5)
		})
	}

	assert.Equal(t, 0.5, s.PeakLevel(20.0), "upper bound maps exactly onto the ceiling")
}

func TestSynthesizeMatchesVoltageTrace(t *testing.T) {
	cfg := config.DefaultConfig()
	model := speaker.NewModelFromConfig(cfg)
	s := NewSynthesizer(model.Time(), cfg.Audio)

	p := speaker.DriveParameters{VoltageAmplitude: 12.5, Frequency: 700}
	voltage := model.Evaluate(p).Traces.Voltage
	buf := s.Synthesize(p)

	for i := range voltage {
		require.InDelta(t, voltage[i]/20*0.5, buf.Samples[i], 1e-15)
	}
}

func TestFloat32LE(t *testing.T) {
	buf := newBuffer([]float64{0, 0.5, -0.25}, 44100)
	raw := buf.Float32LE()

	require.Len(t, raw, 12)
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(raw[4:])))
	assert.Equal(t, float32(-0.25), math.Float32frombits(binary.LittleEndian.Uint32(raw[8:])))
}

func TestWriteWAV(t *testing.T) {
	buf := newBuffer([]float64{0, 0.5, -0.5, 2}, 44100)

	var out bytes.Buffer
	require.NoError(t, WriteWAV(&out, buf))

	data := out.Bytes()
	require.GreaterOrEqual(t, len(data), 44+8)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]), "mono")
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:28]))

	pcm := data[len(data)-8:]
	assert.Equal(t, int16(16384), int16(binary.LittleEndian.Uint16(pcm[2:4])))
	assert.Equal(t, int16(-16384), int16(binary.LittleEndian.Uint16(pcm[4:6])))
	assert.Equal(t, int16(math.MaxInt16), int16(binary.LittleEndian.Uint16(pcm[6:8])), "clipped")
}

func TestPlaybackError(t *testing.T) {
	cause := errors.New("no ALSA device")
	err := fmt.Errorf("play: %w", &PlaybackError{Op: "open device", Err: cause})

	assert.ErrorIs(t, err, ErrPlaybackUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "no ALSA device")

	var pe *PlaybackError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "open device", pe.Op)
}
