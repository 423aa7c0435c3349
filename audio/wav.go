package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/youpy/go-wav"
)

// WriteWAV encodes buf as 16-bit mono PCM. Samples outside [-1, 1] are clipped.
func WriteWAV(w io.Writer, buf *Buffer) error {
	samples := make([]wav.Sample, len(buf.Samples))
	for i, s := range buf.Samples {
		s = math.Max(-1, math.Min(1, s))
		samples[i] = wav.Sample{Values: [2]int{int(math.Round(s * math.MaxInt16))}}
	}

	var out bytes.Buffer
	writer := wav.NewWriter(&out, uint32(len(samples)), 1, uint32(buf.SampleRate), 16)
	if err := writer.WriteSamples(samples); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}

	if _, err := io.Copy(w, &out); err != nil {
		return fmt.Errorf("failed to write wav: %w", err)
	}
	return nil
}
