//go:build !headless

package audio

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/logging"
)

// oto allows a single context per process
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoErr     error
	otoRate    int
)

func sharedContext(sampleRate, bufferSize int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
			// configured in samples, oto wants a duration
			BufferSize: time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoContext = ctx
		otoRate = sampleRate
	})

	if otoErr != nil {
		return nil, &PlaybackError{Op: "open device", Err: otoErr}
	}
	if otoRate != sampleRate {
		return nil, &PlaybackError{Op: "open device", Err: errSampleRateMismatch(otoRate, sampleRate)}
	}
	return otoContext, nil
}

// OtoPlayer plays buffers on the default output device
type OtoPlayer struct {
	bufferSize int
	mutex      sync.Mutex // one buffer at a time
	logger     logging.Logger
}

// NewDefaultPlayer returns the device-backed player for this build
func NewDefaultPlayer(cfg config.AudioConfig) Player {
	return &OtoPlayer{
		bufferSize: cfg.BufferSize,
		logger: logging.WithFields(logging.Fields{
			"component": "oto_player",
		}),
	}
}

// Play opens the device on first use and blocks until buf has been played
func (op *OtoPlayer) Play(ctx context.Context, buf *Buffer) error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	octx, err := sharedContext(buf.SampleRate, op.bufferSize)
	if err != nil {
		return err
	}

	player := octx.NewPlayer(bytes.NewReader(buf.Float32LE()))
	defer player.Close()

	op.logger.Info("Playback started", logging.Fields{
		"samples":  len(buf.Samples),
		"duration": buf.Duration.String(),
	})

	player.Play()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Err(); err != nil {
		return &PlaybackError{Op: "play", Err: err}
	}

	op.logger.Info("Playback finished")
	return nil
}
