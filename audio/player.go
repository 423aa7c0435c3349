package audio

import (
	"context"
	"errors"
	"fmt"
)

// ErrPlaybackUnavailable reports that no usable audio output exists
var ErrPlaybackUnavailable = errors.New("playback unavailable")

// PlaybackError wraps a device failure. It always matches ErrPlaybackUnavailable.
type PlaybackError struct {
	Op  string
	Err error
}

func (e *PlaybackError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("audio %s: %v", e.Op, ErrPlaybackUnavailable)
	}
	return fmt.Sprintf("audio %s: %v", e.Op, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

func (e *PlaybackError) Is(target error) bool { return target == ErrPlaybackUnavailable }

// Player plays a buffer and blocks until it has finished or ctx is done
type Player interface {
	Play(ctx context.Context, buf *Buffer) error
}

func errSampleRateMismatch(have, want int) error {
	return fmt.Errorf("device already opened at %d Hz, buffer is %d Hz", have, want)
}
