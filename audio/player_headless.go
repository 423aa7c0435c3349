//go:build headless

package audio

import (
	"context"
	"errors"

	"github.com/RyanBlaney/sonido-speaker/config"
)

// HeadlessPlayer is used in builds without an audio backend
type HeadlessPlayer struct{}

// NewDefaultPlayer returns the device-backed player for this build
func NewDefaultPlayer(cfg config.AudioConfig) Player {
	return &HeadlessPlayer{}
}

func (HeadlessPlayer) Play(ctx context.Context, buf *Buffer) error {
	return &PlaybackError{Op: "open device", Err: errors.New("built without audio output (headless)")}
}
