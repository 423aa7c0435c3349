package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-speaker/audio"
	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/logging"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(&logging.NoOpLogger{})
	m.Run()
}

type stubPlayer struct{ err error }

func (s stubPlayer) Play(ctx context.Context, buf *audio.Buffer) error { return s.err }

func playerReturning(err error) func(config.AudioConfig) audio.Player {
	return func(config.AudioConfig) audio.Player { return stubPlayer{err: err} }
}

func TestRunMetrics(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"metrics"}, &out, playerReturning(nil)))

	assert.Contains(t, out.String(), "U = 5.0 V, f = 440 Hz")
	assert.Contains(t, out.String(), "0.62 A")
	assert.Contains(t, out.String(), "31.25 mN")
	assert.Contains(t, out.String(), "3.12 mm")
	assert.Contains(t, out.String(), "0.001571 T")
}

func TestRunMetricsClampsFlags(t *testing.T) {
	var out bytes.Buffer
	args := []string{"metrics", "-voltage", "50", "-frequency", "5"}
	require.NoError(t, run(context.Background(), args, &out, playerReturning(nil)))

	assert.Contains(t, out.String(), "U = 20.0 V, f = 20 Hz")
	assert.Contains(t, out.String(), "2.50 A")
}

func TestRunMetricsClampsBelowRange(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"negative voltage", []string{"-voltage", "-3"}, "U = 0.1 V, f = 440 Hz"},
		{"negative frequency", []string{"-frequency", "-1"}, "U = 5.0 V, f = 20 Hz"},
		{"zero values", []string{"-voltage", "0", "-frequency", "0"}, "U = 0.1 V, f = 20 Hz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			args := append([]string{"metrics"}, tt.args...)
			require.NoError(t, run(context.Background(), args, &out, playerReturning(nil)))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRunWritesFiles(t *testing.T) {
	dir := t.TempDir()

	for _, tc := range []struct {
		command string
		file    string
		magic   string
	}{
		{"chart", "chart.html", "<!DOCTYPE html>"},
		{"export", "traces.xlsx", "PK"},
		{"wav", "tone.wav", "RIFF"},
	} {
		t.Run(tc.command, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			require.NoError(t, run(context.Background(), []string{tc.command, "-out", path}, &bytes.Buffer{}, playerReturning(nil)))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data[:min(len(data), 64)]), tc.magic)
		})
	}
}

func TestRunPlay(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), []string{"play"}, &out, playerReturning(nil)))
		assert.Contains(t, out.String(), "Playback finished.")
	})

	t.Run("unavailable device is not an error", func(t *testing.T) {
		var out bytes.Buffer
		unavailable := &audio.PlaybackError{Op: "open device", Err: errors.New("no card")}
		require.NoError(t, run(context.Background(), []string{"play"}, &out, playerReturning(unavailable)))
		assert.Contains(t, out.String(), "Could not play sound: audio open device: no card")
	})

	t.Run("cancellation is returned", func(t *testing.T) {
		err := run(context.Background(), []string{"play"}, &bytes.Buffer{}, playerReturning(context.Canceled))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"dance"}, &bytes.Buffer{}, playerReturning(nil))
	assert.ErrorContains(t, err, `unknown command "dance"`)
}
