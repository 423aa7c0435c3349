package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 44100, cfg.Sampling.SampleCount())
	assert.Equal(t, 8.0, cfg.Device.CoilResistance)
	assert.InDelta(t, 4*math.Pi*1e-7, cfg.Device.VacuumPermeability, 1e-20)
	assert.Equal(t, 5.0, cfg.Controls.Voltage.Default)
	assert.Equal(t, 440.0, cfg.Controls.Frequency.Default)
}

func TestControlBoundsClamp(t *testing.T) {
	voltage := DefaultControlsConfig().Voltage
	frequency := DefaultControlsConfig().Frequency

	tests := []struct {
		name   string
		bounds ControlBounds
		in     float64
		want   float64
	}{
		{"voltage in range", voltage, 5.0, 5.0},
		{"voltage below min", voltage, -3, 0.1},
		{"voltage above max", voltage, 42, 20.0},
		{"voltage snaps to step", voltage, 2.34, 2.3},
		{"voltage nan uses default", voltage, math.NaN(), 5.0},
		{"frequency snaps to step", frequency, 444, 440},
		{"frequency above max", frequency, 1e9, 2000},
		{"frequency inf uses default", frequency, math.Inf(1), 440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.bounds.Clamp(tt.in), 1e-9)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "speaker.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"server":{"addr":":9000"},"log_level":"debug"}`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Server.Addr)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 8.0, cfg.Device.CoilResistance)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "speaker.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"device":{"coil_resistance":0}}`), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
