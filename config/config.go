package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// DeviceConstants holds the fixed physical properties of the simulated speaker
type DeviceConstants struct {
	VacuumPermeability      float64 `json:"vacuum_permeability"`       // H/m
	CoilResistance          float64 `json:"coil_resistance"`           // Ohm
	TurnsPerMeter           float64 `json:"turns_per_meter"`           // turns/m
	CoilLength              float64 `json:"coil_length"`               // m of wire inside the gap
	MagnetFieldStrength     float64 `json:"magnet_field_strength"`     // T
	DisplacementScaleFactor float64 `json:"displacement_scale_factor"` // N -> mm
}

// SamplingConfig describes the shared time vector
type SamplingConfig struct {
	SampleRate int     `json:"sample_rate"`
	Duration   float64 `json:"duration"` // seconds
}

// SampleCount returns sampleRate * duration
func (s SamplingConfig) SampleCount() int {
	return int(float64(s.SampleRate) * s.Duration)
}

// ControlBounds describes one bounded input control
type ControlBounds struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// Clamp forces v into [Min, Max] and snaps it onto the step grid anchored at Min.
// Non-finite values fall back to Default.
func (b ControlBounds) Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return b.Default
	}
	if v < b.Min {
		v = b.Min
	}
	if v > b.Max {
		v = b.Max
	}
	if b.Step > 0 {
		steps := math.Round((v - b.Min) / b.Step)
		v = b.Min + steps*b.Step
		// rounding to the grid can overshoot Max by one ulp
		v = math.Min(v, b.Max)
		// keep one-decimal steps readable (0.30000000000000004 -> 0.3)
		v = math.Round(v*1e9) / 1e9
	}
	return v
}

// ControlsConfig groups the drive-parameter controls
type ControlsConfig struct {
	Voltage   ControlBounds `json:"voltage"`
	Frequency ControlBounds `json:"frequency"`
}

// ChartConfig configures the time-series chart
type ChartConfig struct {
	Window       float64 `json:"window"`        // seconds shown on the time axis
	AxisHeadroom float64 `json:"axis_headroom"` // multiplier over the theoretical maximum
	FieldAxisMax float64 `json:"field_axis_max"`
	Height       int     `json:"height"`
}

// AudioConfig configures synthesis and playback
type AudioConfig struct {
	ReferenceVoltage float64 `json:"reference_voltage"` // voltage mapped to Ceiling
	Ceiling          float64 `json:"ceiling"`           // maximum playback amplitude
	BufferSize       int     `json:"buffer_size"`
}

// ServerConfig configures the HTTP presentation
type ServerConfig struct {
	Addr string `json:"addr"`
}

// AppConfig is the complete application configuration
type AppConfig struct {
	Device   DeviceConstants `json:"device"`
	Sampling SamplingConfig  `json:"sampling"`
	Controls ControlsConfig  `json:"controls"`
	Chart    ChartConfig     `json:"chart"`
	Audio    AudioConfig     `json:"audio"`
	Server   ServerConfig    `json:"server"`
	LogLevel string          `json:"log_level"`
}

// DefaultDeviceConstants returns the constants of the reference speaker
func DefaultDeviceConstants() DeviceConstants {
	return DeviceConstants{
		VacuumPermeability:      4 * math.Pi * 1e-7,
		CoilResistance:          8.0,
		TurnsPerMeter:           2000,
		CoilLength:              0.05,
		MagnetFieldStrength:     1.0,
		DisplacementScaleFactor: 100,
	}
}

// DefaultSamplingConfig returns one second at 44.1 kHz
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SampleRate: 44100,
		Duration:   1.0,
	}
}

// DefaultControlsConfig returns the slider bounds
func DefaultControlsConfig() ControlsConfig {
	return ControlsConfig{
		Voltage:   ControlBounds{Min: 0.1, Max: 20.0, Step: 0.1, Default: 5.0},
		Frequency: ControlBounds{Min: 20, Max: 2000, Step: 10, Default: 440},
	}
}

// DefaultChartConfig returns chart defaults
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Window:       0.05,
		AxisHeadroom: 1.1,
		FieldAxisMax: 0.1,
		Height:       500,
	}
}

// DefaultAudioConfig returns audio defaults
func DefaultAudioConfig() AudioConfig {
	return AudioConfig{
		ReferenceVoltage: 20.0,
		Ceiling:          0.5, // half of full scale
		BufferSize:       4096,
	}
}

// DefaultConfig returns the full default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Device:   DefaultDeviceConstants(),
		Sampling: DefaultSamplingConfig(),
		Controls: DefaultControlsConfig(),
		Chart:    DefaultChartConfig(),
		Audio:    DefaultAudioConfig(),
		Server:   ServerConfig{Addr: "127.0.0.1:8501"},
		LogLevel: "info",
	}
}

// Load reads a JSON config file over the defaults. An empty path yields the defaults.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every value can drive the model
func (c *AppConfig) Validate() error {
	d := c.Device
	if d.CoilResistance <= 0 {
		return fmt.Errorf("%w: coil_resistance must be positive, got %g", ErrInvalidConfig, d.CoilResistance)
	}
	if d.VacuumPermeability <= 0 || d.TurnsPerMeter <= 0 || d.CoilLength <= 0 || d.MagnetFieldStrength <= 0 {
		return fmt.Errorf("%w: device constants must be positive", ErrInvalidConfig)
	}
	if c.Sampling.SampleRate <= 0 || c.Sampling.Duration <= 0 {
		return fmt.Errorf("%w: sampling rate and duration must be positive", ErrInvalidConfig)
	}

	for name, b := range map[string]ControlBounds{
		"voltage":   c.Controls.Voltage,
		"frequency": c.Controls.Frequency,
	} {
		if b.Min <= 0 || b.Max < b.Min {
			return fmt.Errorf("%w: %s bounds [%g, %g]", ErrInvalidConfig, name, b.Min, b.Max)
		}
		if b.Default < b.Min || b.Default > b.Max {
			return fmt.Errorf("%w: %s default %g outside [%g, %g]", ErrInvalidConfig, name, b.Default, b.Min, b.Max)
		}
	}

	if c.Chart.Window <= 0 || c.Chart.Window > c.Sampling.Duration {
		return fmt.Errorf("%w: chart window %g must lie in (0, %g]", ErrInvalidConfig, c.Chart.Window, c.Sampling.Duration)
	}
	if c.Audio.ReferenceVoltage <= 0 || c.Audio.Ceiling <= 0 || c.Audio.Ceiling > 1 {
		return fmt.Errorf("%w: audio reference %g / ceiling %g", ErrInvalidConfig, c.Audio.ReferenceVoltage, c.Audio.Ceiling)
	}

	return nil
}
