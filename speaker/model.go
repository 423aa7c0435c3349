// Package speaker models an electrodynamic loudspeaker driven by a sinusoidal voltage.
//
// The model is a set of closed-form relations evaluated sample by sample:
//
//	U(t) = Uamp * sin(2*pi*f*t)
//	I(t) = U(t) / R
//	Bc(t) = mu0 * n * I(t)
//	F(t) = B * I(t) * L
//	d(t) = F(t) * k
//
// Displacement is taken as directly proportional to force. Evaluation is pure:
// identical parameters always produce bit-identical results.
package speaker

import (
	"math"

	"github.com/RyanBlaney/sonido-speaker/config"
	"github.com/RyanBlaney/sonido-speaker/logging"
)

// DriveParameters is the user-selected input signal
type DriveParameters struct {
	VoltageAmplitude float64 `json:"voltage_amplitude"` // V
	Frequency        float64 `json:"frequency"`         // Hz
}

// Traces holds the per-sample signals, index-aligned with the time vector
type Traces struct {
	Voltage       []float64 `json:"-"` // V
	Current       []float64 `json:"-"` // A
	MagneticField []float64 `json:"-"` // T, field of the coil itself
	Force         []float64 `json:"-"` // N
	Displacement  []float64 `json:"-"` // mm
}

// PeakMetrics are the closed-form values at sin(.) = 1
type PeakMetrics struct {
	Current       float64 `json:"peak_current"`        // A
	Force         float64 `json:"peak_force"`          // N
	Displacement  float64 `json:"peak_displacement"`   // mm
	MagneticField float64 `json:"peak_magnetic_field"` // T
}

// Result is one complete evaluation
type Result struct {
	Parameters DriveParameters `json:"parameters"`
	Time       *TimeVector     `json:"-"`
	Traces     Traces          `json:"-"`
	Peaks      PeakMetrics     `json:"peaks"`
	Axes       AxisScales      `json:"axes"`
}

// Model evaluates drive parameters against fixed device constants and a shared time vector
type Model struct {
	device config.DeviceConstants
	time   *TimeVector
	axes   AxisScales
	logger logging.Logger
}

// NewModel builds a model. maxVoltage is the upper bound of the voltage control
// and fixes the chart axes for every evaluation.
func NewModel(device config.DeviceConstants, time *TimeVector, chart config.ChartConfig, maxVoltage float64) *Model {
	return &Model{
		device: device,
		time:   time,
		axes:   ComputeAxisScales(device, maxVoltage, chart.AxisHeadroom, chart.FieldAxisMax),
		logger: logging.WithFields(logging.Fields{
			"component": "speaker_model",
		}),
	}
}

// NewModelFromConfig builds the time vector and model described by cfg
func NewModelFromConfig(cfg *config.AppConfig) *Model {
	return NewModel(cfg.Device, NewTimeVector(cfg.Sampling), cfg.Chart, cfg.Controls.Voltage.Max)
}

// Device returns the model's constants
func (m *Model) Device() config.DeviceConstants { return m.device }

// Time returns the shared time vector
func (m *Model) Time() *TimeVector { return m.time }

// Axes returns the fixed chart scales
func (m *Model) Axes() AxisScales { return m.axes }

// Evaluate computes every trace, the peak metrics and the axis scales.
// Inputs are used as given; bounds are enforced by the caller.
// Non-finite inputs propagate into non-finite outputs.
func (m *Model) Evaluate(p DriveParameters) *Result {
	n := m.time.Len()
	d := m.device

	tr := Traces{
		Voltage:       make([]float64, n),
		Current:       make([]float64, n),
		MagneticField: make([]float64, n),
		Force:         make([]float64, n),
		Displacement:  make([]float64, n),
	}

	omega := 2 * math.Pi * p.Frequency
	for i, t := range m.time.Samples() {
		v := p.VoltageAmplitude * math.Sin(omega*t)
		current := v / d.CoilResistance
		force := d.MagnetFieldStrength * current * d.CoilLength

		tr.Voltage[i] = v
		tr.Current[i] = current
		tr.MagneticField[i] = d.VacuumPermeability * d.TurnsPerMeter * current
		tr.Force[i] = force
		tr.Displacement[i] = force * d.DisplacementScaleFactor
	}

	m.logger.Debug("Evaluated drive parameters", logging.Fields{
		"voltage_amplitude": p.VoltageAmplitude,
		"frequency":         p.Frequency,
		"samples":           n,
	})

	return &Result{
		Parameters: p,
		Time:       m.time,
		Traces:     tr,
		Peaks:      Peaks(d, p.VoltageAmplitude),
		Axes:       m.axes,
	}
}

// Peaks returns the peak metrics for a voltage amplitude without sampling
func Peaks(d config.DeviceConstants, voltageAmplitude float64) PeakMetrics {
	current := voltageAmplitude / d.CoilResistance
	force := d.MagnetFieldStrength * current * d.CoilLength

	return PeakMetrics{
		Current:       current,
		Force:         force,
		Displacement:  force * d.DisplacementScaleFactor,
		MagneticField: d.VacuumPermeability * d.TurnsPerMeter * current,
	}
}
