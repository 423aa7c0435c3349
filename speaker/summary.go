package speaker

import "github.com/RyanBlaney/sonido-speaker/algorithms/common"

// Summary holds trace statistics over the whole time vector
type Summary struct {
	RMSVoltage   float64 `json:"rms_voltage"`   // V
	RMSCurrent   float64 `json:"rms_current"`   // A
	AveragePower float64 `json:"average_power"` // W dissipated in the coil resistance
	MeanForce    float64 `json:"mean_force"`    // N, ~0 over whole periods
}

// Summarize computes RMS and power figures from the sampled traces
func (r *Result) Summarize() Summary {
	vrms := common.RMS(r.Traces.Voltage)
	irms := common.RMS(r.Traces.Current)

	return Summary{
		RMSVoltage:   vrms,
		RMSCurrent:   irms,
		AveragePower: vrms * irms,
		MeanForce:    common.Mean(r.Traces.Force),
	}
}
