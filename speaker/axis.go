package speaker

import "github.com/RyanBlaney/sonido-speaker/config"

// AxisScale is a display range for one chart axis
type AxisScale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Symmetric returns [-limit, limit]
func Symmetric(limit float64) AxisScale {
	return AxisScale{Min: -limit, Max: limit}
}

// AxisScales holds one scale per charted quantity
type AxisScales struct {
	Voltage       AxisScale `json:"voltage"`
	Current       AxisScale `json:"current"`
	Displacement  AxisScale `json:"displacement"`
	MagneticField AxisScale `json:"magnetic_field"`
}

// ComputeAxisScales derives the chart ranges from the peaks reachable at maxVoltage,
// so the axes stay put while the controls move.
//
// The magnetic field axis is a fixed band of fieldAxisMax rather than a derived range.
// At the default constants the coil field never exceeds ~0.0063 T, so its trace sits
// near zero on a +-0.1 T axis. Kept as is; see DESIGN.md.
func ComputeAxisScales(d config.DeviceConstants, maxVoltage, headroom, fieldAxisMax float64) AxisScales {
	top := Peaks(d, maxVoltage)

	return AxisScales{
		Voltage:       Symmetric(maxVoltage * headroom),
		Current:       Symmetric(top.Current * headroom),
		Displacement:  Symmetric(top.Displacement * headroom),
		MagneticField: Symmetric(fieldAxisMax),
	}
}
