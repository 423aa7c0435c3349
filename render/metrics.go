package render

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-speaker/speaker"
)

// Metric is one labelled readout
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormatMetrics renders the four peak readouts with their fixed units and precision.
// Displacement shows a magnitude while the charted trace stays signed.
func FormatMetrics(p speaker.PeakMetrics) []Metric {
	return []Metric{
		{Label: "Peak coil current", Value: fmt.Sprintf("%.2f A", p.Current)},
		{Label: "Peak Ampere force", Value: fmt.Sprintf("%.2f mN", p.Force*1000)},
		{Label: "Peak diaphragm displacement", Value: fmt.Sprintf("%.2f mm", math.Abs(p.Displacement))},
		{Label: "Peak coil magnetic field", Value: fmt.Sprintf("%.6f T", p.MagneticField)},
	}
}
