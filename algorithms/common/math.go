package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistics shared by the signal model and its exports, backed by gonum

// Mean calculates the arithmetic mean of a slice
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Norm(data, 2) / math.Sqrt(float64(len(data)))
}

// PeakAbs returns the largest absolute value in data
func PeakAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Max(math.Abs(floats.Max(data)), math.Abs(floats.Min(data)))
}

// Scaled returns a new slice holding s*data[i]
func Scaled(s float64, data []float64) []float64 {
	out := make([]float64, len(data))
	floats.ScaleTo(out, s, data)
	return out
}
