package common

// Normalizer maps a fixed reference level onto a ceiling, so quieter
// input stays quieter after normalization
type Normalizer struct {
	reference float64
	ceiling   float64
}

// NewNormalizer creates a normalizer that maps reference onto ceiling.
// A zero reference leaves signals unscaled.
func NewNormalizer(reference, ceiling float64) *Normalizer {
	return &Normalizer{
		reference: reference,
		ceiling:   ceiling,
	}
}

// Gain returns the factor Normalize applies
func (n *Normalizer) Gain() float64 {
	if n.reference == 0 {
		return 1.0
	}
	return n.ceiling / n.reference
}

// Normalize returns a scaled copy of signal
func (n *Normalizer) Normalize(signal []float64) []float64 {
	if n.reference == 0 {
		return Scaled(1.0, signal)
	}

	// divide then scale; multiplying by a precomputed 1/reference loses exactness at x == reference
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v / n.reference * n.ceiling
	}
	return out
}
