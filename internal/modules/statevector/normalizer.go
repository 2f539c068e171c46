package statevector

import (
	"math"
	"math/cmplx"
)

// NewStateVector validates raw amplitudes against the declared qubit count
// and returns a unit-norm StateVector.
//
// The length must be exactly 2^numQubits (ShapeError otherwise). When the
// total squared magnitude deviates from 1 by more than tolerance, the vector
// is rescaled by 1/sqrt(total) and the Normalized flag is set. A near-zero
// total cannot be rescaled and yields DegenerateStateError.
func NewStateVector(raw []complex128, numQubits int, tolerance float64) (*StateVector, error) {
	if tolerance <= 0 {
		tolerance = DefaultNormTolerance
	}
	// 1 << numQubits wraps past 62 bits; no slice can hold such a vector,
	// so the count is rejected before the shift.
	if numQubits < 1 || numQubits > 62 {
		return nil, &ShapeError{NumQubits: numQubits, Expected: 0, Got: len(raw)}
	}

	expected := 1 << numQubits
	if len(raw) != expected {
		return nil, &ShapeError{NumQubits: numQubits, Expected: expected, Got: len(raw)}
	}

	var total float64
	for _, amp := range raw {
		m := cmplx.Abs(amp)
		total += m * m
	}

	if total < tolerance {
		return nil, &DegenerateStateError{Norm: math.Sqrt(total)}
	}

	amps := make([]complex128, len(raw))
	copy(amps, raw)

	normalized := false
	if math.Abs(total-1) > tolerance {
		scale := complex(1/math.Sqrt(total), 0)
		for i := range amps {
			amps[i] *= scale
		}
		normalized = true
	}

	return &StateVector{
		Amplitudes: amps,
		NumQubits:  numQubits,
		Normalized: normalized,
	}, nil
}
