// Package statevector provides validated quantum state vectors and
// measurement probability extraction.
package statevector

import (
	"fmt"
)

// DefaultNormTolerance is the accepted deviation of the total squared
// magnitude from 1 before a vector is rescaled.
const DefaultNormTolerance = 1e-6

// DefaultNearZero is the probability threshold below which basis states are
// dropped from distributions.
const DefaultNearZero = 1e-10

// StateVector is a unit-norm complex amplitude vector over the computational
// basis. Bit i of a basis index addresses qubit i. Treated as immutable once
// constructed; the constructor copies the raw amplitudes.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
	Normalized bool // true when the input deviated from unit norm and was rescaled
}

// ShapeError reports an amplitude count that does not match 2^n for the
// declared qubit count.
type ShapeError struct {
	NumQubits int
	Expected  int
	Got       int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("state vector has %d amplitudes, expected %d for %d qubits", e.Got, e.Expected, e.NumQubits)
}

// DegenerateStateError reports a null or near-null vector that cannot be
// normalized.
type DegenerateStateError struct {
	Norm float64
}

func (e *DegenerateStateError) Error() string {
	return fmt.Sprintf("state vector norm %.3e is too small to normalize", e.Norm)
}

// NumericalInstabilityError reports a post-hoc invariant violation (trace or
// probability mass off by more than the tolerance after clamping).
type NumericalInstabilityError struct {
	Invariant string
	Deviation float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("numerical instability: %s off by %.3e", e.Invariant, e.Deviation)
}

// BasisLabel formats a basis index as an n-bit string, most significant
// qubit first (matching the conventional |q_{n-1}...q_0> ket labels).
func BasisLabel(index, numQubits int) string {
	return fmt.Sprintf("%0*b", numQubits, index)
}
