// Package bloch projects single-qubit reduced states onto Bloch-sphere
// coordinates.
package bloch

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/quasar/internal/modules/density"
	"github.com/aristath/quasar/internal/modules/statevector"
)

// Vector is the (x, y, z) Bloch representation of one qubit. The magnitude
// is 1 for a pure single-qubit state and strictly below 1 for a mixed
// (entangled) reduction.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns sqrt(x^2 + y^2 + z^2).
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Projector computes Bloch vectors from single-qubit reduced density
// matrices.
type Projector struct {
	reducer *density.Reducer
	log     zerolog.Logger
}

// NewProjector creates a Bloch projector.
func NewProjector(reducer *density.Reducer, log zerolog.Logger) *Projector {
	return &Projector{
		reducer: reducer,
		log:     log.With().Str("service", "bloch").Logger(),
	}
}

// Project returns one Bloch vector per qubit: x = Tr(rho sx),
// y = Tr(rho sy), z = Tr(rho sz). For a Hermitian rho these traces are real;
// only the real parts are kept.
func (p *Projector) Project(sv *statevector.StateVector) ([]Vector, error) {
	out := make([]Vector, sv.NumQubits)
	for q := 0; q < sv.NumQubits; q++ {
		rho, err := p.reducer.Reduce(sv, []int{q})
		if err != nil {
			return nil, err
		}
		out[q] = fromDensity(rho)
	}
	return out, nil
}

// fromDensity evaluates the three Pauli traces on a 2x2 density matrix.
func fromDensity(rho *density.Matrix) Vector {
	r01 := rho.Data.At(0, 1)
	r10 := rho.Data.At(1, 0)
	return Vector{
		X: real(r01 + r10),
		Y: real(complex(0, 1) * (r01 - r10)),
		Z: real(rho.Data.At(0, 0) - rho.Data.At(1, 1)),
	}
}
