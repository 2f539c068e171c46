// Package density computes reduced density matrices of multi-qubit states
// via partial trace, plus the Hermitian eigendecomposition helpers the
// entanglement metrics are built on.
package density

import (
	"fmt"
	"math/cmplx"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/quasar/internal/modules/statevector"
)

// DefaultMaxQubits is the dense-computation ceiling. Partial traces are
// O(2^n * 4^k); beyond ~20 qubits the amplitude vector alone no longer fits
// comfortably in memory and the engine refuses rather than degrade.
const DefaultMaxQubits = 20

// ScaleLimitError reports a qubit count above the documented dense
// computation ceiling.
type ScaleLimitError struct {
	Requested int
	Limit     int
}

func (e *ScaleLimitError) Error() string {
	return fmt.Sprintf("%d qubits exceeds the supported dense-computation ceiling of %d", e.Requested, e.Limit)
}

// Matrix is a reduced density matrix over the qubit subset it was traced
// down to. Hermitian-symmetrized, trace 1 within tolerance.
type Matrix struct {
	Data   *mat.CDense
	Qubits []int // ascending original qubit indices of the retained subsystem
}

// Dim returns the matrix dimension (2^k for k retained qubits).
func (m *Matrix) Dim() int {
	r, _ := m.Data.Dims()
	return r
}

// Trace returns the matrix trace.
func (m *Matrix) Trace() complex128 {
	var tr complex128
	for i := 0; i < m.Dim(); i++ {
		tr += m.Data.At(i, i)
	}
	return tr
}

// Eigenvalues returns the eigenvalue spectrum in descending order, clamped
// to [0, 1] to absorb floating round-off. Density matrix eigenvalues are
// probabilities; anything outside that range is numerical noise.
func (m *Matrix) Eigenvalues() []float64 {
	vals := hermEigenvalues(m.Data)
	for i, v := range vals {
		if v < 0 {
			vals[i] = 0
		} else if v > 1 {
			vals[i] = 1
		}
	}
	return vals
}

// Sqrt returns the principal (positive semi-definite) matrix square root.
func (m *Matrix) Sqrt() *mat.CDense {
	return hermSqrt(m.Data)
}

// Reducer computes reduced density matrices for arbitrary qubit subsets.
type Reducer struct {
	maxQubits int
	log       zerolog.Logger
}

// NewReducer creates a reducer with the given dense-computation ceiling
// (DefaultMaxQubits when maxQubits <= 0).
func NewReducer(maxQubits int, log zerolog.Logger) *Reducer {
	if maxQubits <= 0 {
		maxQubits = DefaultMaxQubits
	}
	return &Reducer{
		maxQubits: maxQubits,
		log:       log.With().Str("service", "density").Logger(),
	}
}

// MaxQubits returns the configured ceiling.
func (r *Reducer) MaxQubits() int {
	return r.maxQubits
}

// Reduce computes rho_S = Tr_{S̄}(|psi><psi|), the partial trace of the pure
// state over the complement of the subset.
//
// The amplitude vector is treated as a tensor split between subset and
// complement bits: rho[a][b] = sum_c psi(a,c) * conj(psi(b,c)), where basis
// indices are rebuilt by placing subset bits and complement bits back at
// their original qubit positions. The result is averaged with its conjugate
// transpose to absorb floating-point asymmetry.
func (r *Reducer) Reduce(sv *statevector.StateVector, subset []int) (*Matrix, error) {
	n := sv.NumQubits
	if n > r.maxQubits {
		return nil, &ScaleLimitError{Requested: n, Limit: r.maxQubits}
	}
	if len(subset) == 0 {
		return nil, fmt.Errorf("empty qubit subset")
	}

	keep := make([]int, len(subset))
	copy(keep, subset)
	sort.Ints(keep)
	for i, q := range keep {
		if q < 0 || q >= n {
			return nil, fmt.Errorf("qubit index %d out of range for %d-qubit state", q, n)
		}
		if i > 0 && keep[i-1] == q {
			return nil, fmt.Errorf("duplicate qubit index %d in subset", q)
		}
	}

	inKeep := make([]bool, n)
	for _, q := range keep {
		inKeep[q] = true
	}
	var comp []int
	for q := 0; q < n; q++ {
		if !inKeep[q] {
			comp = append(comp, q)
		}
	}

	dim := 1 << len(keep)
	compDim := 1 << len(comp)
	rho := mat.NewCDense(dim, dim, nil)

	for a := 0; a < dim; a++ {
		aBase := scatterBits(a, keep)
		for b := a; b < dim; b++ {
			bBase := scatterBits(b, keep)
			var sum complex128
			for c := 0; c < compDim; c++ {
				cBits := scatterBits(c, comp)
				sum += sv.Amplitudes[aBase|cBits] * cmplx.Conj(sv.Amplitudes[bBase|cBits])
			}
			rho.Set(a, b, sum)
			if b != a {
				rho.Set(b, a, cmplx.Conj(sum))
			}
		}
	}

	symmetrize(rho)

	return &Matrix{Data: rho, Qubits: keep}, nil
}

// scatterBits places bit j of packed at position positions[j] of the result.
func scatterBits(packed int, positions []int) int {
	var out int
	for j, pos := range positions {
		if packed&(1<<j) != 0 {
			out |= 1 << pos
		}
	}
	return out
}

// symmetrize replaces m with (m + m^H)/2 in place.
func symmetrize(m *mat.CDense) {
	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		m.Set(i, i, complex(real(m.At(i, i)), 0))
		for j := i + 1; j < n; j++ {
			avg := (m.At(i, j) + cmplx.Conj(m.At(j, i))) / 2
			m.Set(i, j, avg)
			m.Set(j, i, cmplx.Conj(avg))
		}
	}
}
