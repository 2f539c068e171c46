package density

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Complex Hermitian eigenproblems are solved through the standard real
// embedding: for H = X + iY Hermitian, the 2m x 2m real matrix
//
//	[ X  -Y ]
//	[ Y   X ]
//
// is symmetric with the same spectrum, each eigenvalue appearing twice.
// gonum's mat.EigenSym handles the symmetric problem; the duplicates are
// collapsed after a descending sort.

// embed builds the real symmetric embedding of a Hermitian complex matrix.
func embed(h *mat.CDense) *mat.SymDense {
	m, _ := h.Dims()
	s := mat.NewSymDense(2*m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			re := real(h.At(i, j))
			im := imag(h.At(i, j))
			s.SetSym(i, j, re)
			s.SetSym(i+m, j+m, re)
			// Upper-right block is -Y; SymDense mirrors it below.
			s.SetSym(i, j+m, -im)
			if i != j {
				s.SetSym(j, i+m, im)
			}
		}
	}
	return s
}

// hermEigenvalues returns the eigenvalues of a Hermitian complex matrix in
// descending order.
func hermEigenvalues(h *mat.CDense) []float64 {
	m, _ := h.Dims()
	var eig mat.EigenSym
	if !eig.Factorize(embed(h), false) {
		// The symmetric solver only fails on malformed input; a Hermitian
		// density matrix always factorizes. Report a zero spectrum so the
		// caller's NaN/zero handling applies instead of panicking.
		return make([]float64, m)
	}

	doubled := eig.Values(nil)
	sort.Sort(sort.Reverse(sort.Float64Slice(doubled)))

	// Every eigenvalue of h appears twice in the embedding.
	vals := make([]float64, m)
	for i := 0; i < m; i++ {
		vals[i] = doubled[2*i]
	}
	return vals
}

// hermSqrt returns the principal square root of a Hermitian positive
// semi-definite matrix. Negative round-off eigenvalues are clamped to zero
// before the square root is formed.
func hermSqrt(h *mat.CDense) *mat.CDense {
	m, _ := h.Dims()
	var eig mat.EigenSym
	if !eig.Factorize(embed(h), true) {
		return mat.NewCDense(m, m, nil)
	}

	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// sqrt(E(h)) = V * diag(sqrt(lambda)) * V^T is the embedding of sqrt(h).
	dim := 2 * m
	scaled := mat.NewDense(dim, dim, nil)
	for j := 0; j < dim; j++ {
		root := 0.0
		if vals[j] > 0 {
			root = math.Sqrt(vals[j])
		}
		for i := 0; i < dim; i++ {
			scaled.Set(i, j, vecs.At(i, j)*root)
		}
	}
	var embedded mat.Dense
	embedded.Mul(scaled, vecs.T())

	// Recover the complex matrix from the lower-left (Y) and top-left (X)
	// blocks of the embedded square root.
	out := mat.NewCDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			out.Set(i, j, complex(embedded.At(i, j), embedded.At(i+m, j)))
		}
	}
	return out
}
