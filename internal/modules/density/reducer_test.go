package density

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/quasar/internal/modules/statevector"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func bellState(t *testing.T) *statevector.StateVector {
	t.Helper()
	r := complex(1/math.Sqrt2, 0)
	sv, err := statevector.NewStateVector([]complex128{r, 0, 0, r}, 2, 0)
	require.NoError(t, err)
	return sv
}

func TestReduce_BellSingleQubitIsMaximallyMixed(t *testing.T) {
	reducer := NewReducer(0, testLogger())
	sv := bellState(t)

	rho, err := reducer.Reduce(sv, []int{0})
	require.NoError(t, err)
	require.Equal(t, 2, rho.Dim())

	assert.InDelta(t, 0.5, real(rho.Data.At(0, 0)), 1e-12)
	assert.InDelta(t, 0.5, real(rho.Data.At(1, 1)), 1e-12)
	assert.InDelta(t, 0.0, real(rho.Data.At(0, 1)), 1e-12)
	assert.InDelta(t, 0.0, imag(rho.Data.At(0, 1)), 1e-12)
	assert.InDelta(t, 1.0, real(rho.Trace()), 1e-12)

	vals := rho.Eigenvalues()
	require.Len(t, vals, 2)
	assert.InDelta(t, 0.5, vals[0], 1e-9)
	assert.InDelta(t, 0.5, vals[1], 1e-9)
}

func TestReduce_ProductStateIsPure(t *testing.T) {
	reducer := NewReducer(0, testLogger())

	// |+> on qubit 0, |0> on qubit 1.
	r := complex(1/math.Sqrt2, 0)
	sv, err := statevector.NewStateVector([]complex128{r, r, 0, 0}, 2, 0)
	require.NoError(t, err)

	rho, err := reducer.Reduce(sv, []int{0})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 0.5, real(rho.Data.At(i, j)), 1e-12)
			assert.InDelta(t, 0.0, imag(rho.Data.At(i, j)), 1e-12)
		}
	}

	vals := rho.Eigenvalues()
	assert.InDelta(t, 1.0, vals[0], 1e-9)
	assert.InDelta(t, 0.0, vals[1], 1e-9)
}

func TestReduce_PairKeepsFullBellCorrelation(t *testing.T) {
	reducer := NewReducer(0, testLogger())
	sv := bellState(t)

	rho, err := reducer.Reduce(sv, []int{0, 1})
	require.NoError(t, err)
	require.Equal(t, 4, rho.Dim())

	// Pure state: rho = |psi><psi|, corners at 0.5.
	assert.InDelta(t, 0.5, real(rho.Data.At(0, 0)), 1e-12)
	assert.InDelta(t, 0.5, real(rho.Data.At(0, 3)), 1e-12)
	assert.InDelta(t, 0.5, real(rho.Data.At(3, 0)), 1e-12)
	assert.InDelta(t, 0.5, real(rho.Data.At(3, 3)), 1e-12)
	assert.InDelta(t, 1.0, real(rho.Trace()), 1e-12)

	vals := rho.Eigenvalues()
	assert.InDelta(t, 1.0, vals[0], 1e-9)
}

func TestReduce_SubsetOrderDoesNotMatter(t *testing.T) {
	reducer := NewReducer(0, testLogger())
	sv := bellState(t)

	a, err := reducer.Reduce(sv, []int{1, 0})
	require.NoError(t, err)
	b, err := reducer.Reduce(sv, []int{0, 1})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, a.Qubits)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, real(b.Data.At(i, j)), real(a.Data.At(i, j)), 1e-12)
		}
	}
}

func TestReduce_RejectsBadSubsets(t *testing.T) {
	reducer := NewReducer(0, testLogger())
	sv := bellState(t)

	_, err := reducer.Reduce(sv, nil)
	assert.Error(t, err)

	_, err = reducer.Reduce(sv, []int{2})
	assert.Error(t, err)

	_, err = reducer.Reduce(sv, []int{-1})
	assert.Error(t, err)

	_, err = reducer.Reduce(sv, []int{0, 0})
	assert.Error(t, err)
}

func TestReduce_CeilingExceeded(t *testing.T) {
	reducer := NewReducer(1, testLogger())
	sv := bellState(t)

	_, err := reducer.Reduce(sv, []int{0})
	require.Error(t, err)

	var limitErr *ScaleLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 2, limitErr.Requested)
	assert.Equal(t, 1, limitErr.Limit)
}

func TestNewReducer_DefaultCeiling(t *testing.T) {
	assert.Equal(t, DefaultMaxQubits, NewReducer(0, testLogger()).MaxQubits())
	assert.Equal(t, 8, NewReducer(8, testLogger()).MaxQubits())
}

func TestMatrixSqrt_MaximallyMixed(t *testing.T) {
	reducer := NewReducer(0, testLogger())
	sv := bellState(t)

	rho, err := reducer.Reduce(sv, []int{0})
	require.NoError(t, err)

	root := rho.Sqrt()
	want := 1 / math.Sqrt2
	assert.InDelta(t, want, real(root.At(0, 0)), 1e-9)
	assert.InDelta(t, want, real(root.At(1, 1)), 1e-9)
	assert.InDelta(t, 0.0, real(root.At(0, 1)), 1e-9)
}
