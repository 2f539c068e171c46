package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(maxQubits int) *Service {
	return NewService(maxQubits, zerolog.New(nil).Level(zerolog.Disabled))
}

func bellCircuit() Circuit {
	return Circuit{
		NumQubits: 2,
		Operations: []Operation{
			{Type: "h", Qubits: []int{0}},
			{Type: "cx", Qubits: []int{0, 1}},
		},
	}
}

func bellAmplitudes() []complex128 {
	r := complex(1/math.Sqrt2, 0)
	return []complex128{r, 0, 0, r}
}

func TestAnalyze_BellState(t *testing.T) {
	rec, err := newTestService(0).Analyze("aer", bellAmplitudes(), bellCircuit(), Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, "aer", rec.Backend)

	assert.Equal(t, 2, rec.Qubits)
	assert.Equal(t, 2, rec.Depth)
	assert.Equal(t, 2, rec.Operations)
	assert.False(t, rec.HasMeasurements)

	assert.False(t, rec.Normalized)
	require.Len(t, rec.StateVector, 4)
	assert.InDelta(t, 1/math.Sqrt2, rec.StateVector[0].Real, 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, rec.StateVector[3].Real, 1e-12)
	assert.InDelta(t, 0.5, rec.Probabilities["00"], 1e-9)
	assert.InDelta(t, 0.5, rec.Probabilities["11"], 1e-9)
	assert.Len(t, rec.Distribution, 2)

	require.Len(t, rec.Entropies, 2)
	assert.InDelta(t, 1.0, rec.Entropies[0], 1e-6)
	assert.InDelta(t, 1.0, rec.Entropies[1], 1e-6)
	assert.InDelta(t, 1.0, rec.Concurrence[0][1], 1e-6)

	require.Len(t, rec.Bloch, 2)
	for _, v := range rec.Bloch {
		assert.InDelta(t, 0.0, v.Magnitude(), 1e-9)
	}

	require.NotNil(t, rec.Histogram)
	assert.InDelta(t, 1.0, rec.Histogram.Total, 1e-9)
}

func TestAnalyze_SingleQubitGroundState(t *testing.T) {
	circ := Circuit{NumQubits: 1}
	rec, err := newTestService(0).Analyze("", []complex128{1, 0}, circ, Options{})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, rec.Probabilities["0"], 1e-12)
	assert.InDelta(t, 0.0, rec.Entropies[0], 1e-9)

	require.Len(t, rec.Bloch, 1)
	assert.InDelta(t, 0.0, rec.Bloch[0].X, 1e-9)
	assert.InDelta(t, 0.0, rec.Bloch[0].Y, 1e-9)
	assert.InDelta(t, 1.0, rec.Bloch[0].Z, 1e-9)
}

func TestAnalyze_RescalesUnnormalizedInput(t *testing.T) {
	circ := Circuit{NumQubits: 1}
	rec, err := newTestService(0).Analyze("", []complex128{2, 0}, circ, Options{})
	require.NoError(t, err)

	assert.True(t, rec.Normalized)
	assert.InDelta(t, 1.0, rec.Probabilities["0"], 1e-12)

	// The record carries the rescaled amplitudes, not the raw input.
	require.Len(t, rec.StateVector, 2)
	assert.InDelta(t, 1.0, rec.StateVector[0].Real, 1e-12)
}

func TestAnalyze_ShapeError(t *testing.T) {
	circ := Circuit{NumQubits: 2}
	_, err := newTestService(0).Analyze("", []complex128{1, 0}, circ, Options{})
	require.Error(t, err)

	var shapeErr *ShapeError
	assert.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "ShapeError", ErrorKind(err))
}

func TestAnalyze_NegativeQubitCount(t *testing.T) {
	circ := Circuit{
		NumQubits:  -1,
		Operations: []Operation{{Type: "h", Qubits: []int{0}}},
	}
	_, err := newTestService(0).Analyze("", []complex128{1, 0}, circ, Options{})
	require.Error(t, err)
	assert.Equal(t, "ShapeError", ErrorKind(err))
}

func TestAnalyze_DegenerateState(t *testing.T) {
	circ := Circuit{NumQubits: 1}
	_, err := newTestService(0).Analyze("", []complex128{0, 0}, circ, Options{})
	require.Error(t, err)
	assert.Equal(t, "DegenerateStateError", ErrorKind(err))
}

func TestAnalyze_ScaleLimit(t *testing.T) {
	_, err := newTestService(1).Analyze("", bellAmplitudes(), bellCircuit(), Options{})
	require.Error(t, err)

	var limitErr *ScaleLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, "ScaleLimitError", ErrorKind(err))
}

func TestAnalyze_HistogramOptions(t *testing.T) {
	opts := Options{HistogramBins: 1, HistogramWidth: 32}
	rec, err := newTestService(0).Analyze("", bellAmplitudes(), bellCircuit(), opts)
	require.NoError(t, err)

	require.NotNil(t, rec.Histogram)
	assert.Equal(t, 1, rec.Histogram.BinCount)
	assert.Equal(t, 32, rec.Histogram.Width)
}

func TestErrorKind_Untyped(t *testing.T) {
	assert.Equal(t, "", ErrorKind(errors.New("boom")))
	assert.Equal(t, "", ErrorKind(nil))
}

func TestAmplitudeConversionRoundTrip(t *testing.T) {
	amps := []Amplitude{{Real: 0.5, Imag: -0.25}, {Real: 0, Imag: 1}}

	back := FromComplex(ToComplex(amps))
	assert.Equal(t, amps, back)
}
