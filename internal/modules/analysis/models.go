// Package analysis aggregates the state-vector analysis pipeline into
// immutable analysis records.
package analysis

import (
	"time"

	"github.com/aristath/quasar/internal/modules/bloch"
	"github.com/aristath/quasar/internal/modules/circuit"
	"github.com/aristath/quasar/internal/modules/density"
	"github.com/aristath/quasar/internal/modules/histogram"
	"github.com/aristath/quasar/internal/modules/statevector"
)

// Options configures one analysis invocation. Zero values select the
// documented defaults.
type Options struct {
	// NormTolerance is the accepted unit-norm deviation (default 1e-6).
	NormTolerance float64 `json:"norm_tolerance,omitempty"`
	// NearZero is the probability filtering threshold (default 1e-10).
	NearZero float64 `json:"near_zero,omitempty"`
	// HistogramBins overrides the sqrt-of-distinct-states default.
	HistogramBins int `json:"histogram_bins,omitempty"`
	// HistogramWidth is display metadata forwarded to renderers.
	HistogramWidth int `json:"histogram_width,omitempty"`
}

// Record is the immutable aggregate produced by one analysis invocation,
// the sole unit handed to report formatters and exporters.
type Record struct {
	ID        string    `json:"id" msgpack:"id"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
	Backend   string    `json:"backend" msgpack:"backend"`

	Qubits           int            `json:"qubits" msgpack:"qubits"`
	Depth            int            `json:"depth" msgpack:"depth"`
	Operations       int            `json:"operations" msgpack:"operations"`
	OperationsByType map[string]int `json:"operations_by_type" msgpack:"operations_by_type"`
	Measurements     int            `json:"measurements" msgpack:"measurements"`
	HasMeasurements  bool           `json:"has_measurements" msgpack:"has_measurements"`

	// Normalized records whether the incoming amplitudes had to be rescaled
	// to unit norm.
	Normalized bool `json:"normalized" msgpack:"normalized"`
	// StateVector is the unit-norm amplitude list the analysis ran on,
	// echoed back so renderers can show amplitudes and phases.
	StateVector []Amplitude `json:"state_vector" msgpack:"state_vector"`

	Probabilities map[string]float64   `json:"probabilities" msgpack:"probabilities"`
	Distribution  []statevector.Entry  `json:"distribution" msgpack:"distribution"`
	DiscardedMass float64              `json:"discarded_mass" msgpack:"discarded_mass"`
	Entropies     []float64            `json:"entropies" msgpack:"entropies"`
	Concurrence   [][]float64          `json:"concurrence" msgpack:"concurrence"`
	Heatmap       [][]float64          `json:"heatmap" msgpack:"heatmap"`
	Bloch         []bloch.Vector       `json:"bloch" msgpack:"bloch"`
	Histogram     *histogram.Histogram `json:"histogram" msgpack:"histogram"`
}

// Re-exported error kinds so callers matching with errors.As need only this
// package for the analysis entry point's failure modes.
type (
	ShapeError                = statevector.ShapeError
	DegenerateStateError      = statevector.DegenerateStateError
	NumericalInstabilityError = statevector.NumericalInstabilityError
	ScaleLimitError           = density.ScaleLimitError
)

// ErrorKind names the engine error category of err for API responses, or
// "" for untyped errors.
func ErrorKind(err error) string {
	switch {
	case asShape(err):
		return "ShapeError"
	case asDegenerate(err):
		return "DegenerateStateError"
	case asScaleLimit(err):
		return "ScaleLimitError"
	case asInstability(err):
		return "NumericalInstabilityError"
	default:
		return ""
	}
}

// The metadata a caller needs from circuit input is re-exported for the
// same reason.
type (
	Circuit   = circuit.Circuit
	Operation = circuit.Operation
)
