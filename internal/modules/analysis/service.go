package analysis

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/quasar/internal/modules/bloch"
	"github.com/aristath/quasar/internal/modules/circuit"
	"github.com/aristath/quasar/internal/modules/density"
	"github.com/aristath/quasar/internal/modules/entanglement"
	"github.com/aristath/quasar/internal/modules/histogram"
	"github.com/aristath/quasar/internal/modules/statevector"
)

// Service orchestrates the analysis pipeline: normalization,
// probabilities, density reductions, entanglement metrics, Bloch vectors,
// histogram and circuit metrics, assembled into one Record.
type Service struct {
	reducer   *density.Reducer
	analyzer  *entanglement.Analyzer
	projector *bloch.Projector
	builder   *histogram.Builder
	log       zerolog.Logger
}

// NewService wires the analysis pipeline. maxQubits is the dense
// computation ceiling (density.DefaultMaxQubits when <= 0).
func NewService(maxQubits int, log zerolog.Logger) *Service {
	reducer := density.NewReducer(maxQubits, log)
	return &Service{
		reducer:   reducer,
		analyzer:  entanglement.NewAnalyzer(reducer, log),
		projector: bloch.NewProjector(reducer, log),
		builder:   histogram.NewBuilder(log),
		log:       log.With().Str("service", "analysis").Logger(),
	}
}

// Analyze runs the full pipeline over a simulated state vector and its
// circuit metadata. It is all-or-nothing: the first error aborts the
// invocation and no partial record is returned. The computation is pure and
// deterministic, so callers never need to retry an unchanged input.
func (s *Service) Analyze(backend string, amplitudes []complex128, circ circuit.Circuit, opts Options) (*Record, error) {
	started := time.Now()

	// Shape and ceiling checks run before any metrics are derived from the
	// caller-supplied qubit count.
	sv, err := statevector.NewStateVector(amplitudes, circ.NumQubits, opts.NormTolerance)
	if err != nil {
		return nil, err
	}
	if sv.NumQubits > s.reducer.MaxQubits() {
		return nil, &density.ScaleLimitError{Requested: sv.NumQubits, Limit: s.reducer.MaxQubits()}
	}

	metrics := circuit.CollectMetrics(circ)

	dist := statevector.Probabilities(sv, opts.NearZero)
	if err := dist.Validate(opts.NormTolerance); err != nil {
		return nil, err
	}

	ent, err := s.analyzer.Analyze(sv)
	if err != nil {
		return nil, err
	}

	vectors, err := s.projector.Project(sv)
	if err != nil {
		return nil, err
	}

	hist := s.builder.Build(dist, opts.HistogramBins, opts.HistogramWidth)

	record := &Record{
		ID:               uuid.New().String(),
		CreatedAt:        time.Now().UTC(),
		Backend:          backend,
		Qubits:           metrics.Qubits,
		Depth:            metrics.Depth,
		Operations:       metrics.Operations,
		OperationsByType: metrics.OperationsByType,
		Measurements:     metrics.Measurements,
		HasMeasurements:  metrics.HasMeasurements,
		Normalized:       sv.Normalized,
		StateVector:      FromComplex(sv.Amplitudes),
		Probabilities:    dist.ByState(),
		Distribution:     dist.Entries,
		DiscardedMass:    dist.DiscardedMass,
		Entropies:        ent.Entropies,
		Concurrence:      ent.Concurrence,
		Heatmap:          ent.Heatmap,
		Bloch:            vectors,
		Histogram:        hist,
	}

	s.log.Debug().
		Str("id", record.ID).
		Str("backend", backend).
		Int("qubits", record.Qubits).
		Int("states", len(record.Distribution)).
		Dur("elapsed", time.Since(started)).
		Msg("Analysis completed")

	return record, nil
}

// MaxQubits returns the configured dense-computation ceiling.
func (s *Service) MaxQubits() int {
	return s.reducer.MaxQubits()
}

// Amplitude is the wire form of one complex amplitude.
type Amplitude struct {
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
}

// ToComplex converts wire amplitudes to the engine's complex form.
func ToComplex(amps []Amplitude) []complex128 {
	out := make([]complex128, len(amps))
	for i, a := range amps {
		out[i] = complex(a.Real, a.Imag)
	}
	return out
}

// FromComplex converts amplitudes to the wire form used when the record
// echoes the normalized state back to clients.
func FromComplex(amps []complex128) []Amplitude {
	out := make([]Amplitude, len(amps))
	for i, c := range amps {
		out[i] = Amplitude{Real: real(c), Imag: imag(c)}
	}
	return out
}

func asShape(err error) bool {
	var target *statevector.ShapeError
	return errors.As(err, &target)
}

func asDegenerate(err error) bool {
	var target *statevector.DegenerateStateError
	return errors.As(err, &target)
}

func asScaleLimit(err error) bool {
	var target *density.ScaleLimitError
	return errors.As(err, &target)
}

func asInstability(err error) bool {
	var target *statevector.NumericalInstabilityError
	return errors.As(err, &target)
}
