package statevector

import (
	"math"
	"math/cmplx"
)

// Entry is one retained basis state of a probability distribution.
type Entry struct {
	Index       int     `json:"index"`
	State       string  `json:"state"`
	Probability float64 `json:"probability"`
}

// Distribution is the basis-state probability distribution of a state
// vector. Entries are in ascending basis-index order; mass below the
// near-zero threshold is tracked in DiscardedMass instead of being listed.
type Distribution struct {
	Entries       []Entry `json:"entries"`
	DiscardedMass float64 `json:"discarded_mass"`
	NumQubits     int     `json:"num_qubits"`
}

// Probabilities derives the measurement probability distribution of sv via
// the Born rule. Basis states with probability below nearZero are omitted
// from the entries but contribute to the discarded mass.
func Probabilities(sv *StateVector, nearZero float64) *Distribution {
	if nearZero <= 0 {
		nearZero = DefaultNearZero
	}

	dist := &Distribution{NumQubits: sv.NumQubits}
	for i, amp := range sv.Amplitudes {
		m := cmplx.Abs(amp)
		p := m * m
		if p < nearZero {
			dist.DiscardedMass += p
			continue
		}
		dist.Entries = append(dist.Entries, Entry{
			Index:       i,
			State:       BasisLabel(i, sv.NumQubits),
			Probability: p,
		})
	}
	return dist
}

// Total returns the summed probability of the retained entries.
func (d *Distribution) Total() float64 {
	var total float64
	for _, e := range d.Entries {
		total += e.Probability
	}
	return total
}

// ByState returns the retained entries as a bit-string keyed map, the shape
// exported to report formatters.
func (d *Distribution) ByState() map[string]float64 {
	out := make(map[string]float64, len(d.Entries))
	for _, e := range d.Entries {
		out[e.State] = e.Probability
	}
	return out
}

// Validate checks that retained mass plus discarded mass is unit within
// tolerance. Violations indicate a computation bug upstream and surface as
// NumericalInstabilityError.
func (d *Distribution) Validate(tolerance float64) error {
	if tolerance <= 0 {
		tolerance = DefaultNormTolerance
	}
	deviation := math.Abs(d.Total() + d.DiscardedMass - 1)
	if deviation > tolerance {
		return &NumericalInstabilityError{Invariant: "probability mass", Deviation: deviation}
	}
	return nil
}
