// Package circuit holds circuit metadata supplied by simulation backends
// and the counting metrics derived from it.
package circuit

import "strings"

// Operation is one gate-level operation of a simulated circuit: the gate
// type name and the qubit indices it acts on.
type Operation struct {
	Type   string `json:"type" msgpack:"type"`
	Qubits []int  `json:"qubits" msgpack:"qubits"`
}

// Circuit is the gate-level metadata that accompanies a simulated state
// vector.
type Circuit struct {
	NumQubits  int         `json:"num_qubits" msgpack:"num_qubits"`
	Operations []Operation `json:"operations" msgpack:"operations"`
}

// Metrics summarizes a circuit's structure.
type Metrics struct {
	Qubits           int            `json:"qubits" msgpack:"qubits"`
	Depth            int            `json:"depth" msgpack:"depth"`
	Operations       int            `json:"operations" msgpack:"operations"`
	OperationsByType map[string]int `json:"operations_by_type" msgpack:"operations_by_type"`
	Measurements     int            `json:"measurements" msgpack:"measurements"`
	HasMeasurements  bool           `json:"has_measurements" msgpack:"has_measurements"`
}

// CollectMetrics counts operations, tallies the type frequency table and
// computes the depth as the longest per-qubit operation chain. A
// multi-qubit operation raises all participating qubits to
// max(current depths) + 1, so entangling gates synchronize their operands'
// chains.
func CollectMetrics(c Circuit) Metrics {
	// A negative qubit count is metadata garbage, not a circuit; treat it as
	// zero qubits so the counting still completes.
	qubits := c.NumQubits
	if qubits < 0 {
		qubits = 0
	}

	m := Metrics{
		Qubits:           qubits,
		Operations:       len(c.Operations),
		OperationsByType: make(map[string]int),
	}

	depths := make([]int, qubits)
	for _, op := range c.Operations {
		m.OperationsByType[op.Type]++
		if strings.Contains(strings.ToLower(op.Type), "measure") {
			m.Measurements++
		}

		layer := 0
		for _, q := range op.Qubits {
			if q >= 0 && q < qubits && depths[q] > layer {
				layer = depths[q]
			}
		}
		for _, q := range op.Qubits {
			if q >= 0 && q < qubits {
				depths[q] = layer + 1
			}
		}
	}

	for _, d := range depths {
		if d > m.Depth {
			m.Depth = d
		}
	}
	m.HasMeasurements = m.Measurements > 0

	return m
}
