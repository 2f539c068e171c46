package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectMetrics_CountsAndDepth(t *testing.T) {
	c := Circuit{
		NumQubits: 2,
		Operations: []Operation{
			{Type: "h", Qubits: []int{0}},
			{Type: "cx", Qubits: []int{0, 1}},
			{Type: "measure", Qubits: []int{0}},
			{Type: "measure", Qubits: []int{1}},
		},
	}

	m := CollectMetrics(c)

	assert.Equal(t, 2, m.Qubits)
	assert.Equal(t, 4, m.Operations)
	assert.Equal(t, 3, m.Depth)
	assert.Equal(t, map[string]int{"h": 1, "cx": 1, "measure": 2}, m.OperationsByType)
	assert.Equal(t, 2, m.Measurements)
	assert.True(t, m.HasMeasurements)
}

func TestCollectMetrics_EntanglingGateSynchronizesChains(t *testing.T) {
	// Three gates on qubit 0, then a cx: qubit 1 jumps to layer 4.
	c := Circuit{
		NumQubits: 2,
		Operations: []Operation{
			{Type: "h", Qubits: []int{0}},
			{Type: "t", Qubits: []int{0}},
			{Type: "h", Qubits: []int{0}},
			{Type: "cx", Qubits: []int{0, 1}},
			{Type: "x", Qubits: []int{1}},
		},
	}

	m := CollectMetrics(c)
	assert.Equal(t, 5, m.Depth)
}

func TestCollectMetrics_ParallelGatesShareALayer(t *testing.T) {
	c := Circuit{
		NumQubits: 3,
		Operations: []Operation{
			{Type: "h", Qubits: []int{0}},
			{Type: "h", Qubits: []int{1}},
			{Type: "h", Qubits: []int{2}},
		},
	}

	m := CollectMetrics(c)
	assert.Equal(t, 1, m.Depth)
	assert.Equal(t, 3, m.Operations)
}

func TestCollectMetrics_MeasureVariantsAreCounted(t *testing.T) {
	c := Circuit{
		NumQubits: 1,
		Operations: []Operation{
			{Type: "Measure", Qubits: []int{0}},
			{Type: "measure_all", Qubits: []int{0}},
		},
	}

	m := CollectMetrics(c)
	assert.Equal(t, 2, m.Measurements)
	assert.True(t, m.HasMeasurements)
}

func TestCollectMetrics_EmptyCircuit(t *testing.T) {
	m := CollectMetrics(Circuit{NumQubits: 2})

	assert.Equal(t, 2, m.Qubits)
	assert.Zero(t, m.Depth)
	assert.Zero(t, m.Operations)
	assert.Empty(t, m.OperationsByType)
	assert.False(t, m.HasMeasurements)
}

func TestCollectMetrics_NegativeQubitCount(t *testing.T) {
	c := Circuit{
		NumQubits: -1,
		Operations: []Operation{
			{Type: "h", Qubits: []int{0}},
		},
	}

	m := CollectMetrics(c)

	assert.Zero(t, m.Qubits)
	assert.Zero(t, m.Depth)
	assert.Equal(t, 1, m.Operations)
}

func TestCollectMetrics_IgnoresOutOfRangeQubits(t *testing.T) {
	c := Circuit{
		NumQubits: 1,
		Operations: []Operation{
			{Type: "h", Qubits: []int{5}},
			{Type: "h", Qubits: []int{0}},
		},
	}

	m := CollectMetrics(c)
	assert.Equal(t, 1, m.Depth)
	assert.Equal(t, 2, m.Operations)
}
