package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRunFile(t *testing.T) string {
	t.Helper()
	payload := `{
		"backend": "aer",
		"qubits": 2,
		"state_vector": [
			{"real": 0.7071067811865476},
			{"real": 0},
			{"real": 0},
			{"real": 0.7071067811865476}
		],
		"operations": [
			{"type": "h", "qubits": [0]},
			{"type": "cx", "qubits": [0, 1]}
		],
		"options": {"histogram_bins": 2}
	}`
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))
	return path
}

func TestRunInput_DecodesDocumentedSchema(t *testing.T) {
	raw, err := os.ReadFile(writeRunFile(t))
	require.NoError(t, err)

	var in runInput
	require.NoError(t, json.Unmarshal(raw, &in))

	assert.Equal(t, "aer", in.Backend)
	assert.Equal(t, 2, in.Qubits)
	require.Len(t, in.StateVector, 4)
	assert.InDelta(t, 0.7071, in.StateVector[0].Real, 1e-4)
	require.Len(t, in.Operations, 2)
	assert.Equal(t, "cx", in.Operations[1].Type)
	assert.Equal(t, 2, in.Options.HistogramBins)
}

func TestAnalyzeCommand_TextOutput(t *testing.T) {
	inputPath = writeRunFile(t)
	format = "text"
	bins = 0
	width = 0

	var out bytes.Buffer
	analyzeCmd.SetOut(&out)

	require.NoError(t, runAnalyze(analyzeCmd, nil))
	assert.Contains(t, out.String(), "QUANTUM CIRCUIT ANALYSIS REPORT")
	assert.Contains(t, out.String(), "|00>")
}

func TestAnalyzeCommand_JSONOutput(t *testing.T) {
	inputPath = writeRunFile(t)
	format = "json"
	bins = 0
	width = 0

	var out bytes.Buffer
	analyzeCmd.SetOut(&out)

	require.NoError(t, runAnalyze(analyzeCmd, nil))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "aer", decoded["backend"])
}

func TestAnalyzeCommand_RejectsUnknownFormat(t *testing.T) {
	inputPath = writeRunFile(t)
	format = "yaml"

	assert.Error(t, runAnalyze(analyzeCmd, nil))
}
