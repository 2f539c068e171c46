// Package report renders analysis records for humans (plain text) and
// machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/quasar/internal/modules/analysis"
)

// Service formats analysis records. The engine's histogram module only
// produces bin ranges and masses; the display-width pass-through is
// consumed here.
type Service struct {
	log zerolog.Logger
}

// NewService creates a report service.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("service", "report").Logger()}
}

// RenderJSON encodes the record as indented JSON.
func (s *Service) RenderJSON(rec *analysis.Record) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis record: %w", err)
	}
	return string(data), nil
}

// RenderText produces the plain-text analysis report: circuit metrics,
// probability histogram, per-qubit state geometry and the entanglement
// heatmap. Deterministic for a fixed record.
func (s *Service) RenderText(rec *analysis.Record) string {
	var b strings.Builder
	width := 50
	if rec.Histogram != nil && rec.Histogram.Width > 0 {
		width = rec.Histogram.Width
	}

	rule := strings.Repeat("=", width+30)
	b.WriteString(rule + "\n")
	b.WriteString("QUANTUM CIRCUIT ANALYSIS REPORT\n")
	b.WriteString(rule + "\n\n")

	s.writeCircuitMetrics(&b, rec)
	s.writeStateVector(&b, rec)
	s.writePhaseDiagram(&b, rec, width)
	s.writeProbabilities(&b, rec, width)
	s.writeHistogram(&b, rec, width)
	s.writeQubitGeometry(&b, rec)
	s.writeHeatmap(&b, rec, width)

	b.WriteString(rule + "\n")
	return b.String()
}

func (s *Service) writeCircuitMetrics(b *strings.Builder, rec *analysis.Record) {
	b.WriteString("Circuit Metrics:\n")
	fmt.Fprintf(b, "  Backend:          %s\n", rec.Backend)
	fmt.Fprintf(b, "  Qubits:           %d\n", rec.Qubits)
	fmt.Fprintf(b, "  Depth:            %d\n", rec.Depth)
	fmt.Fprintf(b, "  Operations:       %d\n", rec.Operations)
	fmt.Fprintf(b, "  Measurements:     %d\n", rec.Measurements)
	if rec.Normalized {
		b.WriteString("  Note: input amplitudes were rescaled to unit norm\n")
	}

	if len(rec.OperationsByType) > 0 {
		b.WriteString("  Operations by type:\n")
		types := make([]string, 0, len(rec.OperationsByType))
		for t := range rec.OperationsByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(b, "    %-12s %d\n", t, rec.OperationsByType[t])
		}
	}
	b.WriteString("\n")
}

// writeStateVector tabulates amplitude, magnitude and phase for every basis
// state retained in the distribution.
func (s *Service) writeStateVector(b *strings.Builder, rec *analysis.Record) {
	if len(rec.StateVector) == 0 || len(rec.Distribution) == 0 {
		return
	}
	b.WriteString("State Vector:\n")
	for _, e := range rec.Distribution {
		if e.Index < 0 || e.Index >= len(rec.StateVector) {
			continue
		}
		a := rec.StateVector[e.Index]
		mag := math.Hypot(a.Real, a.Imag)
		phase := math.Atan2(a.Imag, a.Real) * 180 / math.Pi
		fmt.Fprintf(b, "  |%s>: %+.4f%+.4fi  magnitude=%.4f  phase=%+8.2f°\n",
			e.State, a.Real, a.Imag, mag, phase)
	}
	b.WriteString("\n")
}

// writePhaseDiagram draws each retained state's phase as a marker on a
// -180°..+180° axis, zero phase at the center.
func (s *Service) writePhaseDiagram(b *strings.Builder, rec *analysis.Record, width int) {
	if len(rec.StateVector) == 0 || len(rec.Distribution) == 0 {
		return
	}
	b.WriteString("Phase Diagram (-180° .. +180°):\n")
	for _, e := range rec.Distribution {
		if e.Index < 0 || e.Index >= len(rec.StateVector) {
			continue
		}
		a := rec.StateVector[e.Index]
		phase := math.Atan2(a.Imag, a.Real)

		pos := int((phase + math.Pi) / (2 * math.Pi) * float64(width-1))
		if pos < 0 {
			pos = 0
		}
		if pos > width-1 {
			pos = width - 1
		}
		axis := []rune(strings.Repeat("-", width))
		axis[width/2] = '|'
		axis[pos] = 'o'
		fmt.Fprintf(b, "  |%s>: [%s] %+8.2f°\n", e.State, string(axis), phase*180/math.Pi)
	}
	b.WriteString("\n")
}

func (s *Service) writeProbabilities(b *strings.Builder, rec *analysis.Record, width int) {
	b.WriteString("Measurement Probabilities:\n")
	if len(rec.Distribution) == 0 {
		b.WriteString("  (no basis state above the near-zero threshold)\n\n")
		return
	}

	maxProb := 0.0
	for _, e := range rec.Distribution {
		if e.Probability > maxProb {
			maxProb = e.Probability
		}
	}
	for _, e := range rec.Distribution {
		bar := barOf(e.Probability, maxProb, width)
		fmt.Fprintf(b, "  |%s>: %-*s %6.2f%%\n", e.State, width, bar, e.Probability*100)
	}
	if rec.DiscardedMass > 0 {
		fmt.Fprintf(b, "  discarded mass below threshold: %.3e\n", rec.DiscardedMass)
	}
	b.WriteString("\n")
}

func (s *Service) writeHistogram(b *strings.Builder, rec *analysis.Record, width int) {
	if rec.Histogram == nil || len(rec.Histogram.Bins) == 0 {
		return
	}
	fmt.Fprintf(b, "Probability Histogram (%d bins):\n", rec.Histogram.BinCount)
	maxProb := 0.0
	for _, bin := range rec.Histogram.Bins {
		if bin.Probability > maxProb {
			maxProb = bin.Probability
		}
	}
	for _, bin := range rec.Histogram.Bins {
		label := bin.StartState
		if bin.EndIndex != bin.StartIndex {
			label = bin.StartState + ".." + bin.EndState
		}
		bar := barOf(bin.Probability, maxProb, width)
		fmt.Fprintf(b, "  [%s]: %-*s %6.4f\n", label, width, bar, bin.Probability)
	}
	b.WriteString("\n")
}

func (s *Service) writeQubitGeometry(b *strings.Builder, rec *analysis.Record) {
	if len(rec.Bloch) == 0 {
		return
	}
	b.WriteString("Qubit State Geometry:\n")
	for q, v := range rec.Bloch {
		entropy := 0.0
		if q < len(rec.Entropies) {
			entropy = rec.Entropies[q]
		}
		fmt.Fprintf(b, "  Qubit %d: bloch=(%+.4f, %+.4f, %+.4f)  entropy=%.4f bits\n",
			q, v.X, v.Y, v.Z, entropy)
	}
	b.WriteString("\n")
}

func (s *Service) writeHeatmap(b *strings.Builder, rec *analysis.Record, width int) {
	n := len(rec.Concurrence)
	if n < 2 {
		return
	}
	b.WriteString("Entanglement Heatmap (pairwise concurrence):\n")
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := rec.Concurrence[i][j]
			bar := barOf(c, 1, width)
			fmt.Fprintf(b, "  Q%d-Q%d: %-*s %.4f\n", i, j, width, bar, c)
		}
	}
	b.WriteString("\n")
}

// barOf scales value against max into a width-bounded block bar; low
// nonzero values still get one block so they remain visible.
func barOf(value, max float64, width int) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	length := int(value / max * float64(width))
	if length < 1 {
		length = 1
	}
	if length > width {
		length = width
	}
	return strings.Repeat("█", length)
}
