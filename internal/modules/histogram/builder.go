// Package histogram bins probability distributions for display.
package histogram

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/quasar/internal/modules/statevector"
)

// DefaultWidth is the default display width forwarded to renderers. It is
// pass-through metadata; the binning itself never consumes it.
const DefaultWidth = 50

// Bin aggregates a contiguous index range of basis states.
type Bin struct {
	StartIndex  int     `json:"start_index"`
	EndIndex    int     `json:"end_index"`
	StartState  string  `json:"start_state"`
	EndState    string  `json:"end_state"`
	Probability float64 `json:"probability"`
	Count       int     `json:"count"` // number of distinct basis states aggregated
}

// Histogram is the binned form of a probability distribution.
type Histogram struct {
	Bins     []Bin   `json:"bins"`
	BinCount int     `json:"bin_count"`
	Width    int     `json:"width"` // display width pass-through for renderers
	Total    float64 `json:"total"`
}

// Builder bins probability distributions.
type Builder struct {
	log zerolog.Logger
}

// NewBuilder creates a histogram builder.
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{log: log.With().Str("service", "histogram").Logger()}
}

// Build partitions the distribution's retained basis states, ordered by
// index, into binCount contiguous groups of near-equal size and sums each
// group's probability. binCount <= 0 selects the default
// round(sqrt(distinct states)), minimum 1; counts above the number of
// distinct states are capped so no bin is empty.
func (b *Builder) Build(dist *statevector.Distribution, binCount, width int) *Histogram {
	if width <= 0 {
		width = DefaultWidth
	}

	entries := dist.Entries
	h := &Histogram{Width: width}
	if len(entries) == 0 {
		return h
	}

	if binCount <= 0 {
		binCount = int(math.Round(math.Sqrt(float64(len(entries)))))
	}
	if binCount < 1 {
		binCount = 1
	}
	if binCount > len(entries) {
		binCount = len(entries)
	}
	h.BinCount = binCount

	base := len(entries) / binCount
	extra := len(entries) % binCount

	start := 0
	for i := 0; i < binCount; i++ {
		size := base
		if i < extra {
			size++
		}
		group := entries[start : start+size]
		start += size

		bin := Bin{
			StartIndex: group[0].Index,
			EndIndex:   group[len(group)-1].Index,
			StartState: group[0].State,
			EndState:   group[len(group)-1].State,
			Count:      len(group),
		}
		for _, e := range group {
			bin.Probability += e.Probability
		}
		h.Total += bin.Probability
		h.Bins = append(h.Bins, bin)
	}

	return h
}
