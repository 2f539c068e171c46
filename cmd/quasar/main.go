// Package main is the quasar CLI. It runs the state-vector analysis engine
// against a JSON description of a simulated run and prints the result as a
// text report or as JSON, without needing the HTTP service.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/quasar/internal/modules/analysis"
	"github.com/aristath/quasar/internal/modules/density"
	"github.com/aristath/quasar/internal/modules/report"
)

var (
	inputPath string
	format    string
	bins      int
	width     int
	maxQubits int
	logLevel  string

	rootCmd = &cobra.Command{
		Use:   "quasar",
		Short: "Analyze simulated quantum state vectors",
		Long: `Quasar post-processes a simulated quantum state vector into
probabilities, entanglement measures, Bloch vectors and circuit metrics.`,
		SilenceUsage: true,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis pipeline on one state vector",
		Long: `Reads a JSON run description (backend, qubits, state_vector,
operations, options) from --input or stdin and prints the analysis.`,
		RunE: runAnalyze,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	analyzeCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "Path to the run description JSON, or - for stdin")
	analyzeCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	analyzeCmd.Flags().IntVar(&bins, "bins", 0, "Histogram bin count (0 = round(sqrt(states)))")
	analyzeCmd.Flags().IntVar(&width, "width", 0, "Histogram bar width in characters")
	analyzeCmd.Flags().IntVar(&maxQubits, "max-qubits", density.DefaultMaxQubits, "Reduced density matrix qubit ceiling")
	analyzeCmd.Flags().StringVar(&logLevel, "log-level", "error", "Log level for engine diagnostics")

	rootCmd.AddCommand(analyzeCmd)
}

// runInput is the on-disk form of one analysis run.
type runInput struct {
	Backend     string               `json:"backend"`
	Qubits      int                  `json:"qubits"`
	StateVector []analysis.Amplitude `json:"state_vector"`
	Operations  []analysis.Operation `json:"operations"`
	Options     analysis.Options     `json:"options"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}

	raw, err := readInput(inputPath)
	if err != nil {
		return err
	}

	var in runInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("failed to parse run description: %w", err)
	}

	level, lerr := zerolog.ParseLevel(logLevel)
	if lerr != nil {
		level = zerolog.ErrorLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	opts := in.Options
	if bins > 0 {
		opts.HistogramBins = bins
	}
	if width > 0 {
		opts.HistogramWidth = width
	}

	service := analysis.NewService(maxQubits, log)
	circ := analysis.Circuit{NumQubits: in.Qubits, Operations: in.Operations}

	rec, err := service.Analyze(in.Backend, analysis.ToComplex(in.StateVector), circ, opts)
	if err != nil {
		if kind := analysis.ErrorKind(err); kind != "" {
			return fmt.Errorf("%s: %w", kind, err)
		}
		return err
	}

	reports := report.NewService(log)
	if format == "json" {
		out, err := reports.RenderJSON(rec)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), reports.RenderText(rec))
	return nil
}

// readInput reads the run description from a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}
