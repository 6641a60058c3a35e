package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ethmon/ethmon/internal/config"
	"github.com/ethmon/ethmon/internal/history"
	"github.com/ethmon/ethmon/internal/llm"
	"github.com/ethmon/ethmon/internal/logtail"
	"github.com/ethmon/ethmon/internal/observability"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Lines      int
	ErigonFile string
	PrysmFile  string
	Stdin      bool
	Question   string
	NoSave     bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(cfg *config.Config) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Send log excerpts to the Anthropic API for triage",
		Long: `Tail both clients' logs and ask the Anthropic Messages API for a
human-readable triage of what is going on.

By default the last N lines of the configured log files are used. Pass
--erigon-file/--prysm-file to analyze whole specific files, or --stdin to
paste both logs interactively.

The analysis is printed, saved to log_analysis_<timestamp>.txt, and recorded
in the local history store (see 'ethmon history').

Requires ANTHROPIC_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, cfg, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Lines, "lines", "n", 100, "Number of log lines to tail from each file")
	cmd.Flags().StringVar(&opts.ErigonFile, "erigon-file", "", "Analyze this Erigon log file in full")
	cmd.Flags().StringVar(&opts.PrysmFile, "prysm-file", "", "Analyze this Prysm log file in full")
	cmd.Flags().BoolVar(&opts.Stdin, "stdin", false, "Read both log excerpts from stdin")
	cmd.Flags().StringVarP(&opts.Question, "question", "q", "", "Specific question to ask about the logs")
	cmd.Flags().BoolVar(&opts.NoSave, "no-save", false, "Do not write the analysis to a file or the history store")

	return cmd
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config, opts *AnalyzeOptions) error {
	ctx, span := observability.StartSpan(cmd.Context(), "analyze")
	defer span.End()

	now := time.Now()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("Ethereum Node Log Analyzer")
	fmt.Printf("Timestamp: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	erigonLogs, prysmLogs, err := collectLogs(cfg, opts)
	if err != nil {
		return err
	}

	model := cfg.AnthropicModel
	if model == "" {
		model = llm.DefaultModel
	}
	client := llm.NewClient(cfg.AnthropicAPIKey, model)

	fmt.Printf("Analyzing logs with %s...\n\n", model)
	analysis, err := client.Analyze(ctx, erigonLogs, prysmLogs, opts.Question)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Println(analysis)
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))

	if opts.NoSave {
		return nil
	}

	outputFile := fmt.Sprintf("log_analysis_%s.txt", now.Format("20060102_150405"))
	if err := saveAnalysis(outputFile, analysis, now); err != nil {
		return err
	}
	fmt.Printf("Analysis saved to: %s\n", outputFile)

	recordAnalysis(cfg, analysis, outputFile, now)
	return nil
}

// collectLogs gathers both log excerpts according to the selected mode.
func collectLogs(cfg *config.Config, opts *AnalyzeOptions) (string, string, error) {
	switch {
	case opts.Stdin:
		fmt.Println("Paste Erigon logs, then press Ctrl+D:")
		erigonLogs, err := readAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read Erigon logs from stdin: %w", err)
		}
		fmt.Println("\nNow paste Prysm logs, then press Ctrl+D:")
		prysmLogs, err := readAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read Prysm logs from stdin: %w", err)
		}
		return erigonLogs, prysmLogs, nil

	case opts.ErigonFile != "" || opts.PrysmFile != "":
		if opts.ErigonFile == "" || opts.PrysmFile == "" {
			return "", "", fmt.Errorf("--erigon-file and --prysm-file must be used together")
		}
		fmt.Printf("Reading Erigon logs from: %s\n", opts.ErigonFile)
		fmt.Printf("Reading Prysm logs from: %s\n\n", opts.PrysmFile)
		return logtail.Tail(opts.ErigonFile, 0), logtail.Tail(opts.PrysmFile, 0), nil

	default:
		fmt.Printf("Reading last %d lines from default log locations...\n\n", opts.Lines)
		return logtail.Tail(cfg.ErigonLog, opts.Lines), logtail.Tail(cfg.PrysmLog, opts.Lines), nil
	}
}

func readAll(r io.Reader) (string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	return b.String(), scanner.Err()
}

func saveAnalysis(path, analysis string, now time.Time) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis generated at: %s\n", now.Format(time.RFC3339))
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	b.WriteString(analysis)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// recordAnalysis stores the run in the history db. History is a convenience;
// a failure here must not fail an analysis the operator already has on
// screen.
func recordAnalysis(cfg *config.Config, analysis, outputFile string, now time.Time) {
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		log.Warn().Err(err).Msg("Could not open history store; analysis not recorded")
		return
	}
	defer store.Close()

	rec := history.Record{
		ID:         uuid.NewString(),
		CreatedAt:  now.UTC(),
		Summary:    summarize(analysis),
		OutputFile: outputFile,
	}
	if err := store.Put(rec); err != nil {
		log.Warn().Err(err).Msg("Could not record analysis in history store")
	}
}

// summarize keeps the first non-empty line, truncated to something that
// still fits in a terminal listing.
func summarize(analysis string) string {
	for _, line := range strings.Split(analysis, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line == "" {
			continue
		}
		if len(line) > 120 {
			return line[:117] + "..."
		}
		return line
	}
	return ""
}
