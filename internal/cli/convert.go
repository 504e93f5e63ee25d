package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ntclean/internal/model"
	"github.com/ppiankov/ntclean/internal/pipeline"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert an N-Triple dump into fact and label files",
	Long: `Convert reads an N-Triple dump (plain, .gz, .zst or .bz2; "-" for stdin)
and writes <name>_triple.nt and <name>_label.nt into the output directory.
Existing files with those names are overwritten.

Example:
  ntclean convert latest-truthy.nt.gz -o ./out
  ntclean convert wikidata.nt -o ./out --name sample --delimiter ','
  ntclean convert latest-truthy.nt.bz2 -o ./out --workers 8 --stats`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	defaults := model.DefaultConfig()
	flags := convertCmd.Flags()

	// Output flags
	flags.StringP("output-dir", "o", "", "output directory (required)")
	flags.String("name", defaults.Output.Name, "base name of the output files")
	flags.String("delimiter", `\t`, "field delimiter (backslash escapes allowed)")
	flags.Bool("stats", defaults.Output.Stats, "write <name>_stats.yaml run report")

	// Throughput flags
	flags.Int("workers", defaults.Concurrency.Workers, "worker goroutines (1 = strictly sequential, output in input order)")
	flags.Int("chunk-size", defaults.Concurrency.ChunkSize, "lines per job when workers > 1")

	// Progress flags
	flags.Duration("progress-interval", defaults.Progress.Interval, "minimum time between progress reports (0 disables)")
	flags.Int64("total-lines", defaults.Progress.TotalLines, "expected number of input lines, enables percentage and ETA")

	// Bind flags to viper
	for key, name := range map[string]string{
		"output.dir":             "output-dir",
		"output.name":            "name",
		"output.delimiter":       "delimiter",
		"output.stats":           "stats",
		"concurrency.workers":    "workers",
		"concurrency.chunk_size": "chunk-size",
		"progress.interval":      "progress-interval",
		"progress.total_lines":   "total-lines",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ntclean conversion\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", inputPath)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Name:         %s\n", cfg.Output.Name)
	fmt.Fprintf(os.Stderr, "  Delimiter:    %q\n", cfg.Output.Delimiter)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	report, err := pipeline.Convert(ctx, cfg, inputPath, pipeline.WithLogger(slog.Default()))
	if report != nil {
		printSummary(report)
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", inputPath, err)
	}

	return nil
}

func printSummary(r *pipeline.Report) {
	s := r.Stats
	title := "Conversion Complete"
	if r.Error != "" {
		title = "Conversion Aborted"
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  %s\n", title)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Lines:      %s\n", humanize.Comma(s.Lines))
	fmt.Fprintf(os.Stderr, "  Facts:      %s (%s)\n", humanize.Comma(s.Facts), humanize.Bytes(uint64(s.FactBytes)))
	fmt.Fprintf(os.Stderr, "  Labels:     %s (%s)\n", humanize.Comma(s.Labels), humanize.Bytes(uint64(s.LabelBytes)))
	fmt.Fprintf(os.Stderr, "  Dropped:    %s\n", humanize.Comma(s.Dropped))
	fmt.Fprintf(os.Stderr, "  Malformed:  %s\n", humanize.Comma(s.ParseFailures))
	fmt.Fprintf(os.Stderr, "  Elapsed:    %v (%s)\n", s.Elapsed.Round(time.Millisecond), pipeline.LineRate(s.Lines, s.Elapsed))
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", r.Outputs.Facts)
	fmt.Fprintf(os.Stderr, "              %s\n", r.Outputs.Labels)
	fmt.Fprintf(os.Stderr, "\n")
}
