package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"grafo/internal/batch"
	"grafo/internal/config"
	"grafo/internal/grafoerrors"
	"grafo/internal/layer"
	"grafo/internal/logging"
	"grafo/internal/pipeline"
	"grafo/internal/store"
)

var (
	extractSolution       string
	extractOutput         string
	extractGraph          string
	extractStatsCSV       string
	extractFilterTypes    []string
	extractIncludeOnly    string
	extractExcludeProject []string
	extractFormat         string
	extractBatchConfig    string
	extractVerbose        bool
	extractStorePath      string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a semantic dependency graph from a C# solution",
	Long: `extract runs the full pipeline (compile, classify, walk, resolve, assemble,
serialize, ingest, and record incremental state) against one solution, or a
batch of solutions named by --batch-config.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractSolution, "solution", "s", "", "path to the .sln file")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "primary NDJSON-LD node output path")
	extractCmd.Flags().StringVarP(&extractGraph, "graph", "g", "", "structural-only projection output path")
	extractCmd.Flags().StringVar(&extractStatsCSV, "stats-csv", "", "statistics CSV output path")
	extractCmd.Flags().StringSliceVar(&extractFilterTypes, "filter-types", nil, "restrict emitted component node kinds to this list")
	extractCmd.Flags().StringVar(&extractIncludeOnly, "include-only", "", "only include projects matching this regex")
	extractCmd.Flags().StringSliceVar(&extractExcludeProject, "exclude-projects", nil, "exclude projects matching these regexes")
	extractCmd.Flags().StringVar(&extractFormat, "format", "ndjson", "output format: ndjson|json|jsonld|json-legacy|xml")
	extractCmd.Flags().StringVar(&extractBatchConfig, "batch-config", "", "YAML/JSON file listing solutions to process in one run")
	extractCmd.Flags().BoolVar(&extractVerbose, "verbose", false, "enable verbose logging")
	extractCmd.Flags().StringVar(&extractStorePath, "store", "", "document-store path (defaults to config)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  verboseLevel(),
	})

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return exitError(grafoerrors.NewConfigurationError("loading configuration", err))
	}

	if len(extractExcludeProject) > 0 {
		cfg.ProjectFilter.ExcludePatterns = append(cfg.ProjectFilter.ExcludePatterns, extractExcludeProject...)
	}
	if extractIncludeOnly != "" {
		cfg.ProjectFilter.IncludeOnly = extractIncludeOnly
	}
	if extractFormat != "" {
		cfg.Output.Format = extractFormat
	}
	if extractFormat == "json-legacy" {
		return exitError(grafoerrors.NewConfigurationError("json-legacy emits a single aggregate document and is unsupported at scale", nil))
	}

	storePath := extractStorePath
	if storePath == "" {
		storePath = cfg.Store.Path
	}
	db, err := store.Open(storePath, logger)
	if err != nil {
		return exitError(grafoerrors.New(grafoerrors.IngestError, "opening document store", err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	entries, err := resolveEntries()
	if err != nil {
		return exitError(grafoerrors.NewConfigurationError("resolving solutions to process", err))
	}

	var overall pipeline.Summary
	for _, entry := range entries {
		runCfg := batch.Overlay(cfg, entry)
		opts := pipeline.Options{
			SolutionPath: entry.Solution,
			NodesPath:    outputPathFor(entry),
			GraphPath:    entry.Graph,
			StatsCSVPath: extractStatsCSV,
			FilterTypes:  extractFilterTypes,
		}
		if runCfg.LayerClassification.Interactive {
			opts.Confirm = confirmLayerSummary
		}

		summary, err := pipeline.Run(ctx, runCfg, opts, db, logger)
		if err != nil {
			if ctx.Err() != nil {
				return exitError(grafoerrors.NewCancellationError())
			}
			return exitError(err)
		}

		if summary.Aborted {
			fmt.Printf("%s: aborted by caller after layer classification\n", entry.Solution)
			continue
		}

		printSummary(entry.Solution, summary)
		overall.Attempted += summary.Attempted
		overall.Excluded += summary.Excluded
		overall.Failed += summary.Failed
		overall.Succeeded += summary.Succeeded
	}

	fmt.Printf("\nTotal: %d attempted, %d excluded, %d failed, %d succeeded\n",
		overall.Attempted, overall.Excluded, overall.Failed, overall.Succeeded)
	return nil
}

func resolveEntries() ([]batch.SolutionEntry, error) {
	if extractBatchConfig != "" {
		f, err := batch.Load(extractBatchConfig)
		if err != nil {
			return nil, err
		}
		return f.Solutions, nil
	}
	if extractSolution == "" {
		return nil, fmt.Errorf("--solution is required unless --batch-config is given")
	}
	return []batch.SolutionEntry{{Solution: extractSolution, Output: extractOutput, Graph: extractGraph}}, nil
}

func outputPathFor(entry batch.SolutionEntry) string {
	if entry.Output != "" {
		return entry.Output
	}
	if extractOutput != "" {
		return extractOutput
	}
	base := strings.TrimSuffix(entry.Solution, ".sln")
	return base + ".ndjson"
}

func printSummary(solutionPath string, s pipeline.Summary) {
	fmt.Printf("%s: %d attempted, %d excluded, %d failed, %d succeeded (%d nodes, %d edges)\n",
		solutionPath, s.Attempted, s.Excluded, s.Failed, s.Succeeded, s.NodeCount, s.EdgeCount)
	printLayerSummary(s.LayerSummary)
	fmt.Printf("  incremental: new=%d updated=%d skipped=%d totalInDb=%d\n",
		s.Incremental.New, s.Incremental.Updated, s.Incremental.Skipped, s.Incremental.TotalInDB)
}

func printLayerSummary(ls layer.Summary) {
	fmt.Printf("  layers: %s (avgConfidence=%.2f, directoryDetected=%d/%d, distinctDirectories=%d, defaultFallback=%d)\n",
		ls.QualityAssessment, ls.AverageConfidence, ls.DirectoryDetected, len(ls.Results),
		ls.DistinctDetectedDirectories, ls.DefaultFallback)
	for _, r := range ls.Results {
		for _, w := range r.Warnings {
			fmt.Printf("  warning: %s: %s\n", r.ProjectName, w)
		}
	}
}

// confirmLayerSummary presents the layer classification summary and blocks
// for a y/N answer on stdin before resolve/assemble are allowed to proceed.
func confirmLayerSummary(ls layer.Summary) bool {
	printLayerSummary(ls)
	fmt.Print("Proceed with this layer classification? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

func verboseLevel() logging.LogLevel {
	if extractVerbose {
		return logging.DebugLevel
	}
	return logging.InfoLevel
}

// exitError maps a GrafoError to the CLI's documented exit code by
// terminating the process directly: cobra's own error path always exits 1,
// which cannot represent the full taxonomy.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	code := 1
	if ge, ok := err.(*grafoerrors.GrafoError); ok {
		code = ge.ExitCode()
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(code)
	return nil
}
