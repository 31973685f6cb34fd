package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robertschaub/factharbor/internal/pipeline"
	"github.com/robertschaub/factharbor/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchOutDir      string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Assess multiple dossiers concurrently",
	Long: `Batch reads dossier paths from a file (one per line, # comments allowed)
and assesses them concurrently. Each dossier gets its own isolated run;
only the durable credibility cache is shared.

Example:
  factharbor batch dossiers.txt
  factharbor batch dossiers.txt --concurrency 8 --out-dir verdicts/`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "concurrent assessments")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", ".", "directory for verdict JSON files")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the durable credibility cache")
	batchCmd.Flags().BoolVar(&noPrefetch, "no-prefetch", false, "skip credibility prefetch (all sources resolve unknown/neutral)")
	batchCmd.Flags().StringVar(&evaluatorProvider, "evaluator", "", "credibility evaluator provider (openai, anthropic, ollama; empty = disabled)")
	batchCmd.Flags().StringVar(&evaluatorModel, "eval-model", "", "evaluator model name")
	batchCmd.Flags().StringVar(&secondaryProvider, "secondary-evaluator", "", "second consensus voice (defaults to asking the primary twice)")
	batchCmd.Flags().StringVar(&secondaryModel, "secondary-eval-model", "", "secondary evaluator model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = batchConcurrency

	p := pipeline.NewPipeline(cfg)
	p.NoPrefetch = noPrefetch

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers)
	results, err := processor.ProcessFile(ctx, listPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	failures := 0
	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		outPath := filepath.Join(batchOutDir, verdictFileName(result.Path))
		if err := renderer.RenderJSON(result.Report, outPath); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}

		fmt.Printf("✓ %s: %s (%.1f%% true)\n", result.Path,
			result.Report.Aggregate.VerdictLabel,
			result.Report.Aggregate.WeightedTruthPercentage)
	}

	fmt.Printf("\n%d assessed, %d failed\n", len(results)-failures, failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d assessments failed", failures, len(results))
	}
	return nil
}

func verdictFileName(dossierPath string) string {
	base := filepath.Base(dossierPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".verdict.json"
}
