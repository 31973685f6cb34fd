package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robertschaub/factharbor/internal/model"
	"github.com/robertschaub/factharbor/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON           string
	outMD             string
	assessTimeout     time.Duration
	noCache           bool
	noPrefetch        bool
	noFooter          bool
	evaluatorProvider string
	evaluatorModel    string
	secondaryProvider string
	secondaryModel    string
	cacheDir          string
)

// assessCmd represents the assess command
var assessCmd = &cobra.Command{
	Use:   "assess <dossier.json>",
	Short: "Aggregate one dossier of scored claims into a verdict",
	Long: `Assess combines a dossier's per-claim verdicts into one weighted overall
truth percentage, confidence, and 7-band verdict label.

The dossier is a JSON document produced by the upstream collaborators:
extracted claims, debate-scored verdicts, boundary tallies, evidence URLs
and filter outcomes. Source domains are prefetched against the credibility
cache (with bounded-concurrency external evaluation on misses), then the
aggregation itself is pure arithmetic.

Example:
  factharbor assess article-42.json
  factharbor assess article-42.json --json verdict.json --md verdict.md
  factharbor assess article-42.json --evaluator openai --eval-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	rootCmd.AddCommand(assessCmd)

	// Output flags
	assessCmd.Flags().StringVar(&outJSON, "json", "verdict.json", "output JSON path")
	assessCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	assessCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Run flags
	assessCmd.Flags().DurationVar(&assessTimeout, "timeout", 2*time.Minute, "overall assessment timeout (covers the prefetch phase)")
	assessCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the durable credibility cache")
	assessCmd.Flags().BoolVar(&noPrefetch, "no-prefetch", false, "skip credibility prefetch (all sources resolve unknown/neutral)")
	assessCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "durable cache directory (default: ~/.factharbor/cache)")

	// Evaluator flags
	assessCmd.Flags().StringVar(&evaluatorProvider, "evaluator", "", "credibility evaluator provider (openai, anthropic, ollama; empty = disabled)")
	assessCmd.Flags().StringVar(&evaluatorModel, "eval-model", "", "evaluator model name")
	assessCmd.Flags().StringVar(&secondaryProvider, "secondary-evaluator", "", "second consensus voice (defaults to asking the primary twice)")
	assessCmd.Flags().StringVar(&secondaryModel, "secondary-eval-model", "", "secondary evaluator model name")
}

func runAssess(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), assessTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Assessing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Cache: %v  Prefetch: %v  Evaluator: %q\n", cfg.Cache.Enabled, !noPrefetch, cfg.Evaluator.Provider)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)
	p.NoPrefetch = noPrefetch

	report, err := p.AssessFile(ctx, path)
	if err != nil {
		return err
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return err
	}

	fmt.Printf("%s — %.1f%% true, %.1f%% confidence (%d claims)\n",
		report.Aggregate.VerdictLabel,
		report.Aggregate.WeightedTruthPercentage,
		report.Aggregate.WeightedConfidence,
		len(report.Claims))

	return nil
}

// buildConfig resolves the run configuration: defaults, then the config
// file, then flags and environment
func buildConfig() (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// Boolean flags only tighten the config file's choices.
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}

	if evaluatorProvider != "" {
		cfg.Evaluator.Provider = evaluatorProvider
		cfg.Evaluator.Model = evaluatorModel

		key, err := apiKeyFor(evaluatorProvider)
		if err != nil {
			return nil, err
		}
		cfg.Evaluator.APIKey = key

		if secondaryProvider != "" {
			cfg.Evaluator.SecondaryProvider = secondaryProvider
			cfg.Evaluator.SecondaryModel = secondaryModel

			key, err := apiKeyFor(secondaryProvider)
			if err != nil {
				return nil, err
			}
			cfg.Evaluator.SecondaryAPIKey = key
		}
	}

	return cfg, nil
}

// apiKeyFor resolves the environment API key a provider requires. Local
// providers need none.
func apiKeyFor(provider string) (string, error) {
	switch provider {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return key, nil
	case "anthropic", "claude":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return "", fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		return key, nil
	default:
		return "", nil
	}
}
