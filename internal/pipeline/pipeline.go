package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robertschaub/factharbor/internal/cache"
	"github.com/robertschaub/factharbor/internal/evaluate"
	"github.com/robertschaub/factharbor/internal/model"
	"github.com/robertschaub/factharbor/internal/reliability"
	"github.com/robertschaub/factharbor/internal/verdict"
	"github.com/robertschaub/factharbor/internal/worker"
)

// Pipeline orchestrates one assessment: structural validation, the claim
// survival gate, dependency resolution, credibility prefetch, weighted
// aggregation, and the confidence-floor gate.
//
// The pipeline itself is shared across runs (it owns the durable store and
// the rate limiter); each Assess call builds its own run-scoped reliability
// cache, so concurrent runs never share an in-memory table.
type Pipeline struct {
	cfg       *model.Config
	store     *reliability.Store // nil when the durable cache is disabled
	limiter   *worker.Limiter
	primary   evaluate.Evaluator
	secondary evaluate.Evaluator
	renderer  *Renderer

	// NoPrefetch skips the prefetch phase; every source then resolves
	// unknown (neutral).
	NoPrefetch bool
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var store *reliability.Store
	if cfg.Cache.Enabled {
		diskTTL := time.Duration(cfg.Reliability.TTLDays) * 24 * time.Hour
		layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, diskTTL)
		store = reliability.NewStore(layered, cfg.Reliability.TTLDays)
	}

	var primary evaluate.Evaluator
	if cfg.Evaluator.Provider != "" {
		e, err := evaluate.NewEvaluator(evaluate.ConfigFromModel(cfg.Evaluator))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize evaluator: %v\n", err)
		} else {
			primary = e
		}
	}

	var secondary evaluate.Evaluator
	if primary != nil && cfg.Evaluator.SecondaryProvider != "" {
		e, err := evaluate.NewEvaluator(evaluate.Config{
			Provider:  cfg.Evaluator.SecondaryProvider,
			Model:     cfg.Evaluator.SecondaryModel,
			APIKey:    cfg.Evaluator.SecondaryAPIKey,
			Timeout:   cfg.Evaluator.Timeout,
			MaxTokens: cfg.Evaluator.MaxTokens,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize secondary evaluator: %v\n", err)
		} else {
			secondary = e
		}
	}

	return &Pipeline{
		cfg:       cfg,
		store:     store,
		limiter:   worker.NewLimiter(cfg.Concurrency.EvaluationsPerMinute, cfg.Concurrency.DomainCooldown),
		primary:   primary,
		secondary: secondary,
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
	}
}

// Assess runs the verdict engine over one dossier
func (p *Pipeline) Assess(ctx context.Context, d *model.Dossier) (*model.AssessmentReport, error) {
	// 1. Structural validation. Data-quality problems degrade gracefully
	// later; broken references fail here.
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var gatesApplied []string

	// 2. Gate 1: survival safety net over the upstream filter outcomes.
	survivors, rescued := verdict.ApplySurvivalGate(d.Claims, d.Filters)
	if rescued {
		gatesApplied = append(gatesApplied, verdict.GateClaimSurvival)
	}

	// 3. Dependency resolution over the full claim set, once, before
	// aggregation.
	resolver := verdict.NewResolver(p.cfg.Bands)
	if err := resolver.Resolve(d.Claims, d.Verdicts); err != nil {
		return nil, err
	}

	// 4. Prefetch source credibility for the surviving claims' evidence.
	// The run cache is created here and discarded with the run.
	runCache := reliability.NewCache(p.cfg, p.store, p.limiter, p.primary, p.secondary)
	if !p.NoPrefetch {
		if err := runCache.Prefetch(ctx, sourceURLs(survivors, d.Sources)); err != nil {
			return nil, fmt.Errorf("prefetch: %w", err)
		}
	}

	// 5. Weighted aggregation over the survivors that were scored.
	inputs := buildInputs(survivors, d)
	aggregator := verdict.NewAggregator(p.cfg, runCache)
	result := aggregator.Aggregate(inputs)
	result.GatesApplied = gatesApplied

	// 6. Gate 4: confidence floor for high-harm claims. Labels only.
	if downgraded := verdict.ApplyConfidenceFloor(d.Claims, d.Verdicts, p.cfg.Gates); len(downgraded) > 0 {
		result.GatesApplied = append(result.GatesApplied, verdict.GateConfidenceFloor)
	}

	return &model.AssessmentReport{
		ArticleID:  d.ArticleID,
		Thesis:     d.Thesis,
		AssessedAt: time.Now().UTC(),
		Claims:     d.Claims,
		Verdicts:   d.Verdicts,
		Aggregate:  result,
	}, nil
}

// AssessFile loads a dossier from disk and assesses it
func (p *Pipeline) AssessFile(ctx context.Context, path string) (*model.AssessmentReport, error) {
	d, err := model.LoadDossier(path)
	if err != nil {
		return nil, err
	}
	return p.Assess(ctx, d)
}

// RenderReport renders the report to the requested outputs
func (p *Pipeline) RenderReport(report *model.AssessmentReport, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	return nil
}

// sourceURLs collects the evidence URLs behind the surviving claims
func sourceURLs(claims []model.AtomicClaim, sources map[string][]string) []string {
	var urls []string
	for _, c := range claims {
		urls = append(urls, sources[c.ID]...)
	}
	return urls
}

// buildInputs pairs surviving claims with their verdicts and collaborator
// data. Claims the debate never scored are skipped — there is nothing to
// aggregate for them.
func buildInputs(claims []model.AtomicClaim, d *model.Dossier) []verdict.ClaimInput {
	inputs := make([]verdict.ClaimInput, 0, len(claims))

	for _, c := range claims {
		v := d.VerdictFor(c.ID)
		if v == nil {
			continue
		}

		in := verdict.ClaimInput{
			Claim:      c,
			Verdict:    v,
			SourceURLs: d.Sources[c.ID],
		}
		if tally, ok := d.Tallies[c.ID]; ok {
			t := tally
			in.Tally = &t
		}
		if share, ok := d.DerivativeShare[c.ID]; ok {
			in.DerivativeShare = share
		}

		inputs = append(inputs, in)
	}

	return inputs
}
