package reliability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robertschaub/factharbor/internal/evaluate"
	"github.com/robertschaub/factharbor/internal/model"
	"github.com/robertschaub/factharbor/internal/worker"
)

// Cache is the source-reliability cache for one analysis run. It has a
// strict two-phase contract:
//
//   - Prefetch may block: it resolves a batch of source URLs against the
//     durable store and runs bounded-concurrency external evaluations for
//     important cache misses.
//   - Lookup never blocks and never suspends: it reads the run's in-memory
//     table only, returning nil for anything unresolved. Calling it before
//     prefetch completes is permitted and simply yields unknown.
//
// Each run owns its own Cache; only the durable Store is shared across
// runs.
type Cache struct {
	cfg       *model.Config
	store     *Store // nil when the durable cache is disabled
	filter    *ImportanceFilter
	limiter   *worker.Limiter
	primary   evaluate.Evaluator // nil disables evaluation entirely
	secondary evaluate.Evaluator // optional second voice for consensus

	mu    sync.RWMutex
	table map[string]*model.SourceCredibilityRecord // nil value = known unknown
}

// NewCache creates a run-scoped reliability cache. secondary may be nil;
// consensus then reuses the primary evaluator for the second score.
func NewCache(cfg *model.Config, store *Store, limiter *worker.Limiter, primary, secondary evaluate.Evaluator) *Cache {
	return &Cache{
		cfg:       cfg,
		store:     store,
		filter:    NewImportanceFilter(cfg.Reliability),
		limiter:   limiter,
		primary:   primary,
		secondary: secondary,
		table:     make(map[string]*model.SourceCredibilityRecord),
	}
}

// Prefetch resolves the batch of source URLs. Unparseable URLs are skipped;
// every resolvable domain ends up in the run table afterwards, as a record
// or as known-unknown. No evaluation outcome is a negative signal:
// rejections (low confidence, evaluator disagreement, unimportant domain)
// are persisted as known-unknowns, while rate limits and transport errors
// stay unknown for this run only so a later run retries. Only cancellation
// surfaces as an error, and a cancelled run persists nothing new.
func (c *Cache) Prefetch(ctx context.Context, urls []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	domains := dedupeDomains(urls)

	var misses []string
	for _, domain := range domains {
		if c.store != nil {
			if rec, found := c.store.Get(domain); found {
				c.put(domain, rec)
				continue
			}
		}

		if !c.filter.Important(domain) || c.primary == nil {
			c.resolveUnknown(domain)
			continue
		}

		misses = append(misses, domain)
	}

	if len(misses) == 0 {
		return ctx.Err()
	}

	pool := worker.NewPool(ctx, c.cfg.Concurrency.PrefetchWorkers, len(misses))
	pool.Start()
	for _, domain := range misses {
		pool.Submit(&evalJob{cache: c, domain: domain})
	}
	pool.Wait()

	return ctx.Err()
}

// Lookup returns the credibility record for a URL's domain, or nil when the
// domain is unknown to this run. Safe to call in a tight loop.
func (c *Cache) Lookup(rawURL string) *model.SourceCredibilityRecord {
	domain, err := DomainOf(rawURL)
	if err != nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table[domain]
}

// evalJob evaluates one domain through the pool
type evalJob struct {
	cache  *Cache
	domain string
}

type evalResult struct {
	domain string
	err    error
}

func (r *evalResult) GetError() error { return r.err }

func (j *evalJob) Execute(ctx context.Context) worker.Result {
	if err := j.cache.limiter.Wait(ctx, j.domain); err != nil {
		// Cancelled or rate-limited out: the domain stays unknown for
		// this run but is NOT persisted, so a later run can retry.
		j.cache.put(j.domain, nil)
		return &evalResult{domain: j.domain, err: err}
	}

	rec, err := j.cache.evaluateDomain(ctx, j.domain)
	switch {
	case err != nil:
		// Transient failure (transport error, cancelled mid-call): unknown
		// for this run only, never negatively cached.
		j.cache.put(j.domain, nil)
	case rec != nil:
		j.cache.resolveRecord(rec)
	default:
		j.cache.resolveUnknown(j.domain)
	}

	return &evalResult{domain: j.domain, err: err}
}

// evaluateDomain runs the external evaluation with the configured
// acceptance rules. A (nil, nil) return is a rejection — low confidence or
// evaluator disagreement — which callers persist as a known-unknown; a
// non-nil error is a transient failure they must not persist.
func (c *Cache) evaluateDomain(ctx context.Context, domain string) (*model.SourceCredibilityRecord, error) {
	rel := c.cfg.Reliability

	first, err := c.primary.Evaluate(ctx, domain)
	if err != nil {
		return nil, err
	}

	score := first.Score
	confidence := first.Confidence
	consensus := false

	if rel.RequireConsensus {
		second := c.secondary
		if second == nil {
			second = c.primary
		}

		other, err := second.Evaluate(ctx, domain)
		if err != nil {
			return nil, err
		}

		delta := other.Score - first.Score
		if delta < 0 {
			delta = -delta
		}
		if delta > rel.ConsensusDelta {
			return nil, nil
		}

		score = (first.Score + other.Score) / 2
		confidence = (first.Confidence + other.Confidence) / 2
		consensus = true
	}

	if confidence < rel.MinEvalConfidence {
		return nil, nil
	}

	return &model.SourceCredibilityRecord{
		Domain:            domain,
		Score:             score,
		Confidence:        confidence,
		ConsensusAchieved: consensus,
		EvaluatedAt:       time.Now().UTC(),
		TTLDays:           rel.TTLDays,
	}, nil
}

// resolveRecord persists an accepted record and mirrors it into the run
// table
func (c *Cache) resolveRecord(rec *model.SourceCredibilityRecord) {
	if c.store != nil {
		_ = c.store.Put(rec)
	}
	c.put(rec.Domain, rec)
}

// resolveUnknown persists a known-unknown and mirrors it into the run table
func (c *Cache) resolveUnknown(domain string) {
	if c.store != nil {
		_ = c.store.PutUnknown(domain)
	}
	c.put(domain, nil)
}

func (c *Cache) put(domain string, rec *model.SourceCredibilityRecord) {
	c.mu.Lock()
	c.table[domain] = rec
	c.mu.Unlock()
}

// dedupeDomains maps URLs to their unique domains in deterministic order
func dedupeDomains(urls []string) []string {
	seen := make(map[string]bool)
	var domains []string

	for _, u := range urls {
		domain, err := DomainOf(u)
		if err != nil {
			continue
		}
		if !seen[domain] {
			seen[domain] = true
			domains = append(domains, domain)
		}
	}

	sort.Strings(domains)
	return domains
}
