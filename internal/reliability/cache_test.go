package reliability

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/robertschaub/factharbor/internal/evaluate"
	"github.com/robertschaub/factharbor/internal/model"
	"github.com/robertschaub/factharbor/internal/worker"
)

// scriptedEvaluator returns canned results in call order. Safe for the
// pool's concurrent callers.
type scriptedEvaluator struct {
	mu      sync.Mutex
	calls   int
	results []evaluate.Result
	err     error
}

func (e *scriptedEvaluator) Name() string                        { return "scripted" }
func (e *scriptedEvaluator) IsAvailable(ctx context.Context) bool { return true }

func (e *scriptedEvaluator) Evaluate(ctx context.Context, domain string) (*evaluate.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}

	idx := e.calls
	e.calls++
	if idx >= len(e.results) {
		idx = len(e.results) - 1
	}
	result := e.results[idx]
	return &result, nil
}

func (e *scriptedEvaluator) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func testLimiter() *worker.Limiter {
	return worker.NewLimiter(100, time.Millisecond)
}

func TestCache_PrefetchEvaluatesAndPersists(t *testing.T) {
	cfg := model.DefaultConfig()
	store := newMemoryStore(t)
	eval := &scriptedEvaluator{results: []evaluate.Result{
		{Score: 0.8, Confidence: 0.9},
		{Score: 0.9, Confidence: 0.9}, // delta 0.1 <= 0.15: consensus
	}}

	c := NewCache(cfg, store, testLimiter(), eval, nil)
	if err := c.Prefetch(context.Background(), []string{"https://example.org/article"}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	rec := c.Lookup("https://example.org/other-article")
	if rec == nil {
		t.Fatal("Lookup returned nil after successful prefetch")
	}
	if math.Abs(rec.Score-0.85) > 1e-9 || !rec.ConsensusAchieved {
		t.Errorf("record = %+v, want consensus mean score 0.85", rec)
	}
	if eval.count() != 2 {
		t.Errorf("evaluator calls = %d, want 2 (consensus pair)", eval.count())
	}

	// The record outlives the run through the durable store.
	if stored, found := store.Get("example.org"); !found || stored == nil {
		t.Error("accepted record must be persisted")
	}
}

func TestCache_ConsensusDisagreementResolvesUnknown(t *testing.T) {
	cfg := model.DefaultConfig()
	store := newMemoryStore(t)
	eval := &scriptedEvaluator{results: []evaluate.Result{
		{Score: 0.9, Confidence: 0.9},
		{Score: 0.6, Confidence: 0.9}, // delta 0.3 > 0.15: no consensus
	}}

	c := NewCache(cfg, store, testLimiter(), eval, nil)
	if err := c.Prefetch(context.Background(), []string{"https://contested.example/a"}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	if rec := c.Lookup("https://contested.example/a"); rec != nil {
		t.Errorf("disagreement must resolve unknown, got %+v", rec)
	}

	// The rejection is remembered: a later run must not re-evaluate.
	rec, found := store.Get("contested.example")
	if !found || rec != nil {
		t.Fatalf("expected known-unknown in store, got rec=%v found=%v", rec, found)
	}

	second := NewCache(cfg, store, testLimiter(), eval, nil)
	if err := second.Prefetch(context.Background(), []string{"https://contested.example/b"}); err != nil {
		t.Fatalf("second Prefetch: %v", err)
	}
	if eval.count() != 2 {
		t.Errorf("evaluator calls = %d, want 2 (no re-evaluation of a known-unknown)", eval.count())
	}
}

func TestCache_LowConfidenceRejected(t *testing.T) {
	cfg := model.DefaultConfig()
	eval := &scriptedEvaluator{results: []evaluate.Result{
		{Score: 0.8, Confidence: 0.3},
		{Score: 0.8, Confidence: 0.3}, // mean confidence 0.3 < 0.65
	}}

	c := NewCache(cfg, newMemoryStore(t), testLimiter(), eval, nil)
	if err := c.Prefetch(context.Background(), []string{"https://unsure.example/x"}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	if rec := c.Lookup("https://unsure.example/x"); rec != nil {
		t.Errorf("low-confidence evaluation must resolve unknown, got %+v", rec)
	}
}

func TestCache_TransientEvaluatorFailureNotPersisted(t *testing.T) {
	cfg := model.DefaultConfig()
	store := newMemoryStore(t)
	eval := &scriptedEvaluator{err: errors.New("dial tcp: connection refused")}

	c := NewCache(cfg, store, testLimiter(), eval, nil)
	if err := c.Prefetch(context.Background(), []string{"https://flaky.example/a"}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	// Unknown for this run, but a later run must get to retry: a transport
	// error is not a judgment about the source.
	if rec := c.Lookup("https://flaky.example/a"); rec != nil {
		t.Errorf("Lookup = %+v, want nil", rec)
	}
	if _, found := store.Get("flaky.example"); found {
		t.Error("transient evaluator failure must not be persisted as known-unknown")
	}
}

func TestCache_SecondaryEvaluatorConsensus(t *testing.T) {
	cfg := model.DefaultConfig()
	primary := &scriptedEvaluator{results: []evaluate.Result{{Score: 0.7, Confidence: 0.8}}}
	secondary := &scriptedEvaluator{results: []evaluate.Result{{Score: 0.8, Confidence: 0.9}}}

	c := NewCache(cfg, newMemoryStore(t), testLimiter(), primary, secondary)
	if err := c.Prefetch(context.Background(), []string{"https://example.org/a"}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	rec := c.Lookup("https://example.org/a")
	if rec == nil {
		t.Fatal("expected a record")
	}
	if math.Abs(rec.Score-0.75) > 1e-9 || math.Abs(rec.Confidence-0.85) > 1e-9 {
		t.Errorf("record = %+v, want means of both evaluators", rec)
	}
	if primary.count() != 1 || secondary.count() != 1 {
		t.Errorf("calls = %d/%d, want one per evaluator", primary.count(), secondary.count())
	}
}

func TestCache_UnimportantDomainSkipsEvaluation(t *testing.T) {
	cfg := model.DefaultConfig()
	store := newMemoryStore(t)
	eval := &scriptedEvaluator{results: []evaluate.Result{{Score: 0.9, Confidence: 0.9}}}

	c := NewCache(cfg, store, testLimiter(), eval, nil)
	if err := c.Prefetch(context.Background(), []string{"https://m.facebook.com/post/123"}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	if eval.count() != 0 {
		t.Errorf("evaluator calls = %d, want 0 for low-value platform", eval.count())
	}
	if rec := c.Lookup("https://m.facebook.com/post/123"); rec != nil {
		t.Errorf("low-value platform must be unknown, got %+v", rec)
	}
	if rec, found := store.Get("m.facebook.com"); !found || rec != nil {
		t.Error("skip decision must be persisted as known-unknown")
	}
}

func TestCache_StoreHitSkipsEvaluation(t *testing.T) {
	cfg := model.DefaultConfig()
	store := newMemoryStore(t)
	if err := store.Put(&model.SourceCredibilityRecord{
		Domain:      "cached.example",
		Score:       0.9,
		Confidence:  0.9,
		EvaluatedAt: time.Now().UTC(),
		TTLDays:     90,
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	eval := &scriptedEvaluator{results: []evaluate.Result{{Score: 0.1, Confidence: 0.9}}}
	c := NewCache(cfg, store, testLimiter(), eval, nil)
	if err := c.Prefetch(context.Background(), []string{"https://cached.example/a"}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	if eval.count() != 0 {
		t.Errorf("evaluator calls = %d, want 0 for a store hit", eval.count())
	}
	rec := c.Lookup("https://cached.example/a")
	if rec == nil || rec.Score != 0.9 {
		t.Errorf("Lookup = %+v, want the stored record", rec)
	}
}

func TestCache_LookupBeforePrefetchIsUnknown(t *testing.T) {
	cfg := model.DefaultConfig()
	c := NewCache(cfg, newMemoryStore(t), testLimiter(), nil, nil)

	if rec := c.Lookup("https://example.org/a"); rec != nil {
		t.Errorf("Lookup before prefetch = %+v, want nil", rec)
	}
}

func TestCache_NoEvaluatorResolvesUnknown(t *testing.T) {
	cfg := model.DefaultConfig()
	store := newMemoryStore(t)
	c := NewCache(cfg, store, testLimiter(), nil, nil)

	if err := c.Prefetch(context.Background(), []string{"https://example.org/a"}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	if rec := c.Lookup("https://example.org/a"); rec != nil {
		t.Errorf("no evaluator configured: want unknown, got %+v", rec)
	}
	if _, found := store.Get("example.org"); !found {
		t.Error("no-evaluator resolution should still be persisted")
	}
}

func TestCache_DedupesDomains(t *testing.T) {
	cfg := model.DefaultConfig()
	eval := &scriptedEvaluator{results: []evaluate.Result{
		{Score: 0.8, Confidence: 0.9},
		{Score: 0.8, Confidence: 0.9},
	}}

	c := NewCache(cfg, newMemoryStore(t), testLimiter(), eval, nil)
	urls := []string{
		"https://www.example.org/a",
		"https://example.org/b",
		"https://EXAMPLE.ORG/c",
		"not a parseable ://host", // skipped, never an error
	}
	if err := c.Prefetch(context.Background(), urls); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	if eval.count() != 2 {
		t.Errorf("evaluator calls = %d, want 2 (one consensus pair for one domain)", eval.count())
	}
}

func TestCache_CancelledPrefetchDoesNotPersist(t *testing.T) {
	cfg := model.DefaultConfig()
	store := newMemoryStore(t)
	eval := &scriptedEvaluator{results: []evaluate.Result{{Score: 0.8, Confidence: 0.9}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCache(cfg, store, testLimiter(), eval, nil)
	if err := c.Prefetch(ctx, []string{"https://example.org/a"}); err == nil {
		t.Fatal("cancelled prefetch should surface the context error")
	}

	// The domain is unknown for this run but must not be negatively cached:
	// a later run gets to retry.
	if rec := c.Lookup("https://example.org/a"); rec != nil {
		t.Errorf("Lookup = %+v, want nil", rec)
	}
	if _, found := store.Get("example.org"); found {
		t.Error("rate-limited/cancelled domains must not be persisted")
	}
}
