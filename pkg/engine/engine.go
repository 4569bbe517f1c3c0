// Package engine turns Trivy and SARIF scan output into a risk-tiered
// ExecutionPlan. It performs no I/O; every call is a pure, single-pass
// transform of an already-decoded JSON tree.
package engine

// Engine runs the explain-plan pipeline under one Policy. The policy is
// copied at construction, so an Engine is safe for concurrent use.
type Engine struct {
	policy Policy
	core   map[string]struct{}
}

// NewEngine validates p and builds an engine around a private copy of it.
func NewEngine(p Policy) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.clone()
	return &Engine{policy: p, core: p.corePackageSet()}, nil
}

var defaultEngine = mustEngine(DefaultPolicy())

func mustEngine(p Policy) *Engine {
	e, err := NewEngine(p)
	if err != nil {
		panic(err)
	}
	return e
}

// Policy returns a copy of the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy.clone()
}

// Explain normalizes, classifies, estimates, deduplicates and scores the
// scan document. doc is the result of decoding a Trivy or SARIF JSON file
// into an any. It fails only with a *FormatError; malformed elements are
// skipped and reported through ExecutionPlan.Diagnostics.
func (e *Engine) Explain(doc any) (*ExecutionPlan, error) {
	findings, skipped, err := normalize(doc, &e.policy)
	if err != nil {
		return nil, err
	}

	items := make([]PlanItem, 0, len(findings))
	for _, f := range findings {
		items = append(items, PlanItem{
			f:     f,
			level: classify(f, e.policy.Thresholds),
			hours: estimateEffort(f, e.policy.Effort, e.core),
		})
	}

	tiers, duplicates := aggregate(items)
	return score(tiers, duplicates, skipped, e.policy.Grades), nil
}

// Explain runs the pipeline under DefaultPolicy.
func Explain(doc any) (*ExecutionPlan, error) {
	return defaultEngine.Explain(doc)
}
