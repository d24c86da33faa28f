package insights

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/open-policy-agent/opa/v1/rego"
)

//go:embed recommendations.rego
var recommendationsPolicy string

const recommendationsQuery = "data.hrops.recommendations.list"

type compiledRule struct {
	Rule
	program cel.Program
}

// Engine holds the compiled insight rules and the prepared recommendation
// policy. It is safe for concurrent use.
type Engine struct {
	thresholds      Thresholds
	rules           []compiledRule
	recommendations rego.PreparedEvalQuery
}

type Option func(*engineOptions)

type engineOptions struct {
	rules  []Rule
	policy string
}

func WithRules(rules []Rule) Option {
	return func(o *engineOptions) { o.rules = rules }
}

// WithPolicy replaces the embedded recommendation policy. The module must
// define data.hrops.recommendations.list.
func WithPolicy(module string) Option {
	return func(o *engineOptions) { o.policy = module }
}

func NewEngine(ctx context.Context, thresholds Thresholds, opts ...Option) (*Engine, error) {
	o := engineOptions{rules: DefaultRules(), policy: recommendationsPolicy}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{thresholds: thresholds}
	for _, r := range o.rules {
		if r.Describe == nil {
			return nil, fmt.Errorf("insights: rule %s: missing description", r.ID)
		}
		program, err := compileCondition(r.When)
		if err != nil {
			return nil, fmt.Errorf("insights: rule %s: %w", r.ID, err)
		}
		e.rules = append(e.rules, compiledRule{Rule: r, program: program})
	}

	pq, err := rego.New(
		rego.Query(recommendationsQuery),
		rego.Module("recommendations.rego", o.policy),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("insights: prepare recommendations: %w", err)
	}
	e.recommendations = pq
	return e, nil
}

func (e *Engine) Thresholds() Thresholds { return e.thresholds }

func (e *Engine) Insights(in Input) ([]Insight, error) {
	vars := map[string]any{
		"kpi":    kpiVars(in),
		"limits": limitVars(e.thresholds),
	}
	out := make([]Insight, 0, len(e.rules))
	for _, r := range e.rules {
		val, _, err := r.program.Eval(vars)
		if err != nil {
			return nil, fmt.Errorf("insights: rule %s: %w", r.ID, err)
		}
		matched, ok := val.Value().(bool)
		if !ok {
			return nil, fmt.Errorf("insights: rule %s: non-bool result", r.ID)
		}
		if !matched {
			continue
		}
		out = append(out, Insight{
			Title:       r.Title,
			Description: r.Describe(in),
			Severity:    r.Severity,
		})
	}
	return out, nil
}

func (e *Engine) Recommendations(ctx context.Context, in Input) ([]string, error) {
	rs, err := e.recommendations.Eval(ctx, rego.EvalInput(map[string]any{
		"kpi":    kpiVars(in),
		"limits": limitVars(e.thresholds),
	}))
	if err != nil {
		return nil, fmt.Errorf("insights: evaluate recommendations: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, errors.New("insights: recommendations policy produced no result")
	}
	raw, ok := rs[0].Expressions[0].Value.([]any)
	if !ok {
		return nil, errors.New("insights: recommendations policy result is not a list")
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("insights: recommendation is not a string")
		}
		out = append(out, s)
	}
	return out, nil
}
