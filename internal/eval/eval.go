package eval

import (
	"context"
	"fmt"
)

// TestCase is one graded exchange: the text sent and the output received.
type TestCase struct {
	Input        string `json:"input"`
	ActualOutput string `json:"actual_output"`
}

// Score is a judge's verdict, Value in [0, 1].
type Score struct {
	Value  float64
	Reason string
}

// Judge scores a test case against a criterion.
type Judge interface {
	Score(ctx context.Context, c Criterion, tc TestCase) (Score, error)
}

// Result is the outcome of one criterion on one test case.
type Result struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Passed    bool    `json:"passed"`
	Reason    string  `json:"reason,omitempty"`
}

// Evaluate scores tc against each criterion in order. The judge only sees
// the fields a criterion names in its Params; the rest are blanked.
// The first judge error aborts the evaluation.
func Evaluate(ctx context.Context, judge Judge, tc TestCase, criteria ...Criterion) ([]Result, error) {
	results := make([]Result, 0, len(criteria))
	for _, c := range criteria {
		s, err := judge.Score(ctx, c, visible(c, tc))
		if err != nil {
			return nil, fmt.Errorf("eval: %s: %w", c.Name, err)
		}
		if s.Value < 0 || s.Value > 1 {
			return nil, fmt.Errorf("eval: %s: score %v out of range [0, 1]", c.Name, s.Value)
		}
		results = append(results, Result{
			Criterion: c.Name,
			Score:     s.Value,
			Threshold: c.Threshold,
			Passed:    s.Value >= c.Threshold,
			Reason:    s.Reason,
		})
	}
	return results, nil
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func visible(c Criterion, tc TestCase) TestCase {
	var out TestCase
	if c.Uses(Input) {
		out.Input = tc.Input
	}
	if c.Uses(ActualOutput) {
		out.ActualOutput = tc.ActualOutput
	}
	return out
}
