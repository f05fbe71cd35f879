package eval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhimana06/llmapp04/internal/analysis"
)

// Sample is an input text to run through one analysis type.
type Sample struct {
	Name string
	Type analysis.Type
	Text string
}

// CaseReport is everything recorded for one sample.
type CaseReport struct {
	Sample    string        `json:"sample"`
	Type      analysis.Type `json:"type"`
	Status    int           `json:"status"`
	Output    string        `json:"output,omitempty"`
	ElapsedMs int64         `json:"elapsed_ms"`
	Results   []Result      `json:"results,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Passed is true when the proxy call succeeded and every criterion passed.
func (c CaseReport) Passed() bool {
	return c.Error == "" && len(c.Results) > 0 && Passed(c.Results)
}

// Runner sends samples through the proxy and grades each response.
type Runner struct {
	ProxyURL    string
	Client      *http.Client
	Judge       Judge
	Concurrency int
}

// Run evaluates samples concurrently and returns one report per sample in
// input order. Per-sample failures are recorded in the report; only
// cancellation of ctx is returned as an error.
func (r *Runner) Run(ctx context.Context, samples []Sample) ([]CaseReport, error) {
	reports := make([]CaseReport, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, s := range samples {
		i, s := i, s
		g.Go(func() error {
			reports[i] = r.runOne(gctx, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *Runner) runOne(ctx context.Context, s Sample) CaseReport {
	rep := CaseReport{Sample: s.Name, Type: s.Type}

	start := time.Now()
	status, output, err := r.analyze(ctx, s)
	rep.ElapsedMs = time.Since(start).Milliseconds()
	rep.Status = status
	rep.Output = output
	if err != nil {
		rep.Error = err.Error()
		slog.WarnContext(ctx, "sample failed", "sample", s.Name, "type", s.Type, "error", err)
		return rep
	}

	tc := TestCase{Input: s.Text, ActualOutput: output}
	results, err := Evaluate(ctx, r.Judge, tc, Criteria(SchemaFor(s.Type))...)
	if err != nil {
		rep.Error = err.Error()
		slog.WarnContext(ctx, "judge failed", "sample", s.Name, "type", s.Type, "error", err)
		return rep
	}
	rep.Results = results
	slog.InfoContext(ctx, "sample graded", "sample", s.Name, "type", s.Type, "passed", rep.Passed())
	return rep
}

func (r *Runner) analyze(ctx context.Context, s Sample) (int, string, error) {
	payload, err := json.Marshal(analysis.Request{Text: s.Text})
	if err != nil {
		return 0, "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(r.ProxyURL, "/") + s.Type.Path()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("proxy request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read response: %w", err)
	}
	output := string(body)
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, output, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(output))
	}
	return resp.StatusCode, output, nil
}
