package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abhimana06/llmapp04/internal/analysis"
	"github.com/abhimana06/llmapp04/internal/config"
	"github.com/abhimana06/llmapp04/internal/eval"
	"github.com/abhimana06/llmapp04/internal/httpclient"
	"github.com/abhimana06/llmapp04/internal/logging"
)

func main() {
	url := flag.String("url", "http://localhost:5000", "analysis proxy base URL")
	configPath := flag.String("config", "", "path to config.yaml (judge settings)")
	envFile := flag.String("env-file", "", "path to a .env file with AIPROXY_* variables")
	types := flag.String("types", "", "comma-separated analysis types (default: all)")
	concurrency := flag.Int("concurrency", 4, "samples evaluated in parallel")
	jsonOut := flag.String("json", "", "write results to JSON file (e.g. results.json)")
	timeout := flag.Duration("timeout", 180*time.Second, "per-request timeout for proxy and judge calls")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evaluate: %v\n", err)
		os.Exit(1)
	}
	logging.Init(os.Stderr, cfg.Debug)

	var selected []string
	if *types != "" {
		selected = strings.Split(*types, ",")
	}
	samples, err := buildSamples(selected)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evaluate: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := &eval.Runner{
		ProxyURL:    *url,
		Client:      httpclient.New(*timeout, false),
		Judge:       eval.NewOpenAIJudge(cfg.JudgeURL, cfg.JudgeAPIKey, cfg.JudgeModel, httpclient.New(*timeout, cfg.InsecureSkipVerify)),
		Concurrency: *concurrency,
	}

	fmt.Printf("Evaluating %d samples against %s (judge: %s at %s)\n\n", len(samples), *url, cfg.JudgeModel, cfg.JudgeURL)
	reports, err := runner.Run(ctx, samples)
	if err != nil {
		slog.Error("evaluation aborted", "error", err)
		os.Exit(1)
	}

	if err := eval.WriteTable(os.Stdout, reports); err != nil {
		slog.Error("write report", "error", err)
		os.Exit(1)
	}

	if *jsonOut != "" {
		if err := eval.WriteJSON(*jsonOut, *url, cfg.JudgeModel, reports); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
		} else {
			fmt.Printf("\nResults written to %s\n", *jsonOut)
		}
	}

	if passed, total := eval.Summary(reports); passed < total {
		os.Exit(1)
	}
}

func parseTypes(names []string) ([]analysis.Type, error) {
	if len(names) == 0 {
		return analysis.Types, nil
	}
	out := make([]analysis.Type, 0, len(names))
	for _, n := range names {
		t, err := analysis.Parse(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
