package eval

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

var criterionNames = []string{
	JSONSchemaMetric("").Name,
	OutputCorrectnessMetric().Name,
	AnswerRelevancyMetric().Name,
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// WriteTable renders reports as a markdown table, one row per sample and one
// column per criterion. Failing scores are marked with ❌.
func WriteTable(w io.Writer, reports []CaseReport) error {
	headers := append([]string{"Sample", "Type", "Status"}, criterionNames...)
	headers = append(headers, "Result")
	table := newTable(w, headers)

	for _, rep := range reports {
		row := []string{rep.Sample, rep.Type.String(), statusCell(rep.Status)}
		scores := make(map[string]Result, len(rep.Results))
		for _, res := range rep.Results {
			scores[res.Criterion] = res
		}
		for _, name := range criterionNames {
			res, ok := scores[name]
			switch {
			case !ok:
				row = append(row, "-")
			case res.Passed:
				row = append(row, fmt.Sprintf("%.2f", res.Score))
			default:
				row = append(row, fmt.Sprintf("❌ %.2f", res.Score))
			}
		}
		row = append(row, resultCell(rep))
		if err := table.Append(row); err != nil {
			return fmt.Errorf("report: append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}

	passed, total := Summary(reports)
	_, err := fmt.Fprintf(w, "\n%d/%d samples passed\n", passed, total)
	return err
}

// Summary counts passing samples.
func Summary(reports []CaseReport) (passed, total int) {
	for _, rep := range reports {
		if rep.Passed() {
			passed++
		}
	}
	return passed, len(reports)
}

type jsonReport struct {
	ProxyURL   string       `json:"proxy_url"`
	JudgeModel string       `json:"judge_model"`
	Passed     int          `json:"passed"`
	Total      int          `json:"total"`
	Cases      []CaseReport `json:"cases"`
}

// WriteJSON writes reports with run metadata to path.
func WriteJSON(path, proxyURL, judgeModel string, reports []CaseReport) error {
	passed, total := Summary(reports)
	data, err := json.MarshalIndent(jsonReport{
		ProxyURL:   proxyURL,
		JudgeModel: judgeModel,
		Passed:     passed,
		Total:      total,
		Cases:      reports,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func statusCell(code int) string {
	if code == 0 {
		return "-"
	}
	return fmt.Sprint(code)
}

func resultCell(rep CaseReport) string {
	if rep.Error != "" {
		return "ERROR: " + truncate(rep.Error, 60)
	}
	if rep.Passed() {
		return "PASS"
	}
	return "FAIL"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
