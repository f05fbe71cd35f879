package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/abhimana06/llmapp04/internal/analysis"
	"github.com/abhimana06/llmapp04/internal/metrics"
)

type promptTemplate struct {
	instruction string
	example     string
}

var prompts = map[analysis.Type]promptTemplate{
	analysis.Classify: {
		instruction: "Analyze the following text and classify it with appropriate labels and tags.",
		example:     `{"labels": ["label1", "label2"], "primaryCategory": "category", "confidence": 0.9}`,
	},
	analysis.Sentiment: {
		instruction: "Analyze the sentiment of the following text.",
		example:     `{"overallSentiment": "positive", "sentimentScore": 0.8, "emotions": ["joy", "excitement"], "confidence": 0.9}`,
	},
	analysis.Summarize: {
		instruction: "Summarize the following text concisely.",
		example:     `{"summary": "your summary here", "keyPoints": ["point1", "point2", "point3"], "wordCount": 25}`,
	},
	analysis.Intent: {
		instruction: "Detect the intent behind the following text.",
		example:     `{"primaryIntent": "main_intent", "secondaryIntents": ["intent1", "intent2"], "intentCategory": "question", "confidence": 0.9}`,
	},
}

// Prompt builds the model prompt for analysing text as t.
func Prompt(t analysis.Type, text string) (string, error) {
	p, ok := prompts[t]
	if !ok {
		return "", fmt.Errorf("backend: no prompt for type %q", t)
	}
	return fmt.Sprintf("%s Respond with ONLY valid JSON, no additional text or explanation.\n\nText: %s\n\nReturn JSON in this exact format:\n%s",
		p.instruction, text, p.example), nil
}

// Service runs analyses against a Model.
type Service struct {
	Model Model
}

// Analyze prompts the model and decodes its answer into the response DTO for
// t. Unparseable model output is returned as *analysis.ParseError.
func (s *Service) Analyze(ctx context.Context, t analysis.Type, text string) (any, error) {
	prompt, err := Prompt(t, text)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := s.Model.Complete(ctx, prompt)
	metrics.ModelCallDuration.WithLabelValues(t.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelCallsTotal.WithLabelValues(t.String(), "model_error").Inc()
		slog.ErrorContext(ctx, "model call failed", "type", t, "model", s.Model.Name(), "error", err)
		return nil, err
	}

	out := analysis.ResponseFor(t)
	if err := analysis.DecodeModelJSON(raw, out); err != nil {
		metrics.ModelCallsTotal.WithLabelValues(t.String(), "parse_error").Inc()
		slog.WarnContext(ctx, "model returned unparseable JSON", "type", t, "content", raw)
		return nil, err
	}

	metrics.ModelCallsTotal.WithLabelValues(t.String(), "success").Inc()
	slog.DebugContext(ctx, "analysis complete", "type", t, "model", s.Model.Name(),
		"duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

// IsTimeout reports whether err came from an expired deadline or a client
// timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
