package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/abhimana06/llmapp04/internal/analysis"
)

const judgeSystemPrompt = `You are an impartial evaluator grading the output of a text analysis service.
You are given evaluation criteria and a test case. Think through the criteria step by step,
then grade how well the test case satisfies them.

Return ONLY a JSON object, with no markdown and no text before or after it:
{"score": <integer from 0 to 10>, "reason": "<one or two sentences>"}

0 means the criteria are not met at all; 10 means they are fully met.`

// OpenAIJudge scores test cases with a chat model behind any
// OpenAI-compatible endpoint, including a local Ollama server.
type OpenAIJudge struct {
	client openai.Client
	model  string
}

// NewOpenAIJudge creates a judge for model at baseURL. A nil httpClient uses
// the SDK default; pass one to control timeouts and TLS verification.
func NewOpenAIJudge(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIJudge {
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIJudge{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

type judgeVerdict struct {
	Score  *float64 `json:"score"`
	Reason string   `json:"reason"`
}

// Score asks the model for a 0 to 10 grade and normalizes it to [0, 1].
func (j *OpenAIJudge) Score(ctx context.Context, c Criterion, tc TestCase) (Score, error) {
	resp, err := j.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(judgeSystemPrompt),
			openai.UserMessage(judgePrompt(c, tc)),
		},
		Model:       openai.ChatModel(j.model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return Score{}, fmt.Errorf("judge: completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Score{}, fmt.Errorf("judge: empty response")
	}

	raw := analysis.StripCodeFences(resp.Choices[0].Message.Content)
	var v judgeVerdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		slog.DebugContext(ctx, "judge returned unparseable verdict", "criterion", c.Name, "content", raw)
		return Score{}, fmt.Errorf("judge: parse verdict: %w", err)
	}
	if v.Score == nil {
		return Score{}, fmt.Errorf("judge: verdict has no score")
	}
	if *v.Score < 0 || *v.Score > 10 {
		return Score{}, fmt.Errorf("judge: score %v out of range [0, 10]", *v.Score)
	}

	return Score{Value: *v.Score / 10, Reason: v.Reason}, nil
}

func judgePrompt(c Criterion, tc TestCase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluation: %s\n\nCriteria:\n%s\n", c.Name, c.Criteria)
	if c.Uses(Input) {
		fmt.Fprintf(&b, "\nInput:\n%s\n", tc.Input)
	}
	if c.Uses(ActualOutput) {
		fmt.Fprintf(&b, "\nActual Output:\n%s\n", tc.ActualOutput)
	}
	return b.String()
}
