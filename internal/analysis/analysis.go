package analysis

import "fmt"

// Type names one of the analysis operations the backend exposes.
type Type string

const (
	Summarize Type = "summarize"
	Sentiment Type = "sentiment"
	Intent    Type = "intent"
	Classify  Type = "classify"
)

// Types lists every allowed analysis type in a stable order.
var Types = []Type{Summarize, Sentiment, Intent, Classify}

// Parse matches s exactly against the allow-list. No case folding or trimming.
func Parse(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("analysis: unknown type %q", s)
}

// Path returns the backend route for t.
func (t Type) Path() string {
	return "/api/ai/" + string(t)
}

func (t Type) String() string { return string(t) }
