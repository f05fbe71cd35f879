package analysis

// Request is the body clients send for every analysis type.
// The proxy forwards it verbatim; the evaluation runner builds it.
type Request struct {
	Text string `json:"text"`
}

// ClassificationResponse is returned by /api/ai/classify.
type ClassificationResponse struct {
	Labels          []string `json:"labels" jsonschema:"required,description=Labels and tags that describe the text"`
	PrimaryCategory string   `json:"primaryCategory" jsonschema:"required"`
	Confidence      float64  `json:"confidence" jsonschema:"required,minimum=0,maximum=1"`
}

// SentimentResponse is returned by /api/ai/sentiment.
type SentimentResponse struct {
	OverallSentiment string   `json:"overallSentiment" jsonschema:"required,enum=positive,enum=negative,enum=neutral,enum=mixed"`
	SentimentScore   float64  `json:"sentimentScore" jsonschema:"required,minimum=-1,maximum=1"`
	Emotions         []string `json:"emotions" jsonschema:"required"`
	Confidence       float64  `json:"confidence" jsonschema:"required,minimum=0,maximum=1"`
}

// SummaryResponse is returned by /api/ai/summarize.
type SummaryResponse struct {
	Summary   string   `json:"summary" jsonschema:"required"`
	KeyPoints []string `json:"keyPoints" jsonschema:"required"`
	WordCount int      `json:"wordCount" jsonschema:"required,minimum=0"`
}

// IntentResponse is returned by /api/ai/intent.
type IntentResponse struct {
	PrimaryIntent    string   `json:"primaryIntent" jsonschema:"required"`
	SecondaryIntents []string `json:"secondaryIntents" jsonschema:"required"`
	IntentCategory   string   `json:"intentCategory" jsonschema:"required"`
	Confidence       float64  `json:"confidence" jsonschema:"required,minimum=0,maximum=1"`
}

// ResponseFor returns a pointer to the zero response DTO for t.
func ResponseFor(t Type) any {
	switch t {
	case Summarize:
		return &SummaryResponse{}
	case Sentiment:
		return &SentimentResponse{}
	case Intent:
		return &IntentResponse{}
	case Classify:
		return &ClassificationResponse{}
	default:
		return nil
	}
}
