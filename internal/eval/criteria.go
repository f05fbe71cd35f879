// Package eval grades analysis output with an LLM judge. A Criterion
// describes one quality check in plain language; a Judge scores a TestCase
// against it on a 0 to 1 scale.
package eval

// Param names a TestCase field a criterion lets the judge see.
type Param string

const (
	Input        Param = "input"
	ActualOutput Param = "actual_output"
)

// DefaultThreshold is the minimum passing score for the built-in criteria.
const DefaultThreshold = 0.5

// Criterion is a single judge-graded check.
type Criterion struct {
	Name      string
	Criteria  string
	Params    []Param
	Threshold float64
}

// Uses reports whether p is visible to the judge under c.
func (c Criterion) Uses(p Param) bool {
	for _, q := range c.Params {
		if q == p {
			return true
		}
	}
	return false
}

// JSONSchemaMetric checks that the output is JSON of the expected shape.
// The description is appended verbatim to the criteria text; SchemaFor
// builds one for each analysis type.
func JSONSchemaMetric(description string) Criterion {
	return Criterion{
		Name: "JSON Schema Compliance",
		Criteria: "Evaluate whether the actual output is valid JSON that conforms to " +
			"the required schema. Only check structure, key names, and data " +
			"types; do NOT penalize for specific values. " +
			description,
		Params:    []Param{ActualOutput},
		Threshold: DefaultThreshold,
	}
}

// OutputCorrectnessMetric checks the output makes sense for the input.
func OutputCorrectnessMetric() Criterion {
	return Criterion{
		Name: "Output Correctness",
		Criteria: "Determine whether the actual output is logically correct and " +
			"reasonable given the input text. The analysis should make sense " +
			"for the provided input.",
		Params:    []Param{Input, ActualOutput},
		Threshold: DefaultThreshold,
	}
}

// AnswerRelevancyMetric checks the output is about the input. It accepts
// structured metadata as relevant, so it suits classification endpoints
// as well as free text.
func AnswerRelevancyMetric() Criterion {
	return Criterion{
		Name: "Answer Relevancy",
		Criteria: "Evaluate whether the actual output is topically relevant to the " +
			"input text. The labels, categories, or analysis in the output " +
			"should directly relate to the subject matter of the input. " +
			"Structured metadata (labels, categories, confidence scores) that " +
			"accurately describes the input text should be considered relevant.",
		Params:    []Param{Input, ActualOutput},
		Threshold: DefaultThreshold,
	}
}

// Criteria returns the full set of checks for one analysis response.
func Criteria(schemaDescription string) []Criterion {
	return []Criterion{
		JSONSchemaMetric(schemaDescription),
		OutputCorrectnessMetric(),
		AnswerRelevancyMetric(),
	}
}
