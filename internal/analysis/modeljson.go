package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a surrounding ```json or ``` markdown fence that
// chat models often wrap JSON answers in.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseError reports model output that is not the expected JSON document.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "Failed to parse AI response as JSON: " + e.Raw
}

func (e *ParseError) Unwrap() error { return e.Err }

// DecodeModelJSON strips code fences from raw and decodes it into v.
func DecodeModelJSON(raw string, v any) error {
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), v); err != nil {
		return &ParseError{Raw: raw, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
