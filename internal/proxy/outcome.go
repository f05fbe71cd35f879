package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Kind classifies how a forward attempt ended.
type Kind int

const (
	KindSuccess Kind = iota
	KindInvalidType
	KindEmptyBody
	KindInvalidJSON
	KindConnectionFailed
	KindTimeout
	KindUnknown
)

var kindNames = map[Kind]string{
	KindSuccess:          "success",
	KindInvalidType:      "invalid_type",
	KindEmptyBody:        "empty_body",
	KindInvalidJSON:      "invalid_json",
	KindConnectionFailed: "connection_failed",
	KindTimeout:          "timeout",
	KindUnknown:          "unknown",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

const snippetLength = 200

// Outcome is the result of one forward attempt. Only the fields relevant to
// Kind are set:
//   - KindSuccess: Status, Body
//   - KindInvalidType: Message (the rejected value)
//   - KindInvalidJSON: Status, Snippet
//   - KindUnknown: Message
type Outcome struct {
	Kind    Kind
	Status  int
	Body    json.RawMessage
	Snippet string
	Message string
}

type errorResponse struct {
	Error string `json:"error"`
}

func success(status int, body []byte) Outcome {
	return Outcome{Kind: KindSuccess, Status: status, Body: json.RawMessage(body)}
}

func invalidType(value string) Outcome {
	return Outcome{Kind: KindInvalidType, Message: value}
}

func invalidJSON(status int, body []byte) Outcome {
	return Outcome{Kind: KindInvalidJSON, Status: status, Snippet: truncateRunes(string(body), snippetLength)}
}

func unknown(err error) Outcome {
	return Outcome{Kind: KindUnknown, Message: err.Error()}
}

// StatusCode is the HTTP status the client receives.
func (o Outcome) StatusCode() int {
	switch o.Kind {
	case KindSuccess:
		return o.Status
	case KindInvalidType:
		return http.StatusBadRequest
	case KindEmptyBody, KindInvalidJSON, KindConnectionFailed:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage is the text placed in the {"error": ...} envelope.
// It is empty for KindSuccess.
func (o Outcome) ErrorMessage() string {
	switch o.Kind {
	case KindSuccess:
		return ""
	case KindInvalidType:
		return "Invalid analysis type: " + o.Message
	case KindEmptyBody:
		return "Backend returned empty response"
	case KindInvalidJSON:
		return fmt.Sprintf("Backend returned invalid JSON. Status: %d, Content: %s", o.Status, o.Snippet)
	case KindConnectionFailed:
		return "Cannot connect to backend service"
	case KindTimeout:
		return "Backend service timed out"
	default:
		return o.Message
	}
}

// Payload is the JSON document the client receives.
func (o Outcome) Payload() []byte {
	if o.Kind == KindSuccess {
		return o.Body
	}
	data, err := json.Marshal(errorResponse{Error: o.ErrorMessage()})
	if err != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return data
}

// Respond writes the outcome as an HTTP response.
func (o Outcome) Respond(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(o.StatusCode())
	w.Write(o.Payload())
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
