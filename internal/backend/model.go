// Package backend implements the analysis service the proxy forwards to: it
// turns a text into a structured analysis by prompting a chat model and
// decoding the model's JSON answer.
package backend

import "context"

// Model completes a single user prompt.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Available reports whether the model server is reachable.
	Available(ctx context.Context) bool
	Name() string
}
