// Package httpclient builds the outbound HTTP clients used to reach the
// analysis backend and the model servers.
package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"
)

// New returns a client with its own transport. TLS verification is set on
// that transport only; a zero timeout means no client timeout.
func New(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: insecureSkipVerify} //nolint:gosec // local self-signed endpoints
	return &http.Client{Timeout: timeout, Transport: tr}
}
