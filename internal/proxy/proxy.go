package proxy

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/abhimana06/llmapp04/internal/analysis"
	"github.com/abhimana06/llmapp04/internal/httpclient"
	"github.com/abhimana06/llmapp04/internal/metrics"
)

const (
	// DefaultTimeout bounds a single backend round trip.
	DefaultTimeout = 30 * time.Second

	// DefaultInsecureSkipVerify is the TLS default toward the backend, which
	// usually runs on a local self-signed certificate.
	DefaultInsecureSkipVerify = true
)

// Forwarder relays analysis requests to a single backend.
// It holds no mutable state and is safe for concurrent use.
type Forwarder struct {
	BaseURL string
	Client  *http.Client
}

// NewClient returns an HTTP client for backend calls. TLS verification is
// configured on this client only.
func NewClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpclient.New(timeout, insecureSkipVerify)
}

// New returns a Forwarder for baseURL. A nil client uses DefaultTimeout and
// DefaultInsecureSkipVerify.
func New(baseURL string, client *http.Client) *Forwarder {
	if client == nil {
		client = NewClient(DefaultTimeout, DefaultInsecureSkipVerify)
	}
	return &Forwarder{BaseURL: baseURL, Client: client}
}

// Forward validates rawType, POSTs body to the backend, and classifies the result.
// It never returns an error: every failure is an Outcome.
func (f *Forwarder) Forward(ctx context.Context, rawType string, body []byte) Outcome {
	typ, err := analysis.Parse(rawType)
	if err != nil {
		metrics.ForwardTotal.WithLabelValues("invalid", KindInvalidType.String()).Inc()
		slog.WarnContext(ctx, "rejected analysis type", "type", rawType)
		return invalidType(rawType)
	}

	start := time.Now()
	out := f.forward(ctx, typ, body)
	elapsed := time.Since(start)

	metrics.ForwardDuration.WithLabelValues(typ.String()).Observe(elapsed.Seconds())
	metrics.ForwardTotal.WithLabelValues(typ.String(), out.Kind.String()).Inc()
	metrics.RequestBytes.Observe(float64(len(body)))

	if out.Kind == KindSuccess {
		slog.DebugContext(ctx, "forwarded", "type", typ, "status", out.Status, "duration_ms", elapsed.Milliseconds())
	} else {
		slog.WarnContext(ctx, "forward failed",
			"type", typ,
			"outcome", out.Kind.String(),
			"status", out.StatusCode(),
			"error", out.ErrorMessage(),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	return out
}

func (f *Forwarder) forward(ctx context.Context, typ analysis.Type, body []byte) Outcome {
	url := strings.TrimRight(f.BaseURL, "/") + typ.Path()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return unknown(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return readFailure(err)
	}

	if len(data) == 0 {
		return Outcome{Kind: KindEmptyBody}
	}
	if !json.Valid(data) {
		return invalidJSON(resp.StatusCode, data)
	}
	return success(resp.StatusCode, data)
}

// classify maps a transport error to an Outcome. Timeouts are checked first
// because a timed-out dial is also a *net.OpError.
func classify(err error) Outcome {
	if isTimeout(err) {
		return Outcome{Kind: KindTimeout}
	}
	if isConnectionFailure(err) {
		return Outcome{Kind: KindConnectionFailed}
	}
	return unknown(err)
}

// readFailure maps an error hit while reading the body. The backend already
// answered, so a broken body is not a connection failure.
func readFailure(err error) Outcome {
	if isTimeout(err) {
		return Outcome{Kind: KindTimeout}
	}
	return unknown(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isConnectionFailure(err error) bool {
	var (
		opErr   *net.OpError
		dnsErr  *net.DNSError
		certErr *tls.CertificateVerificationError
		authErr x509.UnknownAuthorityError
		recErr  tls.RecordHeaderError
	)
	switch {
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return true
	case errors.As(err, &dnsErr),
		errors.As(err, &certErr),
		errors.As(err, &authErr),
		errors.As(err, &recErr):
		return true
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	return false
}

// Available reports whether the backend answers at all within two seconds.
// Any HTTP response counts; only transport failures mean unavailable.
func (f *Forwarder) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(f.BaseURL, "/")+"/", nil)
	if err != nil {
		return false
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
