package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abhimana06/llmapp04/internal/metrics"
)

func newForwarder(url string) *Forwarder {
	return New(url, NewClient(5*time.Second, false))
}

func decodeError(t *testing.T, out Outcome) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(out.Payload(), &resp); err != nil {
		t.Fatalf("decode payload %q: %v", out.Payload(), err)
	}
	return resp.Error
}

func TestForwardInvalidTypeMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := newForwarder(srv.URL)
	for _, typ := range []string{"translate", "Summarize", "CLASSIFY", " intent", ""} {
		t.Run(typ, func(t *testing.T) {
			out := f.Forward(context.Background(), typ, []byte(`{"text":"hi"}`))
			if out.Kind != KindInvalidType {
				t.Fatalf("kind: got %s, want %s", out.Kind, KindInvalidType)
			}
			if out.StatusCode() != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusBadRequest)
			}
			if got, want := decodeError(t, out), "Invalid analysis type: "+typ; got != want {
				t.Errorf("error: got %q, want %q", got, want)
			}
		})
	}

	if n := calls.Load(); n != 0 {
		t.Errorf("backend calls: got %d, want 0", n)
	}
}

func TestForwardBuildsBackendRequest(t *testing.T) {
	for _, typ := range []string{"summarize", "sentiment", "intent", "classify"} {
		t.Run(typ, func(t *testing.T) {
			body := []byte(`{"text": "The launch went well.", "extra": [1, 2, 3]}`)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method: got %s, want POST", r.Method)
				}
				if r.URL.Path != "/api/ai/"+typ {
					t.Errorf("path: got %q, want %q", r.URL.Path, "/api/ai/"+typ)
				}
				if got := r.Header.Get("Content-Type"); got != "application/json" {
					t.Errorf("Content-Type: got %q, want application/json", got)
				}
				got, _ := io.ReadAll(r.Body)
				if string(got) != string(body) {
					t.Errorf("body: got %q, want %q", got, body)
				}
				w.Write([]byte(`{"result":"ok"}`))
			}))
			defer srv.Close()

			// trailing slash on the base URL must not double up
			out := newForwarder(srv.URL+"/").Forward(context.Background(), typ, body)
			if out.Kind != KindSuccess {
				t.Fatalf("kind: got %s (%s), want success", out.Kind, out.ErrorMessage())
			}
		})
	}
}

func TestForwardRelaysBackendResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"ok", http.StatusOK, `{"result": "ok"}`},
		{"created", http.StatusCreated, `{"id":7}`},
		{"backend bad request", http.StatusBadRequest, `{"detail":"text is required"}`},
		{"backend error", http.StatusInternalServerError, `{"detail":"model crashed"}`},
		{"array body", http.StatusOK, `[1,2,3]`},
		{"scalar body", http.StatusOK, `"done"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out := newForwarder(srv.URL).Forward(context.Background(), "sentiment", []byte(`{}`))
			if out.Kind != KindSuccess {
				t.Fatalf("kind: got %s, want success", out.Kind)
			}
			if out.StatusCode() != tt.status {
				t.Errorf("status: got %d, want %d", out.StatusCode(), tt.status)
			}
			if string(out.Payload()) != tt.body {
				t.Errorf("body: got %q, want %q", out.Payload(), tt.body)
			}
		})
	}
}

func TestForwardEmptyBody(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent, http.StatusInternalServerError} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			out := newForwarder(srv.URL).Forward(context.Background(), "summarize", []byte(`{}`))
			if out.Kind != KindEmptyBody {
				t.Fatalf("kind: got %s, want %s", out.Kind, KindEmptyBody)
			}
			if out.StatusCode() != http.StatusBadGateway {
				t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusBadGateway)
			}
			if got := decodeError(t, out); got != "Backend returned empty response" {
				t.Errorf("error: got %q", got)
			}
		})
	}
}

func TestForwardInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	}))
	defer srv.Close()

	out := newForwarder(srv.URL).Forward(context.Background(), "intent", []byte(`{}`))
	if out.Kind != KindInvalidJSON {
		t.Fatalf("kind: got %s, want %s", out.Kind, KindInvalidJSON)
	}
	if out.StatusCode() != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusBadGateway)
	}

	msg := decodeError(t, out)
	if want := "Backend returned invalid JSON. Status: 200, Content: not-json"; msg != want {
		t.Errorf("error: got %q, want %q", msg, want)
	}
}

func TestForwardNonFiniteNumbersAreInvalidJSON(t *testing.T) {
	tests := []string{
		`{"sentimentScore": NaN}`,
		`{"confidence": Infinity}`,
	}

	for _, body := range tests {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			out := newForwarder(srv.URL).Forward(context.Background(), "sentiment", []byte(`{}`))
			if out.Kind != KindInvalidJSON {
				t.Errorf("kind: got %s, want %s", out.Kind, KindInvalidJSON)
			}
		})
	}
}

func TestForwardInvalidJSONKeepsBackendStatusInMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html>down for maintenance</html>"))
	}))
	defer srv.Close()

	out := newForwarder(srv.URL).Forward(context.Background(), "classify", []byte(`{}`))
	if out.StatusCode() != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusBadGateway)
	}
	msg := decodeError(t, out)
	if !strings.Contains(msg, "Status: 503") {
		t.Errorf("error %q: missing backend status", msg)
	}
	if !strings.Contains(msg, "Content: <html>down for maintenance</html>") {
		t.Errorf("error %q: missing content snippet", msg)
	}
}

func TestForwardInvalidJSONSnippetTruncated(t *testing.T) {
	long := strings.Repeat("é", 250)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(long))
	}))
	defer srv.Close()

	out := newForwarder(srv.URL).Forward(context.Background(), "summarize", []byte(`{}`))
	if got := len([]rune(out.Snippet)); got != snippetLength {
		t.Errorf("snippet runes: got %d, want %d", got, snippetLength)
	}
	if want := strings.Repeat("é", snippetLength); out.Snippet != want {
		t.Error("snippet is not a prefix of the body")
	}
}

func TestForwardConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	out := newForwarder(url).Forward(context.Background(), "sentiment", []byte(`{}`))
	if out.Kind != KindConnectionFailed {
		t.Fatalf("kind: got %s (%s), want %s", out.Kind, out.Message, KindConnectionFailed)
	}
	if out.StatusCode() != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusBadGateway)
	}
	if got := decodeError(t, out); got != "Cannot connect to backend service" {
		t.Errorf("error: got %q", got)
	}
}

func TestForwardBackendHangsUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("response writer is not a hijacker")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("hijack: %v", err)
		}
		conn.Close()
	}))
	defer srv.Close()

	out := newForwarder(srv.URL).Forward(context.Background(), "sentiment", []byte(`{}`))
	if out.Kind != KindConnectionFailed {
		t.Errorf("kind: got %s (%s), want %s", out.Kind, out.Message, KindConnectionFailed)
	}
}

func TestForwardBodyCutShort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result":`))
		w.(http.Flusher).Flush()

		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	out := newForwarder(srv.URL).Forward(context.Background(), "summarize", []byte(`{}`))
	if out.Kind != KindUnknown {
		t.Fatalf("kind: got %s, want %s", out.Kind, KindUnknown)
	}
	if out.StatusCode() != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusInternalServerError)
	}
	if msg := decodeError(t, out); !strings.Contains(msg, "unexpected EOF") {
		t.Errorf("error: got %q, want the read error", msg)
	}
}

func TestForwardBodyReadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result":`))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	out := New(srv.URL, NewClient(100*time.Millisecond, false)).Forward(context.Background(), "summarize", []byte(`{}`))
	if out.Kind != KindTimeout {
		t.Errorf("kind: got %s (%s), want %s", out.Kind, out.Message, KindTimeout)
	}
}

func TestClientDefaults(t *testing.T) {
	t.Run("zero timeout uses DefaultTimeout", func(t *testing.T) {
		if got := NewClient(0, false).Timeout; got != DefaultTimeout {
			t.Errorf("timeout: got %s, want %s", got, DefaultTimeout)
		}
		if DefaultTimeout != 30*time.Second {
			t.Errorf("DefaultTimeout: got %s, want 30s", DefaultTimeout)
		}
	})

	t.Run("nil client uses package defaults", func(t *testing.T) {
		f := New("https://localhost:8443", nil)
		if f.Client.Timeout != DefaultTimeout {
			t.Errorf("timeout: got %s, want %s", f.Client.Timeout, DefaultTimeout)
		}
		tr := f.Client.Transport.(*http.Transport)
		if tr.TLSClientConfig.InsecureSkipVerify != DefaultInsecureSkipVerify {
			t.Errorf("InsecureSkipVerify: got %v, want %v", tr.TLSClientConfig.InsecureSkipVerify, DefaultInsecureSkipVerify)
		}
	})
}

// dialTimeout is the error shape net reports when a dial hits its deadline.
type dialTimeout struct{}

func (dialTimeout) Error() string   { return "i/o timeout" }
func (dialTimeout) Timeout() bool   { return true }
func (dialTimeout) Temporary() bool { return true }

func TestClassifyDialTimeoutIsTimeout(t *testing.T) {
	err := &url.Error{
		Op:  "Post",
		URL: "https://localhost:8443/api/ai/summarize",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: dialTimeout{}},
	}

	out := classify(err)
	if out.Kind != KindTimeout {
		t.Errorf("kind: got %s, want %s", out.Kind, KindTimeout)
	}
	if out.StatusCode() != http.StatusGatewayTimeout {
		t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusGatewayTimeout)
	}
}

func TestForwardTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := New(srv.URL, NewClient(50*time.Millisecond, false))
	out := f.Forward(context.Background(), "classify", []byte(`{}`))
	if out.Kind != KindTimeout {
		t.Fatalf("kind: got %s (%s), want %s", out.Kind, out.Message, KindTimeout)
	}
	if out.StatusCode() != http.StatusGatewayTimeout {
		t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusGatewayTimeout)
	}
	if got := decodeError(t, out); got != "Backend service timed out" {
		t.Errorf("error: got %q", got)
	}
}

func TestForwardContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := newForwarder(srv.URL).Forward(ctx, "classify", []byte(`{}`))
	if out.Kind != KindTimeout {
		t.Errorf("kind: got %s, want %s", out.Kind, KindTimeout)
	}
}

func TestForwardUnknownError(t *testing.T) {
	out := newForwarder("::not a url").Forward(context.Background(), "summarize", []byte(`{}`))
	if out.Kind != KindUnknown {
		t.Fatalf("kind: got %s, want %s", out.Kind, KindUnknown)
	}
	if out.StatusCode() != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", out.StatusCode(), http.StatusInternalServerError)
	}
	if msg := decodeError(t, out); msg == "" {
		t.Error("expected the underlying error message")
	}
}

func TestForwardTLSVerification(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"secure"}`))
	}))
	defer srv.Close()

	t.Run("skip verify reaches self-signed backend", func(t *testing.T) {
		f := New(srv.URL, NewClient(5*time.Second, true))
		out := f.Forward(context.Background(), "summarize", []byte(`{}`))
		if out.Kind != KindSuccess {
			t.Fatalf("kind: got %s (%s), want success", out.Kind, out.ErrorMessage())
		}
	})

	t.Run("verification rejects self-signed backend", func(t *testing.T) {
		f := New(srv.URL, NewClient(5*time.Second, false))
		out := f.Forward(context.Background(), "summarize", []byte(`{}`))
		if out.Kind != KindConnectionFailed {
			t.Fatalf("kind: got %s (%s), want %s", out.Kind, out.Message, KindConnectionFailed)
		}
	})
}

func TestForwardConcurrentTypesDoNotInterfere(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"path":%q,"echo":%s}`, r.URL.Path, body)
	}))
	defer srv.Close()

	type echo struct {
		Path string         `json:"path"`
		Echo map[string]int `json:"echo"`
	}

	f := newForwarder(srv.URL)
	types := []string{"summarize", "sentiment", "intent", "classify"}

	const perType = 10
	var wg sync.WaitGroup
	errs := make(chan error, len(types)*perType)

	for _, typ := range types {
		for i := 0; i < perType; i++ {
			wg.Add(1)
			go func(typ string, i int) {
				defer wg.Done()
				body := fmt.Sprintf(`{"n":%d}`, i)
				out := f.Forward(context.Background(), typ, []byte(body))
				if out.Kind != KindSuccess {
					errs <- fmt.Errorf("%s/%d: kind %s", typ, i, out.Kind)
					return
				}
				var got echo
				if err := json.Unmarshal(out.Payload(), &got); err != nil {
					errs <- fmt.Errorf("%s/%d: %v", typ, i, err)
					return
				}
				want := echo{Path: "/api/ai/" + typ, Echo: map[string]int{"n": i}}
				if diff := cmp.Diff(want, got); diff != "" {
					errs <- fmt.Errorf("%s/%d: (-want +got)\n%s", typ, i, diff)
				}
			}(typ, i)
		}
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestForwardRecordsMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ok := metrics.ForwardTotal.WithLabelValues("intent", "success")
	rejected := metrics.ForwardTotal.WithLabelValues("invalid", "invalid_type")
	okBefore := testutil.ToFloat64(ok)
	rejectedBefore := testutil.ToFloat64(rejected)

	f := newForwarder(srv.URL)
	f.Forward(context.Background(), "intent", []byte(`{}`))
	f.Forward(context.Background(), "bogus", []byte(`{}`))

	if got := testutil.ToFloat64(ok); got != okBefore+1 {
		t.Errorf("success counter: got %f, want %f", got, okBefore+1)
	}
	if got := testutil.ToFloat64(rejected); got != rejectedBefore+1 {
		t.Errorf("invalid counter: got %f, want %f", got, rejectedBefore+1)
	}
}

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if !newForwarder(srv.URL).Available(context.Background()) {
		t.Error("expected available when backend answers, even with 404")
	}

	down := newForwarder("http://127.0.0.1:1")
	if down.Available(context.Background()) {
		t.Error("expected unavailable when backend is unreachable")
	}
}
