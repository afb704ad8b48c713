package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/nbase/internal/config"
	"github.com/agbru/nbase/internal/logging"
	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/pkg/models"
	"github.com/agbru/nbase/pkg/nbase"
)

func newTestServer(t *testing.T, svcOpts []service.EvaluatorOption, opts ...Option) *Server {
	t.Helper()
	f, err := nbase.NewFactory()
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	svc := service.NewEvaluator(f, svcOpts...)
	opts = append([]Option{WithLogger(logging.NewNopLogger())}, opts...)
	s := NewServer(svc, config.AppConfig{Port: "0"}, opts...)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHandleEval(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	tests := []struct {
		name      string
		body      string
		result    string
		remainder string
		raw       bool
	}{
		{"add", `{"op":"add","args":["123","877"]}`, "1000", "", false},
		{"hex mul", `{"op":"mul","args":["FF","FF"],"base":16}`, "FE01", "", false},
		{"divmod", `{"op":"divmod","args":["1537","7"]}`, "219", "4", false},
		{"custom charset", `{"op":"convert","args":["5"],"to_base":2,"to_charset":"ab"}`, "bab", "", false},
		{"raw base", `{"op":"convert","args":["1000001"],"to_base":1000}`, "1,0,1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(t, s.Handler(), http.MethodPost, "/v1/eval", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			resp := decode[models.EvalResponse](t, w)
			if resp.Result != tt.result || resp.Remainder != tt.remainder || resp.Raw != tt.raw {
				t.Errorf("response = %+v, want result %q remainder %q raw %v", resp, tt.result, tt.remainder, tt.raw)
			}
		})
	}
}

func TestHandleEvalCompare(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	w := do(t, s.Handler(), http.MethodPost, "/v1/eval", `{"op":"cmp","args":["-5","3"]}`)
	resp := decode[models.EvalResponse](t, w)
	if resp.Compare == nil || *resp.Compare != -1 {
		t.Errorf("compare = %v, want -1", resp.Compare)
	}
}

func TestHandleEvalErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, []service.EvaluatorOption{service.WithLimits(service.Limits{MaxInput: 10, MaxExponent: 100})})

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"invalid json", `{"op":`, http.StatusBadRequest, "invalid_argument"},
		{"unknown field", `{"op":"add","args":["1","2"],"extra":1}`, http.StatusBadRequest, "invalid_argument"},
		{"unknown op", `{"op":"sqrt","args":["4"]}`, http.StatusNotFound, "unknown_op"},
		{"arity", `{"op":"add","args":["1"]}`, http.StatusBadRequest, "arity"},
		{"bad symbol", `{"op":"add","args":["1x","2"]}`, http.StatusBadRequest, "unknown_symbol"},
		{"bad base", `{"op":"add","args":["1","2"],"base":1}`, http.StatusBadRequest, "invalid_base"},
		{"division by zero", `{"op":"div","args":["1","0"]}`, http.StatusBadRequest, "division_by_zero"},
		{"input too large", `{"op":"neg","args":["12345678901234567890"]}`, http.StatusRequestEntityTooLarge, "input_too_large"},
		{"exponent too large", `{"op":"pow","args":["2","1000"]}`, http.StatusUnprocessableEntity, "exponent_too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(t, s.Handler(), http.MethodPost, "/v1/eval", tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if resp := decode[models.ErrorResponse](t, w); resp.Kind != tt.kind || resp.Error == "" {
				t.Errorf("error response = %+v, want kind %q", resp, tt.kind)
			}
		})
	}
}

func TestHandleEvalBodyTooLarge(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	body := `{"op":"neg","args":["` + strings.Repeat("1", maxBodyBytes+1) + `"]}`
	w := do(t, s.Handler(), http.MethodPost, "/v1/eval", body)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestHandleEvalTimeout(t *testing.T) {
	t.Parallel()
	reg := service.NewRegistry()
	release := make(chan struct{})
	defer close(release)
	_ = reg.Register(service.Op{Name: "hang", Arity: 1, Fn: func(args []*nbase.Integer, _ service.Target) (service.Result, error) {
		<-release
		return service.Result{Op: "hang", Value: args[0]}, nil
	}})
	timeouts := DefaultServerTimeouts()
	timeouts.RequestTimeout = 20 * time.Millisecond
	s := newTestServer(t, []service.EvaluatorOption{service.WithRegistry(reg)}, WithTimeouts(timeouts))

	w := do(t, s.Handler(), http.MethodPost, "/v1/eval", `{"op":"hang","args":["1"]}`)
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want %d", w.Code, http.StatusGatewayTimeout)
	}
}

func TestHandleConvert(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		query  string
		status int
		result string
	}{
		{"decimal to hex", "value=255&to=16", http.StatusOK, "FF"},
		{"hex to binary", "value=FF&from=16&to=2", http.StatusOK, "11111111"},
		{"custom charsets", "value=bab&from=2&charset=ab&to=10", http.StatusOK, "5"},
		{"target charset", "value=5&to=2&to_charset=xy", http.StatusOK, "yxy"},
		{"missing value", "to=2", http.StatusBadRequest, ""},
		{"missing target", "value=5", http.StatusBadRequest, ""},
		{"bad from", "value=5&from=ten&to=2", http.StatusBadRequest, ""},
		{"unknown symbol", "value=5&from=2&to=10", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(t, s.Handler(), http.MethodGet, "/v1/convert?"+tt.query, "")
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK {
				if resp := decode[models.EvalResponse](t, w); resp.Result != tt.result {
					t.Errorf("result = %q, want %q", resp.Result, tt.result)
				}
			}
		})
	}
}

func TestHandleOps(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	w := do(t, s.Handler(), http.MethodGet, "/v1/ops", "")
	ops := decode[[]opInfo](t, w)
	found := false
	for _, op := range ops {
		if op.Name == "divmod" && op.Arity == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("divmod missing from %+v", ops)
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil, WithVersion("v1.2.3"))
	do(t, s.Handler(), http.MethodGet, "/v1/convert?value=5&to=2&to_charset=xy", "")

	w := do(t, s.Handler(), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[models.HealthResponse](t, w)
	if resp.Status != "healthy" || resp.Version != "v1.2.3" || resp.Charsets < 1 || resp.Timestamp == 0 {
		t.Errorf("health = %+v", resp)
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	w := do(t, s.Handler(), http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if resp := decode[models.ErrorResponse](t, w); resp.Kind != "not_found" {
		t.Errorf("kind = %q", resp.Kind)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	s := newTestServer(t,
		[]service.EvaluatorOption{service.WithMetrics(service.NewMetrics(reg))},
		WithPrometheusRegistry(reg),
	)
	do(t, s.Handler(), http.MethodPost, "/v1/eval", `{"op":"add","args":["1","2"]}`)
	do(t, s.Handler(), http.MethodGet, "/v1/convert?value=5&to=2&to_charset=xy", "")

	w := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`nbase_evaluations_total{op="add",status="success"} 1`,
		`nbase_http_requests_total{code="200",route="/v1/eval"} 1`,
		"nbase_charset_registry_size",
		"nbase_charset_registry_misses_total",
		"nbase_http_active_requests 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	w := do(t, s.Handler(), http.MethodGet, "/health", "")
	for header, want := range map[string]string{
		"X-Content-Type-Options":      "nosniff",
		"X-Frame-Options":             "DENY",
		"Access-Control-Allow-Origin": "*",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	pre := do(t, s.Handler(), http.MethodOptions, "/v1/eval", "")
	if pre.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", pre.Code)
	}
}

func TestSecurityRestrictedOrigin(t *testing.T) {
	t.Parallel()
	cfg := SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"https://example.com"}, AllowedMethods: []string{"GET"}}
	h := SecurityMiddleware(cfg, func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w := httptest.NewRecorder()
	h(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
	}

	req.Header.Set("Origin", "https://example.com")
	w = httptest.NewRecorder()
	h(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 2})
	s := newTestServer(t, nil, WithRateLimiter(rl))

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = do(t, s.Handler(), http.MethodGet, "/health", "").Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 1})
	defer rl.Stop()
	now := time.Unix(1_000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || rl.Allow("a") {
		t.Fatal("expected one request per window")
	}
	if !rl.Allow("b") {
		t.Error("clients must be limited independently")
	}
	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("expected a new window after one minute")
	}
	now = now.Add(5 * time.Minute)
	rl.sweep()
	if got := rl.Clients(); got != 0 {
		t.Errorf("Clients() after sweep = %d, want 0", got)
	}
	rl.Stop()
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.1.1.1:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.3 "}, "1.1.1.1:80", "10.0.0.3"},
		{"remote v4", nil, "192.168.1.1:8080", "192.168.1.1"},
		{"remote v6", nil, "[::1]:8080", "::1"},
		{"no port", nil, "192.168.1.1", "192.168.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServeGracefulShutdown(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
