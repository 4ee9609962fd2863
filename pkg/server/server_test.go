package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vtree/pkg/manifest"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/telemetry"
)

const testManifest = `
components:
  - name: Greeting
    selector: x-greeting
    inputs: [name]
    template: '<h1>Hello {{name}}</h1><ng-template #row let-item="item"><li>{{item}}</li></ng-template>'
    state:
      name: World
  - name: Broken
    template: '<blink-tag></blink-tag>'
  - name: Orphan
    template: '<p>alone</p>'
modules:
  - name: AppModule
    imports: [common]
    declarations: [Greeting, Broken]
`

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	m, err := manifest.Parse([]byte(testManifest), ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	set, err := m.Build()
	if err != nil {
		t.Fatal(err)
	}
	env := runtime.New()
	if err := env.Configure(set.Root); err != nil {
		t.Fatal(err)
	}
	return New(env, set, opts...)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestWithMiddleware(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				w.Header().Set("X-"+name, "1")
				next.ServeHTTP(w, r)
			})
		}
	}
	srv := newTestServer(t, WithMiddleware(mw("A")), WithMiddleware(mw("B")))

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-A") != "1" || rec.Header().Get("X-B") != "1" {
		t.Errorf("headers = %v", rec.Header())
	}
	if strings.Join(order, ",") != "A,B" {
		t.Errorf("middleware order = %v", order)
	}

	// Unmatched routes still pass through the middleware.
	order = nil
	if rec := do(t, srv, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if len(order) != 2 {
		t.Errorf("middleware calls = %v", order)
	}
}

func TestComponents(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/components", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeBody[[]ComponentInfo](t, rec)
	if len(got) != 3 {
		t.Fatalf("components = %+v", got)
	}
	if got[0].Name != "Broken" || got[1].Name != "Greeting" || got[2].Name != "Orphan" {
		t.Errorf("order = %+v", got)
	}
	if got[1].Selector != "x-greeting" || got[1].Module != "AppModule" {
		t.Errorf("Greeting = %+v", got[1])
	}
	if got[2].Module != "" {
		t.Errorf("Orphan module = %q, want none", got[2].Module)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantHTML string
	}{
		{name: "initial state", body: "", wantHTML: "<h1>Hello World</h1>"},
		{name: "state override", body: `{"state":{"name":"Gopher"}}`, wantHTML: "<h1>Hello Gopher</h1>"},
	}
	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/components/Greeting/render", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			resp := decodeBody[RenderResponse](t, rec)
			if !strings.HasPrefix(resp.HTML, tt.wantHTML) {
				t.Errorf("html = %q, want prefix %q", resp.HTML, tt.wantHTML)
			}
			if len(resp.RootNodes) != 2 || resp.RootNodes[0].Tag != "h1" || resp.RootNodes[1].Type != "comment" {
				t.Errorf("rootNodes = %+v", resp.RootNodes)
			}
		})
	}
}

func TestTemplateRoots(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/components/Greeting/templates/row/roots", `{"context":{"item":"milk"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decodeBody[RenderResponse](t, rec)
	if resp.HTML != "<li>milk</li>" || resp.Template != "row" {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.RootNodes) != 1 || resp.RootNodes[0].Type != "element" || resp.RootNodes[0].Text != "milk" {
		t.Errorf("rootNodes = %+v", resp.RootNodes)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		want     int
		wantCode string
	}{
		{"unknown component", http.MethodPost, "/components/Nope/render", "", http.StatusNotFound, "E150"},
		{"unknown template", http.MethodPost, "/components/Greeting/templates/missing/roots", "", http.StatusNotFound, "E151"},
		{"not declared", http.MethodPost, "/components/Orphan/render", "", http.StatusUnprocessableEntity, "E100"},
		{"unknown element", http.MethodPost, "/components/Broken/render", "", http.StatusUnprocessableEntity, "E110"},
		{"bad body", http.MethodPost, "/components/Greeting/render", "{", http.StatusBadRequest, ""},
		{"websocket unknown component", http.MethodGet, "/ws/Nope", "", http.StatusNotFound, "E150"},
	}
	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
			resp := decodeBody[errorResponse](t, rec)
			if resp.Code != tt.wantCode || resp.Error == "" {
				t.Errorf("error = %+v, want code %q", resp, tt.wantCode)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
	srv := newTestServer(t, WithMetrics(m, reg))

	m.SessionOpened()
	rec := do(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "preview_sessions 1") {
		t.Errorf("metrics output lacks the session gauge:\n%s", rec.Body)
	}
}

func dialSession(t *testing.T, ts *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%q) failed: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readRender(t *testing.T, conn *websocket.Conn) RenderResponse {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp RenderResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return resp
}

func TestWebSocketSession(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialSession(t, ts, "Greeting")
	if got := readRender(t, conn); !strings.HasPrefix(got.HTML, "<h1>Hello World</h1>") {
		t.Fatalf("initial render = %q", got.HTML)
	}

	for _, name := range []string{"Ada", "Grace"} {
		if err := conn.WriteJSON(SessionMessage{State: map[string]any{"name": name}}); err != nil {
			t.Fatal(err)
		}
		want := "<h1>Hello " + name + "</h1>"
		if got := readRender(t, conn); !strings.HasPrefix(got.HTML, want) {
			t.Errorf("render = %q, want prefix %q", got.HTML, want)
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp errorResponse
	if err := conn.ReadJSON(&resp); err != nil || !strings.HasPrefix(resp.Error, "invalid message") {
		t.Errorf("invalid message reply = %+v, %v", resp, err)
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialSession(t, ts, "Greeting")
	readRender(t, conn)
	if n := srv.SessionCount(); n != 1 {
		t.Fatalf("SessionCount() = %d, want 1", n)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if n := srv.SessionCount(); n != 0 {
		t.Errorf("SessionCount() after shutdown = %d", n)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("ReadMessage() error = %v, want normal closure", err)
	}
}

func TestSessionRejectedAfterShutdown(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/Greeting"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		t.Fatal("Dial() after shutdown succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Dial() response = %v, want 503", resp)
	}
	if n := srv.SessionCount(); n != 0 {
		t.Errorf("SessionCount() = %d, want 0", n)
	}
}

func TestShutdownHonorsDeadline(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		ctx     func() (context.Context, context.CancelFunc)
	}{
		{
			name:    "config timeout",
			timeout: 50 * time.Millisecond,
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithCancel(context.Background())
			},
		},
		{
			name:    "caller deadline",
			timeout: time.Minute,
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, WithConfig(&Config{ShutdownTimeout: tt.timeout}))
			// A session that never finishes.
			srv.wg.Add(1)
			defer srv.wg.Done()

			ctx, cancel := tt.ctx()
			defer cancel()
			start := time.Now()
			err := srv.Shutdown(ctx)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("Shutdown() error = %v, want %v", err, context.DeadlineExceeded)
			}
			if elapsed := time.Since(start); elapsed > 5*time.Second {
				t.Errorf("Shutdown() took %v", elapsed)
			}
		})
	}
}
