package web_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/toastkit/internal/metrics"
	"github.com/dmitrymomot/toastkit/internal/web"
	"github.com/dmitrymomot/toastkit/pkg/debounce"
	"github.com/dmitrymomot/toastkit/pkg/logger"
	"github.com/dmitrymomot/toastkit/pkg/ratelimiter"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

type fixture struct {
	toasts  *toast.Manager
	clock   *clockwork.FakeClock
	handler http.Handler
}

func newFixture(t *testing.T, opts ...web.Option) *fixture {
	t.Helper()

	clock := clockwork.NewFakeClock()
	m := toast.NewManager(toast.WithClock(clock), toast.WithLogger(logger.Nop()))

	opts = append([]web.Option{
		web.WithLogger(logger.Nop()),
		web.WithSearchDebouncer(debounce.New(debounce.WithClock(clock))),
	}, opts...)
	srv := web.New(m, opts...)

	t.Cleanup(func() {
		srv.Close()
		_ = m.Close()
	})
	return &fixture{toasts: m, clock: clock, handler: srv.Router()}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) messages() []string {
	var out []string
	for _, t := range f.toasts.Snapshot() {
		out = append(out, t.Message)
	}
	return out
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func datastarRequest(method, target, signals string) *http.Request {
	req := jsonRequest(method, target, signals)
	req.Header.Set("Datastar-Request", "true")
	return req
}

func TestPage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="toast-root"`)
	assert.Contains(t, body, `@get('/toasts/stream')`)
	assert.Contains(t, body, `&#34;clientId&#34;`)
	assert.NotContains(t, body, toast.ContainerID)

	f.toasts.Notify(context.Background(), "<b>already here</b>")
	body = f.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.Contains(t, body, `id="toastContainer"`)
	assert.Contains(t, body, "&lt;b&gt;already here&lt;/b&gt;")
}

func TestNotify(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(jsonRequest(http.MethodPost, "/toasts", `{"message":"Upload failed","severity":"error"}`))
		require.Equal(t, http.StatusCreated, rec.Code)

		var got map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Upload failed", got["message"])
		assert.Equal(t, "error", got["severity"])
		assert.Equal(t, "appearing", got["phase"])
		assert.Equal(t, "exclamation-triangle", got["icon"])
		assert.Equal(t, 1, f.toasts.Len())
	})

	t.Run("form defaults to success", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/toasts", strings.NewReader(url.Values{"message": {"Saved"}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := f.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)

		snap := f.toasts.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, toast.SeveritySuccess, snap[0].Severity)
	})

	t.Run("unknown severity is info", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(jsonRequest(http.MethodPost, "/toasts", `{"message":"hm","severity":"critical"}`))
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, toast.SeverityInfo, f.toasts.Snapshot()[0].Severity)
	})

	t.Run("datastar signals", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(datastarRequest(http.MethodPost, "/toasts", `{"message":"hi","severity":"warning","q":"","clientId":"c1"}`))
		require.Equal(t, http.StatusNoContent, rec.Code)

		snap := f.toasts.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, toast.SeverityWarning, snap[0].Severity)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		tests := []struct {
			name string
			req  *http.Request
			code int
		}{
			{"empty message", jsonRequest(http.MethodPost, "/toasts", `{"message":"   "}`), http.StatusBadRequest},
			{"unknown field", jsonRequest(http.MethodPost, "/toasts", `{"message":"x","extra":1}`), http.StatusBadRequest},
			{"trailing data", jsonRequest(http.MethodPost, "/toasts", `{"message":"x"}{}`), http.StatusBadRequest},
			{"empty body", jsonRequest(http.MethodPost, "/toasts", ``), http.StatusBadRequest},
			{"plain text", func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/toasts", strings.NewReader("hi"))
				r.Header.Set("Content-Type", "text/plain")
				return r
			}(), http.StatusUnsupportedMediaType},
		}
		for _, tt := range tests {
			rec := f.do(tt.req)
			assert.Equal(t, tt.code, rec.Code, tt.name)
		}
		assert.Equal(t, 0, f.toasts.Len())
	})

	t.Run("datastar errors become toasts", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(datastarRequest(http.MethodPost, "/toasts", `{"message":""}`))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		snap := f.toasts.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "Message is required", snap[0].Message)
		assert.Equal(t, toast.SeverityWarning, snap[0].Severity)
	})
}

func TestDismiss(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tt := f.toasts.Notify(context.Background(), "bye")
	rec := f.do(httptest.NewRequest(http.MethodPost, "/toasts/"+tt.ID+"/dismiss", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	got, ok := f.toasts.Get(tt.ID)
	require.True(t, ok)
	assert.Equal(t, toast.PhaseDisappearing, got.Phase)

	// a second click while the exit runs is harmless
	rec = f.do(httptest.NewRequest(http.MethodPost, "/toasts/"+tt.ID+"/dismiss", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodPost, "/toasts/nope/dismiss", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartRequest(t *testing.T, field, filename string, size int) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0x1}, size))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "value"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFiles(t *testing.T) {
	t.Parallel()

	t.Run("select", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(multipartRequest(t, "audio", "demo.mp3", 2048))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "demo.mp3")
		assert.Contains(t, rec.Body.String(), "2.0 KiB")

		snap := f.toasts.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "File selected: demo.mp3", snap[0].Message)
		assert.Equal(t, toast.SeveritySuccess, snap[0].Severity)
		assert.Equal(t, "check-circle", snap[0].Presentation().Icon)
	})

	t.Run("strips directories from the name", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(multipartRequest(t, "audio", "../../etc/passwd", 1))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"File selected: passwd"}, f.messages())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(multipartRequest(t, "", "", 0))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, f.toasts.Len())
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, web.WithMaxUploadSize(1024))

		rec := f.do(multipartRequest(t, "audio", "big.wav", 4096))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(httptest.NewRequest(http.MethodDelete, "/files", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "display: none")

		snap := f.toasts.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "File removed", snap[0].Message)
		assert.Equal(t, toast.SeverityInfo, snap[0].Severity)
	})
}

func TestSearch(t *testing.T) {
	t.Parallel()

	t.Run("short queries are ignored", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.do(httptest.NewRequest(http.MethodGet, "/search?q=ab", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		f.clock.Advance(debounce.DefaultDelay)
		assert.Never(t, func() bool { return f.toasts.Len() > 0 }, 30*time.Millisecond, time.Millisecond)
	})

	t.Run("announces the last query after the quiet period", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		for _, q := range []string{"hel", "hell", "hello"} {
			rec := f.do(httptest.NewRequest(http.MethodGet, "/search?q="+q, nil))
			require.Equal(t, http.StatusAccepted, rec.Code)
			f.clock.Advance(100 * time.Millisecond)
		}

		f.clock.Advance(debounce.DefaultDelay)
		require.Eventually(t, func() bool { return f.toasts.Len() == 1 }, time.Second, time.Millisecond)
		assert.Equal(t, []string{"Searching for: hello"}, f.messages())
		assert.Equal(t, toast.SeverityInfo, f.toasts.Snapshot()[0].Severity)
	})

	t.Run("short query cancels the pending search", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.do(httptest.NewRequest(http.MethodGet, "/search?q=hello", nil))
		f.do(httptest.NewRequest(http.MethodGet, "/search?q=he", nil))

		f.clock.Advance(debounce.DefaultDelay)
		assert.Never(t, func() bool { return f.toasts.Len() > 0 }, 30*time.Millisecond, time.Millisecond)
	})

	t.Run("datastar signals", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		signals := url.QueryEscape(`{"q":"  golang ","clientId":"c1"}`)
		req := httptest.NewRequest(http.MethodGet, "/search?datastar="+signals, nil)
		req.Header.Set("Datastar-Request", "true")
		require.Equal(t, http.StatusAccepted, f.do(req).Code)

		f.clock.Advance(debounce.DefaultDelay)
		require.Eventually(t, func() bool { return f.toasts.Len() == 1 }, time.Second, time.Millisecond)
		assert.Equal(t, []string{"Searching for: golang"}, f.messages())
	})
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	f := newFixture(t,
		web.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		web.WithMiddleware(metrics.HTTPMiddleware(metrics.WithRegistry(reg))),
	)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `toastkit_http_requests_total{method="GET",route="/health/live",status="200"} 1`)
}

func TestStream(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	existing := f.toasts.Notify(ctx, "already here")

	ts := httptest.NewServer(f.handler)
	reqCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, ts.URL+"/toasts/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Datastar-Request", "true")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// one entry per SSE event, data lines joined
	events := make(chan string, 256)
	go func() {
		defer close(events)
		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		var ev []string
		for sc.Scan() {
			if line := sc.Text(); line != "" {
				ev = append(ev, line)
				continue
			}
			if len(ev) > 0 {
				events <- strings.Join(ev, "\n")
				ev = nil
			}
		}
	}()

	expect := func(substrs ...string) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case ev, ok := <-events:
				require.True(t, ok, "stream closed while waiting for %v", substrs)
				match := true
				for _, s := range substrs {
					if !strings.Contains(ev, s) {
						match = false
						break
					}
				}
				if match {
					return
				}
			case <-deadline:
				t.Fatalf("timed out waiting for %v", substrs)
			}
		}
	}

	// initial sync renders the live container
	expect("selector #toast-root", `id="toast-`+existing.ID+`"`, "already here")

	fresh := f.toasts.Notify(ctx, "fresh one", toast.SeverityWarning)
	expect("selector #toastContainer", "mode append", `id="toast-`+fresh.ID+`"`, `data-phase="appearing"`)

	f.clock.Advance(toast.EnterDelay)
	expect(`id="toast-`+fresh.ID+`"`, `data-phase="visible"`)

	require.True(t, f.toasts.Dismiss(ctx, fresh.ID))
	expect(`id="toast-`+fresh.ID+`"`, `data-phase="disappearing"`)

	f.clock.Advance(toast.ExitDuration)
	expect("selector #toast-"+fresh.ID, "mode remove")
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       2,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)
	f := newFixture(t, web.WithRateLimiter(limiter))

	for range 2 {
		rec := f.do(jsonRequest(http.MethodPost, "/toasts", `{"message":"ok"}`))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// rejected requests share one warning per window, however many arrive
	for range 100 {
		rec := f.do(datastarRequest(http.MethodPost, "/toasts", `{"message":"one more"}`))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	}
	assert.Equal(t, []string{"ok", "ok", "Too many requests, slow down"}, f.messages())

	// another client has its own bucket and its own warning
	for range 5 {
		req := datastarRequest(http.MethodPost, "/toasts", `{"message":"hi"}`)
		req.RemoteAddr = "198.51.100.7:4321"
		f.do(req)
	}
	assert.Equal(t, []string{
		"ok", "ok", "Too many requests, slow down",
		"hi", "hi", "Too many requests, slow down",
	}, f.messages())

	// dismissing is never throttled
	id := f.toasts.Snapshot()[0].ID
	rec := f.do(httptest.NewRequest(http.MethodPost, "/toasts/"+id+"/dismiss", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNotify_SanitizesMessage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(jsonRequest(http.MethodPost, "/toasts", `{"message":"  line one\n\u001b[1mline two\u0000  "}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"line one line two"}, f.messages())

	rec = f.do(jsonRequest(http.MethodPost, "/toasts", `{"message":"\u0007\n\t"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// flushHookWriter runs onFlush on the first Flush, which the stream handler
// performs after subscribing and before rendering its snapshot.
type flushHookWriter struct {
	mu      sync.Mutex
	header  http.Header
	body    bytes.Buffer
	once    sync.Once
	onFlush func()
}

func (w *flushHookWriter) Header() http.Header { return w.header }

func (w *flushHookWriter) WriteHeader(int) {}

func (w *flushHookWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.body.Write(p)
}

func (w *flushHookWriter) Flush() {
	w.once.Do(w.onFlush)
}

func (w *flushHookWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.body.String()
}

func TestStream_ContainerCreatedDuringSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := &flushHookWriter{header: http.Header{}}
	w.onFlush = func() { f.toasts.Notify(context.Background(), "first") }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequestWithContext(ctx, http.MethodGet, "/toasts/stream", nil)
	req.Header.Set("Datastar-Request", "true")

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.handler.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool { return strings.Contains(w.String(), "first") }, 2*time.Second, 5*time.Millisecond)

	// once a later toast is appended, every earlier queued event was handled
	second := f.toasts.Notify(context.Background(), "second")
	require.Eventually(t, func() bool {
		return strings.Contains(w.String(), `id="toast-`+second.ID+`"`)
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done

	body := w.String()
	assert.Equal(t, 1, strings.Count(body, "selector #toast-root"), "container must be rendered once")
	assert.Equal(t, 1, strings.Count(body, ">first<"))
}
