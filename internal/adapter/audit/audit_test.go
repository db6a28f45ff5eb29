package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

type recorder struct {
	mu     sync.Mutex
	events []entity.AuditEvent
	auth   []string
}

func (r *recorder) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var e entity.AuditEvent
		if err := json.NewDecoder(req.Body).Decode(&e); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		r.mu.Lock()
		r.events = append(r.events, e)
		r.auth = append(r.auth, req.Header.Get("Authorization"))
		r.mu.Unlock()

		w.WriteHeader(status)
	}
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPSink_Deliver(t *testing.T) {
	rec := &recorder{}
	server := httptest.NewServer(rec.handler(http.StatusOK))
	t.Cleanup(server.Close)

	sink := NewHTTPSink(server.URL, "secret", discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sink.Run(ctx)
	}()

	event := entity.AuditEvent{Stack: "backend", Level: entity.LevelInfo, Package: "service", Message: "short code issued"}
	sink.Emit(context.Background(), event)

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, event, rec.events[0])
	assert.Equal(t, "Bearer secret", rec.auth[0])
}

func TestHTTPSink_FailuresAreLogged(t *testing.T) {
	rec := &recorder{}
	server := httptest.NewServer(rec.handler(http.StatusInternalServerError))
	t.Cleanup(server.Close)

	var buf safeBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sink := NewHTTPSink(server.URL, "", logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sink.Run(ctx)
	}()

	sink.Emit(context.Background(), entity.AuditEvent{Level: entity.LevelError, Package: "service", Message: "boom"})

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	assert.Contains(t, buf.String(), "failed to deliver audit event")
	assert.Empty(t, rec.auth[0])
}

func TestHTTPSink_EmitNeverBlocks(t *testing.T) {
	var buf safeBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sink := NewHTTPSink("http://127.0.0.1:1", "", logger, WithBufferSize(1))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 10; i++ {
			sink.Emit(context.Background(), entity.AuditEvent{Package: "service", Message: "queued"})
		}
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}

	assert.Contains(t, buf.String(), "audit buffer full")
}

func TestHTTPSink_DrainsOnShutdown(t *testing.T) {
	rec := &recorder{}
	server := httptest.NewServer(rec.handler(http.StatusNoContent))
	t.Cleanup(server.Close)

	// Both select cases are ready once ctx is cancelled, so repeat to cover either pick.
	for i := 0; i < 20; i++ {
		before := rec.len()

		sink := NewHTTPSink(server.URL, "", discardLogger(), WithBufferSize(4))
		for j := 0; j < 3; j++ {
			sink.Emit(context.Background(), entity.AuditEvent{Package: "service", Message: "pending"})
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.NoError(t, sink.Run(ctx))
		require.Equal(t, 3, rec.len()-before, "run %d", i)
	}
}

func TestHTTPSink_DeliveryOutlivesCancel(t *testing.T) {
	rec := &recorder{}
	started := make(chan struct{})
	release := make(chan struct{})

	var once sync.Once
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			close(started)
			<-release
		})
		rec.handler(http.StatusNoContent).ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	sink := NewHTTPSink(server.URL, "", discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sink.Run(ctx)
	}()

	sink.Emit(context.Background(), entity.AuditEvent{Package: "service", Message: "in flight"})
	<-started

	cancel()
	close(release)

	require.NoError(t, <-done)
	assert.Equal(t, 1, rec.len())
}

func TestLogSink(t *testing.T) {
	var buf safeBuffer
	sink := NewLogSink(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	sink.Emit(context.Background(), entity.AuditEvent{Stack: "backend", Level: entity.LevelWarn, Package: "service", Message: "batch rejected"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="batch rejected"`)
	assert.Contains(t, out, "package=service")
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
