// Package audit delivers registry audit events to the telemetry sink.
// Delivery is fire-and-forget: failures are logged locally and never reach the caller.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

const (
	defaultBufferSize = 256
	defaultTimeout    = 5 * time.Second
	drainTimeout      = 2 * time.Second
)

type Option func(*HTTPSink)

func WithBufferSize(n int) Option {
	return func(s *HTTPSink) {
		if n > 0 {
			s.events = make(chan entity.AuditEvent, n)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSink) {
		s.client = c
	}
}

// HTTPSink posts events as JSON to a remote endpoint from a background loop.
type HTTPSink struct {
	endpoint string
	token    string
	timeout  time.Duration
	client   *http.Client
	logger   *slog.Logger
	events   chan entity.AuditEvent
}

func NewHTTPSink(endpoint, token string, logger *slog.Logger, opts ...Option) *HTTPSink {
	s := &HTTPSink{
		endpoint: endpoint,
		token:    token,
		timeout:  defaultTimeout,
		client:   http.DefaultClient,
		logger:   logger,
		events:   make(chan entity.AuditEvent, defaultBufferSize),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Emit queues e for delivery. It never blocks: when the buffer is full the event is dropped.
func (s *HTTPSink) Emit(ctx context.Context, e entity.AuditEvent) {
	select {
	case s.events <- e:
	default:
		s.logger.WarnContext(ctx, "audit buffer full, event dropped",
			slog.String("package", e.Package),
			slog.String("message", e.Message),
		)
	}
}

// Run delivers queued events until ctx is done, then makes a bounded attempt
// to deliver whatever is still buffered. Cancelling ctx never aborts a delivery
// already under way; each one is bounded by the sink timeout alone.
func (s *HTTPSink) Run(ctx context.Context) error {
	deliverCtx := context.WithoutCancel(ctx)

	for {
		select {
		case e := <-s.events:
			if ctx.Err() != nil {
				s.drain(e)
				return nil
			}
			s.deliver(deliverCtx, e)
		case <-ctx.Done():
			s.drain()
			return nil
		}
	}
}

// drain delivers pending, then everything left in the buffer, within drainTimeout.
func (s *HTTPSink) drain(pending ...entity.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for _, e := range pending {
		s.deliver(ctx, e)
	}

	for {
		select {
		case e := <-s.events:
			s.deliver(ctx, e)
		default:
			return
		}
	}
}

func (s *HTTPSink) deliver(ctx context.Context, e entity.AuditEvent) {
	if err := s.post(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "failed to deliver audit event",
			slog.String("package", e.Package),
			slog.String("message", e.Message),
			slog.Any("err", err),
		)
	}
}

func (s *HTTPSink) post(ctx context.Context, e entity.AuditEvent) error {
	const op = "adapter.audit.HTTPSink.post"

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: failed to encode event: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to send request: %w", op, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	return nil
}

// LogSink writes events to the local logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(ctx context.Context, e entity.AuditEvent) {
	s.logger.Log(ctx, slogLevel(e.Level), e.Message,
		slog.String("stack", e.Stack),
		slog.String("package", e.Package),
	)
}

func slogLevel(level string) slog.Level {
	switch level {
	case entity.LevelDebug:
		return slog.LevelDebug
	case entity.LevelWarn:
		return slog.LevelWarn
	case entity.LevelError, entity.LevelFatal:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
