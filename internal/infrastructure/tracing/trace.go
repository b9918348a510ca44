package tracing

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Headers carrying the trace to the shop
const (
	HeaderTraceID = "X-Trace-ID"
	HeaderSpanID  = "X-Span-ID"
)

type TraceID string

type SpanID string

// Span is one web service call within a trace
type Span struct {
	TraceID  TraceID
	SpanID   SpanID
	ParentID SpanID
	Name     string
	Start    time.Time
	Duration time.Duration
	Status   int
	Err      error
}

// StartSpan opens a span. The trace is taken from ctx; without one the span
// starts a new trace named after itself.
func StartSpan(ctx context.Context, name string, spanID SpanID) (*Span, context.Context) {
	parent := spanFrom(ctx)
	if parent.trace == "" {
		parent.trace = TraceID(spanID)
	}

	span := &Span{
		TraceID:  parent.trace,
		SpanID:   spanID,
		ParentID: parent.span,
		Name:     name,
		Start:    time.Now(),
	}
	return span, context.WithValue(ctx, traceKey{}, traceContext{trace: span.TraceID, span: spanID})
}

// Finish records the span's duration
func (s *Span) Finish() {
	s.Duration = time.Since(s.Start)
}

// SetError records the error the call ended with
func (s *Span) SetError(err error) {
	s.Err = err
}

// SetStatus records the HTTP status of the answer, 0 when none arrived
func (s *Span) SetStatus(code int) {
	s.Status = code
}

// Fields returns the span identity as log fields
func (s *Span) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("trace_id", string(s.TraceID)),
		zap.String("span_id", string(s.SpanID)),
	}
	if s.ParentID != "" {
		fields = append(fields, zap.String("parent_id", string(s.ParentID)))
	}
	return fields
}

type traceKey struct{}

type traceContext struct {
	trace TraceID
	span  SpanID
}

func spanFrom(ctx context.Context) traceContext {
	tc, _ := ctx.Value(traceKey{}).(traceContext)
	return tc
}

// WithTrace returns a context carrying an existing trace. parent may be empty.
func WithTrace(ctx context.Context, traceID TraceID, parent SpanID) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceKey{}, traceContext{trace: traceID, span: parent})
}

// FromHeader continues the trace of an incoming request, when it carries one
func FromHeader(ctx context.Context, h http.Header) context.Context {
	return WithTrace(ctx, TraceID(h.Get(HeaderTraceID)), SpanID(h.Get(HeaderSpanID)))
}

// Inject writes the trace carried by ctx into outgoing headers
func Inject(ctx context.Context, headers map[string]string) {
	tc := spanFrom(ctx)
	if tc.trace != "" {
		headers[HeaderTraceID] = string(tc.trace)
	}
	if tc.span != "" {
		headers[HeaderSpanID] = string(tc.span)
	}
}

// GetTraceID returns the trace carried by ctx, if any
func GetTraceID(ctx context.Context) TraceID {
	return spanFrom(ctx).trace
}

// GetSpanID returns the current span carried by ctx, if any
func GetSpanID(ctx context.Context) SpanID {
	return spanFrom(ctx).span
}
