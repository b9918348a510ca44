package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartSpanNewTrace(t *testing.T) {
	span, ctx := StartSpan(context.Background(), "GET products", "req_1")

	assert.Equal(t, TraceID("req_1"), span.TraceID)
	assert.Empty(t, span.ParentID)
	assert.Equal(t, TraceID("req_1"), GetTraceID(ctx))
	assert.Equal(t, SpanID("req_1"), GetSpanID(ctx))
	assert.Len(t, span.Fields(), 2)
}

func TestStartSpanJoinsIncomingTrace(t *testing.T) {
	incoming := http.Header{}
	incoming.Set(HeaderTraceID, "trace-abc")
	incoming.Set(HeaderSpanID, "handler-1")

	span, ctx := StartSpan(FromHeader(context.Background(), incoming), "GET orders", "req_2")

	assert.Equal(t, TraceID("trace-abc"), span.TraceID)
	assert.Equal(t, SpanID("handler-1"), span.ParentID)
	assert.Len(t, span.Fields(), 3)

	headers := map[string]string{}
	Inject(ctx, headers)
	assert.Equal(t, map[string]string{
		HeaderTraceID: "trace-abc",
		HeaderSpanID:  "req_2",
	}, headers)
}

func TestFromHeaderWithoutTrace(t *testing.T) {
	ctx := FromHeader(context.Background(), http.Header{})
	assert.Empty(t, GetTraceID(ctx))

	headers := map[string]string{}
	Inject(ctx, headers)
	assert.Empty(t, headers)
}

func TestWithTraceWithoutParent(t *testing.T) {
	ctx := WithTrace(context.Background(), "trace-x", "")
	assert.Equal(t, TraceID("trace-x"), GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))

	headers := map[string]string{}
	Inject(ctx, headers)
	assert.Equal(t, map[string]string{HeaderTraceID: "trace-x"}, headers)
}

func TestSpanOutcome(t *testing.T) {
	span, _ := StartSpan(context.Background(), "DELETE carts", "req_3")
	span.SetStatus(404)
	span.SetError(errors.New("rejected"))
	span.Finish()

	assert.Equal(t, 404, span.Status)
	assert.EqualError(t, span.Err, "rejected")
	assert.GreaterOrEqual(t, int64(span.Duration), int64(0))
}
