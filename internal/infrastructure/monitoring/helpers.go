package monitoring

import "time"

// Timer measures one web service call
type Timer struct {
	start    time.Time
	metrics  *Metrics
	method   string
	resource string
}

// NewTimer starts timing a call
func NewTimer(metrics *Metrics, method, resource string) *Timer {
	return &Timer{
		start:    time.Now(),
		metrics:  metrics,
		method:   method,
		resource: resource,
	}
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop records the call and returns its duration
func (t *Timer) Stop(status, reqSize, respSize int) time.Duration {
	duration := t.Elapsed()
	t.metrics.RecordCall(t.method, t.resource, status, duration, reqSize, respSize)
	return duration
}

// Fail records the call as failed with the given error kind
func (t *Timer) Fail(status int, kind string) time.Duration {
	duration := t.Stop(status, 0, 0)
	t.metrics.RecordError(t.method, t.resource, kind)
	return duration
}
