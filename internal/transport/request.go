package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request is one outbound call
type Request struct {
	Method   string
	URL      string
	Username string
	Password string
	Header   map[string]string
	Query    url.Values
	Body     []byte
}

// Response is a 2xx answer
type Response struct {
	Status   int
	Header   http.Header
	Body     []byte
	Duration time.Duration
}

// StatusError is returned for every answer outside 2xx
type StatusError struct {
	Status int
	Body   []byte
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Status, http.StatusText(e.Status))
}

// Doer executes requests
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// DoerFunc adapts a function to Doer
type DoerFunc func(ctx context.Context, req *Request) (*Response, error)

// Do calls f
func (f DoerFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
