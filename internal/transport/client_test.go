package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/GriffinCanCode/prestashop/internal/infrastructure/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSendsAuthHeadersQueryAndBody(t *testing.T) {
	var got *http.Request
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(DefaultOptions())
	resp, err := client.Do(context.Background(), &Request{
		Method:   http.MethodPost,
		URL:      srv.URL + "/api/products",
		Username: "TOKEN",
		Header:   map[string]string{"Io-Format": "JSON"},
		Query:    url.Values{"filter[id]": {"[1|2]"}},
		Body:     []byte("<product/>"),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))

	user, pass, ok := got.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "TOKEN", user)
	assert.Equal(t, "", pass)
	assert.Equal(t, "JSON", got.Header.Get("Io-Format"))
	assert.Equal(t, "[1|2]", got.URL.Query().Get("filter[id]"))
	assert.Equal(t, "prestashop-go/1.0", got.Header.Get("User-Agent"))
	assert.Equal(t, "<product/>", string(body))
}

func TestDoReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"code":90}]}`))
	}))
	defer srv.Close()

	client := NewClient(DefaultOptions())
	_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Equal(t, `{"errors":[{"code":90}]}`, string(statusErr.Body))
	assert.Contains(t, statusErr.Error(), "404")
}

func TestDoFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := NewClient(DefaultOptions()).Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL + "/old"})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(resp.Body))
}

func TestRejectionsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(DefaultOptions())
	for i := 0; i < 10; i++ {
		_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
		require.Error(t, err)
	}
	assert.Equal(t, resilience.StateClosed, client.BreakerState())
}

func TestOutagesTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var transitions []string
	opts := DefaultOptions()
	opts.OnBreakerChange = func(name string, from, to resilience.State) {
		transitions = append(transitions, to.String())
	}
	client := NewClient(opts)

	for i := 0; i < 5; i++ {
		_, _ = client.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	}
	assert.Equal(t, resilience.StateOpen, client.BreakerState())
	assert.Equal(t, []string{"open"}, transitions)

	_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestDoHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(DefaultOptions()).Do(ctx, &Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestSetRateLimit(t *testing.T) {
	client := NewClient(DefaultOptions())

	client.SetRateLimit(0.5)
	assert.Equal(t, 1, client.Limiter.Burst())

	client.SetRateLimit(0)
	assert.True(t, client.Limiter.Limit() > 1e300)
}

func TestDoerFunc(t *testing.T) {
	var d Doer = DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
		return &Response{Status: 200, Body: []byte(req.URL)}, nil
	})
	resp, err := d.Do(context.Background(), &Request{URL: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", string(resp.Body))
}
