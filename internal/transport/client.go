package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/prestashop/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/prestashop/internal/logging"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Options configures a Client
type Options struct {
	Timeout            time.Duration
	RetryMax           int
	RetryWaitMin       time.Duration
	RetryWaitMax       time.Duration
	RateLimit          float64 // requests per second, 0 = unlimited
	MaxRedirects       int
	UserAgent          string
	InsecureSkipVerify bool
	Logger             *logging.Logger
	// OnBreakerChange is called whenever the circuit breaker changes state
	OnBreakerChange func(name string, from, to resilience.State)
}

// DefaultOptions returns the settings used when none are given
func DefaultOptions() Options {
	return Options{
		Timeout:      30 * time.Second,
		RetryMax:     0,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 30 * time.Second,
		MaxRedirects: 10,
		UserAgent:    "prestashop-go/1.0",
	}
}

// Client wraps resty with rate limiting and a circuit breaker
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Breaker *resilience.Breaker
	Mu      sync.RWMutex
}

// NewClient creates a client ready for the web service
func NewClient(opts Options) *Client {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = defaults.MaxRedirects
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = defaults.RetryWaitMin
	}
	if opts.RetryWaitMax <= 0 {
		opts.RetryWaitMax = defaults.RetryWaitMax
	}

	// Pooled transport from retryablehttp; retries themselves are left to resty
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryMax).
		SetRetryWaitTime(opts.RetryWaitMin).
		SetRetryMaxWaitTime(opts.RetryWaitMax).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(opts.MaxRedirects)).
		SetHeader("User-Agent", opts.UserAgent).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
		})

	restyClient.SetTransport(retryClient.HTTPClient.Transport)
	if opts.InsecureSkipVerify {
		restyClient.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	if opts.Logger != nil {
		restyClient.SetLogger(opts.Logger.Named("resty").Sugar())
	}

	breaker := resilience.New("webservice", resilience.Settings{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 20 && counts.FailureRatio() > 0.5)
		},
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: opts.OnBreakerChange,
	})

	c := &Client{
		Resty:   restyClient,
		Limiter: rate.NewLimiter(rate.Inf, 0),
		Breaker: breaker,
	}
	c.SetRateLimit(opts.RateLimit)
	return c
}

// SetRateLimit configures rate limiting (requests per second)
func (c *Client) SetRateLimit(rps float64) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if rps <= 0 {
		c.Limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Do executes req. Answers outside 2xx come back as *StatusError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	c.Mu.RLock()
	limiter := c.Limiter
	r := c.Resty.R().SetContext(ctx)
	c.Mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	if req.Username != "" || req.Password != "" {
		r.SetBasicAuth(req.Username, req.Password)
	}
	r.SetHeaders(req.Header)
	if req.Query != nil {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	var resp *resty.Response
	err := c.Breaker.Execute(ctx, func(context.Context) error {
		var execErr error
		resp, execErr = r.Execute(req.Method, req.URL)
		if execErr != nil {
			return execErr
		}
		if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
			return &StatusError{Status: resp.StatusCode(), Body: resp.Body()}
		}
		return nil
	})
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		return nil, fmt.Errorf("web service unavailable: %w", err)
	}
	if err != nil {
		return nil, err
	}

	return &Response{
		Status:   resp.StatusCode(),
		Header:   resp.Header(),
		Body:     resp.Body(),
		Duration: resp.Time(),
	}, nil
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.Breaker.State()
}
