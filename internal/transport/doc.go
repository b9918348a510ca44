// Package transport performs the HTTP calls for the web service client.
//
// Built on go-resty/resty over a go-retryablehttp pooled transport:
//   - Basic auth, custom headers and query parameters per request
//   - Redirect following with a configurable hop limit
//   - Optional retries with backoff on network errors and 5xx answers
//   - Token bucket rate limiting per client instance
//   - Circuit breaker that trips on outages but not on 4xx rejections
//
// Any non-2xx answer is returned as a *StatusError carrying the status code
// and the raw body.
//
// Example Usage:
//
//	client := transport.NewClient(transport.DefaultOptions())
//	resp, err := client.Do(ctx, &transport.Request{
//		Method: "GET",
//		URL:    "https://shop.example/api/products",
//		Query:  url.Values{"display": {"full"}},
//	})
package transport
