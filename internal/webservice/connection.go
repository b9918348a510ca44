package webservice

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/GriffinCanCode/prestashop/internal/apierr"
	"github.com/GriffinCanCode/prestashop/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/prestashop/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/prestashop/internal/logging"
	"github.com/GriffinCanCode/prestashop/internal/normalize"
	"github.com/GriffinCanCode/prestashop/internal/query"
	"github.com/GriffinCanCode/prestashop/internal/shared/id"
	"github.com/GriffinCanCode/prestashop/internal/transport"
	"go.uber.org/zap"
)

// DefaultEndpoint is the web service path used when none is configured
const DefaultEndpoint = "/api"

// Wire constants
const (
	HeaderRequestID = "X-Request-Id"
	ContentTypeXML  = "text/xml; charset=UTF8"
	formatJSON      = "JSON"
)

// Defaults resolves settings that were not passed to Configure. Values are
// read on every call.
type Defaults interface {
	ShopURL() string
	EndpointPath() string
	AuthToken() string
}

// Option configures a Connection
type Option func(*Connection)

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger.Named("webservice")
		}
	}
}

// WithMetrics records every call in metrics
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(c *Connection) {
		c.metrics = metrics
	}
}

// WithDefaults sets the fallback settings source
func WithDefaults(defaults Defaults) Option {
	return func(c *Connection) {
		c.defaults = defaults
	}
}

// WithIDGenerator sets the request ID generator
func WithIDGenerator(gen *id.Generator) Option {
	return func(c *Connection) {
		if gen != nil {
			c.ids = gen
		}
	}
}

// Connection talks to one shop. It holds no per-query state, so a single
// Connection can serve concurrent callers.
type Connection struct {
	doer     transport.Doer
	baseURL  string
	endpoint string
	token    string
	shopID   int
	defaults Defaults
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	ids      *id.Generator
}

// New creates an unconfigured connection
func New(doer transport.Doer, opts ...Option) *Connection {
	c := &Connection{
		doer:   doer,
		logger: logging.NewNop(),
		ids:    id.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure returns a copy of c bound to a shop. A shopID of 0 leaves
// id_shop out of queries.
func (c *Connection) Configure(baseURL, endpoint, token string, shopID int) *Connection {
	cp := *c
	cp.baseURL = baseURL
	cp.endpoint = endpoint
	cp.token = token
	cp.shopID = shopID
	return &cp
}

// Store is an alias of Configure
func (c *Connection) Store(baseURL, endpoint, token string, shopID int) *Connection {
	return c.Configure(baseURL, endpoint, token, shopID)
}

// ShopID returns the configured shop, 0 when unset
func (c *Connection) ShopID() int {
	return c.shopID
}

// Fetch reads path with the given query
func (c *Connection) Fetch(ctx context.Context, path string, state query.State) (interface{}, error) {
	raw, err := c.call(ctx, http.MethodGet, path, c.params(state), nil)
	if err != nil {
		return nil, boundary("fetch "+path, err)
	}
	return raw, nil
}

// Create posts an XML body to path. Filters in state are ignored.
func (c *Connection) Create(ctx context.Context, path string, state query.State, body []byte) (interface{}, error) {
	raw, err := c.call(ctx, http.MethodPost, path, c.params(state.WithoutFilters()), body)
	if err != nil {
		return nil, boundary("create "+path, err)
	}
	return raw, nil
}

// Update puts an XML body to path
func (c *Connection) Update(ctx context.Context, path string, state query.State, body []byte) (interface{}, error) {
	raw, err := c.call(ctx, http.MethodPut, path, c.params(state), body)
	if err != nil {
		return nil, boundary("update "+path, err)
	}
	return raw, nil
}

// Remove deletes the record with the given id. A rejection by the service is
// returned as a remote service error.
func (c *Connection) Remove(ctx context.Context, path string, recordID string) (interface{}, error) {
	values := url.Values{}
	values.Set("id", "["+recordID+"]")
	return c.call(ctx, http.MethodDelete, path, values, nil)
}

func (c *Connection) params(state query.State) url.Values {
	if _, ok := state.ShopID(); !ok && c.shopID > 0 {
		state = state.WithShop(c.shopID)
	}
	return state.Serialize().Values()
}

// settings is what a call resolved to after the gate
type settings struct {
	baseURL  string
	endpoint string
	token    string
}

func (c *Connection) canExecute(method string) (settings, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	case "":
		return settings{}, apierr.Configuration("no method defined")
	default:
		return settings{}, apierr.Configuration("unsupported method %s", method)
	}

	s := settings{baseURL: c.baseURL, endpoint: c.endpoint, token: c.token}
	if s.baseURL == "" && c.defaults != nil {
		s.baseURL = c.defaults.ShopURL()
	}
	if s.endpoint == "" && c.defaults != nil {
		s.endpoint = c.defaults.EndpointPath()
	}
	if s.endpoint == "" {
		s.endpoint = DefaultEndpoint
	}
	if s.token == "" && c.defaults != nil {
		s.token = c.defaults.AuthToken()
	}

	if s.baseURL == "" {
		return settings{}, apierr.Configuration("no shop URL defined")
	}
	if s.token == "" {
		return settings{}, apierr.Configuration("no web service key defined")
	}
	return s, nil
}

func (c *Connection) call(ctx context.Context, method, path string, values url.Values, body []byte) (interface{}, error) {
	s, err := c.canExecute(method)
	if err != nil {
		return nil, err
	}

	target, err := joinURL(s.baseURL, s.endpoint, path)
	if err != nil {
		return nil, apierr.Connection("malformed URL", err)
	}

	reqID := c.ids.RequestID()
	resource := resourceOf(path)
	span, ctx := tracing.StartSpan(ctx, method+" "+resource, tracing.SpanID(reqID))
	defer span.Finish()

	header := map[string]string{
		"Io-Format":     formatJSON,
		"Output-Format": formatJSON,
		HeaderRequestID: reqID.String(),
	}
	if method == http.MethodPost {
		header["Content-Type"] = ContentTypeXML
	}
	tracing.Inject(ctx, header)

	log := c.logger.Call(reqID.String(), method, resource, span.Fields()...)
	timer := monitoring.NewTimer(c.metrics, method, resource)

	resp, err := c.doer.Do(ctx, &transport.Request{
		Method:   method,
		URL:      target,
		Username: s.token,
		Header:   header,
		Query:    values,
		Body:     body,
	})
	if err != nil {
		err = translate(err)
		status := 0
		if remote, ok := apierr.Remote(err); ok {
			status = remote.Status
		}
		span.SetStatus(status)
		span.SetError(err)
		duration := timer.Fail(status, apierr.KindOf(err).String())
		log.Warn("web service call failed",
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, err
	}
	span.SetStatus(resp.Status)

	raw, err := normalize.Decode(resp.Body)
	if err != nil {
		duration := timer.Fail(resp.Status, apierr.KindOf(err).String())
		log.Warn("undecodable response",
			zap.Int("status", resp.Status),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, err
	}

	duration := timer.Stop(resp.Status, len(body), len(resp.Body))
	log.Debug("web service call",
		zap.Int("status", resp.Status),
		zap.Duration("duration", duration),
		zap.Int("bytes", len(resp.Body)))
	return raw, nil
}

// translate maps transport failures onto typed errors
func translate(err error) error {
	var statusErr *transport.StatusError
	if errors.As(err, &statusErr) {
		return apierr.RemoteService(statusErr.Status, string(statusErr.Body))
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apierr.Connection("request cancelled", err)
	}
	return apierr.Connection("request failed", err)
}

// boundary wraps err as a connection error unless it already is one
func boundary(op string, err error) error {
	if apierr.KindOf(err) == apierr.KindConnection {
		return err
	}
	return apierr.Connection(op+" failed", err)
}

// joinURL builds <base><endpoint>/<path> without doubled slashes
func joinURL(base, endpoint, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("shop URL needs a scheme and host: " + base)
	}

	segments := make([]string, 0, 3)
	for _, part := range []string{u.Path, endpoint, path} {
		for _, seg := range strings.Split(part, "/") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	}
	u.Path = "/" + strings.Join(segments, "/")
	u.RawPath = ""
	return u.String(), nil
}

// resourceOf returns the first segment of a resource path
func resourceOf(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
