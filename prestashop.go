// Package prestashop is a client for the PrestaShop web service.
//
// A Client binds a shop (base URL, web service key, optional shop ID) and
// hands out queries for the 67 web service resources:
//
//	client, err := prestashop.New(prestashop.LoadConfig())
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	products, _ := client.Resource("products")
//	list, err := products.Where("active", 1).SortByDesc("date_upd").Limit(20).Get(ctx)
//
// Every failure is a *Error; match kinds with errors.Is against the
// exported sentinels.
package prestashop

import (
	"github.com/GriffinCanCode/prestashop/internal/apierr"
	"github.com/GriffinCanCode/prestashop/internal/config"
	"github.com/GriffinCanCode/prestashop/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/prestashop/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/prestashop/internal/logging"
	"github.com/GriffinCanCode/prestashop/internal/query"
	"github.com/GriffinCanCode/prestashop/internal/resource"
	"github.com/GriffinCanCode/prestashop/internal/transport"
	"github.com/GriffinCanCode/prestashop/internal/webservice"
	"go.uber.org/zap"
)

// Public names for the types a caller works with
type (
	Config     = config.Config
	Query      = resource.Query
	Record     = resource.Record
	Iterator   = resource.Iterator
	Descriptor = resource.Descriptor
	Registry   = resource.Registry
	Filter     = query.Filter
	Error      = apierr.Error
	Doer       = transport.Doer
	Metrics    = monitoring.Metrics
	Logger     = logging.Logger
)

// Error sentinels
var (
	ErrConfiguration         = apierr.ErrConfiguration
	ErrInvalidFilterOperator = apierr.ErrInvalidFilterOperator
	ErrConflictingQuery      = apierr.ErrConflictingQuery
	ErrRemoteService         = apierr.ErrRemoteService
	ErrConnection            = apierr.ErrConnection
	ErrUnknownResource       = apierr.ErrUnknownResource
	ErrNotFillable           = apierr.ErrNotFillable
	ErrNotFound              = apierr.ErrNotFound
)

// Filter constructors
var (
	Equals     = query.Equals
	OneOf      = query.OneOf
	Interval   = query.Interval
	Literal    = query.Literal
	Begins     = query.Begins
	Ends       = query.Ends
	Contains   = query.Contains
	Inner      = query.Inner
	SchemaOnly = query.SchemaOnly
)

// RemoteError returns the rejection sent by the shop, if err carries one
func RemoteError(err error) (*Error, bool) {
	return apierr.Remote(err)
}

// LoadConfig reads PRESTASHOP_* variables, falling back to defaults
func LoadConfig() *Config {
	return config.LoadOrDefault()
}

// LoadConfigFile reads the environment and overlays a YAML or TOML file
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

type options struct {
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	registry *resource.Registry
	doer     transport.Doer
	defaults webservice.Defaults
}

// Option configures a Client
type Option func(*options)

// WithLogger replaces the logger built from the configuration
func WithLogger(logger *Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records calls into the given collectors
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// WithRegistry replaces the built-in resource registry
func WithRegistry(registry *Registry) Option {
	return func(o *options) { o.registry = registry }
}

// WithDoer replaces the HTTP transport
func WithDoer(doer Doer) Option {
	return func(o *options) { o.doer = doer }
}

// WithDefaults sets where missing shop settings are read from. The
// environment is used when not set.
func WithDefaults(defaults webservice.Defaults) Option {
	return func(o *options) { o.defaults = defaults }
}

// Client is the entry point to one shop
type Client struct {
	conn     *webservice.Connection
	registry *resource.Registry
	http     *transport.Client
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// New creates a client. A nil cfg uses the defaults.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	o := options{
		registry: resource.Default(),
		defaults: config.Env{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		logger, err := logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, apierr.Configuration("invalid log level %q", cfg.Logging.Level)
		}
		o.logger = logger
	}
	if o.metrics == nil {
		o.metrics = monitoring.NewMetrics()
	}

	c := &Client{
		registry: o.registry,
		metrics:  o.metrics,
		logger:   o.logger,
	}

	doer := o.doer
	if doer == nil {
		c.http = transport.NewClient(transport.Options{
			Timeout:            cfg.HTTP.Timeout,
			RetryMax:           cfg.HTTP.RetryMax,
			RateLimit:          cfg.HTTP.RateLimit,
			InsecureSkipVerify: cfg.HTTP.InsecureSkipVerify,
			Logger:             o.logger,
			OnBreakerChange:    c.breakerChanged,
		})
		doer = c.http
	}

	c.conn = webservice.New(doer,
		webservice.WithLogger(o.logger),
		webservice.WithMetrics(o.metrics),
		webservice.WithDefaults(o.defaults),
	).Configure(cfg.Shop.URL, cfg.Shop.Path, cfg.Shop.Token, cfg.Shop.ShopID)

	c.logger.Debug("client configured",
		zap.String("shop_url", cfg.Shop.URL),
		zap.String("endpoint", cfg.Shop.Path),
		zap.Int("shop_id", cfg.Shop.ShopID),
		logging.Key(cfg.Shop.Token))
	return c, nil
}

func (c *Client) breakerChanged(name string, from, to resilience.State) {
	c.metrics.SetBreakerState(name, int(to))
	c.logger.Warn("circuit breaker state changed",
		zap.String("breaker", name),
		zap.String("from", from.String()),
		zap.String("to", to.String()))
}

// Shop returns a copy of the client bound to another shop
func (c *Client) Shop(baseURL, endpoint, token string, shopID int) *Client {
	cp := *c
	cp.conn = c.conn.Configure(baseURL, endpoint, token, shopID)
	return &cp
}

// Resource starts a query on a resource. Snake, camel and kebab case
// names are accepted.
func (c *Client) Resource(name string) (Query, error) {
	desc, err := c.registry.Lookup(name)
	if err != nil {
		return Query{}, err
	}
	return resource.NewQuery(c.conn, desc), nil
}

// Resources lists the registered resource names
func (c *Client) Resources() []string {
	return c.registry.Names()
}

// Connection returns the underlying connection
func (c *Client) Connection() *webservice.Connection {
	return c.conn
}

// Metrics returns the call metrics
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// Close flushes the logger
func (c *Client) Close() error {
	_ = c.logger.Sync()
	return nil
}
