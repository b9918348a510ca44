package prestashop

import (
	"context"
	"errors"
	"testing"

	"github.com/GriffinCanCode/prestashop/internal/config"
	"github.com/GriffinCanCode/prestashop/internal/logging"
	"github.com/GriffinCanCode/prestashop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig(url, key string) *Config {
	cfg := config.Default()
	cfg.Shop.URL = url
	cfg.Shop.Token = key
	return cfg
}

func TestClientAgainstFakeShop(t *testing.T) {
	shop := testutil.NewFakeShop(t, "KEY", map[string]string{"categories": "category"})
	shop.Seed("categories", map[string]string{"name": "Home", "active": "1"})
	shop.Seed("categories", map[string]string{"name": "Clothes", "active": "1"})

	client, err := New(testConfig(shop.URL(), "KEY"), WithLogger(logging.NewNop()))
	require.NoError(t, err)
	defer client.Close()

	categories, err := client.Resource("Categories")
	require.NoError(t, err)

	list, err := categories.Apply(Contains("name", "o")).Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "%[o]%", shop.Last().Query.Get("filter[name]"))

	snap := client.Metrics().Snapshot()
	assert.EqualValues(t, 1, snap.TotalCalls)
}

func TestClientUnknownResource(t *testing.T) {
	client, err := New(nil, WithLogger(logging.NewNop()))
	require.NoError(t, err)

	_, err = client.Resource("widgets")
	assert.True(t, errors.Is(err, ErrUnknownResource))
	assert.Len(t, client.Resources(), 67)
}

func TestClientWithoutShopIsConfigurationError(t *testing.T) {
	t.Setenv("PRESTASHOP_SHOP_URL", "")
	t.Setenv("PRESTASHOP_TOKEN", "")

	doer := testutil.NewMockDoer(t)
	client, err := New(nil, WithLogger(logging.NewNop()), WithDoer(doer))
	require.NoError(t, err)

	orders, err := client.Resource("orders")
	require.NoError(t, err)

	_, err = orders.Get(context.Background())
	assert.True(t, errors.Is(err, ErrConfiguration))
	doer.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestClientReadsEnvironmentDefaults(t *testing.T) {
	shop := testutil.NewFakeShop(t, "ENVKEY", nil)
	t.Setenv("PRESTASHOP_SHOP_URL", shop.URL())
	t.Setenv("PRESTASHOP_TOKEN", "ENVKEY")

	client, err := New(nil, WithLogger(logging.NewNop()))
	require.NoError(t, err)

	zones, err := client.Resource("zones")
	require.NoError(t, err)
	_, err = zones.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ENVKEY", shop.Last().User)
}

func TestClientShopCopy(t *testing.T) {
	client, err := New(testConfig("https://a.example", "K"), WithLogger(logging.NewNop()))
	require.NoError(t, err)

	other := client.Shop("https://b.example", "/api", "K2", 4)
	assert.Equal(t, 0, client.Connection().ShopID())
	assert.Equal(t, 4, other.Connection().ShopID())
}

func TestClientInvalidLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "loud"

	_, err := New(cfg)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestRemoteErrorHelper(t *testing.T) {
	shop := testutil.NewFakeShop(t, "KEY", nil)
	client, err := New(testConfig(shop.URL(), "KEY"), WithLogger(logging.NewNop()))
	require.NoError(t, err)

	taxes, err := client.Resource("taxes")
	require.NoError(t, err)

	err = taxes.Delete(context.Background(), 3)
	remote, ok := RemoteError(err)
	require.True(t, ok)
	assert.Equal(t, 404, remote.Status)
}
