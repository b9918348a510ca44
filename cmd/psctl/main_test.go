package main

import (
	"bytes"
	"testing"

	"github.com/GriffinCanCode/prestashop/internal/testutil"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func shopArgs(shop *testutil.FakeShop) []string {
	return []string{"--shop-url", shop.URL(), "--token", shop.Key}
}

func TestResourcesCommand(t *testing.T) {
	out, err := run(t, "resources")
	require.NoError(t, err)
	assert.Contains(t, out, "price_ranges\n")
	assert.Contains(t, out, "zones\n")
}

func TestGetCommand(t *testing.T) {
	shop := testutil.NewFakeShop(t, "KEY", nil)
	shop.Seed("zones", map[string]string{"name": "Europe", "active": "1"})
	shop.Seed("zones", map[string]string{"name": "Asia", "active": "0"})

	args := append([]string{"get", "zones", "--where", "active=1", "--display", "id,name", "--sort", "-name", "--limit", "5"}, shopArgs(shop)...)
	out, err := run(t, args...)
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, sonic.UnmarshalString(out, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Europe", rows[0]["name"])

	sent := shop.Last().Query
	assert.Equal(t, "[1]", sent.Get("filter[active]"))
	assert.Equal(t, "[name_DESC]", sent.Get("sort"))
	assert.Equal(t, "5", sent.Get("limit"))
}

func TestFindCommand(t *testing.T) {
	shop := testutil.NewFakeShop(t, "KEY", nil)
	id := shop.Seed("zones", map[string]string{"name": "Europe"})

	out, err := run(t, append([]string{"find", "zones", "1"}, shopArgs(shop)...)...)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Contains(t, out, `"name": "Europe"`)
}

func TestDeleteCommandShowsRemoteBody(t *testing.T) {
	shop := testutil.NewFakeShop(t, "KEY", nil)

	_, err := run(t, append([]string{"delete", "zones", "9"}, shopArgs(shop)...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Record not found")
}

func TestUnknownResource(t *testing.T) {
	_, err := run(t, "get", "widgets", "--shop-url", "https://x.example", "--token", "K")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widgets")
}

func TestParseWhere(t *testing.T) {
	field, op, values, err := parseWhere("id:INTERVAL=1,5")
	require.NoError(t, err)
	assert.Equal(t, "id", field)
	assert.Equal(t, "INTERVAL", op)
	assert.Equal(t, []string{"1", "5"}, values)

	field, op, values, err = parseWhere("name=a,b")
	require.NoError(t, err)
	assert.Equal(t, "name", field)
	assert.Empty(t, op)
	assert.Equal(t, []string{"a,b"}, values)

	_, _, _, err = parseWhere("broken")
	assert.Error(t, err)
}
