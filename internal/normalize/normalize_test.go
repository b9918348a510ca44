package normalize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/GriffinCanCode/prestashop/internal/apierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) interface{} {
	t.Helper()
	raw, err := Decode([]byte(body))
	require.NoError(t, err)
	return raw
}

func TestNormalizeShapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		shape Shape
		rows  []map[string]interface{}
	}{
		{
			name:  "wrapped list",
			body:  `{"products": [{"id":1},{"id":2}]}`,
			shape: ShapeMany,
			rows: []map[string]interface{}{
				{"id": json.Number("1")},
				{"id": json.Number("2")},
			},
		},
		{
			name:  "wrapped record",
			body:  `{"products": {"id":1,"name":"x"}}`,
			shape: ShapeOne,
			rows:  []map[string]interface{}{{"id": json.Number("1"), "name": "x"}},
		},
		{
			name:  "wrapped singleton list",
			body:  `{"products": [{"id":1}]}`,
			shape: ShapeOne,
			rows:  []map[string]interface{}{{"id": json.Number("1")}},
		},
		{
			name:  "singular wrapper",
			body:  `{"product": {"id":7,"reference":"demo_1"}}`,
			shape: ShapeOne,
			rows:  []map[string]interface{}{{"id": json.Number("7"), "reference": "demo_1"}},
		},
		{
			name:  "bare record",
			body:  `{"id":3,"name":"y"}`,
			shape: ShapeOne,
			rows:  []map[string]interface{}{{"id": json.Number("3"), "name": "y"}},
		},
		{
			name:  "flat one-field record",
			body:  `{"id":3}`,
			shape: ShapeOne,
			rows:  []map[string]interface{}{{"id": json.Number("3")}},
		},
		{
			name:  "bare list",
			body:  `[{"id":1},{"id":2},{"id":3}]`,
			shape: ShapeMany,
			rows: []map[string]interface{}{
				{"id": json.Number("1")},
				{"id": json.Number("2")},
				{"id": json.Number("3")},
			},
		},
		{
			name:  "empty list",
			body:  `[]`,
			shape: ShapeMany,
			rows:  []map[string]interface{}{},
		},
		{
			name:  "wrapped empty list",
			body:  `{"products": []}`,
			shape: ShapeMany,
			rows:  []map[string]interface{}{},
		},
		{
			name:  "empty object",
			body:  `{}`,
			shape: ShapeMany,
			rows:  []map[string]interface{}{},
		},
		{
			name:  "empty body",
			body:  ``,
			shape: ShapeMany,
			rows:  []map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Normalize("products", decode(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.shape, res.Shape)
			assert.Equal(t, tt.rows, res.Rows())
		})
	}
}

// A one-element list whose element is itself a list cannot be told apart
// from "a list of one scalar". It is read as the nested list.
func TestNormalizeNestedSingletonIsAmbiguous(t *testing.T) {
	res, err := Normalize("products", decode(t, `{"products": [[{"id":1},{"id":2}]]}`))
	require.NoError(t, err)
	assert.Equal(t, ShapeMany, res.Shape)
	assert.Equal(t, 2, res.Len())

	res, err = Normalize("products", decode(t, `{"products": [[{"id":1}]]}`))
	require.NoError(t, err)
	assert.Equal(t, ShapeOne, res.Shape)

	_, err = Normalize("products", decode(t, `{"products": [[1]]}`))
	assert.True(t, errors.Is(err, apierr.ErrConnection))
}

func TestNormalizeMalformedRows(t *testing.T) {
	_, err := Normalize("products", decode(t, `{"products": [1, 2]}`))
	assert.True(t, errors.Is(err, apierr.ErrConnection))

	_, err = Normalize("products", decode(t, `"text"`))
	assert.True(t, errors.Is(err, apierr.ErrConnection))
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	_, err := Decode([]byte(`<?xml version="1.0"?><prestashop><errors/></prestashop>`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierr.ErrConnection))
	assert.Contains(t, err.Error(), "xml")

	raw, err := Decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestResultFirst(t *testing.T) {
	res, err := Normalize("orders", decode(t, `{"orders": [{"id":4},{"id":5}]}`))
	require.NoError(t, err)
	first, ok := res.First()
	require.True(t, ok)
	assert.Equal(t, json.Number("4"), first["id"])

	_, ok = Result{Shape: ShapeMany}.First()
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	v, ok := Number(json.Number("12"))
	assert.True(t, ok)
	assert.Equal(t, "12", v)

	_, ok = Number("")
	assert.False(t, ok)

	_, ok = Number(nil)
	assert.False(t, ok)
}
