package query

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/GriffinCanCode/prestashop/internal/apierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterEncoding(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		key    string
		value  string
	}{
		{"equals", Equals("id", 5), "filter[id]", "[5]"},
		{"one of", OneOf("id", 1, 2), "filter[id]", "[1|2]"},
		{"one of slice", OneOf("id", []int{3, 4, 5}), "filter[id]", "[3|4|5]"},
		{"interval", Interval("price", 10, 20), "filter[price]", "[10,20]"},
		{"literal", Literal("reference", "A-1"), "filter[reference]", "[A-1]"},
		{"begins", Begins("name", "Foo"), "filter[name]", "[Foo]%"},
		{"ends", Ends("name", "Foo"), "filter[name]", "%[Foo]"},
		{"contains", Contains("name", "Foo"), "filter[name]", "%[Foo]%"},
		{"inner", Inner("language", 2), "language", "2"},
		{"schema", SchemaOnly("synopsis"), "schema", "synopsis"},
		{"bool", Equals("active", true), "filter[active]", "[1]"},
		{"json number", Equals("id", json.Number("42")), "filter[id]", "[42]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.filter.Key())
			assert.Equal(t, tt.value, tt.filter.Encode())
		})
	}
}

func TestParseOperator(t *testing.T) {
	valid := map[string]Operator{
		"=":        OpEqual,
		"or":       OpOr,
		"|":        OpOr,
		"Interval": OpInterval,
		",":        OpInterval,
		"literal":  OpLiteral,
		"BEGIN":    OpBegin,
		"end":      OpEnd,
		"contains": OpContains,
		"inner":    OpInner,
	}
	for code, want := range valid {
		op, err := ParseOperator(code)
		require.NoError(t, err, code)
		assert.Equal(t, want, op, code)
	}

	for _, code := range []string{"LIKE", ">", "", "schema"} {
		_, err := ParseOperator(code)
		assert.True(t, errors.Is(err, apierr.ErrInvalidFilterOperator), code)
	}
}

func TestNewFilter(t *testing.T) {
	f, err := NewFilter("id", "|", []string{"7", "9"})
	require.NoError(t, err)
	assert.Equal(t, "[7|9]", f.Encode())

	f, err = NewFilter("date_add", "INTERVAL", []interface{}{"2024-01-01", "2024-12-31"})
	require.NoError(t, err)
	assert.Equal(t, "[2024-01-01,2024-12-31]", f.Encode())

	f, err = NewFilter("name", "begin", "Sh")
	require.NoError(t, err)
	assert.Equal(t, "[Sh]%", f.Encode())

	_, err = NewFilter("name", "LIKE", "x")
	assert.True(t, errors.Is(err, apierr.ErrInvalidFilterOperator))
}

func TestSerializeDefaults(t *testing.T) {
	p := State{}.Serialize()
	assert.Equal(t, []string{"display"}, p.Keys())
	v, _ := p.Get("display")
	assert.Equal(t, "full", v)
}

func TestSerializeOrder(t *testing.T) {
	st := State{}.
		WithShop(2).
		WithSort("name", Asc).
		WithSort("id", Desc).
		WithFilter(OneOf("id", 1, 2)).
		WithFilter(Inner("price[final][use_tax]", 1)).
		WithLimit(10, 20).
		WithDisplay("id", "name")

	p := st.Serialize()
	assert.Equal(t, []string{
		"display", "limit", "filter[id]", "price[final][use_tax]", "sort", "id_shop",
	}, p.Keys())
	assert.Equal(t, map[string]string{
		"display":               "[id,name]",
		"limit":                 "20, 10",
		"filter[id]":            "[1|2]",
		"price[final][use_tax]": "1",
		"sort":                  "[name_ASC,id_DESC]",
		"id_shop":               "2",
	}, p.Map())
}

func TestSerializeLimit(t *testing.T) {
	v, _ := State{}.WithLimit(5, 0).Serialize().Get("limit")
	assert.Equal(t, "5", v)

	v, _ = State{}.WithLimit(5, 15).Serialize().Get("limit")
	assert.Equal(t, "15, 5", v)
}

func TestSerializeDateFlag(t *testing.T) {
	filters := []Filter{
		Equals("date_add", "2024-01-01"),
		Interval("date_upd", "2024-01-01", "2024-02-01"),
		Begins("delivery_date", "2024"),
		Inner("invoice_date", "x"),
	}
	for _, f := range filters {
		p := State{}.WithFilter(f).Serialize()
		v, ok := p.Get("date")
		assert.True(t, ok, f.Field)
		assert.Equal(t, "1", v)
	}

	p := State{}.WithFilter(Equals("Date_add", "x")).Serialize()
	assert.False(t, p.Has("date"), "match is case-sensitive")
}

func TestSerializeSchemaOnly(t *testing.T) {
	st := State{}.
		WithDisplay("id").
		WithLimit(3, 0).
		WithSort("id", Asc).
		WithShop(1).
		WithFilter(SchemaOnly("synopsis"))

	assert.Equal(t, map[string]string{"schema": "synopsis"}, st.Serialize().Map())

	// last schema wins
	st = State{}.WithFilter(SchemaOnly("blank")).WithFilter(SchemaOnly("synopsis"))
	assert.Equal(t, map[string]string{"schema": "synopsis"}, st.Serialize().Map())

	// filters after a schema still apply
	st = State{}.WithFilter(SchemaOnly("synopsis")).WithFilter(Equals("id", 1))
	assert.Equal(t, []string{"schema", "filter[id]"}, st.Serialize().Keys())
}

func TestStateIsImmutable(t *testing.T) {
	base := State{}.WithFilter(Equals("active", 1))
	a := base.WithFilter(Equals("id", 1))
	b := base.WithFilter(Equals("id", 2))

	assert.Len(t, base.Filters(), 1)
	va, _ := a.Serialize().Get("filter[id]")
	vb, _ := b.Serialize().Get("filter[id]")
	assert.Equal(t, "[1]", va)
	assert.Equal(t, "[2]", vb)

	assert.False(t, a.WithoutFilters().HasFilters())
	assert.True(t, a.HasFilters())
}

func TestParamsValues(t *testing.T) {
	var p Params
	p.Set("filter[name]", "%[a b]%")
	p.Set("display", "full")
	p.Set("filter[name]", "[x]")

	assert.Equal(t, []string{"filter[name]", "display"}, p.Keys())
	assert.Equal(t, "[x]", p.Values().Get("filter[name]"))
	assert.Equal(t, 2, p.Len())
}
