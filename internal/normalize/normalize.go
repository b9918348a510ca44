// Package normalize turns the web service's inconsistent JSON envelopes into
// one record or a list of records.
//
// Depending on the resource and the query, the service answers with
//   - {"products": [{...}, {...}]}   a wrapped list
//   - {"products": [{...}]}          a wrapped singleton list
//   - {"product": {...}}             a record wrapped under its singular name
//   - {...}                          a bare record
//   - [] or an empty body            nothing
//
// Normalize resolves all of these to a Result.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/GriffinCanCode/prestashop/internal/apierr"
	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
)

// Shape tells whether a Result holds one record or many
type Shape int

const (
	ShapeMany Shape = iota
	ShapeOne
)

// String returns the string representation of the shape
func (s Shape) String() string {
	if s == ShapeOne {
		return "one"
	}
	return "many"
}

// Result is a normalized response
type Result struct {
	Shape Shape
	One   map[string]interface{}
	Many  []map[string]interface{}
}

// Rows returns the records as a list; a single record becomes a one-element list
func (r Result) Rows() []map[string]interface{} {
	if r.Shape == ShapeOne {
		return []map[string]interface{}{r.One}
	}
	return r.Many
}

// Len returns the number of records
func (r Result) Len() int {
	return len(r.Rows())
}

// First returns the first record, if any
func (r Result) First() (map[string]interface{}, bool) {
	rows := r.Rows()
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

var decoder = sonic.Config{UseNumber: true}.Froze()

// Decode parses a response body. Empty bodies decode to nil.
func Decode(body []byte) (interface{}, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var raw interface{}
	if err := decoder.Unmarshal(body, &raw); err != nil {
		mime := mimetype.Detect(body)
		return nil, apierr.Connection(
			fmt.Sprintf("malformed response: expected JSON, got %s", mime.String()), err)
	}
	return raw, nil
}

// Normalize resolves raw to one record or many. resource is the name the
// service may wrap the payload under.
func Normalize(resource string, raw interface{}) (Result, error) {
	if obj, ok := raw.(map[string]interface{}); ok {
		if inner, found := obj[resource]; found {
			raw = inner
		}
	}
	return classify(raw)
}

func classify(raw interface{}) (Result, error) {
	switch v := raw.(type) {
	case nil:
		return Result{Shape: ShapeMany, Many: []map[string]interface{}{}}, nil

	case map[string]interface{}:
		if len(v) == 0 {
			return Result{Shape: ShapeMany, Many: []map[string]interface{}{}}, nil
		}
		if len(v) >= 2 {
			return Result{Shape: ShapeOne, One: v}, nil
		}
		for _, sole := range v {
			switch inner := sole.(type) {
			case map[string]interface{}:
				return Result{Shape: ShapeOne, One: inner}, nil
			case []interface{}:
				return classify(inner)
			}
		}
		return Result{Shape: ShapeOne, One: v}, nil

	case []interface{}:
		switch len(v) {
		case 0:
			return Result{Shape: ShapeMany, Many: []map[string]interface{}{}}, nil
		case 1:
			// A lone nested list is ambiguous; it is read as the list itself
			if nested, ok := v[0].([]interface{}); ok {
				return classify(nested)
			}
			row, err := asRow(v[0], 0)
			if err != nil {
				return Result{}, err
			}
			return Result{Shape: ShapeOne, One: row}, nil
		default:
			rows := make([]map[string]interface{}, len(v))
			for i, item := range v {
				row, err := asRow(item, i)
				if err != nil {
					return Result{}, err
				}
				rows[i] = row
			}
			return Result{Shape: ShapeMany, Many: rows}, nil
		}

	default:
		return Result{}, apierr.Connection(fmt.Sprintf("malformed response: unexpected %T payload", raw), nil)
	}
}

func asRow(item interface{}, index int) (map[string]interface{}, error) {
	row, ok := item.(map[string]interface{})
	if !ok {
		return nil, apierr.Connection(fmt.Sprintf("malformed response: row %d is %T, not an object", index, item), nil)
	}
	return row, nil
}

// Number converts a decoded JSON scalar to its string form
func Number(v interface{}) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case string:
		return n, n != ""
	case float64:
		return fmt.Sprintf("%v", n), true
	case int:
		return fmt.Sprintf("%d", n), true
	case int64:
		return fmt.Sprintf("%d", n), true
	default:
		return "", false
	}
}
