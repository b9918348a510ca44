package query

import (
	"fmt"
	"reflect"
	"strings"
)

// Filter is a single constraint on a read query
type Filter struct {
	Field  string
	Op     Operator
	Values []string
}

// Equals matches field exactly: filter[field]=[v]
func Equals(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEqual, Values: []string{stringify(value)}}
}

// OneOf matches any of values: filter[field]=[v1|v2]
func OneOf(field string, values ...interface{}) Filter {
	return Filter{Field: field, Op: OpOr, Values: stringifyAll(values)}
}

// Interval matches the inclusive range lo..hi: filter[field]=[lo,hi]
func Interval(field string, lo, hi interface{}) Filter {
	return Filter{Field: field, Op: OpInterval, Values: []string{stringify(lo), stringify(hi)}}
}

// Literal matches the value as given: filter[field]=[v]
func Literal(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpLiteral, Values: []string{stringify(value)}}
}

// Begins matches a prefix: filter[field]=[v]%
func Begins(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpBegin, Values: []string{stringify(value)}}
}

// Ends matches a suffix: filter[field]=%[v]
func Ends(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEnd, Values: []string{stringify(value)}}
}

// Contains matches a substring: filter[field]=%[v]%
func Contains(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpContains, Values: []string{stringify(value)}}
}

// Inner passes value through as a plain query parameter: field=v
func Inner(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpInner, Values: []string{stringify(value)}}
}

// SchemaOnly replaces the whole query with schema=name
func SchemaOnly(name string) Filter {
	return Filter{Op: opSchema, Values: []string{name}}
}

// NewFilter builds a filter from an operator code. Slices are accepted for
// every operator; single-value operators keep the joined values.
func NewFilter(field, code string, value interface{}) (Filter, error) {
	op, err := ParseOperator(code)
	if err != nil {
		return Filter{}, err
	}

	values := stringifyAll([]interface{}{value})
	if op.Multi() {
		return Filter{Field: field, Op: op, Values: values}, nil
	}
	return Filter{Field: field, Op: op, Values: []string{strings.Join(values, ",")}}, nil
}

// IsSchema reports whether the filter replaces the whole query
func (f Filter) IsSchema() bool {
	return f.Op == opSchema
}

// Key returns the query parameter the filter is stored under
func (f Filter) Key() string {
	switch f.Op {
	case opSchema:
		return "schema"
	case OpInner:
		return f.Field
	default:
		return "filter[" + f.Field + "]"
	}
}

// Encode renders the filter value in the bracket syntax
func (f Filter) Encode() string {
	switch f.Op {
	case OpOr:
		return "[" + strings.Join(f.Values, "|") + "]"
	case OpInterval:
		return "[" + strings.Join(f.Values, ",") + "]"
	case OpBegin:
		return "[" + f.first() + "]%"
	case OpEnd:
		return "%[" + f.first() + "]"
	case OpContains:
		return "%[" + f.first() + "]%"
	case OpInner, opSchema:
		return f.first()
	default:
		return "[" + f.first() + "]"
	}
}

// String implements fmt.Stringer
func (f Filter) String() string {
	return f.Key() + "=" + f.Encode()
}

func (f Filter) first() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

// stringifyAll flattens slices and arrays one level deep
func stringifyAll(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		rv := reflect.ValueOf(v)
		if v != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				out = append(out, stringify(rv.Index(i).Interface()))
			}
			continue
		}
		out = append(out, stringify(v))
	}
	return out
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
