package resource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/GriffinCanCode/prestashop/internal/apierr"
	"github.com/GriffinCanCode/prestashop/internal/normalize"
	"github.com/GriffinCanCode/prestashop/internal/query"
	"github.com/GriffinCanCode/prestashop/internal/webservice"
)

// SchemaSynopsis is the schema returned by Blank
const SchemaSynopsis = "synopsis"

// Query builds and runs reads against one resource. Builder methods return
// a new Query and never touch the receiver.
type Query struct {
	conn  *webservice.Connection
	desc  Descriptor
	state query.State
	err   error
}

// NewQuery starts an empty query on a resource
func NewQuery(conn *webservice.Connection, desc Descriptor) Query {
	return Query{conn: conn, desc: desc}
}

// Descriptor returns the queried resource
func (q Query) Descriptor() Descriptor {
	return q.desc
}

// State returns the accumulated query state
func (q Query) State() query.State {
	return q.state
}

// Err returns the first builder error, if any
func (q Query) Err() error {
	return q.err
}

// Where adds a filter. With two arguments it is an equality filter; with
// more, the second is the operator code and the rest are its values:
//
//	q.Where("active", 1)
//	q.Where("id", "OR", 1, 2, 3)
//	q.Where("price", "INTERVAL", 10, 20)
func (q Query) Where(field string, opOrValue interface{}, values ...interface{}) Query {
	if len(values) == 0 {
		return q.Apply(query.Equals(field, opOrValue))
	}

	code, ok := opOrValue.(string)
	if !ok {
		code = fmt.Sprint(opOrValue)
	}
	var value interface{} = values
	if len(values) == 1 {
		value = values[0]
	}

	f, err := query.NewFilter(field, code, value)
	if err != nil {
		return q.fail(err)
	}
	return q.Apply(f)
}

// Filter is an alias of Where
func (q Query) Filter(field string, opOrValue interface{}, values ...interface{}) Query {
	return q.Where(field, opOrValue, values...)
}

// Apply adds a prebuilt filter
func (q Query) Apply(f query.Filter) Query {
	q.state = q.state.WithFilter(f)
	return q
}

// SortBy sorts ascending on field
func (q Query) SortBy(field string) Query {
	q.state = q.state.WithSort(field, query.Asc)
	return q
}

// SortByDesc sorts descending on field
func (q Query) SortByDesc(field string) Query {
	q.state = q.state.WithSort(field, query.Desc)
	return q
}

// OrderBy is an alias of SortBy
func (q Query) OrderBy(field string) Query {
	return q.SortBy(field)
}

// OrderByDesc is an alias of SortByDesc
func (q Query) OrderByDesc(field string) Query {
	return q.SortByDesc(field)
}

// Select limits the returned fields
func (q Query) Select(fields ...string) Query {
	q.state = q.state.WithDisplay(fields...)
	return q
}

// Display is an alias of Select
func (q Query) Display(fields ...string) Query {
	return q.Select(fields...)
}

// Limit caps the result to count rows, optionally starting at an offset
func (q Query) Limit(count int, offset ...int) Query {
	start := 0
	if len(offset) > 0 {
		start = offset[0]
	}
	q.state = q.state.WithLimit(count, start)
	return q
}

// Shop scopes the query to one shop of a multistore install
func (q Query) Shop(id int) Query {
	q.state = q.state.WithShop(id)
	return q
}

func (q Query) fail(err error) Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// Find fetches one record by id. It cannot be combined with filters.
func (q Query) Find(ctx context.Context, id int) (*Record, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.state.HasFilters() {
		return nil, apierr.ConflictingQuery("find cannot be used along with filters")
	}

	result, err := q.fetch(ctx, q.state.WithFilter(query.Equals("id", id)))
	if err != nil {
		return nil, err
	}
	row, ok := result.First()
	if !ok {
		return nil, apierr.NotFound(q.desc.Name, "id "+strconv.Itoa(id))
	}
	return newRecord(q.conn, q.desc, row), nil
}

// First fetches the first record matching the query
func (q Query) First(ctx context.Context) (*Record, error) {
	if q.err != nil {
		return nil, q.err
	}
	result, err := q.fetch(ctx, q.state)
	if err != nil {
		return nil, err
	}
	row, ok := result.First()
	if !ok {
		return nil, apierr.NotFound(q.desc.Name, "the query")
	}
	return newRecord(q.conn, q.desc, row), nil
}

// Get fetches every record matching the query
func (q Query) Get(ctx context.Context) ([]*Record, error) {
	it, err := q.Iter(ctx)
	if err != nil {
		return nil, err
	}
	return it.Collect(), nil
}

// Iter fetches the query and returns an iterator over the result
func (q Query) Iter(ctx context.Context) (*Iterator, error) {
	if q.err != nil {
		return nil, q.err
	}
	raw, err := q.conn.Fetch(ctx, q.desc.Path(), q.state)
	if err != nil {
		return nil, err
	}
	return NewIterator(q.conn, q.desc, raw)
}

// Schema fetches the named schema of the resource as a record. Every other
// query setting is ignored.
func (q Query) Schema(ctx context.Context, name string) (*Record, error) {
	if q.err != nil {
		return nil, q.err
	}
	result, err := q.fetch(ctx, q.state.WithFilter(query.SchemaOnly(name)))
	if err != nil {
		return nil, err
	}
	row, _ := result.First()
	return newRecord(q.conn, q.desc, row), nil
}

// Blank fetches the synopsis schema
func (q Query) Blank(ctx context.Context) (*Record, error) {
	return q.Schema(ctx, SchemaSynopsis)
}

// New returns an empty record bound to the resource
func (q Query) New() *Record {
	return newRecord(q.conn, q.desc, nil)
}

// Delete removes the record with the given id
func (q Query) Delete(ctx context.Context, id int) error {
	_, err := q.conn.Remove(ctx, q.desc.Path(), strconv.Itoa(id))
	return err
}

func (q Query) fetch(ctx context.Context, state query.State) (normalize.Result, error) {
	raw, err := q.conn.Fetch(ctx, q.desc.Path(), state)
	if err != nil {
		return normalize.Result{}, err
	}
	return normalize.Normalize(q.desc.Name, raw)
}
