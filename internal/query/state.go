package query

import (
	"strconv"
	"strings"
)

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Sort orders results by one field
type Sort struct {
	Field     string
	Direction Direction
}

// Limit restricts the number of rows, optionally starting at an offset
type Limit struct {
	Count  int
	Offset int
}

// String renders the limit as the web service expects it
func (l Limit) String() string {
	if l.Offset > 0 {
		return strconv.Itoa(l.Offset) + ", " + strconv.Itoa(l.Count)
	}
	return strconv.Itoa(l.Count)
}

// State holds the constraints of one read query. The zero value is an
// empty query requesting every field.
type State struct {
	display []string
	filters []Filter
	sort    []Sort
	limit   *Limit
	shopID  *int
}

// WithDisplay selects the fields returned per record. No fields means "full".
func (s State) WithDisplay(fields ...string) State {
	s.display = append([]string(nil), fields...)
	return s
}

// WithFilter appends a filter
func (s State) WithFilter(f Filter) State {
	s.filters = append(append(make([]Filter, 0, len(s.filters)+1), s.filters...), f)
	return s
}

// WithoutFilters drops every filter
func (s State) WithoutFilters() State {
	s.filters = nil
	return s
}

// WithSort appends a sort field
func (s State) WithSort(field string, dir Direction) State {
	s.sort = append(append(make([]Sort, 0, len(s.sort)+1), s.sort...), Sort{Field: field, Direction: dir})
	return s
}

// WithLimit limits the result to count rows starting at offset
func (s State) WithLimit(count, offset int) State {
	s.limit = &Limit{Count: count, Offset: offset}
	return s
}

// WithShop scopes the query to one shop of a multistore install
func (s State) WithShop(id int) State {
	s.shopID = &id
	return s
}

// HasFilters reports whether any filter is set
func (s State) HasFilters() bool {
	return len(s.filters) > 0
}

// Filters returns a copy of the filters
func (s State) Filters() []Filter {
	return append([]Filter(nil), s.filters...)
}

// Display returns a copy of the selected fields
func (s State) Display() []string {
	return append([]string(nil), s.display...)
}

// Sorts returns a copy of the sort fields
func (s State) Sorts() []Sort {
	return append([]Sort(nil), s.sort...)
}

// Limit returns the limit, if any
func (s State) Limit() (Limit, bool) {
	if s.limit == nil {
		return Limit{}, false
	}
	return *s.limit, true
}

// ShopID returns the shop scope, if any
func (s State) ShopID() (int, bool) {
	if s.shopID == nil {
		return 0, false
	}
	return *s.shopID, true
}

// Serialize renders the state into query parameters. Keys appear in this
// order: display, limit, filters (with date), sort, id_shop. A schema filter
// discards everything computed before it and suppresses sort and id_shop.
func (s State) Serialize() Params {
	var p Params

	if len(s.display) == 0 {
		p.Set("display", "full")
	} else {
		p.Set("display", "["+strings.Join(s.display, ",")+"]")
	}

	if s.limit != nil {
		p.Set("limit", s.limit.String())
	}

	schema := false
	for _, f := range s.filters {
		if f.IsSchema() {
			schema = true
			p.Reset()
		}
		p.Set(f.Key(), f.Encode())

		// The web service hides date fields unless asked for them explicitly
		if strings.Contains(f.Field, "date") {
			p.Set("date", "1")
		}
	}
	if schema {
		return p
	}

	if len(s.sort) > 0 {
		parts := make([]string, len(s.sort))
		for i, srt := range s.sort {
			parts[i] = srt.Field + "_" + string(srt.Direction)
		}
		p.Set("sort", "["+strings.Join(parts, ",")+"]")
	}

	if s.shopID != nil {
		p.Set("id_shop", strconv.Itoa(*s.shopID))
	}

	return p
}
