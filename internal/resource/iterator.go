package resource

import (
	"github.com/GriffinCanCode/prestashop/internal/normalize"
	"github.com/GriffinCanCode/prestashop/internal/webservice"
)

// Iterator walks the records of an already fetched response. It is single
// pass and never calls the service.
type Iterator struct {
	conn    *webservice.Connection
	desc    Descriptor
	rows    []map[string]interface{}
	pos     int
	current *Record
}

// NewIterator normalizes raw and iterates its rows. A lone record is a
// sequence of one.
func NewIterator(conn *webservice.Connection, desc Descriptor, raw interface{}) (*Iterator, error) {
	result, err := normalize.Normalize(desc.Name, raw)
	if err != nil {
		return nil, err
	}
	return &Iterator{conn: conn, desc: desc, rows: result.Rows()}, nil
}

// Next advances to the next record
func (it *Iterator) Next() bool {
	if it.pos >= len(it.rows) {
		it.current = nil
		return false
	}
	it.current = newRecord(it.conn, it.desc, it.rows[it.pos])
	it.pos++
	return true
}

// Record returns the current record
func (it *Iterator) Record() *Record {
	return it.current
}

// Remaining returns how many records Next has yet to yield
func (it *Iterator) Remaining() int {
	return len(it.rows) - it.pos
}

// Collect drains the iterator
func (it *Iterator) Collect() []*Record {
	out := make([]*Record, 0, it.Remaining())
	for it.Next() {
		out = append(out, it.current)
	}
	return out
}
