package resource

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/GriffinCanCode/prestashop/internal/apierr"
	"github.com/GriffinCanCode/prestashop/internal/normalize"
	"github.com/GriffinCanCode/prestashop/internal/query"
	"github.com/GriffinCanCode/prestashop/internal/webservice"
)

// Record is one row of a resource, bound to the connection it came from
type Record struct {
	conn   *webservice.Connection
	desc   Descriptor
	fields map[string]interface{}
}

func newRecord(conn *webservice.Connection, desc Descriptor, row map[string]interface{}) *Record {
	fields := make(map[string]interface{}, len(row))
	for k, v := range row {
		fields[k] = v
	}
	return &Record{conn: conn, desc: desc, fields: fields}
}

// Descriptor returns the resource the record belongs to
func (r *Record) Descriptor() Descriptor {
	return r.desc
}

// Get returns a field value
func (r *Record) Get(field string) (interface{}, bool) {
	v, ok := r.fields[field]
	return v, ok
}

// Value returns a field rendered as text, "" when missing
func (r *Record) Value(field string) string {
	v, ok := r.fields[field]
	if !ok || v == nil {
		return ""
	}
	return text(v)
}

// Set assigns a field. Only the resource's fillable fields and id are accepted.
func (r *Record) Set(field string, value interface{}) error {
	if field != "id" && !r.desc.Fillable(field) {
		return apierr.NotFillable(r.desc.Name, field)
	}
	r.fields[field] = value
	return nil
}

// Fields returns a copy of all fields
func (r *Record) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// ID returns the record identifier, false for records not saved yet
func (r *Record) ID() (string, bool) {
	id := r.Value("id")
	return id, id != "" && id != "0"
}

// Save creates the record when it has no id and updates it otherwise. The
// fields are replaced with what the service answered.
func (r *Record) Save(ctx context.Context) (*Record, error) {
	body, err := r.XML()
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if id, ok := r.ID(); ok {
		raw, err = r.conn.Update(ctx, r.desc.Path()+"/"+id, query.State{}, body)
	} else {
		raw, err = r.conn.Create(ctx, r.desc.Path(), query.State{}, body)
	}
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return r, nil
	}

	result, err := normalize.Normalize(r.desc.Name, raw)
	if err != nil {
		return nil, err
	}
	if row, ok := result.First(); ok {
		r.fields = newRecord(nil, r.desc, row).fields
	}
	return r, nil
}

// Delete removes the record from the shop
func (r *Record) Delete(ctx context.Context) error {
	id, ok := r.ID()
	if !ok {
		return apierr.NotFound(r.desc.Name, "an empty id")
	}
	_, err := r.conn.Remove(ctx, r.desc.Path(), id)
	return err
}

// XML renders the write payload of the record
func (r *Record) XML() ([]byte, error) {
	out, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", r.desc.XMLRoot, err)
	}
	return append([]byte(xml.Header), out...), nil
}

// MarshalXML writes the record under the resource's XML root. Fillable fields
// come first in declaration order, then any other set field by name.
func (r *Record) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	root := xml.StartElement{Name: xml.Name{Local: r.desc.XMLRoot}}
	if err := e.EncodeToken(root); err != nil {
		return err
	}
	for _, field := range r.order() {
		if err := encodeValue(e, field, r.fields[field]); err != nil {
			return err
		}
	}
	if err := e.EncodeToken(root.End()); err != nil {
		return err
	}
	return e.Flush()
}

func (r *Record) order() []string {
	seen := make(map[string]bool, len(r.fields))
	order := make([]string, 0, len(r.fields))
	for _, f := range r.desc.Fields {
		if _, ok := r.fields[f]; ok {
			order = append(order, f)
			seen[f] = true
		}
	}

	extra := make([]string, 0, len(r.fields)-len(order))
	for f := range r.fields {
		if !seen[f] {
			extra = append(extra, f)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// encodeValue writes one field. Language lists ([{id, value}]) become
// <language id="..."> children the way the shop expects them.
func encodeValue(e *xml.Encoder, name string, v interface{}) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}

	switch val := v.(type) {
	case map[string]interface{}:
		if err := e.EncodeToken(start); err != nil {
			return err
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := encodeValue(e, k, val[k]); err != nil {
				return err
			}
		}
		return e.EncodeToken(start.End())

	case []interface{}:
		if err := e.EncodeToken(start); err != nil {
			return err
		}
		for _, item := range val {
			if err := encodeItem(e, item); err != nil {
				return err
			}
		}
		return e.EncodeToken(start.End())

	default:
		return e.EncodeElement(text(v), start)
	}
}

func encodeItem(e *xml.Encoder, item interface{}) error {
	if m, ok := item.(map[string]interface{}); ok {
		id, hasID := m["id"]
		value, hasValue := m["value"]
		if hasID && hasValue && len(m) == 2 {
			start := xml.StartElement{
				Name: xml.Name{Local: "language"},
				Attr: []xml.Attr{{Name: xml.Name{Local: "id"}, Value: text(id)}},
			}
			return e.EncodeElement(text(value), start)
		}
	}
	return encodeValue(e, "item", item)
}

func text(v interface{}) string {
	if v == nil {
		return ""
	}
	if n, ok := normalize.Number(v); ok {
		return n
	}
	switch val := v.(type) {
	case string:
		return val
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
