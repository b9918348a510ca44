package query

import "net/url"

// Params is an ordered set of query parameters. Setting an existing key
// replaces its value in place.
type Params struct {
	keys   []string
	values map[string]string
}

// Set stores value under key
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is set
func (p Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Reset drops every parameter
func (p *Params) Reset() {
	p.keys = nil
	p.values = nil
}

// Len returns the number of parameters
func (p Params) Len() int {
	return len(p.keys)
}

// Keys returns the parameter names in insertion order
func (p Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Map returns a copy of the parameters as a plain map
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p.keys))
	for _, k := range p.keys {
		out[k] = p.values[k]
	}
	return out
}

// Values converts the parameters for URL encoding
func (p Params) Values() url.Values {
	out := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}
