package testutil

import (
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
)

// Recorded is one request seen by a FakeShop.
type Recorded struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	User   string
	Body   []byte
}

// FakeShop is an in-memory PrestaShop web service. Records are flat string
// maps keyed by resource and id.
type FakeShop struct {
	Server *httptest.Server
	Key    string

	mu       sync.Mutex
	roots    map[string]string
	records  map[string]map[int]map[string]string
	nextID   map[string]int
	requests []Recorded
}

// NewFakeShop starts a fake shop serving /api. roots maps resource names to
// their singular XML root, e.g. "price_ranges": "price_range".
func NewFakeShop(t *testing.T, key string, roots map[string]string) *FakeShop {
	t.Helper()
	s := &FakeShop{
		Key:     key,
		roots:   roots,
		records: make(map[string]map[int]map[string]string),
		nextID:  make(map[string]int),
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.record, s.auth)
	api.HandleFunc("/{resource}", s.list).Methods(http.MethodGet)
	api.HandleFunc("/{resource}/{id:[0-9]+}", s.show).Methods(http.MethodGet)
	api.HandleFunc("/{resource}", s.create).Methods(http.MethodPost)
	api.HandleFunc("/{resource}/{id:[0-9]+}", s.update).Methods(http.MethodPut)
	api.HandleFunc("/{resource}", s.remove).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	return s
}

// URL returns the shop base URL.
func (s *FakeShop) URL() string {
	return s.Server.URL
}

// Seed stores a record and returns its id.
func (s *FakeShop) Seed(resource string, fields map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(resource, fields)
}

// Requests returns every request seen so far.
func (s *FakeShop) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the most recent request.
func (s *FakeShop) Last() Recorded {
	reqs := s.Requests()
	if len(reqs) == 0 {
		return Recorded{}
	}
	return reqs[len(reqs)-1]
}

func (s *FakeShop) insert(resource string, fields map[string]string) int {
	if s.records[resource] == nil {
		s.records[resource] = make(map[int]map[string]string)
	}
	s.nextID[resource]++
	id := s.nextID[resource]

	row := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		row[k] = v
	}
	row["id"] = strconv.Itoa(id)
	s.records[resource][id] = row
	return id
}

func (s *FakeShop) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		user, _, _ := r.BasicAuth()

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			User:   user,
			Body:   body,
		})
		s.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(body)))
		next.ServeHTTP(w, r)
	})
}

func (s *FakeShop) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Key || pass != "" {
			s.fail(w, http.StatusUnauthorized, 25, "Can't authenticate")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *FakeShop) list(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]
	q := r.URL.Query()

	if schema := q.Get("schema"); schema != "" {
		s.schema(w, resource)
		return
	}

	s.mu.Lock()
	ids := make([]int, 0, len(s.records[resource]))
	for id := range s.records[resource] {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rows := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		row := s.records[resource][id]
		if matches(row, q) {
			rows = append(rows, project(row, q.Get("display")))
		}
	}
	s.mu.Unlock()

	if len(rows) == 0 {
		s.write(w, http.StatusOK, []interface{}{})
		return
	}
	s.write(w, http.StatusOK, map[string]interface{}{resource: rows})
}

func (s *FakeShop) show(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	row, ok := s.records[resource][id]
	s.mu.Unlock()
	if !ok {
		s.fail(w, http.StatusNotFound, 87, "Record not found")
		return
	}
	s.write(w, http.StatusOK, map[string]interface{}{s.root(resource): row})
}

func (s *FakeShop) create(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]
	fields, ok := s.parse(w, r, resource)
	if !ok {
		return
	}
	delete(fields, "id")

	s.mu.Lock()
	id := s.insert(resource, fields)
	row := s.records[resource][id]
	s.mu.Unlock()

	s.write(w, http.StatusCreated, map[string]interface{}{s.root(resource): row})
}

func (s *FakeShop) update(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	fields, ok := s.parse(w, r, resource)
	if !ok {
		return
	}

	s.mu.Lock()
	row, exists := s.records[resource][id]
	if exists {
		for k, v := range fields {
			row[k] = v
		}
		row["id"] = strconv.Itoa(id)
	}
	s.mu.Unlock()

	if !exists {
		s.fail(w, http.StatusNotFound, 87, "Record not found")
		return
	}
	s.write(w, http.StatusOK, map[string]interface{}{s.root(resource): row})
}

func (s *FakeShop) remove(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]
	raw := strings.Trim(r.URL.Query().Get("id"), "[]")
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.fail(w, http.StatusBadRequest, 90, "Id is invalid")
		return
	}

	s.mu.Lock()
	_, exists := s.records[resource][id]
	delete(s.records[resource], id)
	s.mu.Unlock()

	if !exists {
		s.fail(w, http.StatusNotFound, 87, "Record not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *FakeShop) schema(w http.ResponseWriter, resource string) {
	fields := map[string]string{"id": ""}
	s.write(w, http.StatusOK, map[string]interface{}{s.root(resource): fields})
}

// xmlRecord reads <root><field>value</field>...</root>
type xmlRecord struct {
	XMLName xml.Name
	Fields  []struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
	} `xml:",any"`
}

func (s *FakeShop) parse(w http.ResponseWriter, r *http.Request, resource string) (map[string]string, bool) {
	var doc xmlRecord
	if err := xml.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.fail(w, http.StatusBadRequest, 127, "XML error: "+err.Error())
		return nil, false
	}
	if doc.XMLName.Local != s.root(resource) {
		s.fail(w, http.StatusBadRequest, 127, "unexpected root "+doc.XMLName.Local)
		return nil, false
	}

	fields := make(map[string]string, len(doc.Fields))
	for _, f := range doc.Fields {
		fields[f.XMLName.Local] = strings.TrimSpace(f.Value)
	}
	return fields, true
}

func (s *FakeShop) root(resource string) string {
	if root, ok := s.roots[resource]; ok {
		return root
	}
	return strings.TrimSuffix(resource, "s")
}

func (s *FakeShop) write(w http.ResponseWriter, status int, payload interface{}) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (s *FakeShop) fail(w http.ResponseWriter, status, code int, message string) {
	s.write(w, status, map[string]interface{}{
		"errors": []map[string]interface{}{{"code": code, "message": message}},
	})
}

// matches applies filter[field] values: [a|b] equality, [v]% prefix,
// %[v] suffix and %[v]% substring
func matches(row map[string]string, q url.Values) bool {
	for key, values := range q {
		if !strings.HasPrefix(key, "filter[") || len(values) == 0 {
			continue
		}
		field := strings.TrimSuffix(strings.TrimPrefix(key, "filter["), "]")
		if !matchValue(row[field], values[0]) {
			return false
		}
	}
	return true
}

func matchValue(got, want string) bool {
	begins := strings.HasSuffix(want, "]%")
	ends := strings.HasPrefix(want, "%[")
	inner := strings.TrimSuffix(strings.TrimPrefix(want, "%"), "%")
	inner = strings.TrimSuffix(strings.TrimPrefix(inner, "["), "]")

	switch {
	case begins && ends:
		return strings.Contains(got, inner)
	case begins:
		return strings.HasPrefix(got, inner)
	case ends:
		return strings.HasSuffix(got, inner)
	}
	for _, alt := range strings.Split(inner, "|") {
		if got == alt {
			return true
		}
	}
	return false
}

// project keeps the fields named in display=[a,b]; full or empty keeps all
func project(row map[string]string, display string) map[string]string {
	if display == "" || display == "full" {
		return row
	}
	out := make(map[string]string)
	for _, f := range strings.Split(strings.Trim(display, "[]"), ",") {
		if v, ok := row[strings.TrimSpace(f)]; ok {
			out[strings.TrimSpace(f)] = v
		}
	}
	return out
}
