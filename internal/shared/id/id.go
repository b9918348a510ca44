// Package id generates request identifiers for calls to the web service.
//
// Request IDs are prefixed ULIDs (req_01H...). They sort by creation time,
// go out in the X-Request-Id header and tag every log line of a call, so a
// call can be matched with the shop's access log.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies one call to the web service
type RequestID string

// RequestPrefix tags request IDs in logs
const RequestPrefix = "req"

// String returns the ID as a string
func (id RequestID) String() string { return string(id) }

// Time returns the creation time encoded in the ID
func (id RequestID) Time() (time.Time, error) {
	raw := strings.TrimPrefix(string(id), RequestPrefix+"_")
	parsed, err := ulid.Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

// Generator generates ULIDs
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source,
// for deterministic tests
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// RequestID creates a new prefixed request ID
func (g *Generator) RequestID() RequestID {
	return RequestID(fmt.Sprintf("%s_%s", RequestPrefix, g.Generate().String()))
}

// NewRequestID generates a request ID with the shared generator
func NewRequestID() RequestID {
	return Default().RequestID()
}

// IsValid checks if an ID string is a valid ULID, with or without prefix
func IsValid(id string) bool {
	_, err := ulid.Parse(strings.TrimPrefix(id, RequestPrefix+"_"))
	return err == nil
}
