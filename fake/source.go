package fake

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// EventSource is an etl.Source which yields a fixed number of generated raw
// event records and then io.EOF. Using the same seed gives the same series
// of events on a given version of Go.
type EventSource struct {
	mu   sync.Mutex
	g    *Generator
	left int
}

// NewEventSource gets an EventSource producing n records from the given
// seed.
func NewEventSource(seed int64, n int) *EventSource {
	return &EventSource{
		g:    NewGenerator(seed),
		left: n,
	}
}

// Record implements etl.Source, returning each record as the
// map[string]interface{} a json Source would produce.
func (s *EventSource) Record() (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.left <= 0 {
		return nil, io.EOF
	}
	s.left--
	return toMap(s.g.Event())
}

// CatalogSource is an etl.Source which yields the generator's full song
// catalog and then io.EOF.
type CatalogSource struct {
	mu   sync.Mutex
	recs []*CatalogRecord
	i    int
}

// NewCatalogSource gets a CatalogSource from the given seed. The same seed
// handed to NewEventSource yields events that reference this catalog.
func NewCatalogSource(seed int64) *CatalogSource {
	return &CatalogSource{recs: NewGenerator(seed).Catalog()}
}

// Record implements etl.Source.
func (s *CatalogSource) Record() (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.i >= len(s.recs) {
		return nil, io.EOF
	}
	rec := s.recs[s.i]
	s.i++
	return toMap(rec)
}

// toMap round-trips a record through json so Sources hand out exactly what
// decoding the raw corpus would.
func toMap(v interface{}) (interface{}, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling record")
	}
	var m map[string]interface{}
	if err := json.NewDecoder(bytes.NewReader(buf)).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "unmarshaling record")
	}
	return m, nil
}
