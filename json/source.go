// Package json decodes raw records from line separated or concatenated JSON
// objects, which is how both Sparkify corpora are laid out on disk and in S3.
package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sparkify/etl"
)

// Source is an etl.Source for reading json data.
type Source struct {
	dec *json.Decoder
}

// NewSource gets a new json source which will decode from the given reader.
func NewSource(r io.Reader) *Source {
	return &Source{
		dec: json.NewDecoder(r),
	}
}

// Record implements etl.Source. It returns the next json object that can be
// decoded from the reader. It is guaranteed to return a
// map[string]interface{} if there is no error.
func (s *Source) Record() (rec interface{}, err error) {
	var res map[string]interface{}
	err = s.dec.Decode(&res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type rawSourceSource struct {
	rs etl.RawSource

	s    *Source
	name string
}

// NewSourceFromRawSource chains json decoding over every reader the
// RawSource yields, moving to the next reader as each one is exhausted.
func NewSourceFromRawSource(rs etl.RawSource) etl.Source {
	return &rawSourceSource{rs: rs}
}

func (r *rawSourceSource) Record() (rec interface{}, err error) {
	if r.s == nil {
		reader, err := r.rs.NextReader()
		if err == io.EOF {
			return nil, err
		} else if err != nil {
			return nil, errors.Wrap(err, "getting next reader")
		}
		r.s = NewSource(reader)
		r.name = reader.Name()
	}
	rec, err = r.s.Record()
	if err == io.EOF {
		r.s = nil
		return r.Record()
	} else if err != nil {
		// The decoder is poisoned after a syntax error, so skip the rest of
		// this reader. Surfacing the failure as a malformed record lets the
		// pipeline's record policy decide whether it is fatal.
		r.s = nil
		return nil, etl.MalformedRecordError{
			Reason: fmt.Sprintf("invalid json in %s: %v", r.name, err),
		}
	}
	return rec, nil
}
