package etl

import "io"

// Source is the interface for getting raw data one record at a time. Record
// returns io.EOF once the underlying corpus is exhausted. Implementations of
// Source should be thread safe.
type Source interface {
	Record() (interface{}, error)
}

// NamedReadCloser is a ReadCloser which also knows the name of the file or
// object it reads from.
type NamedReadCloser interface {
	io.ReadCloser
	Name() string
}

// RawSource is the interface for getting raw data as a sequence of readers,
// one per file or object. NextReader returns io.EOF once all readers have
// been handed out. Implementations of RawSource should be thread safe.
type RawSource interface {
	NextReader() (NamedReadCloser, error)
}
