package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sparkify/etl"
	"github.com/sparkify/etl/json"
)

// Source is an etl.Source which reads json objects from files on disk.
type Source struct {
	rawSource *RawSource
	records   chan record
}

// SrcOption is a functional option for the file Source.
type SrcOption func(s *Source) error

// OptSrcPath sets the file or directory to read source data from.
func OptSrcPath(pathname string) SrcOption {
	return func(s *Source) (err error) {
		s.rawSource, err = NewRawSource(pathname)
		if err != nil {
			return errors.Wrap(err, "getting raw source")
		}
		return nil
	}
}

// OptSrcBufSize sets the number of records to buffer while waiting for Record
// to be called.
func OptSrcBufSize(bufsize int) SrcOption {
	return func(s *Source) error {
		s.records = make(chan record, bufsize)
		return nil
	}
}

// NewSource gets a new file source which will read json data from a file or
// every file under a directory.
func NewSource(opts ...SrcOption) (*Source, error) {
	s := &Source{
		records: make(chan record, 100),
	}
	for _, opt := range opts {
		err := opt(s)
		if err != nil {
			return nil, err
		}
	}
	if s.rawSource == nil {
		return nil, errors.New("file source requires a path")
	}
	go s.run()
	return s, nil
}

func (s *Source) run() {
	reader, err := s.rawSource.NextReader()
	for ; err == nil; reader, err = s.rawSource.NextReader() {
		src := json.NewSource(reader)
		r := record{}
		for {
			r.data, r.err = src.Record()
			if r.err == io.EOF {
				reader.Close()
				break
			}
			if r.err != nil {
				// The decoder is poisoned after a syntax error; report the
				// file once as malformed and move on to the next one.
				r.data = nil
				r.err = etl.MalformedRecordError{
					Reason: fmt.Sprintf("invalid json in %s: %v", reader.Name(), r.err),
				}
				s.records <- r
				reader.Close()
				break
			}
			s.records <- r
		}
	}
	if err != io.EOF {
		s.records <- record{err: errors.Wrap(err, "getting next reader")}
	}

	close(s.records)
}

// Record implements etl.Source returning a map[string]interface{} for each
// json object in the source files.
func (s *Source) Record() (interface{}, error) {
	rec, ok := <-s.records
	if !ok {
		return nil, io.EOF
	}
	return rec.data, rec.err
}

type record struct {
	data interface{}
	err  error
}

// RawSource yields a reader per regular file under a path. The raw Sparkify
// corpora nest their json files several directories deep
// (song_data/A/A/A/TRAAAAK128F9318786.json), so the walk is recursive. Files
// are visited in sorted path order to keep runs reproducible.
type RawSource struct {
	files   []string
	fileIdx *uint64
}

// NewRawSource gets a RawSource over the file or directory tree at pathname.
func NewRawSource(pathname string) (*RawSource, error) {
	fileIdx := uint64(0)
	s := &RawSource{
		fileIdx: &fileIdx,
	}
	err := filepath.Walk(pathname, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			s.files = append(s.files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", pathname)
	}
	sort.Strings(s.files)
	return s, nil
}

type metaFile struct {
	*os.File
}

func (m *metaFile) Name() string {
	return filepath.Base(m.File.Name())
}

// NextReader implements etl.RawSource.
func (s *RawSource) NextReader() (etl.NamedReadCloser, error) {
	idx := atomic.AddUint64(s.fileIdx, 1) - 1
	if int(idx) >= len(s.files) {
		return nil, io.EOF
	}

	file, err := os.Open(s.files[idx])
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", s.files[idx])
	}

	return &metaFile{file}, nil
}
