package file

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sparkify/etl"
)

// Writer writes warehouse tables under Dir, one subdirectory per table. Rows
// land in line separated json files, physically segmented into Hive-style
// partition subdirectories (songs/year=2000/artist_id=A1/part-00000.json)
// when the table declares partition columns.
//
// Each WriteTable call builds the table in a hidden temp directory and swaps
// it into place with a rename, so a concurrent reader sees either the old
// table or the new one, never a half-written mix.
type Writer struct {
	Dir string
}

// NewWriter gets a Writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating warehouse dir %s", dir)
	}
	return &Writer{Dir: dir}, nil
}

// WriteTable implements etl.Writer.
func (w *Writer) WriteTable(t etl.Table) error {
	tmp := filepath.Join(w.Dir, "."+t.Name+".tmp")
	if err := os.RemoveAll(tmp); err != nil {
		return errors.Wrap(err, "clearing temp dir")
	}
	if err := w.writeRows(tmp, t); err != nil {
		os.RemoveAll(tmp)
		return err
	}

	final := filepath.Join(w.Dir, t.Name)
	if err := os.RemoveAll(final); err != nil {
		return errors.Wrapf(err, "removing old table %s", t.Name)
	}
	if err := os.Rename(tmp, final); err != nil {
		return errors.Wrapf(err, "swapping in table %s", t.Name)
	}
	return nil
}

func (w *Writer) writeRows(dir string, t etl.Table) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating table dir")
	}

	// Group rows by partition, preserving row order within each.
	partitions := make(map[string][]etl.Row)
	order := []string{}
	for _, r := range t.Rows {
		key, err := etl.PartitionPath(r, t.PartitionBy)
		if err != nil {
			return errors.Wrapf(err, "partitioning table %s", t.Name)
		}
		if _, ok := partitions[key]; !ok {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], r)
	}

	for _, key := range order {
		pdir := dir
		if key != "" {
			pdir = filepath.Join(dir, filepath.FromSlash(key))
			if err := os.MkdirAll(pdir, 0755); err != nil {
				return errors.Wrap(err, "creating partition dir")
			}
		}
		if err := writePart(filepath.Join(pdir, "part-00000.json"), t, partitions[key]); err != nil {
			return errors.Wrapf(err, "writing partition %q of %s", key, t.Name)
		}
	}
	return nil
}

func writePart(path string, t etl.Table, rows []etl.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating part file")
	}
	enc := json.NewEncoder(f)
	for _, r := range rows {
		vals, err := etl.RowValues(r, t.Columns)
		if err != nil {
			f.Close()
			return err
		}
		if err := enc.Encode(vals); err != nil {
			f.Close()
			return errors.Wrap(err, "encoding row")
		}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "syncing part file")
	}
	return f.Close()
}

var _ etl.Writer = (*Writer)(nil)
