// Package boltdb provides an embedded warehouse destination on bolt. It is
// handy for local runs and tests where standing up a relational engine is
// overkill but the overwrite-per-table contract still has to hold.
package boltdb

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/sparkify/etl"
)

// Writer stores warehouse tables in a bolt database file, one bucket per
// table. Rows are json encoded under keys of the form
// <partition path>/<big-endian row index>, so partition scans are prefix
// scans. WriteTable replaces the table's bucket inside a single update
// transaction, which is what makes the per-table swap atomic for readers.
type Writer struct {
	Db *bolt.DB
}

// NewWriter opens (or creates) the bolt file at filename.
func NewWriter(filename string) (*Writer, error) {
	db, err := bolt.Open(filename, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening db file '%v'", filename)
	}
	return &Writer{Db: db}, nil
}

// WriteTable implements etl.Writer.
func (w *Writer) WriteTable(t etl.Table) error {
	err := w.Db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(t.Name)) != nil {
			if err := tx.DeleteBucket([]byte(t.Name)); err != nil {
				return errors.Wrap(err, "deleting old bucket")
			}
		}
		b, err := tx.CreateBucket([]byte(t.Name))
		if err != nil {
			return errors.Wrap(err, "creating bucket")
		}

		for i, r := range t.Rows {
			key, err := rowKey(r, t.PartitionBy, uint64(i))
			if err != nil {
				return err
			}
			vals, err := etl.RowValues(r, t.Columns)
			if err != nil {
				return err
			}
			val, err := json.Marshal(vals)
			if err != nil {
				return errors.Wrap(err, "encoding row")
			}
			if err := b.Put(key, val); err != nil {
				return errors.Wrap(err, "putting row")
			}
		}
		return nil
	})
	return errors.Wrapf(err, "writing table %s", t.Name)
}

func rowKey(r etl.Row, partitionBy []string, idx uint64) ([]byte, error) {
	part, err := etl.PartitionPath(r, partitionBy)
	if err != nil {
		return nil, err
	}
	key := make([]byte, 0, len(part)+9)
	if part != "" {
		key = append(key, part...)
		key = append(key, '/')
	}
	idxBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idxBytes, idx)
	return append(key, idxBytes...), nil
}

// Close syncs and closes the underlying bolt database.
func (w *Writer) Close() error {
	if err := w.Db.Sync(); err != nil {
		return errors.Wrap(err, "syncing db")
	}
	return w.Db.Close()
}

var _ etl.Writer = (*Writer)(nil)
