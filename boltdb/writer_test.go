package boltdb

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boltdb/bolt"
	"github.com/sparkify/etl"
)

func testWriter(t *testing.T) (*Writer, func()) {
	t.Helper()
	d, err := ioutil.TempDir("", "testboltwriter")
	if err != nil {
		t.Fatal("getting temp dir")
	}
	w, err := NewWriter(filepath.Join(d, "warehouse.bolt"))
	if err != nil {
		t.Fatalf("getting writer: %v", err)
	}
	return w, func() {
		w.Close()
		os.RemoveAll(d)
	}
}

func bucketRows(t *testing.T, db *bolt.DB, name string) (keys []string, rows []map[string]interface{}) {
	t.Helper()
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			t.Fatalf("no bucket %s", name)
		}
		return b.ForEach(func(k, v []byte) error {
			keys = append(keys, string(k))
			var m map[string]interface{}
			if err := json.Unmarshal(v, &m); err != nil {
				t.Fatalf("decoding row %s: %v", k, err)
			}
			rows = append(rows, m)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("reading bucket: %v", err)
	}
	return keys, rows
}

func TestWriteTable(t *testing.T) {
	w, cleanup := testWriter(t)
	defer cleanup()

	table := etl.SongsTable([]etl.SongRecord{
		{SongID: "S1", Title: "One", ArtistID: "A1", Year: 2000, Duration: 180.5},
		{SongID: "S2", Title: "Two", ArtistID: "A2", Year: 0, Duration: 95},
	})
	if err := w.WriteTable(table); err != nil {
		t.Fatalf("writing table: %v", err)
	}

	keys, rows := bucketRows(t, w.Db, "songs")
	if len(rows) != 2 {
		t.Fatalf("wrong number of rows: %v", rows)
	}
	// Keys carry the partition path as a scannable prefix.
	if !strings.HasPrefix(keys[0], "year=0/artist_id=A2/") &&
		!strings.HasPrefix(keys[0], "year=2000/artist_id=A1/") {
		t.Fatalf("key missing partition prefix: %q", keys[0])
	}
	found := map[string]bool{}
	for _, r := range rows {
		found[r["song_id"].(string)] = true
	}
	if !found["S1"] || !found["S2"] {
		t.Fatalf("missing songs in bucket: %v", rows)
	}
}

func TestWriteTableReplacesBucket(t *testing.T) {
	w, cleanup := testWriter(t)
	defer cleanup()

	write := func(users []etl.UserRecord) {
		t.Helper()
		if err := w.WriteTable(etl.UsersTable(users)); err != nil {
			t.Fatalf("writing table: %v", err)
		}
	}

	write([]etl.UserRecord{
		{UserID: "1", FirstName: "A", LastName: "B", Level: "free"},
		{UserID: "2", FirstName: "C", LastName: "D", Level: "paid"},
		{UserID: "3", FirstName: "E", LastName: "F", Level: "free"},
	})
	write([]etl.UserRecord{
		{UserID: "9", FirstName: "Z", LastName: "Y", Level: "paid"},
	})

	_, rows := bucketRows(t, w.Db, "users")
	if len(rows) != 1 {
		t.Fatalf("old rows survived the rewrite: %v", rows)
	}
	if rows[0]["user_id"] != "9" {
		t.Fatalf("wrong surviving row: %v", rows[0])
	}
	if rows[0]["gender"] != nil {
		t.Fatalf("null gender should be json null: %v", rows[0])
	}
}
