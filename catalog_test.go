package etl_test

import (
	"database/sql"
	"testing"

	"github.com/sparkify/etl"
	"github.com/sparkify/etl/test"
)

func catalogRecord(overrides map[string]interface{}) map[string]interface{} {
	rec := map[string]interface{}{
		"song_id":          "S1",
		"title":            "Test",
		"artist_id":        "A1",
		"year":             float64(2000),
		"duration":         180.5,
		"artist_name":      "Artist",
		"artist_location":  "NYC",
		"artist_latitude":  40.7,
		"artist_longitude": -74.0,
	}
	for k, v := range overrides {
		rec[k] = v
	}
	return rec
}

func TestCatalogNormalizerProjections(t *testing.T) {
	n := etl.NewCatalogNormalizer()
	test.ErrNil(t, n.Add(catalogRecord(nil)), "adding record")

	test.MustBe(t, n.Songs(), []etl.SongRecord{{
		SongID:   "S1",
		Title:    "Test",
		ArtistID: "A1",
		Year:     2000,
		Duration: 180.5,
	}}, "songs")

	test.MustBe(t, n.Artists(), []etl.ArtistRecord{{
		ArtistID:  "A1",
		Name:      "Artist",
		Location:  sql.NullString{String: "NYC", Valid: true},
		Latitude:  sql.NullFloat64{Float64: 40.7, Valid: true},
		Longitude: sql.NullFloat64{Float64: -74.0, Valid: true},
	}}, "artists")
}

func TestCatalogNormalizerNullArtistFields(t *testing.T) {
	n := etl.NewCatalogNormalizer()
	err := n.Add(catalogRecord(map[string]interface{}{
		"artist_location":  nil,
		"artist_latitude":  nil,
		"artist_longitude": nil,
	}))
	test.ErrNil(t, err, "adding record")

	a := n.Artists()[0]
	if a.Location.Valid || a.Latitude.Valid || a.Longitude.Valid {
		t.Fatalf("expected null artist fields, got %#v", a)
	}

	// Blank location is also null, matching blanks-as-null load behavior.
	err = n.Add(catalogRecord(map[string]interface{}{"artist_location": ""}))
	test.ErrNil(t, err, "adding blank-location record")
	if len(n.Artists()) != 1 {
		t.Fatalf("blank and missing location should dedup to one artist, got %d", len(n.Artists()))
	}
}

func TestCatalogNormalizerFullRowDedup(t *testing.T) {
	n := etl.NewCatalogNormalizer()
	test.ErrNil(t, n.Add(catalogRecord(nil)), "first add")
	test.ErrNil(t, n.Add(catalogRecord(nil)), "identical add")

	if len(n.Songs()) != 1 || len(n.Artists()) != 1 {
		t.Fatalf("identical records should collapse: %d songs, %d artists", len(n.Songs()), len(n.Artists()))
	}

	// Same song id, different duration: a distinct raw fact, both rows kept.
	test.ErrNil(t, n.Add(catalogRecord(map[string]interface{}{"duration": 181.0})), "changed duration")
	if len(n.Songs()) != 2 {
		t.Fatalf("expected 2 songs after duration change, got %d", len(n.Songs()))
	}
	if len(n.Artists()) != 1 {
		t.Fatalf("artist projection should be untouched, got %d rows", len(n.Artists()))
	}
}

func TestCatalogNormalizerMalformed(t *testing.T) {
	n := etl.NewCatalogNormalizer()

	rec := catalogRecord(nil)
	delete(rec, "song_id")
	err := n.Add(rec)
	if _, ok := err.(etl.MalformedRecordError); !ok {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}

	err = n.Add(catalogRecord(map[string]interface{}{"duration": "not-a-number"}))
	if _, ok := err.(etl.MalformedRecordError); !ok {
		t.Fatalf("expected MalformedRecordError for bad duration, got %v", err)
	}

	if len(n.Songs()) != 0 || len(n.Artists()) != 0 {
		t.Fatalf("malformed records must not contribute rows")
	}
}
