package etl_test

import (
	"database/sql"
	"testing"

	"github.com/sparkify/etl"
	"github.com/sparkify/etl/test"
)

func testCatalog() ([]etl.SongRecord, []etl.ArtistRecord) {
	songs := []etl.SongRecord{
		{SongID: "S1", Title: "Test", ArtistID: "A1", Year: 2000, Duration: 180.5},
		{SongID: "S2", Title: "Other", ArtistID: "A2", Year: 2010, Duration: 200.0},
	}
	artists := []etl.ArtistRecord{
		{ArtistID: "A1", Name: "Artist"},
		{ArtistID: "A2", Name: "Band"},
	}
	return songs, artists
}

func playEvent(song, artist string, length float64) etl.PlayEvent {
	return etl.PlayEvent{
		TS:        1541440364796,
		UserID:    "U1",
		Level:     "free",
		Song:      song,
		Artist:    artist,
		Length:    length,
		SessionID: 1,
		Location:  "NYC",
		UserAgent: "x",
	}
}

func TestCatalogIndexResolve(t *testing.T) {
	ix := etl.NewCatalogIndex(testCatalog())

	songID, artistID := ix.Resolve("Test", "Artist", 180.5)
	test.MustBe(t, songID, sql.NullString{String: "S1", Valid: true}, "song id")
	test.MustBe(t, artistID, sql.NullString{String: "A1", Valid: true}, "artist id")

	// Unknown title: unresolved, not an error.
	songID, artistID = ix.Resolve("Unknown", "Artist", 180.5)
	if songID.Valid || artistID.Valid {
		t.Fatalf("unknown song should be unresolved, got %v %v", songID, artistID)
	}

	// Matching title and artist but wrong length: strict equality by default.
	songID, _ = ix.Resolve("Test", "Artist", 180.6)
	if songID.Valid {
		t.Fatalf("duration mismatch should be unresolved")
	}
}

func TestCatalogIndexDurationTolerance(t *testing.T) {
	ix := etl.NewCatalogIndex(testCatalog())
	ix.DurationTolerance = 0.25

	songID, _ := ix.Resolve("Test", "Artist", 180.6)
	if !songID.Valid {
		t.Fatalf("length within tolerance should resolve")
	}
	songID, _ = ix.Resolve("Test", "Artist", 181.0)
	if songID.Valid {
		t.Fatalf("length outside tolerance should be unresolved")
	}
}

func TestCatalogIndexAmbiguous(t *testing.T) {
	// Two distinct songs with identical title, artist and duration: zero and
	// many matches are treated the same, unresolved.
	songs := []etl.SongRecord{
		{SongID: "S1", Title: "Test", ArtistID: "A1", Year: 2000, Duration: 180.5},
		{SongID: "S9", Title: "Test", ArtistID: "A1", Year: 2005, Duration: 180.5},
	}
	artists := []etl.ArtistRecord{{ArtistID: "A1", Name: "Artist"}}
	ix := etl.NewCatalogIndex(songs, artists)

	songID, artistID := ix.Resolve("Test", "Artist", 180.5)
	if songID.Valid || artistID.Valid {
		t.Fatalf("ambiguous match should be unresolved, got %v %v", songID, artistID)
	}
}

func TestCatalogIndexDuplicateArtistRows(t *testing.T) {
	// Artist rows differing only in location collapse to one index entry, so
	// the clean match stays clean.
	songs := []etl.SongRecord{
		{SongID: "S1", Title: "Test", ArtistID: "A1", Year: 2000, Duration: 180.5},
	}
	artists := []etl.ArtistRecord{
		{ArtistID: "A1", Name: "Artist", Location: sql.NullString{String: "NYC", Valid: true}},
		{ArtistID: "A1", Name: "Artist", Location: sql.NullString{String: "LA", Valid: true}},
	}
	ix := etl.NewCatalogIndex(songs, artists)

	songID, _ := ix.Resolve("Test", "Artist", 180.5)
	if !songID.Valid {
		t.Fatalf("duplicate artist rows should not make the match ambiguous")
	}
}

func TestAssembleSongPlays(t *testing.T) {
	songs, artists := testCatalog()
	ix := etl.NewCatalogIndex(songs, artists)
	events := []etl.PlayEvent{
		playEvent("Test", "Artist", 180.5),
		playEvent("Unknown", "Nobody", 99.9),
		playEvent("Other", "Band", 200.0),
	}

	plays := etl.AssembleSongPlays(events, ix, etl.NewNexter())
	if len(plays) != 3 {
		t.Fatalf("every event yields a fact row, got %d", len(plays))
	}

	// Surrogate ids follow input order.
	for i, p := range plays {
		if p.SongplayID != int64(i) {
			t.Fatalf("expected songplay id %d, got %d", i, p.SongplayID)
		}
	}

	test.MustBe(t, plays[0].SongID, sql.NullString{String: "S1", Valid: true}, "first song id")
	test.MustBe(t, plays[0].ArtistID, sql.NullString{String: "A1", Valid: true}, "first artist id")
	if plays[1].SongID.Valid || plays[1].ArtistID.Valid {
		t.Fatalf("unmatched event should carry null ids, got %#v", plays[1])
	}
	test.MustBe(t, plays[2].SongID, sql.NullString{String: "S2", Valid: true}, "third song id")

	test.MustBe(t, plays[0].StartTime, etl.StartTime(events[0].TS), "start time")
}
