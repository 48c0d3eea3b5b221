package etl_test

import (
	"testing"
	"time"

	"github.com/sparkify/etl"
	"github.com/sparkify/etl/test"
)

func TestPartitionPath(t *testing.T) {
	song := etl.SongRecord{SongID: "S1", Title: "Test", ArtistID: "A1", Year: 2000, Duration: 180.5}
	path, err := etl.PartitionPath(song, []string{"year", "artist_id"})
	test.ErrNil(t, err, "partition path")
	test.MustBe(t, path, "year=2000/artist_id=A1")

	path, err = etl.PartitionPath(song, nil)
	test.ErrNil(t, err, "empty partition path")
	test.MustBe(t, path, "")

	if _, err := etl.PartitionPath(song, []string{"nope"}); err == nil {
		t.Fatal("expected error for unknown partition column")
	}
}

func TestPartitionPathSongPlay(t *testing.T) {
	// songplays partition on year and month even though neither is a
	// declared column; both come from the start time.
	play := etl.SongPlayRecord{
		SongplayID: 7,
		StartTime:  time.Date(2018, time.November, 5, 17, 52, 44, 0, time.UTC),
	}
	path, err := etl.PartitionPath(play, []string{"year", "month"})
	test.ErrNil(t, err, "partition path")
	test.MustBe(t, path, "year=2018/month=11")
}

func TestRowValues(t *testing.T) {
	artist := etl.ArtistRecord{ArtistID: "A1", Name: "Artist"}
	vals, err := etl.RowValues(artist, []string{"artist_id", "name", "location"})
	test.ErrNil(t, err, "row values")
	test.MustBe(t, vals["artist_id"], "A1")
	test.MustBe(t, vals["name"], "Artist")
	if vals["location"] != nil {
		t.Fatalf("null location should come through as nil, got %v", vals["location"])
	}

	if _, err := etl.RowValues(artist, []string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown column")
	}
}
