package etl

import (
	"database/sql"
	"math"
)

// CatalogIndex resolves an event's denormalized (song title, artist name,
// track length) triple back to catalog identifiers. The raw event stream
// never carries song_id or artist_id, so this three-column equi-join is the
// only way to tie plays to the catalog.
//
// The index must be built from the complete song and artist sets of the run;
// probing a partial catalog would misclassify matches as unresolved.
type CatalogIndex struct {
	// DurationTolerance is the maximum absolute difference between a song's
	// catalog duration and an event's length for the two to match. Zero, the
	// default, requires exact floating-point equality, which is how the
	// warehouse has historically behaved.
	DurationTolerance float64

	entries map[titleArtist][]catalogEntry
}

type titleArtist struct {
	title  string
	artist string
}

type catalogEntry struct {
	songID   string
	artistID string
	duration float64
}

// NewCatalogIndex builds the per-run join index. Song rows are keyed under
// every artist row sharing their artist_id, since the artist name lives on
// the artist side of the catalog. Identical (title, artist, duration, ids)
// combinations collapse to one entry so that artist rows differing only in
// location don't turn a clean match ambiguous.
func NewCatalogIndex(songs []SongRecord, artists []ArtistRecord) *CatalogIndex {
	byID := make(map[string][]ArtistRecord, len(artists))
	for _, a := range artists {
		byID[a.ArtistID] = append(byID[a.ArtistID], a)
	}

	type fullEntry struct {
		key titleArtist
		ent catalogEntry
	}
	seen := make(map[fullEntry]struct{})
	ix := &CatalogIndex{entries: make(map[titleArtist][]catalogEntry)}
	for _, s := range songs {
		for _, a := range byID[s.ArtistID] {
			key := titleArtist{title: s.Title, artist: a.Name}
			ent := catalogEntry{songID: s.SongID, artistID: a.ArtistID, duration: s.Duration}
			if _, ok := seen[fullEntry{key, ent}]; ok {
				continue
			}
			seen[fullEntry{key, ent}] = struct{}{}
			ix.entries[key] = append(ix.entries[key], ent)
		}
	}
	return ix
}

// Resolve looks up the catalog identifiers for one event. Exactly one
// candidate match yields populated ids; zero or several candidates are
// treated uniformly as unresolved and yield nulls. Unresolved is a normal
// outcome, not an error.
func (ix *CatalogIndex) Resolve(song, artist string, length float64) (songID, artistID sql.NullString) {
	var match catalogEntry
	matches := 0
	for _, ent := range ix.entries[titleArtist{title: song, artist: artist}] {
		if ix.durationMatches(ent.duration, length) {
			match = ent
			matches++
		}
	}
	if matches != 1 {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: match.songID, Valid: true},
		sql.NullString{String: match.artistID, Valid: true}
}

func (ix *CatalogIndex) durationMatches(duration, length float64) bool {
	if ix.DurationTolerance == 0 {
		return duration == length
	}
	return math.Abs(duration-length) <= ix.DurationTolerance
}

// AssembleSongPlays produces one fact row per play event, in input order,
// with ids from the given Nexter. Events the index cannot resolve still
// produce a row with null song and artist ids.
func AssembleSongPlays(events []PlayEvent, ix *CatalogIndex, nexter *Nexter) []SongPlayRecord {
	plays := make([]SongPlayRecord, 0, len(events))
	for _, ev := range events {
		songID, artistID := ix.Resolve(ev.Song, ev.Artist, ev.Length)
		plays = append(plays, SongPlayRecord{
			SongplayID: nexter.Next(),
			StartTime:  StartTime(ev.TS),
			UserID:     ev.UserID,
			Level:      ev.Level,
			SongID:     songID,
			ArtistID:   artistID,
			SessionID:  ev.SessionID,
			Location:   ev.Location,
			UserAgent:  ev.UserAgent,
		})
	}
	return plays
}
