package etl

// CatalogNormalizer accumulates deduplicated song and artist dimension rows
// from raw catalog records. The two projections are independent: it does not
// check that every song's artist_id has a matching artist row, since the raw
// corpus offers no such guarantee and consumers must tolerate the gap.
//
// Deduplication is on full-row equality, not on the id alone - two catalog
// records that differ only in, say, duration both survive.
type CatalogNormalizer struct {
	songs       []SongRecord
	seenSongs   map[SongRecord]struct{}
	artists     []ArtistRecord
	seenArtists map[ArtistRecord]struct{}
}

// NewCatalogNormalizer gets a new empty CatalogNormalizer.
func NewCatalogNormalizer() *CatalogNormalizer {
	return &CatalogNormalizer{
		seenSongs:   make(map[SongRecord]struct{}),
		seenArtists: make(map[ArtistRecord]struct{}),
	}
}

// Add projects one raw catalog record into the song and artist sets. A record
// missing a required field yields a MalformedRecordError and changes nothing.
func (n *CatalogNormalizer) Add(rec interface{}) error {
	m, err := recordMap(rec)
	if err != nil {
		return err
	}

	song := SongRecord{}
	if song.SongID, err = stringField(m, "song_id"); err != nil {
		return err
	}
	if song.Title, err = stringField(m, "title"); err != nil {
		return err
	}
	if song.ArtistID, err = stringField(m, "artist_id"); err != nil {
		return err
	}
	if song.Year, err = intField(m, "year"); err != nil {
		return err
	}
	if song.Duration, err = floatField(m, "duration"); err != nil {
		return err
	}

	artist := ArtistRecord{ArtistID: song.ArtistID}
	if artist.Name, err = stringField(m, "artist_name"); err != nil {
		return err
	}
	if artist.Location, err = nullStringField(m, "artist_location"); err != nil {
		return err
	}
	if artist.Latitude, err = nullFloatField(m, "artist_latitude"); err != nil {
		return err
	}
	if artist.Longitude, err = nullFloatField(m, "artist_longitude"); err != nil {
		return err
	}

	if _, ok := n.seenSongs[song]; !ok {
		n.seenSongs[song] = struct{}{}
		n.songs = append(n.songs, song)
	}
	if _, ok := n.seenArtists[artist]; !ok {
		n.seenArtists[artist] = struct{}{}
		n.artists = append(n.artists, artist)
	}
	return nil
}

// Songs returns the deduplicated song rows in first-occurrence order.
func (n *CatalogNormalizer) Songs() []SongRecord { return n.songs }

// Artists returns the deduplicated artist rows in first-occurrence order.
func (n *CatalogNormalizer) Artists() []ArtistRecord { return n.artists }
