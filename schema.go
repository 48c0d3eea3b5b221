package etl

import (
	"database/sql"
	"time"
)

// Table is one fully materialized warehouse table, ready to be handed to a
// Writer. PartitionBy names the columns writers should physically segment
// output by; every partition column is resolvable through each row's Fields.
type Table struct {
	Name        string
	Columns     []string
	PartitionBy []string
	Rows        []Row
}

// Row is a single warehouse table row. Fields returns the row's values keyed
// by column name. Nullable columns appear as nil; the map may carry values
// beyond the table's declared columns (songplays expose the year and month
// they partition by without declaring them as columns).
type Row interface {
	Fields() map[string]interface{}
}

// SongRecord is one row of the songs dimension.
type SongRecord struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int
	Duration float64
}

// Fields implements Row.
func (r SongRecord) Fields() map[string]interface{} {
	return map[string]interface{}{
		"song_id":   r.SongID,
		"title":     r.Title,
		"artist_id": r.ArtistID,
		"year":      r.Year,
		"duration":  r.Duration,
	}
}

// ArtistRecord is one row of the artists dimension.
type ArtistRecord struct {
	ArtistID  string
	Name      string
	Location  sql.NullString
	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
}

// Fields implements Row.
func (r ArtistRecord) Fields() map[string]interface{} {
	return map[string]interface{}{
		"artist_id": r.ArtistID,
		"name":      r.Name,
		"location":  nullString(r.Location),
		"latitude":  nullFloat(r.Latitude),
		"longitude": nullFloat(r.Longitude),
	}
}

// UserRecord is one row of the users dimension. Deduplication is on the full
// row, so a user whose level changed mid-corpus appears once per distinct
// (user_id, ..., level) combination.
type UserRecord struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    sql.NullString
	Level     string
}

// Fields implements Row.
func (r UserRecord) Fields() map[string]interface{} {
	return map[string]interface{}{
		"user_id":    r.UserID,
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"gender":     nullString(r.Gender),
		"level":      r.Level,
	}
}

// TimeRecord is one row of the time dimension, fully derived from StartTime.
// Weekday follows the Go convention: 0 is Sunday, 6 is Saturday. Week is the
// ISO week number while Year is the calendar year, so the two can disagree
// around New Year (2018-12-31 is calendar year 2018 but ISO week 1).
type TimeRecord struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int
	Month     int
	Year      int
	Weekday   int
}

// Fields implements Row.
func (r TimeRecord) Fields() map[string]interface{} {
	return map[string]interface{}{
		"start_time": r.StartTime,
		"hour":       r.Hour,
		"day":        r.Day,
		"week":       r.Week,
		"month":      r.Month,
		"year":       r.Year,
		"weekday":    r.Weekday,
	}
}

// SongPlayRecord is one row of the songplays fact table. SongID and ArtistID
// are null when the event could not be resolved against the catalog.
type SongPlayRecord struct {
	SongplayID int64
	StartTime  time.Time
	UserID     string
	Level      string
	SongID     sql.NullString
	ArtistID   sql.NullString
	SessionID  int
	Location   string
	UserAgent  string
}

// Fields implements Row. The year and month entries exist only for
// partitioning and are not declared columns of the songplays table.
func (r SongPlayRecord) Fields() map[string]interface{} {
	return map[string]interface{}{
		"songplay_id": r.SongplayID,
		"start_time":  r.StartTime,
		"user_id":     r.UserID,
		"level":       r.Level,
		"song_id":     nullString(r.SongID),
		"artist_id":   nullString(r.ArtistID),
		"session_id":  r.SessionID,
		"location":    r.Location,
		"user_agent":  r.UserAgent,
		"year":        r.StartTime.Year(),
		"month":       int(r.StartTime.Month()),
	}
}

// SongsTable wraps deduplicated song rows as the songs destination table,
// partitioned by year and artist.
func SongsTable(songs []SongRecord) Table {
	rows := make([]Row, len(songs))
	for i := range songs {
		rows[i] = songs[i]
	}
	return Table{
		Name:        "songs",
		Columns:     []string{"song_id", "title", "artist_id", "year", "duration"},
		PartitionBy: []string{"year", "artist_id"},
		Rows:        rows,
	}
}

// ArtistsTable wraps deduplicated artist rows as the artists destination
// table.
func ArtistsTable(artists []ArtistRecord) Table {
	rows := make([]Row, len(artists))
	for i := range artists {
		rows[i] = artists[i]
	}
	return Table{
		Name:    "artists",
		Columns: []string{"artist_id", "name", "location", "latitude", "longitude"},
		Rows:    rows,
	}
}

// UsersTable wraps deduplicated user rows as the users destination table.
func UsersTable(users []UserRecord) Table {
	rows := make([]Row, len(users))
	for i := range users {
		rows[i] = users[i]
	}
	return Table{
		Name:    "users",
		Columns: []string{"user_id", "first_name", "last_name", "gender", "level"},
		Rows:    rows,
	}
}

// TimeTable wraps deduplicated time rows as the time destination table,
// partitioned by year and month.
func TimeTable(times []TimeRecord) Table {
	rows := make([]Row, len(times))
	for i := range times {
		rows[i] = times[i]
	}
	return Table{
		Name:        "time",
		Columns:     []string{"start_time", "hour", "day", "week", "month", "year", "weekday"},
		PartitionBy: []string{"year", "month"},
		Rows:        rows,
	}
}

// SongPlaysTable wraps fact rows as the songplays destination table,
// partitioned by the year and month of each play's start time.
func SongPlaysTable(plays []SongPlayRecord) Table {
	rows := make([]Row, len(plays))
	for i := range plays {
		rows[i] = plays[i]
	}
	return Table{
		Name: "songplays",
		Columns: []string{"songplay_id", "start_time", "user_id", "level",
			"song_id", "artist_id", "session_id", "location", "user_agent"},
		PartitionBy: []string{"year", "month"},
		Rows:        rows,
	}
}

func nullString(v sql.NullString) interface{} {
	if v.Valid {
		return v.String
	}
	return nil
}

func nullFloat(v sql.NullFloat64) interface{} {
	if v.Valid {
		return v.Float64
	}
	return nil
}
