package etl

import "database/sql"

// NextSongPage is the page value identifying an actual song play. Events on
// any other page carry no play semantics and are dropped before they can
// reach the user, time, or songplay outputs.
const NextSongPage = "NextSong"

// PlayEvent is a validated raw event restricted to page == "NextSong". It
// still carries the denormalized song title, artist name and track length the
// fact assembler joins on.
type PlayEvent struct {
	TS        int64
	UserID    string
	FirstName string
	LastName  string
	Gender    sql.NullString
	Level     string
	Song      string
	Artist    string
	Length    float64
	SessionID int
	Location  string
	UserAgent string
}

// EventNormalizer filters raw event records down to song plays and
// accumulates deduplicated user dimension rows from them. User deduplication
// is on full-row equality, so a user whose level flips from free to paid
// mid-corpus contributes one row per level; collapsing those to the latest
// level is the destination store's problem, not the pipeline's.
type EventNormalizer struct {
	events    []PlayEvent
	users     []UserRecord
	seenUsers map[UserRecord]struct{}
}

// NewEventNormalizer gets a new empty EventNormalizer.
func NewEventNormalizer() *EventNormalizer {
	return &EventNormalizer{
		seenUsers: make(map[UserRecord]struct{}),
	}
}

// Add consumes one raw event record. Non-NextSong events are dropped
// silently; they are not malformed, just irrelevant. NextSong events missing
// a required field yield a MalformedRecordError and change nothing.
func (n *EventNormalizer) Add(rec interface{}) error {
	m, err := recordMap(rec)
	if err != nil {
		return err
	}

	page, err := stringField(m, "page")
	if err != nil {
		return err
	}
	if page != NextSongPage {
		return nil
	}

	ev := PlayEvent{}
	if ev.TS, err = int64Field(m, "ts"); err != nil {
		return err
	}
	if ev.UserID, err = stringField(m, "userId"); err != nil {
		return err
	}
	if ev.UserID == "" {
		return malformed("userId", "is empty")
	}
	if ev.FirstName, err = stringField(m, "firstName"); err != nil {
		return err
	}
	if ev.LastName, err = stringField(m, "lastName"); err != nil {
		return err
	}
	if ev.Gender, err = nullStringField(m, "gender"); err != nil {
		return err
	}
	if ev.Level, err = stringField(m, "level"); err != nil {
		return err
	}
	if ev.Song, err = stringField(m, "song"); err != nil {
		return err
	}
	if ev.Artist, err = stringField(m, "artist"); err != nil {
		return err
	}
	if ev.Length, err = floatField(m, "length"); err != nil {
		return err
	}
	if ev.SessionID, err = intField(m, "sessionId"); err != nil {
		return err
	}
	if ev.Location, err = stringField(m, "location"); err != nil {
		return err
	}
	if ev.UserAgent, err = stringField(m, "userAgent"); err != nil {
		return err
	}

	n.events = append(n.events, ev)

	user := UserRecord{
		UserID:    ev.UserID,
		FirstName: ev.FirstName,
		LastName:  ev.LastName,
		Gender:    ev.Gender,
		Level:     ev.Level,
	}
	if _, ok := n.seenUsers[user]; !ok {
		n.seenUsers[user] = struct{}{}
		n.users = append(n.users, user)
	}
	return nil
}

// Events returns the validated NextSong events in input order.
func (n *EventNormalizer) Events() []PlayEvent { return n.events }

// Users returns the deduplicated user rows in first-occurrence order.
func (n *EventNormalizer) Users() []UserRecord { return n.users }
