package etl_test

import (
	"database/sql"
	"testing"

	"github.com/sparkify/etl"
	"github.com/sparkify/etl/test"
)

func eventRecord(overrides map[string]interface{}) map[string]interface{} {
	rec := map[string]interface{}{
		"page":      "NextSong",
		"ts":        float64(1541440364796),
		"userId":    "U1",
		"firstName": "A",
		"lastName":  "B",
		"gender":    "F",
		"level":     "free",
		"song":      "Test",
		"artist":    "Artist",
		"length":    180.5,
		"sessionId": float64(1),
		"location":  "NYC",
		"userAgent": "x",
	}
	for k, v := range overrides {
		rec[k] = v
	}
	return rec
}

func TestEventNormalizer(t *testing.T) {
	n := etl.NewEventNormalizer()
	test.ErrNil(t, n.Add(eventRecord(nil)), "adding event")

	test.MustBe(t, n.Events(), []etl.PlayEvent{{
		TS:        1541440364796,
		UserID:    "U1",
		FirstName: "A",
		LastName:  "B",
		Gender:    sql.NullString{String: "F", Valid: true},
		Level:     "free",
		Song:      "Test",
		Artist:    "Artist",
		Length:    180.5,
		SessionID: 1,
		Location:  "NYC",
		UserAgent: "x",
	}}, "events")

	test.MustBe(t, n.Users(), []etl.UserRecord{{
		UserID:    "U1",
		FirstName: "A",
		LastName:  "B",
		Gender:    sql.NullString{String: "F", Valid: true},
		Level:     "free",
	}}, "users")
}

func TestEventNormalizerPageFilter(t *testing.T) {
	n := etl.NewEventNormalizer()

	// Non-NextSong events are dropped entirely - they must not even reach the
	// user projection.
	test.ErrNil(t, n.Add(eventRecord(map[string]interface{}{"page": "Home"})), "adding Home event")
	if len(n.Events()) != 0 || len(n.Users()) != 0 {
		t.Fatalf("Home event leaked through the filter: %d events, %d users", len(n.Events()), len(n.Users()))
	}

	// A Home event may be missing play fields; that is not malformed.
	rec := eventRecord(map[string]interface{}{"page": "Home"})
	delete(rec, "song")
	delete(rec, "length")
	test.ErrNil(t, n.Add(rec), "adding sparse Home event")
}

func TestEventNormalizerUserDedup(t *testing.T) {
	n := etl.NewEventNormalizer()
	test.ErrNil(t, n.Add(eventRecord(nil)), "first event")
	test.ErrNil(t, n.Add(eventRecord(map[string]interface{}{"ts": float64(1541440999000)})), "second event")
	if len(n.Users()) != 1 {
		t.Fatalf("same user twice should yield one row, got %d", len(n.Users()))
	}

	// A level change is a distinct user fact; both rows survive, sharing
	// user_id. Collapsing them is explicitly not this pipeline's job.
	test.ErrNil(t, n.Add(eventRecord(map[string]interface{}{"level": "paid"})), "level change")
	if len(n.Users()) != 2 {
		t.Fatalf("level change should yield a second row, got %d", len(n.Users()))
	}
	if n.Users()[0].UserID != n.Users()[1].UserID {
		t.Fatalf("both rows should share user_id: %#v", n.Users())
	}
}

func TestEventNormalizerMalformed(t *testing.T) {
	n := etl.NewEventNormalizer()

	rec := eventRecord(nil)
	delete(rec, "ts")
	if _, ok := n.Add(rec).(etl.MalformedRecordError); !ok {
		t.Fatalf("expected MalformedRecordError for missing ts")
	}

	if _, ok := n.Add(eventRecord(map[string]interface{}{"userId": ""})).(etl.MalformedRecordError); !ok {
		t.Fatalf("expected MalformedRecordError for empty userId")
	}

	if len(n.Events()) != 0 {
		t.Fatalf("malformed events must not contribute rows")
	}
}

func TestEventNormalizerNumericUserID(t *testing.T) {
	// Some corpora encode userId as a JSON number; it is stringified.
	n := etl.NewEventNormalizer()
	test.ErrNil(t, n.Add(eventRecord(map[string]interface{}{"userId": float64(101)})), "numeric userId")
	test.MustBe(t, n.Users()[0].UserID, "101", "user id")
}
