package etl

import "time"

// StartTime converts an event's epoch-millisecond timestamp to the civil
// timestamp keying the time dimension. Millisecond remainders are truncated
// and the result is always UTC, so derivation never depends on the system
// time zone.
func StartTime(tsMillis int64) time.Time {
	return time.Unix(tsMillis/1000, 0).UTC()
}

// DeriveTime computes the full time dimension row for one timestamp. Week is
// the ISO week number; Year is the calendar year; Weekday is 0 for Sunday
// through 6 for Saturday.
func DeriveTime(tsMillis int64) TimeRecord {
	t := StartTime(tsMillis)
	_, week := t.ISOWeek()
	return TimeRecord{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   int(t.Weekday()),
	}
}

// BuildTimeTable derives one TimeRecord per distinct start time across the
// given events, in first-occurrence order. Every event is guaranteed a
// matching row since fact assembly derives start times the same way.
func BuildTimeTable(events []PlayEvent) []TimeRecord {
	seen := make(map[time.Time]struct{}, len(events))
	times := make([]TimeRecord, 0, len(events))
	for _, ev := range events {
		rec := DeriveTime(ev.TS)
		if _, ok := seen[rec.StartTime]; ok {
			continue
		}
		seen[rec.StartTime] = struct{}{}
		times = append(times, rec)
	}
	return times
}
