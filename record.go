package etl

import (
	"database/sql"
	"fmt"
	"strconv"
)

// MalformedRecordError describes a raw record which is missing a required
// field or carries a value of an unusable type. The pipeline's record policy
// decides whether these are skipped and counted or abort the run.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: field %q %s", e.Field, e.Reason)
}

func malformed(field, reason string) MalformedRecordError {
	return MalformedRecordError{Field: field, Reason: reason}
}

// recordMap asserts that a raw record is a JSON object.
func recordMap(rec interface{}) (map[string]interface{}, error) {
	m, ok := rec.(map[string]interface{})
	if !ok {
		return nil, malformed("", fmt.Sprintf("record is %T, not an object", rec))
	}
	return m, nil
}

// stringField fetches a required string field. Numeric values are accepted
// and stringified since some corpora encode identifiers as JSON numbers.
func stringField(rec map[string]interface{}, name string) (string, error) {
	v, ok := rec[name]
	if !ok || v == nil {
		return "", malformed(name, "is missing")
	}
	switch tv := v.(type) {
	case string:
		return tv, nil
	case float64:
		return strconv.FormatInt(int64(tv), 10), nil
	}
	return "", malformed(name, fmt.Sprintf("has type %T, want string", v))
}

// floatField fetches a required numeric field. Strings holding a number are
// accepted.
func floatField(rec map[string]interface{}, name string) (float64, error) {
	v, ok := rec[name]
	if !ok || v == nil {
		return 0, malformed(name, "is missing")
	}
	switch tv := v.(type) {
	case float64:
		return tv, nil
	case string:
		f, err := strconv.ParseFloat(tv, 64)
		if err != nil {
			return 0, malformed(name, fmt.Sprintf("%q is not a number", tv))
		}
		return f, nil
	}
	return 0, malformed(name, fmt.Sprintf("has type %T, want number", v))
}

func intField(rec map[string]interface{}, name string) (int, error) {
	f, err := floatField(rec, name)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func int64Field(rec map[string]interface{}, name string) (int64, error) {
	f, err := floatField(rec, name)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// nullStringField fetches an optional string field. Missing keys, JSON nulls
// and empty strings all map to SQL null, matching the blanks-as-null handling
// the warehouse applies to the raw corpora.
func nullStringField(rec map[string]interface{}, name string) (sql.NullString, error) {
	v, ok := rec[name]
	if !ok || v == nil {
		return sql.NullString{}, nil
	}
	s, ok := v.(string)
	if !ok {
		return sql.NullString{}, malformed(name, fmt.Sprintf("has type %T, want string", v))
	}
	if s == "" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: s, Valid: true}, nil
}

// nullFloatField fetches an optional numeric field; missing keys and JSON
// nulls map to SQL null.
func nullFloatField(rec map[string]interface{}, name string) (sql.NullFloat64, error) {
	v, ok := rec[name]
	if !ok || v == nil {
		return sql.NullFloat64{}, nil
	}
	f, ok := v.(float64)
	if !ok {
		return sql.NullFloat64{}, malformed(name, fmt.Sprintf("has type %T, want number", v))
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}
