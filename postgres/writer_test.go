package postgres

import (
	"database/sql"
	"testing"

	"github.com/sparkify/etl"
)

func TestInsertStatement(t *testing.T) {
	table := etl.UsersTable([]etl.UserRecord{
		{UserID: "7", FirstName: "Ava", LastName: "Ames", Gender: sql.NullString{String: "F", Valid: true}, Level: "free"},
		{UserID: "7", FirstName: "Ava", LastName: "Ames", Level: "paid"},
	})

	stmt, args, err := insertStatement(table, table.Rows)
	if err != nil {
		t.Fatalf("building statement: %v", err)
	}

	exp := `INSERT INTO "users" ("user_id", "first_name", "last_name", "gender", "level") VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)`
	if stmt != exp {
		t.Fatalf("wrong statement:\ngot  %s\nwant %s", stmt, exp)
	}
	if len(args) != 10 {
		t.Fatalf("wrong number of args: %v", args)
	}
	if args[0] != "7" || args[3] != "F" || args[4] != "free" {
		t.Fatalf("wrong first row args: %v", args[:5])
	}
	// Null gender binds as nil.
	if args[8] != nil {
		t.Fatalf("expected nil gender arg, got %v", args[8])
	}
	if args[9] != "paid" {
		t.Fatalf("wrong second row level: %v", args[9])
	}
}

func TestInsertStatementQuotesReservedNames(t *testing.T) {
	table := etl.TimeTable([]etl.TimeRecord{{Hour: 3}})

	stmt, _, err := insertStatement(table, table.Rows)
	if err != nil {
		t.Fatalf("building statement: %v", err)
	}
	exp := `INSERT INTO "time" ("start_time", "hour", "day", "week", "month", "year", "weekday") VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if stmt != exp {
		t.Fatalf("wrong statement:\ngot  %s\nwant %s", stmt, exp)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`weird"name`); got != `"weird""name"` {
		t.Fatalf("wrong quoting: %s", got)
	}
}
