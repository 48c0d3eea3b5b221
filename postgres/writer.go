// Package postgres loads the warehouse into a Postgres database. The
// destination tables mirror the file layout's schema; partition columns are
// ignored since the relational engine indexes rather than segments.
package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sparkify/etl"

	// Registers the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// insertBatchSize rows go into each multi-row INSERT. Postgres caps bind
// parameters at 65535 per statement; 500 rows of at most 9 columns stays
// comfortably under it.
const insertBatchSize = 500

// The users table carries no primary key on purpose: deduplication is on the
// full row, so a user whose level changed appears once per level and a key
// on user_id would reject the reload.
var createTables = []string{
	`CREATE TABLE IF NOT EXISTS songs (
		song_id   TEXT PRIMARY KEY,
		title     TEXT,
		artist_id TEXT NOT NULL,
		year      INT,
		duration  FLOAT)`,
	`CREATE TABLE IF NOT EXISTS artists (
		artist_id TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		location  TEXT,
		latitude  FLOAT,
		longitude FLOAT)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id    TEXT,
		first_name TEXT,
		last_name  TEXT,
		gender     TEXT,
		level      TEXT)`,
	`CREATE TABLE IF NOT EXISTS "time" (
		start_time TIMESTAMP PRIMARY KEY,
		hour       INT,
		day        INT,
		week       INT,
		month      INT,
		year       INT,
		weekday    INT)`,
	`CREATE TABLE IF NOT EXISTS songplays (
		songplay_id BIGINT PRIMARY KEY,
		start_time  TIMESTAMP NOT NULL,
		user_id     TEXT NOT NULL,
		level       TEXT,
		song_id     TEXT,
		artist_id   TEXT,
		session_id  INT,
		location    TEXT,
		user_agent  TEXT)`,
}

// Writer loads warehouse tables into Postgres. Each WriteTable call runs in
// one transaction which clears the table and reinserts every row, so readers
// see either the previous run's table or the new one.
type Writer struct {
	db *sql.DB
}

// NewWriter connects to Postgres at dsn and ensures the destination tables
// exist.
func NewWriter(dsn string) (*Writer, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	for _, ddl := range createTables {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "creating destination tables")
		}
	}
	return &Writer{db: db}, nil
}

// WriteTable implements etl.Writer.
func (w *Writer) WriteTable(t etl.Table) error {
	tx, err := w.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, quoteIdent(t.Name))); err != nil {
		return errors.Wrapf(err, "clearing table %s", t.Name)
	}

	for start := 0; start < len(t.Rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		stmt, args, err := insertStatement(t, t.Rows[start:end])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(stmt, args...); err != nil {
			return errors.Wrapf(err, "inserting into %s", t.Name)
		}
	}

	return errors.Wrapf(tx.Commit(), "committing table %s", t.Name)
}

// insertStatement builds one multi-row INSERT for the given rows.
func insertStatement(t etl.Table, rows []etl.Row) (string, []interface{}, error) {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", quoteIdent(t.Name), strings.Join(cols, ", "))

	args := make([]interface{}, 0, len(rows)*len(t.Columns))
	for i, r := range rows {
		vals, err := etl.RowValues(r, t.Columns)
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, c := range t.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", len(args)+1)
			args = append(args, vals[c])
		}
		b.WriteByte(')')
	}
	return b.String(), args, nil
}

func quoteIdent(name string) string {
	return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
}

// Close closes the database connection.
func (w *Writer) Close() error {
	return w.db.Close()
}

var _ etl.Writer = (*Writer)(nil)
