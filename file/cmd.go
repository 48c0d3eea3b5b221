package file

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/sparkify/etl"
	"github.com/sparkify/etl/boltdb"
	"github.com/sparkify/etl/postgres"
	"github.com/sparkify/etl/termstat"
)

// Main contains the configuration for a warehouse rebuild from local raw
// data.
type Main struct {
	SongData string `help:"File or directory holding raw song (catalog) json."`
	LogData  string `help:"File or directory holding raw event log json."`
	Output   string `help:"Directory to write the warehouse tables into."`
	Postgres string `help:"Postgres DSN. If set, load into Postgres instead of Output."`
	Bolt     string `help:"Bolt database file. If set, load into bolt instead of Output."`

	AbortOnMalformed  bool    `help:"Fail the run on the first malformed raw record instead of skipping it."`
	DurationTolerance float64 `help:"Max difference between catalog duration and event length that still matches. Zero requires exact equality."`
	Verbose           bool    `help:"Log per-record detail."`
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		SongData: "data/song_data",
		LogData:  "data/log_data",
		Output:   "warehouse",
	}
}

// Run runs the rebuild.
func (m *Main) Run() error {
	catalog, err := NewSource(OptSrcPath(m.SongData))
	if err != nil {
		return errors.Wrap(err, "getting catalog source")
	}
	events, err := NewSource(OptSrcPath(m.LogData))
	if err != nil {
		return errors.Wrap(err, "getting event source")
	}

	writer, closer, err := openWriter(m.Output, m.Postgres, m.Bolt)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	p := etl.NewPipeline(catalog, events, writer)
	p.AbortOnMalformed = m.AbortOnMalformed
	p.DurationTolerance = m.DurationTolerance
	p.Stats = termstat.NewCollector(os.Stderr)
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if m.Verbose {
		p.Log = etl.VerboseLogger{Logger: logger}
	} else {
		p.Log = etl.StdLogger{Logger: logger}
	}
	return errors.Wrap(p.Run(), "running pipeline")
}

// openWriter picks the destination: Postgres and bolt take precedence over
// the default local warehouse directory.
func openWriter(output, pgDSN, boltPath string) (etl.Writer, func() error, error) {
	switch {
	case pgDSN != "":
		w, err := postgres.NewWriter(pgDSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "getting postgres writer")
		}
		return w, w.Close, nil
	case boltPath != "":
		w, err := boltdb.NewWriter(boltPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "getting bolt writer")
		}
		return w, w.Close, nil
	default:
		w, err := NewWriter(output)
		if err != nil {
			return nil, nil, errors.Wrap(err, "getting file writer")
		}
		return w, nil, nil
	}
}
