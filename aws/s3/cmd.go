package s3

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/sparkify/etl"
	"github.com/sparkify/etl/boltdb"
	"github.com/sparkify/etl/file"
	"github.com/sparkify/etl/json"
	"github.com/sparkify/etl/postgres"
	"github.com/sparkify/etl/termstat"
)

// Main contains the configuration for a warehouse rebuild from raw data in
// S3.
type Main struct {
	Bucket     string `help:"S3 bucket holding the raw corpora."`
	Region     string `help:"AWS region of the bucket."`
	SongPrefix string `help:"Key prefix of the raw song (catalog) json objects."`
	LogPrefix  string `help:"Key prefix of the raw event log json objects."`

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
		Bucket:     "udacity-dend",
		Region:     "us-west-2",
		SongPrefix: "song_data/",
		LogPrefix:  "log_data/",
		Output:     "warehouse",
	}
}

// Run runs the rebuild.
func (m *Main) Run() error {
	catalogRaw, err := NewRawSource(m.Region, m.Bucket, m.SongPrefix)
	if err != nil {
		return errors.Wrap(err, "getting catalog source")
	}
	eventRaw, err := NewRawSource(m.Region, m.Bucket, m.LogPrefix)
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

	p := etl.NewPipeline(
		json.NewSourceFromRawSource(catalogRaw),
		json.NewSourceFromRawSource(eventRaw),
		writer,
	)
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
		w, err := file.NewWriter(output)
		if err != nil {
			return nil, nil, errors.Wrap(err, "getting file writer")
		}
		return w, nil, nil
	}
}
