package etl

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Pipeline runs one full warehouse rebuild: it drains the catalog and event
// sources, normalizes them into the five destination tables, and hands each
// table to the Writer exactly once. A Pipeline holds no state between runs;
// the output of a run is purely a function of the raw input.
type Pipeline struct {
	// AbortOnMalformed makes the first malformed raw record fail the run.
	// The default is to skip malformed records and count them.
	AbortOnMalformed bool

	// DurationTolerance loosens the duration comparison in the catalog join.
	// Zero requires exact equality.
	DurationTolerance float64

	Stats Statter
	Log   Logger

	catalog Source
	events  Source
	writer  Writer
}

// NewPipeline gets a Pipeline over the given raw sources and destination
// writer, with default configuration.
func NewPipeline(catalog, events Source, writer Writer) *Pipeline {
	return &Pipeline{
		Stats:   NopStatter{},
		Log:     NopLogger{},
		catalog: catalog,
		events:  events,
		writer:  writer,
	}
}

// Run executes the rebuild. Either all five tables are written or the run
// fails as a whole; there is no partial commit and a failed run must be
// retried from scratch, since consumers assume the tables are a mutually
// consistent snapshot.
func (p *Pipeline) Run() error {
	start := time.Now()

	catalog := NewCatalogNormalizer()
	if err := p.drain(p.catalog, "catalog", catalog.Add); err != nil {
		return err
	}
	songs, artists := catalog.Songs(), catalog.Artists()

	norm := NewEventNormalizer()
	if err := p.drain(p.events, "event", norm.Add); err != nil {
		return err
	}
	events, users := norm.Events(), norm.Users()

	times := BuildTimeTable(events)

	ix := NewCatalogIndex(songs, artists)
	ix.DurationTolerance = p.DurationTolerance
	plays := AssembleSongPlays(events, ix, NewNexter())

	tables := []Table{
		SongsTable(songs),
		ArtistsTable(artists),
		UsersTable(users),
		TimeTable(times),
		SongPlaysTable(plays),
	}
	if err := p.write(tables); err != nil {
		return err
	}

	p.Stats.Timing("run", time.Since(start), 1)
	p.Log.Printf("warehouse rebuilt: %d songs, %d artists, %d users, %d times, %d songplays in %v",
		len(songs), len(artists), len(users), len(times), len(plays), time.Since(start))
	return nil
}

// drain feeds every record of src into add, applying the malformed-record
// policy. Errors other than MalformedRecordError always abort, whatever the
// policy - they mean the source itself failed, not one record.
func (p *Pipeline) drain(src Source, name string, add func(interface{}) error) error {
	for {
		rec, err := src.Record()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Sources surface undecodable input as MalformedRecordError so
			// the same policy covers it; anything else means the source
			// itself failed.
			if _, ok := err.(MalformedRecordError); ok && !p.AbortOnMalformed {
				p.Stats.Count(name+"-malformed", 1, 1)
				p.Log.Debugf("skipping %s record: %v", name, err)
				continue
			}
			return errors.Wrapf(err, "reading %s record", name)
		}
		if err := add(rec); err != nil {
			if _, ok := err.(MalformedRecordError); ok && !p.AbortOnMalformed {
				p.Stats.Count(name+"-malformed", 1, 1)
				p.Log.Debugf("skipping %s record: %v", name, err)
				continue
			}
			return errors.Wrapf(err, "processing %s record", name)
		}
		p.Stats.Count(name+"-records", 1, 1)
	}
}

// write persists all tables, one WriteTable call each, concurrently. The
// first writer error fails the whole run.
func (p *Pipeline) write(tables []Table) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var werr error
	for _, t := range tables {
		wg.Add(1)
		go func(t Table) {
			defer wg.Done()
			start := time.Now()
			if err := p.writer.WriteTable(t); err != nil {
				mu.Lock()
				if werr == nil {
					werr = errors.Wrapf(err, "writing table %s", t.Name)
				}
				mu.Unlock()
				return
			}
			p.Stats.Count(t.Name+"-rows", int64(len(t.Rows)), 1)
			p.Stats.Timing(t.Name+"-write", time.Since(start), 1)
		}(t)
	}
	wg.Wait()
	return werr
}
