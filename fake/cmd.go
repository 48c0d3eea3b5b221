package fake

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Main contains the configuration for writing a fake raw corpus to disk, in
// the same shape the real corpora ship in: one json object per song-data
// file, line separated json objects per log-data file.
type Main struct {
	Dir           string `help:"Directory to write the corpus into."`
	Events        int    `help:"Number of raw event records to generate."`
	EventsPerFile int    `help:"Number of events per log file."`
	Seed          int64  `help:"Random seed; identical seeds give identical corpora."`
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		Dir:           "data",
		Events:        10000,
		EventsPerFile: 500,
	}
}

// Run generates and writes the corpus.
func (m *Main) Run() error {
	g := NewGenerator(m.Seed)

	for _, rec := range g.Catalog() {
		// Nest song files the way the real corpus does, by id prefix.
		dir := filepath.Join(m.Dir, "song_data", rec.SongID[2:3], rec.SongID[3:4])
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "creating song dir")
		}
		if err := writeJSONFile(filepath.Join(dir, rec.SongID+".json"), []interface{}{rec}); err != nil {
			return err
		}
	}

	logDir := filepath.Join(m.Dir, "log_data", "2018", "11")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return errors.Wrap(err, "creating log dir")
	}
	batch := make([]interface{}, 0, m.EventsPerFile)
	fileNum := 0
	for i := 0; i < m.Events; i++ {
		batch = append(batch, g.Event())
		if len(batch) == m.EventsPerFile || i == m.Events-1 {
			name := fmt.Sprintf("events-%04d.json", fileNum)
			if err := writeJSONFile(filepath.Join(logDir, name), batch); err != nil {
				return err
			}
			batch = batch[:0]
			fileNum++
		}
	}
	return nil
}

func writeJSONFile(path string, recs []interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	enc := json.NewEncoder(f)
	for _, rec := range recs {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return errors.Wrapf(err, "encoding record to %s", path)
		}
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
