// Package fake generates a coherent fake Sparkify corpus: a song catalog and
// an event log whose play events mostly reference catalog entries. It stands
// in for the production dataset in tests and local development; identical
// seeds produce identical corpora on a given version of Go.
package fake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sparkify/etl"
)

// CatalogRecord mirrors one raw song-data json object.
type CatalogRecord struct {
	NumSongs        int      `json:"num_songs"`
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	ArtistID        string   `json:"artist_id"`
	Year            int      `json:"year"`
	Duration        float64  `json:"duration"`
	ArtistName      string   `json:"artist_name"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
}

// LogRecord mirrors one raw log-data json object.
type LogRecord struct {
	Artist        string  `json:"artist"`
	Auth          string  `json:"auth"`
	FirstName     string  `json:"firstName"`
	Gender        string  `json:"gender"`
	ItemInSession int     `json:"itemInSession"`
	LastName      string  `json:"lastName"`
	Length        float64 `json:"length"`
	Level         string  `json:"level"`
	Location      string  `json:"location"`
	Method        string  `json:"method"`
	Page          string  `json:"page"`
	Registration  int64   `json:"registration"`
	SessionID     int     `json:"sessionId"`
	Song          string  `json:"song"`
	Status        int     `json:"status"`
	TS            int64   `json:"ts"`
	UserAgent     string  `json:"userAgent"`
	UserID        string  `json:"userId"`
}

var (
	firstNames = []string{"Ava", "Ben", "Cara", "Dev", "Elle", "Finn", "Gia", "Hugo", "Iris", "Jack", "Kai", "Lena"}
	lastNames  = []string{"Ames", "Bloom", "Cruz", "Diaz", "Eng", "Frost", "Gray", "Hale", "Ito", "Jones", "Katz", "Lund"}
	cities     = []string{"New York, NY", "San Francisco, CA", "Chicago, IL", "Austin, TX", "Portland, OR", "Nashville, TN"}
	agents     = []string{
		`"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_4)"`,
		`"Mozilla/5.0 (Windows NT 6.1; WOW64)"`,
		`"Mozilla/5.0 (X11; Linux x86_64)"`,
	}
	pages = []string{"Home", "Login", "Logout", "Settings", "Upgrade"}
)

type userInfo struct {
	id        string
	firstName string
	lastName  string
	gender    string
	level     string
	session   int
	location  string
}

// Generator generates a random but internally consistent corpus.
type Generator struct {
	r       *rand.Rand
	catalog []*CatalogRecord
	users   []*userInfo
	now     int64
}

// NewGenerator gets a new Generator seeded with seed. The song catalog and
// user pool are fixed at construction so that generated events can reference
// them.
func NewGenerator(seed int64) *Generator {
	g := &Generator{
		r: rand.New(rand.NewSource(seed)),
		// Events start at a fixed instant, not time.Now(), to keep corpora
		// reproducible across invocations.
		now: time.Date(2018, time.November, 1, 0, 0, 0, 0, time.UTC).UnixNano() / int64(time.Millisecond),
	}
	for i := 0; i < 40; i++ {
		g.catalog = append(g.catalog, g.genCatalogRecord(i))
	}
	for i := 0; i < 12; i++ {
		g.users = append(g.users, &userInfo{
			id:        fmt.Sprintf("%d", i+1),
			firstName: firstNames[i%len(firstNames)],
			lastName:  lastNames[g.r.Intn(len(lastNames))],
			gender:    []string{"F", "M"}[g.r.Intn(2)],
			level:     []string{"free", "paid"}[g.r.Intn(2)],
			session:   g.r.Intn(100),
			location:  cities[g.r.Intn(len(cities))],
		})
	}
	return g
}

// Catalog returns the full fake song catalog.
func (g *Generator) Catalog() []*CatalogRecord {
	return g.catalog
}

func (g *Generator) genCatalogRecord(i int) *CatalogRecord {
	rec := &CatalogRecord{
		NumSongs: 1,
		SongID:   fmt.Sprintf("SO%08d", i),
		Title:    g.title(),
		ArtistID: fmt.Sprintf("AR%08d", i/2), // two songs per artist
		Year:     1960 + g.r.Intn(60),
		Duration: 60 + float64(g.r.Intn(240000))/1000,
		ArtistName: fmt.Sprintf("The %s %s",
			[]string{"Electric", "Quiet", "Golden", "Midnight"}[g.r.Intn(4)],
			[]string{"Owls", "Rivers", "Engines", "Shadows"}[g.r.Intn(4)]),
	}
	if g.r.Intn(10) > 0 { // a tenth of artists have no location data
		loc := cities[g.r.Intn(len(cities))]
		lat := -90 + g.r.Float64()*180
		lon := -180 + g.r.Float64()*360
		rec.ArtistLocation = &loc
		rec.ArtistLatitude = &lat
		rec.ArtistLongitude = &lon
	}
	// A year of zero means unknown, like the real corpus.
	if g.r.Intn(5) == 0 {
		rec.Year = 0
	}
	return rec
}

func (g *Generator) title() string {
	words := []string{"Rain", "Fire", "Harbor", "Glass", "Neon", "Static", "Velvet", "Echo", "Paper", "Stone"}
	return words[g.r.Intn(len(words))] + " " + words[g.r.Intn(len(words))]
}

// Event generates a random log record. Roughly four in five events are
// NextSong plays; plays usually reference a catalog song, sometimes an
// unknown one so the unresolved-join path gets exercised. Users occasionally
// flip level, which is what produces duplicate user_id rows downstream.
func (g *Generator) Event() *LogRecord {
	g.now += int64(g.r.Intn(300000)) // up to five minutes between events

	u := g.users[g.r.Intn(len(g.users))]
	if g.r.Intn(50) == 0 {
		if u.level == "free" {
			u.level = "paid"
		} else {
			u.level = "free"
		}
	}
	if g.r.Intn(20) == 0 {
		u.session++
	}

	rec := &LogRecord{
		Auth:          "Logged In",
		FirstName:     u.firstName,
		Gender:        u.gender,
		ItemInSession: g.r.Intn(30),
		LastName:      u.lastName,
		Level:         u.level,
		Location:      u.location,
		Method:        "PUT",
		Page:          etl.NextSongPage,
		Registration:  1540000000000,
		SessionID:     u.session,
		Status:        200,
		TS:            g.now,
		UserAgent:     agents[g.r.Intn(len(agents))],
		UserID:        u.id,
	}

	if g.r.Intn(5) == 0 {
		rec.Page = pages[g.r.Intn(len(pages))]
		rec.Method = "GET"
		return rec
	}

	if g.r.Intn(10) == 0 {
		// A play of something the catalog has never heard of.
		rec.Song = "Obscure B-Side " + fmt.Sprintf("%d", g.r.Intn(1000))
		rec.Artist = "Unknown Artist"
		rec.Length = 100 + g.r.Float64()*200
		return rec
	}

	song := g.catalog[g.r.Intn(len(g.catalog))]
	rec.Song = song.Title
	rec.Artist = song.ArtistName
	rec.Length = song.Duration
	return rec
}
