// Package runlog records a simulation run in SQLite for post-run
// analysis: one row per site per year, and one row per cohort death or
// partial-mortality event. Writes go through a single writer goroutine
// so the simulation loop never blocks on the database.
package runlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

type Recorder struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqSummary reqKind = iota + 1
	reqEvent
	reqMeta
	reqSync
)

type req struct {
	kind reqKind

	summary SummaryRow
	event   EventRow
	metaKey string
	metaVal string
	done    chan struct{}
}

// SummaryRow is the per-site per-year aggregate.
type SummaryRow struct {
	Year         int
	Site         string
	SpeciesCount int
	CohortCount  int
	Wood         float64
	Leaf         float64
	Mortality    int
}

// EventRow is one cohort mortality record. Event is "DIED" or
// "DAMAGED"; Kind is the disturbance kind, "" for growth deaths.
type EventRow struct {
	Year     int
	Site     string
	Species  string
	Event    string
	Kind     string
	Age      int
	Wood     float64
	Leaf     float64
	Fraction float64
}

func Open(path string) (*Recorder, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	r := &Recorder{
		db: db,
		// Generous buffer: disturbance years can emit one event per cohort.
		ch: make(chan req, 65536),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loop()
	}()
	return r, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only write pattern.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS summaries (
			year INTEGER NOT NULL,
			site TEXT NOT NULL,
			species_count INTEGER NOT NULL,
			cohort_count INTEGER NOT NULL,
			wood REAL NOT NULL,
			leaf REAL NOT NULL,
			mortality INTEGER NOT NULL,
			PRIMARY KEY (year, site)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			year INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			site TEXT NOT NULL,
			species TEXT NOT NULL,
			event TEXT NOT NULL,
			kind TEXT NOT NULL,
			age INTEGER NOT NULL,
			wood REAL NOT NULL,
			leaf REAL NOT NULL,
			fraction REAL NOT NULL,
			PRIMARY KEY (year, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_site_year ON events(site, year);`,
		`CREATE INDEX IF NOT EXISTS idx_events_species ON events(species, year);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) Close() error {
	var err error
	r.once.Do(func() {
		r.closed.Store(true)
		close(r.ch)
		r.wg.Wait()
		err = r.db.Close()
	})
	return err
}

// WriteSummary queues a summary row. Rows are dropped, not blocked on,
// if the writer falls behind.
func (r *Recorder) WriteSummary(row SummaryRow) {
	if r == nil || r.closed.Load() {
		return
	}
	select {
	case r.ch <- req{kind: reqSummary, summary: row}:
	default:
	}
}

// WriteEvent queues a mortality event row.
func (r *Recorder) WriteEvent(row EventRow) {
	if r == nil || r.closed.Load() {
		return
	}
	select {
	case r.ch <- req{kind: reqEvent, event: row}:
	default:
	}
}

// WriteMeta records run provenance (scenario path, species digest, ...).
func (r *Recorder) WriteMeta(key, value string) {
	if r == nil || r.closed.Load() {
		return
	}
	select {
	case r.ch <- req{kind: reqMeta, metaKey: key, metaVal: value}:
	default:
	}
}

func (r *Recorder) loop() {
	// Event sequence is assigned here so only the writer touches it.
	seqByYear := map[int]int{}
	for q := range r.ch {
		switch q.kind {
		case reqSummary:
			s := q.summary
			_, _ = r.db.Exec(
				`INSERT OR REPLACE INTO summaries (year, site, species_count, cohort_count, wood, leaf, mortality)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				s.Year, s.Site, s.SpeciesCount, s.CohortCount, s.Wood, s.Leaf, s.Mortality)
		case reqEvent:
			e := q.event
			seq := seqByYear[e.Year]
			seqByYear[e.Year] = seq + 1
			_, _ = r.db.Exec(
				`INSERT OR REPLACE INTO events (year, seq, site, species, event, kind, age, wood, leaf, fraction)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				e.Year, seq, e.Site, e.Species, e.Event, e.Kind, e.Age, e.Wood, e.Leaf, e.Fraction)
		case reqMeta:
			_, _ = r.db.Exec(
				`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`,
				q.metaKey, q.metaVal)
		case reqSync:
			close(q.done)
		}
	}
}

// Summaries returns the recorded rows for one site ordered by year.
// Intended for tools and tests after the run has quiesced.
func (r *Recorder) Summaries(site string) ([]SummaryRow, error) {
	rows, err := r.db.Query(
		`SELECT year, site, species_count, cohort_count, wood, leaf, mortality
		 FROM summaries WHERE site = ? ORDER BY year`, site)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var s SummaryRow
		if err := rows.Scan(&s.Year, &s.Site, &s.SpeciesCount, &s.CohortCount, &s.Wood, &s.Leaf, &s.Mortality); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Events returns the recorded mortality events for one year in write
// order.
func (r *Recorder) Events(year int) ([]EventRow, error) {
	rows, err := r.db.Query(
		`SELECT year, site, species, event, kind, age, wood, leaf, fraction
		 FROM events WHERE year = ? ORDER BY seq`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRow
	for rows.Next() {
		var e EventRow
		if err := rows.Scan(&e.Year, &e.Site, &e.Species, &e.Event, &e.Kind, &e.Age, &e.Wood, &e.Leaf, &e.Fraction); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Flush blocks until every row queued before the call has been
// written. The simulation loop never calls it; tools and tests do
// before querying.
func (r *Recorder) Flush() {
	if r == nil || r.closed.Load() {
		return
	}
	done := make(chan struct{})
	r.ch <- req{kind: reqSync, done: done}
	<-done
}
