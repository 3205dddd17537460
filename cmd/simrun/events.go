package main

import (
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/persistence/runlog"
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/cohorts"
)

// eventRecorder bridges the core's Events sink to the run log. It also
// accumulates per-site mortality biomass so year summaries can report
// it without a second pass.
type eventRecorder struct {
	year   int
	rec    *runlog.Recorder
	lostBy map[string]int
}

func newEventRecorder(rec *runlog.Recorder) *eventRecorder {
	return &eventRecorder{rec: rec, lostBy: map[string]int{}}
}

func (e *eventRecorder) setYear(year int) { e.year = year }

// takeMortality returns and clears the accumulated mortality biomass
// for one site.
func (e *eventRecorder) takeMortality(siteID string) int {
	n := e.lostBy[siteID]
	delete(e.lostBy, siteID)
	return n
}

func (e *eventRecorder) CohortDied(c cohorts.Cohort, site cohorts.Site, kind string) {
	id := siteID(site)
	e.lostBy[id] += int(c.Total())
	e.rec.WriteEvent(runlog.EventRow{
		Year:    e.year,
		Site:    id,
		Species: c.Species.Name,
		Event:   "DIED",
		Kind:    kind,
		Age:     int(c.Age()),
		Wood:    float64(c.Wood()),
		Leaf:    float64(c.Leaf()),
	})
}

func (e *eventRecorder) CohortDamaged(c cohorts.Cohort, site cohorts.Site, kind string, fraction float32) {
	id := siteID(site)
	e.lostBy[id] += int(c.Total() * fraction)
	e.rec.WriteEvent(runlog.EventRow{
		Year:     e.year,
		Site:     id,
		Species:  c.Species.Name,
		Event:    "DAMAGED",
		Kind:     kind,
		Age:      int(c.Age()),
		Wood:     float64(c.Wood()),
		Leaf:     float64(c.Leaf()),
		Fraction: float64(fraction),
	})
}

func siteID(site cohorts.Site) string {
	if site == nil {
		return ""
	}
	return site.ID()
}
