package cohorts

import (
	"math"

	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/species"
)

// Shared fixtures for the package tests.

var (
	maple = &species.Species{Name: "acersacc", Longevity: 300, Maturity: 40}
	pine  = &species.Species{Name: "pinubank", Longevity: 100, Maturity: 15}
)

type testSite struct{ id string }

func (s testSite) ID() string { return s.id }

func zeroGrowth(Cohort, Site) (float32, float32) { return 0, 0 }

func constGrowth(wood, leaf float32) GrowthFunc {
	return func(Cohort, Site) (float32, float32) { return wood, leaf }
}

// capture records every notification so tests can assert the
// exactly-once contract and the reported arguments.
type capture struct {
	died    []capturedEvent
	damaged []capturedEvent
}

type capturedEvent struct {
	cohort   Cohort
	site     Site
	kind     string
	fraction float32
}

func (c *capture) CohortDied(co Cohort, site Site, kind string) {
	c.died = append(c.died, capturedEvent{cohort: co, site: site, kind: kind})
}

func (c *capture) CohortDamaged(co Cohort, site Site, kind string, fraction float32) {
	c.damaged = append(c.damaged, capturedEvent{cohort: co, site: site, kind: kind, fraction: fraction})
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

// ages lists the set's cohort ages oldest to youngest.
func ages(sc *SpeciesCohorts) []uint16 {
	var out []uint16
	sc.ForEach(func(c Cohort) bool {
		out = append(out, c.Age())
		return true
	})
	return out
}
