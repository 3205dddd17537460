package cohorts

import (
	"fmt"

	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/species"
)

// SpeciesCohorts owns the cohorts of one species at one site. The slice
// is kept oldest-to-youngest by maintenance order: new and merged
// cohorts are appended, so after a merge the numeric ages are not
// necessarily monotonic, but the iteration contracts below still hold.
type SpeciesCohorts struct {
	species *species.Species
	growth  GrowthFunc
	events  Events

	data []CohortData

	maturePresent bool
}

// NewSpeciesCohorts builds an empty set for one species. events may be
// nil, in which case notifications are dropped.
func NewSpeciesCohorts(sp *species.Species, growth GrowthFunc, events Events) *SpeciesCohorts {
	if events == nil {
		events = nopEvents{}
	}
	return &SpeciesCohorts{species: sp, growth: growth, events: events}
}

func (sc *SpeciesCohorts) Species() *species.Species { return sc.species }

func (sc *SpeciesCohorts) Count() int { return len(sc.data) }

// MaturePresent reports the cached maturity flag. It reflects the state
// as of the last growth or damage pass.
func (sc *SpeciesCohorts) MaturePresent() bool { return sc.maturePresent }

// At returns a view of the i-th cohort, oldest first.
func (sc *SpeciesCohorts) At(i int) (Cohort, error) {
	if i < 0 || i >= len(sc.data) {
		return Cohort{}, fmt.Errorf("%s cohort %d: %w", sc.species.Name, i, ErrNoSuchCohort)
	}
	return Cohort{Species: sc.species, Data: sc.data[i]}, nil
}

// ForEach visits every cohort oldest to youngest until fn returns
// false. Each call starts a fresh traversal.
func (sc *SpeciesCohorts) ForEach(fn func(Cohort) bool) {
	for _, d := range sc.data {
		if !fn(Cohort{Species: sc.species, Data: d}) {
			return
		}
	}
}

// TotalBiomass sums wood and leaf biomass across the set.
func (sc *SpeciesCohorts) TotalBiomass() float32 {
	var total float32
	for _, d := range sc.data {
		total += d.Total()
	}
	return total
}

// AddNewCohort appends a cohort at the youngest position.
func (sc *SpeciesCohorts) AddNewCohort(age uint16, wood, leaf float32) {
	sc.data = append(sc.data, CohortData{Age: age, Wood: wood, Leaf: leaf})
}

// CombineYoungCohorts collapses the contiguous run of cohorts at the
// young end whose age is at most successionStep into a single cohort
// holding their summed biomass. The merged cohort's age is set to
// successionStep-1 so the next annual increment lands it exactly on the
// succession boundary. No-op when no cohort is young enough.
func (sc *SpeciesCohorts) CombineYoungCohorts(successionStep int) {
	young := 0
	var wood, leaf float32
	for i := len(sc.data) - 1; i >= 0; i-- {
		if int(sc.data[i].Age) > successionStep {
			break
		}
		young++
		wood += sc.data[i].Wood
		leaf += sc.data[i].Leaf
	}
	if young == 0 {
		return
	}
	sc.data = sc.data[:len(sc.data)-young]
	sc.data = append(sc.data, CohortData{Age: uint16(successionStep - 1), Wood: wood, Leaf: leaf})
}

// GrowCohort advances the cohort at index i by one step and returns the
// index to process next. Drivers iterate i = 0; i < Count();
// i = GrowCohort(i, ...). Removal returns the same index so the cohort
// that shifts into the slot is processed next; growth never skips past
// a removal.
func (sc *SpeciesCohorts) GrowCohort(i int, site Site, annual bool) int {
	d := sc.data[i]
	if d.Age >= sc.species.Longevity {
		sc.removeAt(i, site, "")
		return i
	}
	if annual {
		d.Age++
	}
	wood, leaf := sc.growth(Cohort{Species: sc.species, Data: d}, site)
	d.Wood += wood
	d.Leaf += leaf
	if d.Total() > 0 {
		sc.data[i] = d
		return i + 1
	}
	sc.removeAt(i, site, "")
	return i
}

// UpdateMaturePresent recomputes the cached maturity flag. Must be
// called after any structural change outside the damage passes, which
// maintain the flag themselves.
func (sc *SpeciesCohorts) UpdateMaturePresent() {
	sc.maturePresent = false
	for _, d := range sc.data {
		if d.Age >= sc.species.Maturity {
			sc.maturePresent = true
			return
		}
	}
}

// removeAt reports the stored record as dead and drops it. Iterating
// youngest to oldest keeps not-yet-visited (older) indices stable.
func (sc *SpeciesCohorts) removeAt(i int, site Site, kind string) {
	sc.events.CohortDied(Cohort{Species: sc.species, Data: sc.data[i]}, site, kind)
	sc.data = append(sc.data[:i], sc.data[i+1:]...)
}
