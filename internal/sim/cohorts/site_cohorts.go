package cohorts

import (
	"fmt"
	"sort"

	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/species"
)

// SiteCohorts aggregates one SpeciesCohorts per species present at a
// location. A species with no cohorts has no set; sets left empty by
// growth or disturbance are dropped.
type SiteCohorts struct {
	successionStep int
	growth         GrowthFunc
	events         Events

	bySpecies map[string]*SpeciesCohorts
}

// NewSiteCohorts builds an empty site collection. events may be nil.
func NewSiteCohorts(successionStep int, growth GrowthFunc, events Events) *SiteCohorts {
	if events == nil {
		events = nopEvents{}
	}
	return &SiteCohorts{
		successionStep: successionStep,
		growth:         growth,
		events:         events,
		bySpecies:      make(map[string]*SpeciesCohorts),
	}
}

func (s *SiteCohorts) SuccessionStep() int { return s.successionStep }

// ForSpecies returns the set for one species, if that species is
// present at the site.
func (s *SiteCohorts) ForSpecies(name string) (*SpeciesCohorts, bool) {
	set, ok := s.bySpecies[name]
	return set, ok
}

// SpeciesPresent returns the species with cohorts at the site, sorted
// by name.
func (s *SiteCohorts) SpeciesPresent() []*species.Species {
	out := make([]*species.Species, 0, len(s.bySpecies))
	for _, set := range s.sortedSets() {
		out = append(out, set.species)
	}
	return out
}

// TotalBiomass sums biomass across all species at the site.
func (s *SiteCohorts) TotalBiomass() float32 {
	var total float32
	for _, set := range s.bySpecies {
		total += set.TotalBiomass()
	}
	return total
}

// CohortCount counts cohorts across all species at the site.
func (s *SiteCohorts) CohortCount() int {
	n := 0
	for _, set := range s.bySpecies {
		n += set.Count()
	}
	return n
}

// AddNewCohort plants a cohort for the species, creating its set on
// first use.
func (s *SiteCohorts) AddNewCohort(sp *species.Species, age uint16, wood, leaf float32) {
	set, ok := s.bySpecies[sp.Name]
	if !ok {
		set = NewSpeciesCohorts(sp, s.growth, s.events)
		s.bySpecies[sp.Name] = set
	}
	set.AddNewCohort(age, wood, leaf)
}

// Grow advances every species set by one step. On succession steps the
// young cohorts are combined first, so the merged cohort ages onto the
// succession boundary during the same pass.
func (s *SiteCohorts) Grow(site Site, isSuccession, annual bool) {
	for _, set := range s.sortedSets() {
		if isSuccession {
			set.CombineYoungCohorts(s.successionStep)
		}
		for i := 0; i < set.Count(); {
			i = set.GrowCohort(i, site, annual)
		}
		set.UpdateMaturePresent()
		if set.Count() == 0 {
			delete(s.bySpecies, set.species.Name)
		}
	}
}

// ReduceOrKillCohorts applies a wood/leaf-pair disturbance across all
// species sets and returns the summed reduction.
func (s *SiteCohorts) ReduceOrKillCohorts(d CohortDisturbance) int {
	total := 0
	for _, set := range s.sortedSets() {
		total += set.ReduceOrKill(d)
		if set.Count() == 0 {
			delete(s.bySpecies, set.species.Name)
		}
	}
	return total
}

// MarkCohorts dispatches a marking disturbance across all species sets
// and returns the summed reduction. An unsupported disturbance fails
// before any set is touched.
func (s *SiteCohorts) MarkCohorts(d Disturbance) (int, error) {
	switch d.(type) {
	case AgeDisturbance, BiomassDisturbance:
	default:
		return 0, fmt.Errorf("%s: %w", d.Kind(), ErrUnsupportedDisturbance)
	}
	total := 0
	for _, set := range s.sortedSets() {
		n, err := set.MarkCohorts(d)
		if err != nil {
			return total, err
		}
		total += n
		if set.Count() == 0 {
			delete(s.bySpecies, set.species.Name)
		}
	}
	return total, nil
}

// sortedSets snapshots the sets in species-name order so passes are
// deterministic and safe against map mutation during iteration.
func (s *SiteCohorts) sortedSets() []*SpeciesCohorts {
	out := make([]*SpeciesCohorts, 0, len(s.bySpecies))
	for _, set := range s.bySpecies {
		out = append(out, set)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].species.Name < out[j].species.Name })
	return out
}
