package cohorts

import (
	"fmt"

	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/persistence/snapshot"
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/species"
)

// ExportSite captures the site's cohorts for a snapshot. Cohort order
// inside each species block is the exact maintenance order, so a
// restored run continues with identical iteration behavior.
func (s *SiteCohorts) ExportSite(id string) snapshot.SiteV1 {
	out := snapshot.SiteV1{ID: id}
	for _, set := range s.sortedSets() {
		block := snapshot.SpeciesCohortsV1{Species: set.species.Name}
		for _, d := range set.data {
			block.Cohorts = append(block.Cohorts, snapshot.CohortV1{Age: d.Age, Wood: d.Wood, Leaf: d.Leaf})
		}
		out.Cohorts = append(out.Cohorts, block)
	}
	return out
}

// ImportSite rebuilds a site collection from a snapshot. Species are
// resolved against the catalog; a snapshot referencing an unknown
// species fails rather than silently dropping cohorts.
func ImportSite(v snapshot.SiteV1, successionStep int, catalog *species.Catalog, growth GrowthFunc, events Events) (*SiteCohorts, error) {
	s := NewSiteCohorts(successionStep, growth, events)
	for _, block := range v.Cohorts {
		sp, ok := catalog.Lookup(block.Species)
		if !ok {
			return nil, fmt.Errorf("site %s: unknown species %q in snapshot", v.ID, block.Species)
		}
		for _, c := range block.Cohorts {
			s.AddNewCohort(sp, c.Age, c.Wood, c.Leaf)
		}
		if set, ok := s.bySpecies[sp.Name]; ok {
			set.UpdateMaturePresent()
		}
	}
	return s, nil
}
