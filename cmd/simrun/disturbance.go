package main

import (
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/cohorts"
)

// simSite is the driver's site handle. The demo growth model only needs
// the ID; richer drivers put their site context behind the same
// interface.
type simSite struct {
	id string
}

func (s simSite) ID() string { return s.id }

// fireDisturbance removes a fraction of each pool independently.
type fireDisturbance struct {
	site     cohorts.Site
	woodFrac float32
	leafFrac float32
}

func (d fireDisturbance) Kind() string              { return "fire" }
func (d fireDisturbance) CurrentSite() cohorts.Site { return d.site }

func (d fireDisturbance) ReduceCohort(c cohorts.Cohort) (wood, leaf float32) {
	return c.Wood() * d.woodFrac, c.Leaf() * d.leafFrac
}

// windDisturbance kills every cohort at or above an age threshold.
type windDisturbance struct {
	site   cohorts.Site
	minAge int
}

func (d windDisturbance) Kind() string              { return "wind" }
func (d windDisturbance) CurrentSite() cohorts.Site { return d.site }

func (d windDisturbance) MarkCohortsForDeath(set *cohorts.SpeciesCohorts, isKilled []bool) {
	for i := range isKilled {
		c, err := set.At(i)
		if err != nil {
			continue
		}
		if int(c.Age()) >= d.minAge {
			isKilled[i] = true
		}
	}
}

// harvestDisturbance removes a flat biomass amount from every cohort.
type harvestDisturbance struct {
	site      cohorts.Site
	reduction int
}

func (d harvestDisturbance) Kind() string              { return "harvest" }
func (d harvestDisturbance) CurrentSite() cohorts.Site { return d.site }

func (d harvestDisturbance) CohortReduction(cohorts.Cohort) int { return d.reduction }
