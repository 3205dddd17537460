package cohorts

// Site identifies the simulated location an operation is acting on.
// The concrete type belongs to the driver; growth models that need more
// context than the ID type-assert to their own site type.
type Site interface {
	ID() string
}

// GrowthFunc computes one cohort's biomass change for one year at a
// site. Deltas may be negative, but the combined loss must never exceed
// the cohort's current total biomass; that contract is the model's to
// keep and is not checked here.
type GrowthFunc func(c Cohort, site Site) (woodDelta, leafDelta float32)

// Events receives mortality notifications. The collection calls each
// method exactly once per affected cohort per pass. kind carries the
// disturbance kind, or "" for deaths during growth (senescence and
// biomass collapse).
type Events interface {
	CohortDied(c Cohort, site Site, kind string)
	CohortDamaged(c Cohort, site Site, kind string, fraction float32)
}

type nopEvents struct{}

func (nopEvents) CohortDied(Cohort, Site, string)             {}
func (nopEvents) CohortDamaged(Cohort, Site, string, float32) {}

// Disturbance tags a disturbance event with its kind and the site it is
// currently acting on. The kind is only echoed into mortality events.
type Disturbance interface {
	Kind() string
	CurrentSite() Site
}

// CohortDisturbance reduces each cohort's wood and leaf pools
// independently. Handled by SpeciesCohorts.ReduceOrKill.
type CohortDisturbance interface {
	Disturbance
	ReduceCohort(c Cohort) (wood, leaf float32)
}

// AgeDisturbance selects whole cohorts for death by inspecting the
// species set; it never causes partial damage. isKilled is pre-sized to
// the set's cohort count and indexed oldest to youngest.
type AgeDisturbance interface {
	Disturbance
	MarkCohortsForDeath(set *SpeciesCohorts, isKilled []bool)
}

// BiomassDisturbance reports a single integer biomass reduction per
// cohort, applied as the same fraction of both pools.
type BiomassDisturbance interface {
	Disturbance
	CohortReduction(c Cohort) int
}

// SpeciesSetDisturbance acts on a species set as a whole. The cohort
// collections define no semantics for it; passing one to MarkCohorts
// fails with ErrUnsupportedDisturbance rather than silently doing
// nothing.
type SpeciesSetDisturbance interface {
	Disturbance
	ReduceSpeciesSet(set *SpeciesCohorts)
}
