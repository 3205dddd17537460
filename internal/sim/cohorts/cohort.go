package cohorts

import (
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/species"
)

// CohortData is the canonical record for one cohort: its age and its
// wood and leaf biomass pools. Records are stored by value inside the
// owning SpeciesCohorts slice; nothing outside that slice holds a
// reference to them.
type CohortData struct {
	Age  uint16
	Wood float32
	Leaf float32
}

// Total is the cohort's combined biomass.
func (d CohortData) Total() float32 { return d.Wood + d.Leaf }

// Cohort binds one CohortData to its species. It is an ephemeral view:
// built on demand from a storage slot, handed to growth models,
// disturbances and event sinks, and never kept. Mutations return the
// updated record; the owner writes it back explicitly.
type Cohort struct {
	Species *species.Species
	Data    CohortData
}

func (c Cohort) Age() uint16    { return c.Data.Age }
func (c Cohort) Wood() float32  { return c.Data.Wood }
func (c Cohort) Leaf() float32  { return c.Data.Leaf }
func (c Cohort) Total() float32 { return c.Data.Total() }

// ApplyDelta returns the view with the deltas added to each pool.
// Deltas may be negative; a combined loss larger than the current stock
// is a caller bug and is not clamped here.
func (c Cohort) ApplyDelta(wood, leaf float32) Cohort {
	c.Data.Wood += wood
	c.Data.Leaf += leaf
	return c
}

// IncrementAge returns the view aged by one year.
func (c Cohort) IncrementAge() Cohort {
	c.Data.Age++
	return c
}
