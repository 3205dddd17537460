package cohorts

import "fmt"

// ReduceOrKill applies a wood/leaf-pair disturbance to every cohort,
// youngest to oldest. Per cohort the reported pair is truncated to an
// integer reduction; a reduction at least as large as the cohort's
// total biomass kills it outright, a smaller one fires a partial
// mortality event and then reduces each pool independently. A pool is
// only reduced when its reported loss is strictly less than its current
// value; a loss covering a whole pool leaves that pool untouched. This
// per-pool guard is deliberately different from the symmetric
// fractional reduction used for BiomassDisturbance.
//
// The returned total is the sum of the truncated reductions exactly as
// reported. The maturity flag is rebuilt from the survivors.
func (sc *SpeciesCohorts) ReduceOrKill(d CohortDisturbance) int {
	total := 0
	site := d.CurrentSite()
	sc.maturePresent = false
	for i := len(sc.data) - 1; i >= 0; i-- {
		c := Cohort{Species: sc.species, Data: sc.data[i]}
		wood, leaf := d.ReduceCohort(c)
		reduction := int(wood + leaf)
		if reduction > 0 {
			total += reduction
			if float32(reduction) >= c.Total() {
				sc.removeAt(i, site, d.Kind())
				continue
			}
			sc.events.CohortDamaged(c, site, d.Kind(), float32(reduction)/c.Total())
			if wood < sc.data[i].Wood {
				sc.data[i].Wood -= wood
			}
			if leaf < sc.data[i].Leaf {
				sc.data[i].Leaf -= leaf
			}
		}
		if sc.data[i].Age >= sc.species.Maturity {
			sc.maturePresent = true
		}
	}
	return total
}

// MarkCohorts dispatches a disturbance to the damage semantics defined
// for its capability: whole-cohort death marking for AgeDisturbance,
// symmetric fractional reduction for BiomassDisturbance. Any other
// disturbance, including SpeciesSetDisturbance, has no defined
// semantics here and fails with ErrUnsupportedDisturbance.
func (sc *SpeciesCohorts) MarkCohorts(d Disturbance) (int, error) {
	switch dist := d.(type) {
	case AgeDisturbance:
		return sc.markByAge(dist), nil
	case BiomassDisturbance:
		return sc.markByBiomass(dist), nil
	default:
		return 0, fmt.Errorf("%s: %w", d.Kind(), ErrUnsupportedDisturbance)
	}
}

// markByAge lets the disturbance flag cohorts for death, then removes
// exactly the flagged ones. No partial damage under this policy.
func (sc *SpeciesCohorts) markByAge(d AgeDisturbance) int {
	isKilled := make([]bool, len(sc.data))
	d.MarkCohortsForDeath(sc, isKilled)

	total := 0
	site := d.CurrentSite()
	sc.maturePresent = false
	for i := len(sc.data) - 1; i >= 0; i-- {
		if isKilled[i] {
			total += int(sc.data[i].Total())
			sc.removeAt(i, site, d.Kind())
			continue
		}
		if sc.data[i].Age >= sc.species.Maturity {
			sc.maturePresent = true
		}
	}
	return total
}

// markByBiomass applies a single integer reduction per cohort as the
// same fraction of both pools. A reduction at least as large as the
// cohort's biomass kills it; the total accumulates the biomass actually
// removed, capped at the cohort's stock.
func (sc *SpeciesCohorts) markByBiomass(d BiomassDisturbance) int {
	total := 0
	site := d.CurrentSite()
	sc.maturePresent = false
	for i := len(sc.data) - 1; i >= 0; i-- {
		c := Cohort{Species: sc.species, Data: sc.data[i]}
		reduction := d.CohortReduction(c)
		if reduction > 0 {
			bio := c.Total()
			if float32(reduction) >= bio {
				total += int(bio)
				sc.removeAt(i, site, d.Kind())
				continue
			}
			fraction := float32(reduction) / bio
			sc.events.CohortDamaged(c, site, d.Kind(), fraction)
			sc.data[i].Wood -= sc.data[i].Wood * fraction
			sc.data[i].Leaf -= sc.data[i].Leaf * fraction
			total += reduction
		}
		if sc.data[i].Age >= sc.species.Maturity {
			sc.maturePresent = true
		}
	}
	return total
}
