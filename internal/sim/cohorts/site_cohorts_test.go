package cohorts

import (
	"errors"
	"testing"
)

func TestSiteAddNewCohort_CreatesSetOnFirstUse(t *testing.T) {
	s := NewSiteCohorts(10, zeroGrowth, nil)

	if _, ok := s.ForSpecies(maple.Name); ok {
		t.Fatalf("absent species must have no set")
	}

	s.AddNewCohort(maple, 5, 18, 6)
	set, ok := s.ForSpecies(maple.Name)
	if !ok || set.Count() != 1 {
		t.Fatalf("set after add: ok=%v count=%d", ok, set.Count())
	}

	s.AddNewCohort(maple, 1, 3, 1)
	if set.Count() != 2 {
		t.Fatalf("second add created a new set")
	}
	if len(s.SpeciesPresent()) != 1 {
		t.Fatalf("species present: %d", len(s.SpeciesPresent()))
	}
}

func TestSiteGrow_SuccessionFoldsAllYoungIntoOne(t *testing.T) {
	// Ages [1, 3, successionStep] are all within the combine window, so
	// one pass folds them into a single cohort that lands exactly on
	// the succession boundary after its annual increment.
	s := NewSiteCohorts(10, zeroGrowth, nil)
	s.AddNewCohort(maple, 10, 85, 10)
	s.AddNewCohort(maple, 3, 12, 4)
	s.AddNewCohort(maple, 1, 5, 2)

	s.Grow(testSite{"S1"}, true, true)

	set, ok := s.ForSpecies(maple.Name)
	if !ok || set.Count() != 1 {
		t.Fatalf("cohorts after succession grow: %d", set.Count())
	}
	c, _ := set.At(0)
	if c.Age() != 10 {
		t.Fatalf("merged age: got %d want 10", c.Age())
	}
	if !near(c.Wood(), 85+12+5) || !near(c.Leaf(), 10+4+2) {
		t.Fatalf("merged biomass: wood %v leaf %v", c.Wood(), c.Leaf())
	}
}

func TestSiteGrow_SuccessionKeepsOlderCohortDistinct(t *testing.T) {
	s := NewSiteCohorts(10, zeroGrowth, nil)
	s.AddNewCohort(maple, 12, 85, 10)
	s.AddNewCohort(maple, 3, 12, 4)
	s.AddNewCohort(maple, 1, 5, 2)

	s.Grow(testSite{"S1"}, true, true)

	set, _ := s.ForSpecies(maple.Name)
	got := ages(set)
	if len(got) != 2 || got[0] != 13 || got[1] != 10 {
		t.Fatalf("ages: got %v want [13 10]", got)
	}
}

func TestSiteGrow_NonSuccessionSkipsCombine(t *testing.T) {
	s := NewSiteCohorts(10, zeroGrowth, nil)
	s.AddNewCohort(maple, 3, 12, 4)
	s.AddNewCohort(maple, 1, 5, 2)

	s.Grow(testSite{"S1"}, false, true)

	set, _ := s.ForSpecies(maple.Name)
	got := ages(set)
	if len(got) != 2 || got[0] != 4 || got[1] != 2 {
		t.Fatalf("ages: got %v want [4 2]", got)
	}
}

func TestSiteGrow_RemovesEmptiedSpeciesSet(t *testing.T) {
	s := NewSiteCohorts(10, zeroGrowth, nil)
	s.AddNewCohort(pine, 100, 900, 80) // pine longevity: senesces immediately
	s.AddNewCohort(maple, 20, 100, 10)

	s.Grow(testSite{"S1"}, false, true)

	if _, ok := s.ForSpecies(pine.Name); ok {
		t.Fatalf("emptied species set must be dropped")
	}
	if _, ok := s.ForSpecies(maple.Name); !ok {
		t.Fatalf("surviving species lost")
	}
}

func TestSiteGrow_UpdatesMaturity(t *testing.T) {
	s := NewSiteCohorts(10, zeroGrowth, nil)
	s.AddNewCohort(maple, 39, 100, 10) // maturity 40

	s.Grow(testSite{"S1"}, false, true)

	set, _ := s.ForSpecies(maple.Name)
	if !set.MaturePresent() {
		t.Fatalf("cohort aged onto maturity threshold; flag not set")
	}
}

func TestSiteReduceOrKillCohorts_SumsAcrossSpecies(t *testing.T) {
	s := NewSiteCohorts(10, zeroGrowth, nil)
	s.AddNewCohort(maple, 50, 10, 5)
	s.AddNewCohort(pine, 30, 10, 5)

	total := s.ReduceOrKillCohorts(pairDisturbance{site: testSite{"S1"}, wood: 3, leaf: 1})
	if total != 8 {
		t.Fatalf("total: got %d want 8", total)
	}
}

func TestSiteReduceOrKillCohorts_DropsEmptiedSets(t *testing.T) {
	s := NewSiteCohorts(10, zeroGrowth, nil)
	s.AddNewCohort(maple, 50, 10, 5)

	s.ReduceOrKillCohorts(pairDisturbance{site: testSite{"S1"}, wood: 10, leaf: 5})

	if len(s.SpeciesPresent()) != 0 || s.CohortCount() != 0 {
		t.Fatalf("site not emptied: %d species, %d cohorts", len(s.SpeciesPresent()), s.CohortCount())
	}
}

func TestSiteMarkCohorts_DispatchAndUnsupported(t *testing.T) {
	s := NewSiteCohorts(10, zeroGrowth, nil)
	s.AddNewCohort(maple, 80, 100, 20)
	s.AddNewCohort(pine, 80, 50, 10)

	total, err := s.MarkCohorts(ageMarkDisturbance{site: testSite{"S1"}, minAge: 70})
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if total != 180 {
		t.Fatalf("total: got %d want 180", total)
	}
	if len(s.SpeciesPresent()) != 0 {
		t.Fatalf("all cohorts killed; sets must be gone")
	}

	_, err = s.MarkCohorts(setDisturbance{site: testSite{"S1"}})
	if !errors.Is(err, ErrUnsupportedDisturbance) {
		t.Fatalf("got %v want ErrUnsupportedDisturbance", err)
	}
}

func TestSiteGrow_EndToEndRegression(t *testing.T) {
	// Regression fixture: two species, succession year, constant
	// growth. Pin the exact resulting ages and biomass.
	s := NewSiteCohorts(10, constGrowth(2, 1), nil)
	s.AddNewCohort(maple, 30, 220, 30)
	s.AddNewCohort(maple, 5, 18, 6)
	s.AddNewCohort(pine, 12, 85, 10)

	s.Grow(testSite{"S1"}, true, true)

	mapleSet, _ := s.ForSpecies(maple.Name)
	got := ages(mapleSet)
	if len(got) != 2 || got[0] != 31 || got[1] != 10 {
		t.Fatalf("maple ages: %v", got)
	}
	young, _ := mapleSet.At(1)
	if !near(young.Wood(), 20) || !near(young.Leaf(), 7) {
		t.Fatalf("young maple: wood %v leaf %v", young.Wood(), young.Leaf())
	}

	pineSet, _ := s.ForSpecies(pine.Name)
	c, _ := pineSet.At(0)
	if c.Age() != 13 || !near(c.Wood(), 87) || !near(c.Leaf(), 11) {
		t.Fatalf("pine: age %d wood %v leaf %v", c.Age(), c.Wood(), c.Leaf())
	}

	if !near(s.TotalBiomass(), (220+2)+(30+1)+20+7+87+11) {
		t.Fatalf("site biomass: %v", s.TotalBiomass())
	}
}
