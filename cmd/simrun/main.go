package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/persistence/runlog"
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/persistence/snapshot"
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/protocol"
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/cohorts"
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/scenario"
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/sim/species"
	"github.com/derekmorr/Library-Leaf-Biomass-Cohort/internal/transport/observer"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "configs/scenario.yaml", "scenario config path")
		speciesPath  = flag.String("species", "", "species catalog path (default: scenario's species_path)")
		dataDir      = flag.String("data", "", "runtime data directory (default: scenario's data_dir)")
		listen       = flag.String("listen", "", "observer http listen address (empty to disable)")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite run log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[simrun] ", log.LstdFlags|log.Lmicroseconds)

	if err := run(logger, *scenarioPath, *speciesPath, *dataDir, *listen, *disableDB); err != nil {
		logger.Fatalf("run: %v", err)
	}
}

func run(logger *log.Logger, scenarioPath, speciesPath, dataDir, listen string, disableDB bool) error {
	cfg, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}
	if speciesPath == "" {
		speciesPath = cfg.SpeciesPath
	}
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	catalog, err := species.Load(speciesPath)
	if err != nil {
		return err
	}
	logger.Printf("scenario %q: %d years, succession step %d, %d sites, %d species (digest %.12s)",
		cfg.Name, cfg.Years, cfg.SuccessionStep, len(cfg.Sites), catalog.Len(), catalog.Digest())

	var rec *runlog.Recorder
	if !disableDB {
		rec, err = runlog.Open(filepath.Join(dataDir, "runlog.db"))
		if err != nil {
			return err
		}
		defer rec.Close()
		rec.WriteMeta("scenario", cfg.Name)
		rec.WriteMeta("species_digest", catalog.Digest())
	}
	events := newEventRecorder(rec)

	growth := growthFunc(cfg.Growth)

	// Build the per-site collections.
	sites := make([]simSite, 0, len(cfg.Sites))
	state := make(map[string]*cohorts.SiteCohorts, len(cfg.Sites))
	for _, spec := range cfg.Sites {
		sc := cohorts.NewSiteCohorts(cfg.SuccessionStep, growth, events)
		for _, co := range spec.Cohorts {
			sp, ok := catalog.Lookup(co.Species)
			if !ok {
				return fmt.Errorf("site %s: unknown species %q", spec.ID, co.Species)
			}
			sc.AddNewCohort(sp, co.Age, co.Wood, co.Leaf)
		}
		sites = append(sites, simSite{id: spec.ID})
		state[spec.ID] = sc
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].id < sites[j].id })

	schedule := map[int][]scenario.DisturbanceSpec{}
	for _, d := range cfg.Disturbances {
		schedule[d.Year] = append(schedule[d.Year], d)
	}

	var obs *observer.Server
	var httpSrv *http.Server
	if listen != "" {
		obs = observer.NewServer(logger)
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/observer", obs.WSHandler())
		httpSrv = &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Printf("observer stream on ws://%s/v1/observer", listen)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Printf("observer server: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for year := 1; year <= cfg.Years; year++ {
		if ctx.Err() != nil {
			logger.Printf("interrupted at year %d", year)
			break
		}
		events.setYear(year)
		isSuccession := year%cfg.SuccessionStep == 0

		for _, site := range sites {
			sc := state[site.id]
			sc.Grow(site, isSuccession, true)

			for _, d := range schedule[year] {
				if d.Site != site.id {
					continue
				}
				if err := applyDisturbance(sc, site, d); err != nil {
					return err
				}
			}

			sum := protocol.NewYearSummary(year, site.id)
			sum.SpeciesCount = len(sc.SpeciesPresent())
			sum.CohortCount = sc.CohortCount()
			sum.WoodBiomass, sum.LeafBiomass = biomassPools(sc)
			sum.MortalityBio = events.takeMortality(site.id)
			sum.SpeciesDigest = catalog.Digest()
			if rec != nil {
				rec.WriteSummary(runlog.SummaryRow{
					Year:         year,
					Site:         site.id,
					SpeciesCount: sum.SpeciesCount,
					CohortCount:  sum.CohortCount,
					Wood:         sum.WoodBiomass,
					Leaf:         sum.LeafBiomass,
					Mortality:    sum.MortalityBio,
				})
			}
			if obs != nil {
				obs.Broadcast(sum)
			}
		}

		if cfg.SnapshotEveryYears > 0 && year%cfg.SnapshotEveryYears == 0 {
			if err := writeSnapshot(dataDir, cfg, catalog, sites, state, year); err != nil {
				logger.Printf("snapshot year %d: %v", year, err)
			}
		}
	}

	if err := writeSnapshot(dataDir, cfg, catalog, sites, state, cfg.Years); err != nil {
		logger.Printf("final snapshot: %v", err)
	}

	if httpSrv != nil {
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutCtx)
	}
	logger.Printf("done")
	return nil
}

// growthFunc builds the demo growth model: linear accumulation tapering
// toward zero as a cohort approaches its longevity. Real drivers inject
// their own model here.
func growthFunc(g scenario.GrowthSpec) cohorts.GrowthFunc {
	return func(c cohorts.Cohort, _ cohorts.Site) (float32, float32) {
		frac := float32(c.Age()) / float32(c.Species.Longevity)
		if frac > 1 {
			frac = 1
		}
		return g.WoodPerYear * (1 - frac), g.LeafPerYear * (1 - frac)
	}
}

func applyDisturbance(sc *cohorts.SiteCohorts, site simSite, d scenario.DisturbanceSpec) error {
	switch d.Kind {
	case "fire":
		sc.ReduceOrKillCohorts(fireDisturbance{site: site, woodFrac: d.WoodFraction, leafFrac: d.LeafFraction})
		return nil
	case "wind":
		_, err := sc.MarkCohorts(windDisturbance{site: site, minAge: d.MinAge})
		return err
	case "harvest":
		_, err := sc.MarkCohorts(harvestDisturbance{site: site, reduction: d.Reduction})
		return err
	default:
		return fmt.Errorf("disturbance kind %q: not implemented", d.Kind)
	}
}

func biomassPools(sc *cohorts.SiteCohorts) (wood, leaf float64) {
	for _, sp := range sc.SpeciesPresent() {
		set, ok := sc.ForSpecies(sp.Name)
		if !ok {
			continue
		}
		set.ForEach(func(c cohorts.Cohort) bool {
			wood += float64(c.Wood())
			leaf += float64(c.Leaf())
			return true
		})
	}
	return wood, leaf
}

func writeSnapshot(dataDir string, cfg scenario.Config, catalog *species.Catalog, sites []simSite, state map[string]*cohorts.SiteCohorts, year int) error {
	snap := snapshot.SnapshotV1{
		Header:         snapshot.Header{Version: 1, Scenario: cfg.Name, Year: year},
		SuccessionStep: cfg.SuccessionStep,
		SpeciesDigest:  catalog.Digest(),
	}
	for _, sp := range catalog.All() {
		snap.Species = append(snap.Species, snapshot.SpeciesV1{Name: sp.Name, Longevity: sp.Longevity, Maturity: sp.Maturity})
	}
	for _, site := range sites {
		snap.Sites = append(snap.Sites, state[site.id].ExportSite(site.id))
	}
	path := filepath.Join(dataDir, "snapshots", fmt.Sprintf("year_%06d.snap.zst", year))
	return snapshot.WriteSnapshot(path, snap)
}
