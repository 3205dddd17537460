// Package scenario loads the run description: how long to simulate, the
// succession cadence, which cohorts each site starts with, and the
// disturbance schedule for the bundled disturbance kinds.
package scenario

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Name           string `yaml:"name"`
	Years          int    `yaml:"years"`
	SuccessionStep int    `yaml:"succession_step"`

	SpeciesPath string `yaml:"species_path"`

	Growth GrowthSpec `yaml:"growth"`

	Sites        []SiteSpec        `yaml:"sites"`
	Disturbances []DisturbanceSpec `yaml:"disturbances,omitempty"`

	SnapshotEveryYears int    `yaml:"snapshot_every_years"`
	DataDir            string `yaml:"data_dir"`
}

// GrowthSpec parameterizes the demo growth function the driver injects.
// The core treats the growth model as a black box; these knobs only
// exist for the bundled linear model.
type GrowthSpec struct {
	WoodPerYear float32 `yaml:"wood_per_year"`
	LeafPerYear float32 `yaml:"leaf_per_year"`
}

type SiteSpec struct {
	ID      string       `yaml:"id"`
	Cohorts []CohortSpec `yaml:"cohorts"`
}

type CohortSpec struct {
	Species string  `yaml:"species"`
	Age     uint16  `yaml:"age"`
	Wood    float32 `yaml:"wood"`
	Leaf    float32 `yaml:"leaf"`
}

// DisturbanceSpec schedules one disturbance at one site. Kind selects
// the damage policy: "fire" reduces wood and leaf pools by fractions,
// "wind" kills cohorts at or above an age threshold, "harvest" removes
// a flat integer amount of biomass per cohort.
type DisturbanceSpec struct {
	Year int    `yaml:"year"`
	Site string `yaml:"site"`
	Kind string `yaml:"kind"`

	// fire
	WoodFraction float32 `yaml:"wood_fraction,omitempty"`
	LeafFraction float32 `yaml:"leaf_fraction,omitempty"`

	// wind
	MinAge int `yaml:"min_age,omitempty"`

	// harvest
	Reduction int `yaml:"reduction,omitempty"`
}

func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("scenario %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scenario %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Name:           "default",
		Years:          100,
		SuccessionStep: 10,
		SpeciesPath:    "configs/species.yaml",
		Growth:         GrowthSpec{WoodPerYear: 6, LeafPerYear: 1.5},
		Sites: []SiteSpec{
			{ID: "S1", Cohorts: []CohortSpec{
				{Species: "acersacc", Age: 30, Wood: 220, Leaf: 30},
				{Species: "acersacc", Age: 5, Wood: 18, Leaf: 6},
				{Species: "pinubank", Age: 12, Wood: 85, Leaf: 10},
			}},
		},
		SnapshotEveryYears: 25,
		DataDir:            "./data",
	}
}

func (c *Config) Normalize() {
	if c.Years <= 0 {
		c.Years = 100
	}
	if c.SuccessionStep <= 0 {
		c.SuccessionStep = 10
	}
	if c.SnapshotEveryYears < 0 {
		c.SnapshotEveryYears = 0
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./data"
	}
	sort.SliceStable(c.Disturbances, func(i, j int) bool { return c.Disturbances[i].Year < c.Disturbances[j].Year })
}

func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("no sites configured")
	}
	seen := map[string]bool{}
	for i, site := range c.Sites {
		if strings.TrimSpace(site.ID) == "" {
			return fmt.Errorf("site %d: empty id", i)
		}
		if seen[site.ID] {
			return fmt.Errorf("site %s: duplicate id", site.ID)
		}
		seen[site.ID] = true
		for j, co := range site.Cohorts {
			if co.Species == "" {
				return fmt.Errorf("site %s cohort %d: empty species", site.ID, j)
			}
			if co.Wood < 0 || co.Leaf < 0 {
				return fmt.Errorf("site %s cohort %d: negative biomass", site.ID, j)
			}
		}
	}
	for i, d := range c.Disturbances {
		if d.Year <= 0 || d.Year > c.Years {
			return fmt.Errorf("disturbance %d: year %d outside run", i, d.Year)
		}
		if !seen[d.Site] {
			return fmt.Errorf("disturbance %d: unknown site %q", i, d.Site)
		}
		switch d.Kind {
		case "fire":
			if d.WoodFraction < 0 || d.WoodFraction > 1 || d.LeafFraction < 0 || d.LeafFraction > 1 {
				return fmt.Errorf("disturbance %d: fire fractions must be within [0,1]", i)
			}
		case "wind":
			if d.MinAge <= 0 {
				return fmt.Errorf("disturbance %d: wind min_age must be positive", i)
			}
		case "harvest":
			if d.Reduction <= 0 {
				return fmt.Errorf("disturbance %d: harvest reduction must be positive", i)
			}
		default:
			return fmt.Errorf("disturbance %d: unknown kind %q", i, d.Kind)
		}
	}
	return nil
}
