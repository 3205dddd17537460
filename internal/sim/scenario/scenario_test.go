package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Years <= 0 || cfg.SuccessionStep <= 0 || len(cfg.Sites) == 0 {
		t.Fatalf("defaults incomplete: %+v", cfg)
	}
}

func TestLoad_NormalizeSortsDisturbancesByYear(t *testing.T) {
	path := writeScenario(t, `
name: test
years: 50
succession_step: 5
sites:
  - id: S1
    cohorts:
      - {species: acersacc, age: 10, wood: 50, leaf: 8}
disturbances:
  - {year: 30, site: S1, kind: harvest, reduction: 10}
  - {year: 10, site: S1, kind: fire, wood_fraction: 0.2, leaf_fraction: 0.5}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Disturbances[0].Year != 10 || cfg.Disturbances[1].Year != 30 {
		t.Fatalf("disturbance order: %+v", cfg.Disturbances)
	}
}

func TestLoad_Invalid(t *testing.T) {
	base := `
name: test
years: 50
succession_step: 5
sites:
  - id: S1
    cohorts:
      - {species: acersacc, age: 10, wood: 50, leaf: 8}
`
	for name, extra := range map[string]string{
		"disturbance after run": "disturbances:\n  - {year: 99, site: S1, kind: fire}\n",
		"unknown site":          "disturbances:\n  - {year: 10, site: S9, kind: fire}\n",
		"unknown kind":          "disturbances:\n  - {year: 10, site: S1, kind: meteor}\n",
		"fire fraction range":   "disturbances:\n  - {year: 10, site: S1, kind: fire, wood_fraction: 1.5}\n",
		"wind without min_age":  "disturbances:\n  - {year: 10, site: S1, kind: wind}\n",
		"harvest non-positive":  "disturbances:\n  - {year: 10, site: S1, kind: harvest, reduction: 0}\n",
	} {
		if _, err := Load(writeScenario(t, base+extra)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	if _, err := Load(writeScenario(t, "name: test\nyears: 10\nsites: []\n")); err == nil {
		t.Fatalf("no sites: expected error")
	}
	if _, err := Load(writeScenario(t, base+"  - id: S1\n    cohorts: []\n")); err == nil {
		t.Fatalf("duplicate site: expected error")
	}
}

func TestLoad_BundledScenario(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "configs", "scenario.yaml"))
	if err != nil {
		t.Fatalf("bundled scenario: %v", err)
	}
	if cfg.Name == "" || len(cfg.Sites) == 0 {
		t.Fatalf("bundled scenario incomplete: %+v", cfg)
	}
}
