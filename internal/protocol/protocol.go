// Package protocol defines the JSON shapes emitted by a simulation run:
// per-cohort mortality events, per-year site summaries, and the
// observer-stream handshake messages. Schemas for these shapes live
// under schemas/ and are validated in tests.
package protocol

const Version = "1.0"

// Event is a loosely typed event payload. Constructors below pin the
// field sets; the schema tests pin them a second time from the outside.
type Event map[string]interface{}

// Event types.
const (
	EventCohortDied    = "COHORT_DIED"
	EventCohortDamaged = "COHORT_DAMAGED"
	EventYearSummary   = "YEAR_SUMMARY"
)

// CohortDied reports a cohort removed by senescence, biomass collapse
// or a disturbance. kind is the disturbance kind, or "" for growth
// deaths.
func CohortDied(year int, site, sp string, age uint16, wood, leaf float32, kind string) Event {
	return Event{
		"type":    EventCohortDied,
		"year":    year,
		"site":    site,
		"species": sp,
		"age":     age,
		"wood":    wood,
		"leaf":    leaf,
		"kind":    kind,
	}
}

// CohortDamaged reports partial mortality: the cohort survived with the
// given fraction of its biomass removed.
func CohortDamaged(year int, site, sp string, age uint16, wood, leaf float32, kind string, fraction float32) Event {
	return Event{
		"type":     EventCohortDamaged,
		"year":     year,
		"site":     site,
		"species":  sp,
		"age":      age,
		"wood":     wood,
		"leaf":     leaf,
		"kind":     kind,
		"fraction": fraction,
	}
}

// YearSummary is the per-site line emitted after every simulated year.
type YearSummary struct {
	Type          string  `json:"type"`
	Version       string  `json:"protocol_version"`
	Year          int     `json:"year"`
	Site          string  `json:"site"`
	SpeciesCount  int     `json:"species_count"`
	CohortCount   int     `json:"cohort_count"`
	WoodBiomass   float64 `json:"wood_biomass"`
	LeafBiomass   float64 `json:"leaf_biomass"`
	MortalityBio  int     `json:"mortality_biomass"`
	SpeciesDigest string  `json:"species_digest,omitempty"`
}

func NewYearSummary(year int, site string) YearSummary {
	return YearSummary{Type: EventYearSummary, Version: Version, Year: year, Site: site}
}

// SubscribeMsg is the observer-stream handshake. Observers must send it
// before any summaries are streamed.
type SubscribeMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Sites           []string `json:"sites,omitempty"`
}
