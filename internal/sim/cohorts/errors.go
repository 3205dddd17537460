package cohorts

import "errors"

var (
	// ErrNoSuchCohort is returned by indexed access outside the current
	// cohort count.
	ErrNoSuchCohort = errors.New("no such cohort")

	// ErrUnsupportedDisturbance is returned when a disturbance kind has
	// no defined semantics for a cohort collection.
	ErrUnsupportedDisturbance = errors.New("unsupported disturbance for cohort collection")
)
