package solver

import "errors"

var (
	// ErrCapacityInfeasible means a single customer's demand exceeds every
	// fleet type still holding units. Clustering aborts; nothing partial
	// is emitted for that customer.
	ErrCapacityInfeasible = errors.New("no available vehicle can serve customer demand")

	// ErrDataInconsistency means a sequence references a node id missing
	// from the distance index or the time-window table.
	ErrDataInconsistency = errors.New("node id missing from solver data")
)
