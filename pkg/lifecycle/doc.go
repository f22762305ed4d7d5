// Package lifecycle tracks the retention class and state of produced
// outputs. Ephemeral outputs become reclaimable once every consumer
// declared against them has finished; persistent outputs never do.
// The tracker only classifies and reports eligibility: deleting
// reclaimable outputs is the collector's job (see pkg/reclaim), which
// keeps this package side-effect-free and independently testable.
//
// Each output moves through a monotonic state machine:
//
//	pending -> produced -> consumed -> reclaimed
//
// Backward transitions are rejected with a LIFECYCLE_ORDER error.
package lifecycle
