// Package plan decides when a task should happen.
//
// It is a pure, synchronous library: given a task, a snapshot of existing
// calendar events, raw preferences and a reference "now", it finds candidate
// time slots over a bounded day horizon, scores them with a fixed ordered
// rule list, and returns either the winning slot (as new calendar events plus
// a task update) or a structured failure.
//
// The package performs no I/O, never mutates its inputs, and never lets a
// panic escape Schedule. Persistence and slot re-validation are the caller's
// job (see internal/service/planner).
package plan
