// Package planner runs the scheduling core against the persisted world.
//
// It owns the glue the pure plan package refuses to: periodic backlog sweeps
// on a cron schedule, replans triggered by edits to the task file (rate
// limited so editor save storms stay cheap), ID assignment for emitted
// events, and the persist-time re-validation that guards against scheduling
// two tasks into the same gap from a stale snapshot.
package planner
