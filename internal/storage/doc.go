package storage

// Package storage persists the planner's world: the task backlog, the
// committed calendar events, and the scheduling results written back after a
// successful planning pass.
//
// Two drivers:
//   - "file": JSON documents in a directory (default, dependency-free)
//   - "sqlite": SQLite database file (build with -tags sqlite)
