// Package journal records run and per-day outcomes in SQLite for the status
// command. The journal is observational: the scheduler decides skips by
// inspecting the archive directory, not by reading past journal entries.
package journal
