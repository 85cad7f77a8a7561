// Package orchestrator wires the snapshot → validation → preview document →
// theme resolution → renderer pipeline behind a single Generate call.
package orchestrator
