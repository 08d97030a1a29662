// Package cursor provides durable storage for the deal processing cursor.
//
// A cursor is a single uint64 per named slot: the highest deal ticket already
// classified for delivery. Two backends exist:
//   - sqlite: a local file, the default for an agent running beside its terminal
//   - postgres: a shared pool, for container fleets without durable local disk
//
// An absent slot reads as value 0, the cursor's initial state.
package cursor
