// Package model defines shared data types used across the dealsync agent.
//
// Conventions:
//   - Tickets and position ids: uint64, assigned by the terminal
//   - Bridge timestamps: int64 seconds since Unix epoch
//   - Local timestamps: time.Time
//   - Volumes, prices, profits: float64 as reported by the bridge
package model
