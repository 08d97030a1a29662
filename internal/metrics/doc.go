// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Event throughput by kind and suppression reason
//   - Delivery outcomes and latency
//   - Cursor value and persistence failures
//   - Backlog scan progress
//   - Feed connection state and reconnects
package metrics
