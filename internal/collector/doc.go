// Package collector delivers encoded payloads to the remote collector
// endpoint. Delivery is fire-and-forget: one bounded attempt per payload,
// no retry, no queue.
package collector
