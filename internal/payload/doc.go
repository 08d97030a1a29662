// Package payload renders classified events into the canonical outbound
// JSON documents. Key order and numeric formatting are fixed so that
// encoding the same event twice yields byte-identical output.
package payload
