// Package engine decides, for every observed terminal event, whether to
// suppress it or classify it into an outbound action, and owns the deal
// cursor that makes redelivery safe.
//
// Deduplication rests on one assumption: the terminal assigns deal
// tickets in increasing order. A ticket at or below the cursor is taken
// as already processed. If a terminal ever reused or reordered ticket
// numbers the engine would silently drop or re-admit those deals; this
// is an accepted property of the source, not something the engine tries
// to detect or repair.
package engine
