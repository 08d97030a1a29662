// Package feed implements the live event feed from the terminal bridge.
//
// The feed:
//   - Maintains one WebSocket connection to the bridge stream endpoint
//   - Decodes stream frames into normalized raw events
//   - Handles reconnection with exponential backoff
//   - Never refetches events missed while disconnected; a future restart's
//     backlog pass covers those
package feed
