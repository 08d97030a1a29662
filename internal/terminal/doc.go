// Package terminal provides the client for the trading terminal bridge API.
//
// REST endpoints:
//   - GET /api/v1/account                   account identity (startup preflight)
//   - GET /api/v1/history/deals/count       total deals in terminal history
//   - GET /api/v1/history/deals             ordered ticket window (oldest first)
//   - GET /api/v1/history/deals/{ticket}    full deal detail
//   - GET /api/v1/positions/{id}            live position snapshot
//
// The live event stream is served over WebSocket by the same bridge; see
// package feed.
package terminal
