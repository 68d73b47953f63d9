// Package plotter drives an AxiDraw pen plotter through the axicli
// executable and exposes it over HTTP.
//
// # Components
//
//   - [Settings] turns a [Request] into axicli argument lists
//   - [Session] owns the single running plot process; it starts plots in the
//     background, streams their output and stops them on request
//   - [Broadcaster] fans progress lines out to server-sent event subscribers
//   - [Server] is the chi router for /plotter, /save-svg and /plot-progress
//   - [Client] talks to a Server, retrying transient failures
//
// # Progress protocol
//
// Every line axicli prints while plotting is published as
//
//	data: {"progress":"..."}
//
// followed by a blank line. Idle streams receive ":" comment heartbeats. A
// plot ends with "Plot completed successfully" and [MessageComplete], or an
// "Error: ..." line and [MessageError].
package plotter
