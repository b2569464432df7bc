// Package server exposes the solve pipeline over HTTP.
//
// # Routes
//
//	POST /v1/solve           solve one graph (graph6 or JSON body)
//	POST /v1/batch           solve many graph6 strings, persisted as one run
//	GET  /v1/results/{id}    one stored record
//	GET  /v1/runs/{runID}    every record of a run, by input index
//	GET  /healthz            liveness plus build information
//	GET  /metrics            Prometheus exposition
//
// Errors are JSON objects {"error": {"code": ..., "message": ...}} whose
// HTTP status follows the error code of [errors.Code].
//
// [errors.Code]: github.com/matzehuels/okplanar/pkg/errors
package server
