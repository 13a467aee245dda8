// Package server exposes the cached schedules over HTTP.
//
// Routes:
//
//	GET /                     listing page that renders /api/schedules client-side
//	GET /api/schedules        match records as a JSON array
//	GET /api/schedules/raw    the upstream page HTML
//	GET /api/scorecard?url=   parsed scorecard for a page on the upstream host
//	GET /api/scorecard/raw?url=
//	GET /healthz              liveness and metrics snapshot
//
// Upstream failures map to 502 Bad Gateway; anything else unexpected maps to 500.
package server
