// Package cli implements the command-line interface for cricket-schedules.
//
// The cli package provides the Cobra-based CLI: "serve" runs the HTTP service and "fetch"
// performs a one-off fetch and extraction, printing the match records as text or JSON.
// It coordinates the config, scraper, schedule and server packages.
package cli
