// Package scraper provides HTTP fetching and HTML parsing for the hamariweb cricket pages.
//
// The Fetcher pulls the public schedules page (and, on request, individual scorecard pages on
// the same host) with browser-like headers. Extract turns schedules HTML into match records and
// ParseScorecard turns a scorecard page into innings tables. Both parsers are pure functions
// over HTML text: markup they do not recognize degrades to empty fields or empty results
// rather than errors, so an upstream layout change shows up as "no matches" instead of a crash.
package scraper
