// Package schedule fronts the upstream fetcher and the extractor with two cache slots.
//
// The raw slot holds the schedules page HTML and the parsed slot holds the extracted match
// records. Each slot has its own TTL. A parsed-slot miss reuses a fresh raw entry when one
// exists, so serving both endpoints does not fetch the page twice.
package schedule
